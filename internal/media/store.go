package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const maxPhotoWidth = 512

// PhotoStore keeps processed profile pictures on disk, one folder per
// user, and serves them under baseURL.
type PhotoStore struct {
	root    string
	baseURL string
}

func NewPhotoStore(root, baseURL string) (*PhotoStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("could not create media root: %v", err)
	}
	return &PhotoStore{root: root, baseURL: baseURL}, nil
}

// SavePhoto decodes the upload, scales it down to a bounded width and
// stores it as JPEG. Returns the public URL of the stored photo.
func (s *PhotoStore) SavePhoto(userID string, r io.Reader) (string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("could not decode image: %v", err)
	}

	if img.Bounds().Dx() > maxPhotoWidth {
		img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	}

	userDir := filepath.Join(s.root, userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create user media folder: %v", err)
	}

	fileName := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(userDir, fileName), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("could not save image: %v", err)
	}

	return s.baseURL + "/" + userID + "/" + fileName, nil
}

// DeleteUserPhotos drops the user's whole media folder.
func (s *PhotoStore) DeleteUserPhotos(userID string) error {
	return os.RemoveAll(filepath.Join(s.root, userID))
}
