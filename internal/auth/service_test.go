package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/spendwise/SpendWise/internal/user"
)

type fakeUserService struct {
	users           map[string]*user.User
	codeGenerated   int
	codeGenerateErr error
}

func newFakeUserService(users ...*user.User) *fakeUserService {
	svc := &fakeUserService{users: make(map[string]*user.User)}
	for _, u := range users {
		svc.users[u.ID] = u
	}
	return svc
}

func (f *fakeUserService) Register(email, login, password string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserService) VerifyRegistrationCode(email, code string) error { return nil }

func (f *fakeUserService) GenerateVerificationCode(u *user.User) error {
	f.codeGenerated++
	return f.codeGenerateErr
}

func (f *fakeUserService) GetUserByID(userID string) (*user.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserService) GetUserByLoginOrEmail(loginOrEmail string) (*user.User, error) {
	for _, u := range f.users {
		if u.Login == loginOrEmail || u.Email == loginOrEmail {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (f *fakeUserService) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	return nil
}

func (f *fakeUserService) RequestPasswordReset(email string) error { return nil }

func (f *fakeUserService) ResetPasswordWithCode(email, code, newPassword string) error { return nil }

func (f *fakeUserService) UpdateDisplayName(userID, displayName string) error { return nil }

func (f *fakeUserService) UpdatePhotoURL(userID, photoURL string) error { return nil }

func (f *fakeUserService) DeleteAccount(userID, password string) error { return nil }

func (f *fakeUserService) RecipientForUser(userID string) (string, string, error) {
	return "", "", nil
}

func activeUser(t *testing.T) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	assert.NoError(t, err)
	return &user.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		Login:        "janedoe",
		PasswordHash: string(hash),
		DisplayName:  "Jane",
		HashToken:    "hash-token-1",
		IsActive:     true,
	}
}

func newTestAuthService(users ...*user.User) (Service, *fakeUserService) {
	userService := newFakeUserService(users...)
	return NewAuthService(userService, &JWTManager{secret: "test-secret"}), userService
}

func TestLogin(t *testing.T) {
	u := activeUser(t)
	svc, _ := newTestAuthService(u)

	loggedIn, accessToken, refreshToken, err := svc.Login("janedoe", "secret123")
	assert.NoError(t, err)
	assert.Equal(t, u.ID, loggedIn.ID)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	u := activeUser(t)
	svc, _ := newTestAuthService(u)

	_, _, _, err := svc.Login("janedoe", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnverifiedUserGetsNewCode(t *testing.T) {
	u := activeUser(t)
	u.IsActive = false
	svc, userService := newTestAuthService(u)

	_, _, _, err := svc.Login("janedoe", "secret123")
	assert.ErrorIs(t, err, ErrUserNotVerified)
	assert.Equal(t, 1, userService.codeGenerated)
}

func TestLogin_UnverifiedUserThrottledCodeStillRejected(t *testing.T) {
	u := activeUser(t)
	u.IsActive = false
	svc, userService := newTestAuthService(u)
	userService.codeGenerateErr = user.ErrTooManyEmailCodeRequests

	_, _, _, err := svc.Login("janedoe", "secret123")
	assert.ErrorIs(t, err, ErrUserNotVerified)
}

func TestRefreshAccessToken(t *testing.T) {
	u := activeUser(t)
	svc, _ := newTestAuthService(u)

	accessToken, refreshToken, err := svc.RefreshAccessToken(u.ID)
	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	_, _, err = svc.RefreshAccessToken("nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value("userID").(string)
		w.Write([]byte(userID))
	})
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	u := activeUser(t)
	svc, _ := newTestAuthService(u)
	manager := &JWTManager{secret: "test-secret"}
	handler := svc.JWTAccessTokenMiddleware()(protectedEcho(t))

	token, err := manager.GenerateAccessJWT(u.ID, time.Minute)
	assert.NoError(t, err)

	// Session cookie.
	req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, rec.Body.String())

	// Bearer header fallback.
	req = httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// No token at all.
	req = httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "not-a-jwt"})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAccessTokenMiddleware_UnverifiedUserForbidden(t *testing.T) {
	u := activeUser(t)
	u.IsActive = false
	svc, _ := newTestAuthService(u)
	manager := &JWTManager{secret: "test-secret"}
	handler := svc.JWTAccessTokenMiddleware()(protectedEcho(t))

	token, err := manager.GenerateAccessJWT(u.ID, time.Minute)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "verified"))
}

func TestJWTRefreshTokenMiddleware(t *testing.T) {
	u := activeUser(t)
	svc, _ := newTestAuthService(u)
	manager := &JWTManager{secret: "test-secret"}
	handler := svc.JWTRefreshTokenMiddleware()(protectedEcho(t))

	token, err := manager.GenerateRefreshJWT(u.ID, u.HashToken, time.Hour)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID, rec.Body.String())

	// Missing cookie.
	req = httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token minted against a rotated hash token no longer passes.
	stale, err := manager.GenerateRefreshJWT(u.ID, "previous-hash-token", time.Hour)
	assert.NoError(t, err)
	req = httptest.NewRequest(http.MethodPut, "/api/refresh/token", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: stale})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
