package user

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"golang.org/x/crypto/bcrypt"

	emailService "github.com/spendwise/SpendWise/internal/email"
	"github.com/spendwise/SpendWise/internal/finance/domain"
)

const (
	maxEmailLength       = 35
	minEmailLength       = 3
	maxLoginLength       = 30
	minLoginLength       = 5
	minDisplayNameLength = 4
	minPasswordLength    = 6
	bcryptCost           = 12
	defaultCodeTimeout   = 2
	defaultCurrency      = "RSD"
)

var (
	ErrInvalidEmail             = fmt.Errorf("email address is not valid")
	ErrEmailLength              = fmt.Errorf("email address is too long or too shord, max length: %d, min lenght: %d", maxEmailLength, minEmailLength)
	ErrLoginLength              = fmt.Errorf("login it too long, max length: %d, min lenght: %d", maxLoginLength, minLoginLength)
	ErrDisplayNameLength        = fmt.Errorf("display name must be at least %d characters long", minDisplayNameLength)
	ErrPasswordLength           = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrEmailAlreadyExists       = errors.New("email already exists")
	ErrInternalError            = errors.New("internal Server Error")
	ErrLoginAlreadyExists       = errors.New("login already exists")
	ErrUserAlreadyVerified      = errors.New("user already verified")
	ErrInvalidVerificationCode  = errors.New("invalid verification code")
	ErrVerificationCodeExpired  = errors.New("verification code expired")
	ErrTooManyEmailCodeRequests = errors.New("too many email code requests")
	ErrInvalidOldPassword       = errors.New("invalid old password")
	ErrInvalidPassword          = errors.New("invalid password")
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     string    `json:"photo_url"`
	HashToken    string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	IsActive     bool      `json:"is_active"`
}

// DataCleaner removes everything a module stores for a user. Account
// deletion walks all registered cleaners before dropping the user row.
type DataCleaner interface {
	DeleteAllByUser(userID string) error
}

type PhotoRemover interface {
	DeleteUserPhotos(userID string) error
}

type Service interface {
	Register(email, login, password string) (*User, error)
	VerifyRegistrationCode(email, code string) error
	GenerateVerificationCode(user *User) error
	GetUserByID(userID string) (*User, error)
	GetUserByLoginOrEmail(loginOrEmail string) (*User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	RequestPasswordReset(email string) error
	ResetPasswordWithCode(email, code, newPassword string) error
	UpdateDisplayName(userID, displayName string) error
	UpdatePhotoURL(userID, photoURL string) error
	DeleteAccount(userID, password string) error
	RecipientForUser(userID string) (string, string, error)
}

type service struct {
	repo         Repository
	emailService emailService.EmailSender
	cleaners     []DataCleaner
	photos       PhotoRemover
}

func NewUserService(repo Repository, emailService emailService.EmailSender, photos PhotoRemover, cleaners ...DataCleaner) Service {
	return &service{
		repo:         repo,
		emailService: emailService,
		cleaners:     cleaners,
		photos:       photos,
	}
}

func hashPassword(password string) (string, error) {
	var passwordBytes = []byte(password)

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword(passwordBytes, bcryptCost)

	return string(hashedPasswordBytes), err
}

func GenerateVerificationCode() (string, error) {
	code := make([]byte, 6)
	_, err := rand.Read(code)
	if err != nil {
		return "", fmt.Errorf("could not generate verification code: %v", err)
	}
	for i := range code {
		code[i] = '0' + (code[i] % 10)
	}

	return string(code), nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

// isTimeoutError reports whether a host check failed only because the
// mail server was slow; those are tolerated instead of rejecting the
// address.
func isTimeoutError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "timeout")
}

func validateEmailAddress(email string) error {
	err := checkmail.ValidateFormat(email)
	if err != nil {
		fmt.Println("Email Validation FORMAT check error")
		return ErrInvalidEmail
	}

	err = checkmail.ValidateHost(email)
	if err != nil {
		if !isTimeoutError(err) {
			fmt.Println("Email Validation HOST check error", err)
			return ErrInvalidEmail
		}
		fmt.Println("Timeout continuing without host check ...")
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		fmt.Println("Email Validation length check error")
		return ErrEmailLength
	}
	return nil
}

func (s *service) Register(email, login, password string) (*User, error) {
	err := validateEmailAddress(email)
	if err != nil {
		return nil, err
	}

	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			fmt.Println("Email Validation length check error")
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		fmt.Println("Login Validation length check error")
		return nil, ErrLoginLength
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request")
		return nil, ErrInternalError
	}

	if existingUser != nil {
		if existingUser.Login == login {
			fmt.Println("Login already exists")
			return nil, ErrLoginAlreadyExists
		} else if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordLength
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		fmt.Println("Error during generating a hashToken")
		return nil, ErrInternalError
	}

	user := &User{
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
		DisplayName:  login,
		HashToken:    hashToken,
	}

	// Every new account starts with the stock category list and currency.
	categoriesJSON, err := json.Marshal(domain.DefaultCategories())
	if err != nil {
		return nil, ErrInternalError
	}

	err = s.repo.createUser(user, defaultCurrency, categoriesJSON)
	if err != nil {
		fmt.Println("Error during creating the user: ", err)
		return nil, ErrInternalError
	}

	err = s.sendVerificationCode(user)
	if err != nil {
		fmt.Println("Error during sending verification email: ", err)
		return nil, ErrInternalError
	}

	return user, nil
}

func (s *service) sendVerificationCode(user *User) error {
	newCode, err := GenerateVerificationCode()
	if err != nil {
		return fmt.Errorf("could not generate verification code: %v", err)
	}

	expirationTime := time.Now().Add(10 * time.Minute).UTC()
	err = s.repo.saveEmailVerificationCode(user.ID, newCode, expirationTime)
	if err != nil {
		fmt.Printf("Error saving verification code: %v\n", err)
		return fmt.Errorf("could not save verification code: %v", err)
	}

	s.emailService.QueueEmail(user.Email, emailService.RegistrationConfirmationData{
		UserName: user.Login,
		Code:     newCode,
	})

	return nil
}

func (s *service) VerifyRegistrationCode(email, code string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		fmt.Println("Error getting user from db with email, ", email, err)
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if user.IsActive {
		fmt.Println("user already verified")
		return ErrUserAlreadyVerified
	}

	storedCode, expiryTime, _, err := s.repo.getEmailVerificationCode(user.ID)
	if err != nil {
		fmt.Println("cannot get code from db")
		return ErrInvalidVerificationCode
	}

	if storedCode != code {
		fmt.Println("invalid verification code")
		return ErrInvalidVerificationCode
	}

	if time.Now().UTC().After(expiryTime) {
		fmt.Println("invalid verification code - code expired")
		return ErrVerificationCodeExpired
	}

	err = s.repo.updateEmailVerified(user.ID, true)
	if err != nil {
		fmt.Println("issue during updating verified account")
		return ErrInternalError
	}

	_ = s.repo.deleteEmailVerificationCode(user.ID)
	return nil
}

func (s *service) GenerateVerificationCode(user *User) error {
	_, _, createdAt, err := s.repo.getEmailVerificationCode(user.ID)
	if err != nil && !errors.Is(err, ErrNoVerificationCode) {
		return ErrInternalError
	}

	if err == nil {
		timeSinceLastCode := time.Now().UTC().Sub(createdAt.UTC())
		if timeSinceLastCode.Minutes() < defaultCodeTimeout {
			return ErrTooManyEmailCodeRequests
		}
	}

	err = s.sendVerificationCode(user)
	if err != nil {
		return ErrInternalError
	}
	return nil
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}

	return s.changePassword(userID, newPassword)
}

// changePassword rotates the hash token too, which invalidates every
// outstanding refresh token for the user.
func (s *service) changePassword(userID, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrPasswordLength
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}

	newHashToken, err := generateHashToken()
	if err != nil {
		return fmt.Errorf("could not generate hash token: %v", err)
	}

	err = s.repo.updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken)
	if err != nil {
		return fmt.Errorf("could not update user password: %v", err)
	}

	return nil
}

func (s *service) RequestPasswordReset(email string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	_, _, createdAt, err := s.repo.getPasswordResetCode(user.ID)
	if err != nil && !errors.Is(err, ErrNoVerificationCode) {
		return ErrInternalError
	}
	if err == nil {
		timeSinceLastCode := time.Now().UTC().Sub(createdAt.UTC())
		if timeSinceLastCode.Minutes() < defaultCodeTimeout {
			return ErrTooManyEmailCodeRequests
		}
	}

	newCode, err := GenerateVerificationCode()
	if err != nil {
		return ErrInternalError
	}

	expirationTime := time.Now().Add(10 * time.Minute).UTC()
	if err := s.repo.savePasswordResetCode(user.ID, newCode, expirationTime); err != nil {
		fmt.Printf("Error saving password reset code: %v\n", err)
		return ErrInternalError
	}

	s.emailService.QueueEmail(user.Email, emailService.PasswordResetData{
		UserName: user.DisplayName,
		Code:     newCode,
	})

	return nil
}

func (s *service) ResetPasswordWithCode(email, code, newPassword string) error {
	user, err := s.repo.getUserByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	storedCode, expiryTime, _, err := s.repo.getPasswordResetCode(user.ID)
	if err != nil {
		return ErrInvalidVerificationCode
	}
	if storedCode != code {
		return ErrInvalidVerificationCode
	}
	if time.Now().UTC().After(expiryTime) {
		return ErrVerificationCodeExpired
	}

	if err := s.changePassword(user.ID, newPassword); err != nil {
		if errors.Is(err, ErrPasswordLength) {
			return ErrPasswordLength
		}
		return ErrInternalError
	}

	_ = s.repo.deletePasswordResetCode(user.ID)
	return nil
}

func doPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) UpdateDisplayName(userID, displayName string) error {
	trimmed := strings.TrimSpace(displayName)
	if len(trimmed) < minDisplayNameLength {
		return ErrDisplayNameLength
	}
	return s.repo.updateDisplayName(userID, trimmed)
}

func (s *service) UpdatePhotoURL(userID, photoURL string) error {
	return s.repo.updatePhotoURL(userID, photoURL)
}

// DeleteAccount re-checks the password, then removes the user's data
// module by module before dropping the user row itself.
func (s *service) DeleteAccount(userID, password string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !doPasswordsMatch(user.PasswordHash, password) {
		return ErrInvalidPassword
	}

	for _, cleaner := range s.cleaners {
		if err := cleaner.DeleteAllByUser(userID); err != nil {
			fmt.Println("Error during deleting user data: ", err)
			return ErrInternalError
		}
	}

	if s.photos != nil {
		if err := s.photos.DeleteUserPhotos(userID); err != nil {
			fmt.Println("Error during deleting user photos: ", err)
		}
	}

	if err := s.repo.deleteUser(userID); err != nil {
		fmt.Println("Error during deleting the user: ", err)
		return ErrInternalError
	}
	return nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(loginOrEmail)
}

// RecipientForUser adapts the user record to notification recipients.
func (s *service) RecipientForUser(userID string) (string, string, error) {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		return "", "", err
	}
	name := user.DisplayName
	if name == "" {
		name = user.Login
	}
	return user.Email, name, nil
}
