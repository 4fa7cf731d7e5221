package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrNoVerificationCode = errors.New("no verification code generated")
)

type Repository interface {
	createUser(user *User, currency string, categoriesJSON []byte) error
	getUserByEmail(email string) (*User, error)
	userExistsByLoginOrEmail(login, email string) (*User, error)
	getUserByLoginOrEmail(loginOrEmail string) (*User, error)
	getUserByID(id string) (*User, error)
	saveEmailVerificationCode(userID string, code string, expiresAt time.Time) error
	getEmailVerificationCode(userID string) (string, time.Time, time.Time, error)
	deleteEmailVerificationCode(userID string) error
	savePasswordResetCode(userID string, code string, expiresAt time.Time) error
	getPasswordResetCode(userID string) (string, time.Time, time.Time, error)
	deletePasswordResetCode(userID string) error
	updateEmailVerified(userID string, verified bool) error
	updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error
	updateDisplayName(userID, displayName string) error
	updatePhotoURL(userID, photoURL string) error
	deleteUser(userID string) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, email, login, password_hash, display_name, photo_url, is_verified, hash_token, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.PasswordHash, &user.DisplayName, &user.PhotoURL, &user.IsActive, &user.HashToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User, currency string, categoriesJSON []byte) error {
	query := `
		INSERT INTO users (email, login, password_hash, display_name, currency, categories, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id;
	`
	var id string
	err := r.db.QueryRow(query, user.Email, user.Login, user.PasswordHash, user.DisplayName, currency, categoriesJSON, user.HashToken).Scan(&id)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	user.ID = id
	return nil
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) userExistsByLoginOrEmail(login, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = $2`
	return scanUser(r.db.QueryRow(query, login, email))
}

func (r *userRepository) getUserByLoginOrEmail(loginOrEmail string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = $1`
	return scanUser(r.db.QueryRow(query, loginOrEmail))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) saveEmailVerificationCode(userID string, code string, expiresAt time.Time) error {
	query := `
        INSERT INTO user_email_verification_codes (user_id, code, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET code = $2, expires_at = $3, created_at = CURRENT_TIMESTAMP
    `
	_, err := r.db.Exec(query, userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("could not save verification code: %v", err)
	}
	return nil
}

func (r *userRepository) getEmailVerificationCode(userID string) (string, time.Time, time.Time, error) {
	query := `
        SELECT code, expires_at, created_at
        FROM user_email_verification_codes
        WHERE user_id = $1
    `

	var code string
	var expiresAt time.Time
	var createdAt time.Time
	err := r.db.QueryRow(query, userID).Scan(&code, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, time.Time{}, ErrNoVerificationCode
		}
		return "", time.Time{}, time.Time{}, fmt.Errorf("could not retrieve verification code: %v", err)
	}

	return code, expiresAt, createdAt, nil
}

func (r *userRepository) deleteEmailVerificationCode(userID string) error {
	query := `DELETE FROM user_email_verification_codes WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not delete verification code: %v", err)
	}
	return nil
}

func (r *userRepository) savePasswordResetCode(userID string, code string, expiresAt time.Time) error {
	query := `
        INSERT INTO user_password_reset_codes (user_id, code, expires_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE
        SET code = $2, expires_at = $3, created_at = CURRENT_TIMESTAMP
    `
	_, err := r.db.Exec(query, userID, code, expiresAt)
	if err != nil {
		return fmt.Errorf("could not save password reset code: %v", err)
	}
	return nil
}

func (r *userRepository) getPasswordResetCode(userID string) (string, time.Time, time.Time, error) {
	query := `
        SELECT code, expires_at, created_at
        FROM user_password_reset_codes
        WHERE user_id = $1
    `

	var code string
	var expiresAt time.Time
	var createdAt time.Time
	err := r.db.QueryRow(query, userID).Scan(&code, &expiresAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, time.Time{}, ErrNoVerificationCode
		}
		return "", time.Time{}, time.Time{}, fmt.Errorf("could not retrieve password reset code: %v", err)
	}

	return code, expiresAt, createdAt, nil
}

func (r *userRepository) deletePasswordResetCode(userID string) error {
	query := `DELETE FROM user_password_reset_codes WHERE user_id = $1`
	_, err := r.db.Exec(query, userID)
	if err != nil {
		return fmt.Errorf("could not delete password reset code: %v", err)
	}
	return nil
}

func (r *userRepository) updateEmailVerified(userID string, verified bool) error {
	query := `UPDATE users SET is_verified = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, userID, verified)
	if err != nil {
		return fmt.Errorf("could not update email verification status: %v", err)
	}
	return nil
}

func (r *userRepository) updateUserPasswordAndHashToken(userID, newPasswordHash, newHashToken string) error {
	query := `
        UPDATE users
        SET password_hash = $1,
            hash_token = $2,
            updated_at = $3
        WHERE id = $4
    `
	_, err := r.db.Exec(query, newPasswordHash, newHashToken, time.Now(), userID)
	return err
}

func (r *userRepository) updateDisplayName(userID, displayName string) error {
	query := `UPDATE users SET display_name = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, userID, displayName)
	return err
}

func (r *userRepository) updatePhotoURL(userID, photoURL string) error {
	query := `UPDATE users SET photo_url = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(query, userID, photoURL)
	return err
}

func (r *userRepository) deleteUser(userID string) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.Exec(query, userID)
	return err
}
