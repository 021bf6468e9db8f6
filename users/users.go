package users

import (
	"errors"
	"fmt"
	"time"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted on registration and password change.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt will hash.
const MaxPasswordBytes = 72

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes long", MaxPasswordBytes)
)

// PasswordHashCost is the bcrypt work factor used by HashPassword.
var PasswordHashCost = bcrypt.DefaultCost

type User struct {
	ID                string    `json:"userId"`    // Store assigned identifier
	Name              string    `json:"name"`      // Display name
	Email             string    `json:"email"`     // Unique, case sensitive as entered
	PasswordHash      string    `json:"-"`         // bcrypt hash - never serialize
	Verified          bool      `json:"verified"`  // Verified, has the user confirmed their email address
	VerificationToken string    `json:"-"`         // Pending verification token, empty once verified
	CreatedAt         time.Time `json:"createdAt"` // Date and time when the user registered
	UpdatedAt         time.Time `json:"updatedAt"` // Last modification
}

// Clone returns a copy that shares no state with u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

// ValidatePasswordStrength enforces the length bounds and, when minEntropyBits is above zero,
// an entropy floor.
func ValidatePasswordStrength(password string, minEntropyBits float64) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if minEntropyBits <= 0 {
		return nil
	}
	return passwordvalidator.Validate(password, minEntropyBits)
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a candidate password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}
