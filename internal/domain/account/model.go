package account

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxUsernameLength bounds the login name.
const MaxUsernameLength = 64

// bcryptCost is used by HashPassword.
const bcryptCost = 12

// Domain errors
var (
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrUsernameTooLong  = errors.New("username cannot exceed 64 characters")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrEmptyEndpoint    = errors.New("database_url cannot be empty")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// Account is one configured user and the storage endpoint bound to them.
// Password holds either plaintext or a bcrypt hash ("$2a$...").
type Account struct {
	Username string
	Password string
	Endpoint string
}

// Validate checks if the Account has valid data.
// PRE: Account struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Account) Validate() error {
	if strings.TrimSpace(a.Username) == "" {
		return ErrEmptyUsername
	}
	if len(a.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if a.Password == "" {
		return ErrEmptyPassword
	}
	if strings.TrimSpace(a.Endpoint) == "" {
		return ErrEmptyEndpoint
	}
	return nil
}

// IsHashed reports whether the stored password is a bcrypt hash.
func (a *Account) IsHashed() bool {
	return strings.HasPrefix(a.Password, "$2")
}

// CheckPassword verifies a plaintext password against the stored value.
// Plaintext values are compared in constant time.
// INVARIANT: Account fields are not mutated
func (a *Account) CheckPassword(plaintext string) error {
	if a.Password == "" || plaintext == "" {
		return ErrWrongPassword
	}
	if a.IsHashed() {
		if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(plaintext)) != nil {
			return ErrWrongPassword
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(a.Password), []byte(plaintext)) != 1 {
		return ErrWrongPassword
	}
	return nil
}

// HashPassword returns a bcrypt hash suitable for the users section of the config.
// PRE: plaintext has at least 8 characters
func HashPassword(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) < 8 {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
