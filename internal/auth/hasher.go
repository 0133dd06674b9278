package auth

import (
	"errors"
	"fmt"

	"github.com/isdelr/messenger-auth/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor applied to every stored password.
const HashCost = 12

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// CheckPasswordLength returns common.ErrorValidation for a password bcrypt
// would refuse to hash.
func CheckPasswordLength(plaintext string) error {
	if len(plaintext) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, MaxPasswordBytes)
	}
	return nil
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string, cost int) (string, error)
	Compare(hash, plaintext string) error
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct{}

// Hash returns the bcrypt hash of plaintext at the given cost.
func (BcryptHasher) Hash(plaintext string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare returns ErrMismatchedPassword when plaintext does not match hash.
func (BcryptHasher) Compare(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedPassword
	}
	return err
}

// ErrMismatchedPassword is returned by Compare for a wrong password.
var ErrMismatchedPassword = errors.New("password does not match")
