package security

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/geocoder89/lentpath/internal/apperr"
)

// bcrypt refuses longer inputs.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = apperr.New(apperr.KindValidation, "password longer than 72 bytes")

// Hash password hashes a plain text password with bcrypt at the default cost.
// The salt is embedded in the returned string.
func HashPassword(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// helper that compares a bcrypt hash with a plaintext password.

func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}

// VerifyPassword reports whether plain matches hash. A malformed hash, as a hand
// edited sheet cell can produce, is a mismatch rather than an error.
func VerifyPassword(plain, hash string) bool {
	return CheckPassword(hash, plain) == nil
}
