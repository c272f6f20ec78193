package secrets

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"golang.org/x/crypto/pbkdf2"
)

// DeriveKey stretches a password and salt into params.KeyLength bytes using
// PBKDF2 with an HMAC over params.Hash. Identical inputs always produce
// identical output.
//
// The password must be non-empty UTF-8 and the salt must be non-empty.
// Returns ErrInvalidInput for malformed arguments and ErrAlgorithm for an
// unsupported hash. The caller owns the returned key and should Wipe it.
func DeriveKey(password, salt []byte, params Params) ([]byte, error) {
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password must be a non-empty string", kerrors.ErrInvalidInput)
	}
	if !utf8.Valid(password) {
		return nil, fmt.Errorf("%w: password must be valid UTF-8", kerrors.ErrInvalidInput)
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("%w: salt is required", kerrors.ErrInvalidInput)
	}
	if params.Iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", kerrors.ErrInvalidInput, params.Iterations)
	}
	if params.KeyLength <= 0 {
		return nil, fmt.Errorf("%w: key length must be positive, got %d", kerrors.ErrInvalidInput, params.KeyLength)
	}

	newHash, err := params.Hash.New()
	if err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, salt, params.Iterations, params.KeyLength, newHash), nil
}

// SaltFromString encodes a text salt as UTF-8 bytes.
func SaltFromString(s string) []byte {
	return []byte(s)
}

// GenerateSalt returns n bytes from the system CSPRNG.
func GenerateSalt(n int) ([]byte, error) {
	return randomBytes(n)
}

// GenerateRandomKey returns n random bytes suitable for use as a key.
func GenerateRandomKey(n int) ([]byte, error) {
	return randomBytes(n)
}

func randomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: length must be positive, got %d", kerrors.ErrInvalidInput, n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
