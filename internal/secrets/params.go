package secrets

import (
	"crypto/sha1" // #nosec G505 -- selectable for compatibility, sha256 is the default
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"strings"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"golang.org/x/crypto/sha3"
)

// Default key derivation parameters. Stored secrets can only be recovered
// with the parameters they were created with, so these must not change
// without recording the old values alongside existing records.
const (
	DefaultIterations = 10000
	DefaultKeyLength  = 32
	DefaultSaltLength = 16
	DefaultHash       = SHA256
)

// Hash names the HMAC hash function used by PBKDF2.
type Hash string

const (
	SHA1    Hash = "sha1"
	SHA256  Hash = "sha256"
	SHA384  Hash = "sha384"
	SHA512  Hash = "sha512"
	SHA3256 Hash = "sha3-256"
	SHA3512 Hash = "sha3-512"
)

var hashConstructors = map[Hash]func() hash.Hash{
	SHA1:    sha1.New,
	SHA256:  sha256.New,
	SHA384:  sha512.New384,
	SHA512:  sha512.New,
	SHA3256: sha3.New256,
	SHA3512: sha3.New512,
}

// ParseHash normalizes a hash name such as "SHA-256" or "sha256".
func ParseHash(name string) (Hash, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	switch normalized {
	case "sha-1":
		normalized = "sha1"
	case "sha-256":
		normalized = "sha256"
	case "sha-384":
		normalized = "sha384"
	case "sha-512":
		normalized = "sha512"
	case "sha3_256":
		normalized = "sha3-256"
	case "sha3_512":
		normalized = "sha3-512"
	}

	h := Hash(normalized)
	if _, ok := hashConstructors[h]; !ok {
		return "", fmt.Errorf("%w: unsupported hash %q", kerrors.ErrAlgorithm, name)
	}
	return h, nil
}

// New returns the constructor for the hash.
func (h Hash) New() (func() hash.Hash, error) {
	fn, ok := hashConstructors[h]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported hash %q", kerrors.ErrAlgorithm, string(h))
	}
	return fn, nil
}

func (h Hash) String() string {
	return string(h)
}

// Params holds the key derivation configuration. A copy is persisted next to
// each record.
type Params struct {
	Iterations int  `toml:"iterations"`
	KeyLength  int  `toml:"key_length"`
	Hash       Hash `toml:"hash"`
	SaltLength int  `toml:"salt_length"`
}

// DefaultParams returns PBKDF2-HMAC-SHA256, 10000 iterations, a 32-byte key
// and a 16-byte salt.
func DefaultParams() Params {
	return Params{
		Iterations: DefaultIterations,
		KeyLength:  DefaultKeyLength,
		Hash:       DefaultHash,
		SaltLength: DefaultSaltLength,
	}
}

// Validate checks every field without running the derivation.
func (p Params) Validate() error {
	if p.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive, got %d", kerrors.ErrInvalidInput, p.Iterations)
	}
	if p.KeyLength <= 0 {
		return fmt.Errorf("%w: key length must be positive, got %d", kerrors.ErrInvalidInput, p.KeyLength)
	}
	if p.SaltLength <= 0 {
		return fmt.Errorf("%w: salt length must be positive, got %d", kerrors.ErrInvalidInput, p.SaltLength)
	}
	if _, err := p.Hash.New(); err != nil {
		return err
	}
	return nil
}
