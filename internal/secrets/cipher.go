package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// IVSize is the CBC initialization vector length in bytes.
	IVSize = aes.BlockSize
)

// Sealed is the output of Encrypt.
type Sealed struct {
	Ciphertext    []byte
	IV            []byte
	CiphertextHex string
}

// Encrypt encrypts secret with AES-256-CBC and PKCS#7 padding under a fresh
// random IV. The IV is returned to the caller and never persisted here; it
// should be stored with ProtectIV.
func Encrypt(secret, key []byte) (*Sealed, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: secret must be a non-empty string", kerrors.ErrInvalidInput)
	}
	if !utf8.Valid(secret) {
		return nil, fmt.Errorf("%w: secret must be valid UTF-8", kerrors.ErrInvalidInput)
	}
	if err := checkKey(key); err != nil {
		return nil, err
	}

	iv, err := randomBytes(IVSize)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAlgorithm, err)
	}

	padded := pkcs7Pad(secret, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	Wipe(padded)

	return &Sealed{
		Ciphertext:    ciphertext,
		IV:            iv,
		CiphertextHex: hex.EncodeToString(ciphertext),
	}, nil
}

// Decrypt reverses Encrypt. The IV must be the one produced by the Encrypt
// call that created the ciphertext.
//
// Returns ErrDecryption when the ciphertext length is not a whole number of
// blocks or the padding is invalid. A wrong key or IV usually shows up the
// same way, but can also yield garbage plaintext; the two are not
// distinguishable without an authentication tag.
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := checkIV(iv); err != nil {
		return nil, err
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", kerrors.ErrDecryption, len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAlgorithm, err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		Wipe(plaintext)
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryption, err)
	}

	return unpadded, nil
}

func checkKey(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: key must be %d bytes, got %d", kerrors.ErrInvalidInput, KeySize, len(key))
	}
	return nil
}

func checkIV(iv []byte) error {
	if len(iv) != IVSize {
		return fmt.Errorf("%w: IV must be %d bytes, got %d", kerrors.ErrInvalidInput, IVSize, len(iv))
	}
	return nil
}
