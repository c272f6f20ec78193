package secrets

import (
	"crypto/aes"
	"fmt"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

// ProtectIV encrypts the IV under key with AES-256 in ECB mode so it can be
// stored on disk. No second IV is needed, and ECB leaks nothing here because
// the input is a single block. The IV is PKCS#7 padded first, so the result
// is always two blocks (32 bytes).
func ProtectIV(key, iv []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if err := checkIV(iv); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAlgorithm, err)
	}

	padded := pkcs7Pad(iv, aes.BlockSize)
	blob := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(blob[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}

	return blob, nil
}

// RecoverIV reverses ProtectIV. Returns ErrCorruptData when the blob is not a
// whole number of blocks, the padding is invalid, or the result is not
// exactly IVSize bytes.
func RecoverIV(key, blob []byte) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if len(blob) == 0 || len(blob)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: protected IV length %d is not a multiple of the block size", kerrors.ErrCorruptData, len(blob))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrAlgorithm, err)
	}

	plain := make([]byte, len(blob))
	for i := 0; i < len(blob); i += aes.BlockSize {
		block.Decrypt(plain[i:i+aes.BlockSize], blob[i:i+aes.BlockSize])
	}

	iv, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: protected IV: %v", kerrors.ErrCorruptData, err)
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: invalid IV, expected %d bytes, got %d", kerrors.ErrCorruptData, IVSize, len(iv))
	}

	return iv, nil
}
