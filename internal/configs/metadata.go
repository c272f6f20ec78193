package configs

import (
	"encoding/hex"
	"fmt"
	"time"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/google/uuid"
)

const (
	KDFAlgorithmPBKDF2 = "pbkdf2"
	CipherAES256CBC    = "aes-256-cbc"
)

// RecordMetadata is the sidecar stored next to a secret record.
type RecordMetadata struct {
	Record RecordInfo  `toml:"record"`
	KDF    KDFMetadata `toml:"kdf"`
}

type RecordInfo struct {
	UUID       string    `toml:"record_uuid"`
	Identifier string    `toml:"identifier"`
	Cipher     string    `toml:"cipher"`
	CreatedAt  time.Time `toml:"created_at"`
}

type KDFMetadata struct {
	Algorithm  string `toml:"algorithm"`
	Iterations int    `toml:"iterations"`
	KeyLength  int    `toml:"key_length"`
	Hash       string `toml:"hash"`
	Salt       string `toml:"salt"`
}

// NewRecordMetadata describes a record about to be written.
func NewRecordMetadata(identifier string, params secrets.Params, salt []byte) *RecordMetadata {
	return &RecordMetadata{
		Record: RecordInfo{
			UUID:       uuid.New().String(),
			Identifier: identifier,
			Cipher:     CipherAES256CBC,
			CreatedAt:  time.Now().UTC(),
		},
		KDF: KDFMetadata{
			Algorithm:  KDFAlgorithmPBKDF2,
			Iterations: params.Iterations,
			KeyLength:  params.KeyLength,
			Hash:       params.Hash.String(),
			Salt:       hex.EncodeToString(salt),
		},
	}
}

// DerivationInputs returns the parameters and salt recorded in the sidecar.
func (m *RecordMetadata) DerivationInputs() (secrets.Params, []byte, error) {
	if m.KDF.Algorithm != "" && m.KDF.Algorithm != KDFAlgorithmPBKDF2 {
		return secrets.Params{}, nil, fmt.Errorf("%w: key derivation %q", kerrors.ErrAlgorithm, m.KDF.Algorithm)
	}

	hash, err := secrets.ParseHash(m.KDF.Hash)
	if err != nil {
		return secrets.Params{}, nil, err
	}

	salt, err := hex.DecodeString(m.KDF.Salt)
	if err != nil || len(salt) == 0 {
		return secrets.Params{}, nil, fmt.Errorf("%w: record salt is not valid hex", kerrors.ErrCorruptData)
	}

	params := secrets.Params{
		Iterations: m.KDF.Iterations,
		KeyLength:  m.KDF.KeyLength,
		Hash:       hash,
		SaltLength: len(salt),
	}
	if err := params.Validate(); err != nil {
		return secrets.Params{}, nil, fmt.Errorf("%w: %v", kerrors.ErrCorruptData, err)
	}

	return params, salt, nil
}

// EncodeRecordMetadata renders the sidecar file content.
func EncodeRecordMetadata(m *RecordMetadata) ([]byte, error) {
	data, err := EncodeTOML(m)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode record metadata: %v", kerrors.ErrStorage, err)
	}
	return data, nil
}

// LoadRecordMetadata reads a sidecar file.
func LoadRecordMetadata(path string) (*RecordMetadata, error) {
	m := &RecordMetadata{}
	if err := LoadTOML(path, m); err != nil {
		return nil, fmt.Errorf("%w: failed to load record metadata: %v", kerrors.ErrCorruptData, err)
	}
	return m, nil
}
