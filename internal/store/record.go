package store

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

// Record is the plain-text secret record.
type Record struct {
	Identifier    string
	CiphertextHex string
}

// Ciphertext decodes the hex line.
func (r Record) Ciphertext() ([]byte, error) {
	ct, err := hex.DecodeString(r.CiphertextHex)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not valid hex: %v", kerrors.ErrCorruptData, err)
	}
	return ct, nil
}

// FormatRecord renders the two-line record without a trailing newline.
func FormatRecord(r Record) []byte {
	return []byte(r.Identifier + "\n" + r.CiphertextHex)
}

// ParseRecord parses a two-line record. Any lines after the second are ignored.
func ParseRecord(data []byte) (Record, error) {
	lines := strings.Split(string(data), "\n")

	var r Record
	if len(lines) > 0 {
		r.Identifier = strings.TrimSuffix(lines[0], "\r")
	}
	if len(lines) > 1 {
		r.CiphertextHex = strings.TrimSpace(lines[1])
	}

	if r.Identifier == "" || r.CiphertextHex == "" {
		return Record{}, fmt.Errorf("%w: record is incomplete", kerrors.ErrCorruptData)
	}
	return r, nil
}

// WriteRecord atomically replaces the record at path.
func WriteRecord(path string, r Record) error {
	if err := ValidateIdentifier(r.Identifier); err != nil {
		return err
	}
	if r.CiphertextHex == "" {
		return fmt.Errorf("%w: ciphertext cannot be empty", kerrors.ErrInvalidInput)
	}
	if err := atomicWriteFile(path, FormatRecord(r), 0600); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", kerrors.ErrStorage, path, err)
	}
	return nil
}

// StageRecord validates r and stages it in b for path.
func (b *Batch) StageRecord(path string, r Record) error {
	if err := ValidateIdentifier(r.Identifier); err != nil {
		return err
	}
	if r.CiphertextHex == "" {
		return fmt.Errorf("%w: ciphertext cannot be empty", kerrors.ErrInvalidInput)
	}
	return b.Stage(path, FormatRecord(r))
}

// ReadRecord reads the record at path. Returns ErrRecordNotFound when the
// file does not exist.
func ReadRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Record{}, fmt.Errorf("%w: %s", kerrors.ErrRecordNotFound, path)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: failed to read %s: %v", kerrors.ErrStorage, path, err)
	}
	return ParseRecord(data)
}
