package store

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

const (
	// IVFileSuffix is appended to the identifier to name the protected IV file.
	IVFileSuffix = "_chaveEIV.txt"

	// MetadataFileSuffix is appended to the identifier to name the parameter sidecar.
	MetadataFileSuffix = ".kdf.toml"
)

// Layout resolves artifact paths inside a store directory.
type Layout struct {
	Dir        string
	RecordFile string
}

// RecordPath returns the path of the two-line secret record.
func (l Layout) RecordPath() string {
	return filepath.Join(l.Dir, l.RecordFile)
}

// IVPath returns the path of the protected IV file for identifier.
func (l Layout) IVPath(identifier string) string {
	return filepath.Join(l.Dir, identifier+IVFileSuffix)
}

// MetadataPath returns the path of the parameter sidecar for identifier.
func (l Layout) MetadataPath(identifier string) string {
	return filepath.Join(l.Dir, identifier+MetadataFileSuffix)
}

// AuditLogPath returns the path of the JSON Lines audit log.
func (l Layout) AuditLogPath() string {
	return filepath.Join(l.Dir, "audit.jsonl")
}

// ValidateIdentifier rejects identifiers that cannot be stored on the first
// line of the record or used as a file name component.
func ValidateIdentifier(identifier string) error {
	trimmed := strings.TrimSpace(identifier)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: identifier cannot be empty", kerrors.ErrInvalidIdentifier)
	case trimmed != identifier:
		return fmt.Errorf("%w: identifier cannot start or end with whitespace", kerrors.ErrInvalidIdentifier)
	case identifier == "." || identifier == "..":
		return fmt.Errorf("%w: %q is reserved", kerrors.ErrInvalidIdentifier, identifier)
	case strings.ContainsAny(identifier, "/\\\r\n\x00"):
		return fmt.Errorf("%w: identifier cannot contain path separators, newlines or NUL", kerrors.ErrInvalidIdentifier)
	}
	return nil
}
