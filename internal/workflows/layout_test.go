package workflows

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

func TestResolveLayout_RejectsRecordFileOutsideStore(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"../x", "sub/passwordFile.txt", "..", " passwordFile.txt"} {
		t.Run(name, func(t *testing.T) {
			if _, err := resolveLayout(dir, name); !errors.Is(err, kerrors.ErrInvalidIdentifier) {
				t.Errorf("Expected ErrInvalidIdentifier for %q, got %v", name, err)
			}
		})
	}

	layout, err := resolveLayout(dir, "")
	if err != nil {
		t.Fatalf("resolveLayout with default record file failed: %v", err)
	}
	if layout.RecordPath() != filepath.Join(dir, "passwordFile.txt") {
		t.Errorf("Unexpected record path %s", layout.RecordPath())
	}
}

func TestEncrypt_RecordFileCannotEscapeStore(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "store")
	if err := os.Mkdir(dir, 0700); err != nil {
		t.Fatalf("Failed to create store dir: %v", err)
	}

	_, err := Encrypt(context.Background(), EncryptOptions{
		Identifier: "alice",
		Password:   []byte(testPassword),
		Params:     testParams(),
		Policy:     testPolicy,
		StoreDir:   dir,
		RecordFile: "../escaped.txt",
	})
	if !errors.Is(err, kerrors.ErrInvalidIdentifier) {
		t.Fatalf("Expected ErrInvalidIdentifier, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(parent, "escaped.txt")); !os.IsNotExist(err) {
		t.Errorf("Record was written outside the store directory")
	}
}
