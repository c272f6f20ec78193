package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

func readFileForTest(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".cofre-") {
			t.Errorf("Temp file left behind: %s", e.Name())
		}
	}
}

func TestBatch_CommitReplacesInOrder(t *testing.T) {
	dir := t.TempDir()
	iv := filepath.Join(dir, "alice_chaveEIV.txt")
	record := filepath.Join(dir, "passwordFile.txt")
	if err := os.WriteFile(iv, []byte("old-iv"), 0600); err != nil {
		t.Fatalf("Failed to seed IV file: %v", err)
	}

	b := NewBatch(dir)
	if err := b.Stage(iv, []byte("new-iv")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := b.StageRecord(record, Record{Identifier: "alice", CiphertextHex: "aa"}); err != nil {
		t.Fatalf("StageRecord failed: %v", err)
	}

	if got := readFileForTest(t, iv); got != "old-iv" {
		t.Errorf("Staging must not touch the target, got %q", got)
	}

	if err := b.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := readFileForTest(t, iv); got != "new-iv" {
		t.Errorf("Expected new IV content, got %q", got)
	}
	if got := readFileForTest(t, record); got != "alice\naa" {
		t.Errorf("Expected record content, got %q", got)
	}

	info, err := os.Stat(record)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}
	assertNoTempFiles(t, dir)

	// Abort after Commit is a no-op.
	b.Abort()
	if got := readFileForTest(t, iv); got != "new-iv" {
		t.Errorf("Abort after Commit changed the file: %q", got)
	}
}

func TestBatch_AbortLeavesTargetsUntouched(t *testing.T) {
	dir := t.TempDir()
	iv := filepath.Join(dir, "alice_chaveEIV.txt")
	if err := os.WriteFile(iv, []byte("old-iv"), 0600); err != nil {
		t.Fatalf("Failed to seed IV file: %v", err)
	}

	b := NewBatch(dir)
	if err := b.Stage(iv, []byte("new-iv")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := b.Stage(filepath.Join(dir, "alice.kdf.toml"), []byte("x = 1")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	b.Abort()

	if got := readFileForTest(t, iv); got != "old-iv" {
		t.Errorf("Expected old IV content, got %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "alice.kdf.toml")); !os.IsNotExist(err) {
		t.Errorf("Aborted sidecar must not exist")
	}
	assertNoTempFiles(t, dir)
}

func TestBatch_FailedRenameRestoresPreviousFiles(t *testing.T) {
	dir := t.TempDir()
	iv := filepath.Join(dir, "alice_chaveEIV.txt")
	sidecar := filepath.Join(dir, "alice.kdf.toml")
	record := filepath.Join(dir, "passwordFile.txt")
	if err := os.WriteFile(iv, []byte("old-iv"), 0600); err != nil {
		t.Fatalf("Failed to seed IV file: %v", err)
	}
	if err := os.WriteFile(record, []byte("alice\nold"), 0600); err != nil {
		t.Fatalf("Failed to seed record: %v", err)
	}

	b := NewBatch(dir)
	if err := b.Stage(iv, []byte("new-iv")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := b.Stage(sidecar, []byte("new = true")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}
	if err := b.Stage(record, []byte("alice\nnew")); err != nil {
		t.Fatalf("Stage failed: %v", err)
	}

	// Losing the staged record makes its rename fail after the IV file and
	// the sidecar were already moved into place.
	if err := os.Remove(b.staged[2].tmp); err != nil {
		t.Fatalf("Failed to remove staged record: %v", err)
	}

	err := b.Commit()
	if !errors.Is(err, kerrors.ErrStorage) {
		t.Fatalf("Expected ErrStorage, got %v", err)
	}

	if got := readFileForTest(t, iv); got != "old-iv" {
		t.Errorf("Expected IV file restored, got %q", got)
	}
	if _, err := os.Stat(sidecar); !os.IsNotExist(err) {
		t.Errorf("Sidecar that did not exist before must be removed")
	}
	if got := readFileForTest(t, record); got != "alice\nold" {
		t.Errorf("Expected record untouched, got %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestBatch_StageValidation(t *testing.T) {
	dir := t.TempDir()
	b := NewBatch(dir)
	defer b.Abort()

	outside := filepath.Join(t.TempDir(), "passwordFile.txt")
	if err := b.Stage(outside, []byte("x")); !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a path outside the batch dir, got %v", err)
	}
	if err := b.Stage(filepath.Join(dir, "empty"), nil); !errors.Is(err, kerrors.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty content, got %v", err)
	}
	if err := b.StageRecord(filepath.Join(dir, "passwordFile.txt"), Record{Identifier: "../x", CiphertextHex: "aa"}); !errors.Is(err, kerrors.ErrInvalidIdentifier) {
		t.Errorf("Expected ErrInvalidIdentifier, got %v", err)
	}
}
