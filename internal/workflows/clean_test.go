package workflows

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/PolarWolf314/cofre/internal/audit"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
)

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestClean_NoOrphans(t *testing.T) {
	dir := t.TempDir()
	encryptForTest(t, dir, "alice", testPassword)

	result, err := Clean(context.Background(), CleanOptions{StoreDir: dir})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if len(result.Orphans) != 0 || result.RemovedCount != 0 {
		t.Errorf("Expected nothing to clean, got %+v", result)
	}
}

func TestClean_RemovesReplacedRecordFiles(t *testing.T) {
	dir := t.TempDir()
	alice := encryptForTest(t, dir, "alice", testPassword)
	bob := encryptForTest(t, dir, "bob", testPassword)

	result, err := Clean(context.Background(), CleanOptions{StoreDir: dir})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if result.RemovedCount != 2 {
		t.Errorf("Expected 2 files removed, got %d", result.RemovedCount)
	}

	if fileExists(alice.IVPath) || fileExists(alice.MetadataPath) {
		t.Errorf("Expected alice's IV file and sidecar to be removed")
	}
	if !fileExists(bob.IVPath) || !fileExists(bob.MetadataPath) || !fileExists(bob.RecordPath) {
		t.Errorf("Current record files should be kept")
	}

	// The current record must still decrypt.
	decrypted, err := Decrypt(context.Background(), DecryptOptions{Password: []byte(testPassword), StoreDir: dir})
	if err != nil {
		t.Fatalf("Decrypt after clean failed: %v", err)
	}
	if decrypted.Identifier != "bob" {
		t.Errorf("Expected bob, got %s", decrypted.Identifier)
	}
}

func TestClean_DryRun(t *testing.T) {
	dir := t.TempDir()
	alice := encryptForTest(t, dir, "alice", testPassword)
	encryptForTest(t, dir, "bob", testPassword)

	result, err := Clean(context.Background(), CleanOptions{StoreDir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if !result.DryRun || result.RemovedCount != 0 {
		t.Errorf("Expected dry run with nothing removed, got %+v", result)
	}
	if len(result.Orphans) != 2 {
		t.Errorf("Expected 2 orphans, got %d", len(result.Orphans))
	}
	if !fileExists(alice.IVPath) {
		t.Errorf("Dry run should not remove files")
	}
}

func TestClean_NoRecordRemovesEverything(t *testing.T) {
	dir := t.TempDir()
	alice := encryptForTest(t, dir, "alice", testPassword)
	if err := os.Remove(alice.RecordPath); err != nil {
		t.Fatal(err)
	}

	result, err := Clean(context.Background(), CleanOptions{StoreDir: dir})
	if err != nil {
		t.Fatalf("Clean failed: %v", err)
	}
	if result.RemovedCount != 2 {
		t.Errorf("Expected 2 files removed, got %d", result.RemovedCount)
	}
}

func TestClean_CorruptRecordRemovesNothing(t *testing.T) {
	dir := t.TempDir()
	alice := encryptForTest(t, dir, "alice", testPassword)
	if err := os.WriteFile(alice.RecordPath, []byte(""), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := Clean(context.Background(), CleanOptions{StoreDir: dir})
	if !errors.Is(err, kerrors.ErrCorruptData) {
		t.Errorf("Expected ErrCorruptData, got %v", err)
	}
	if !fileExists(alice.IVPath) {
		t.Errorf("IV file should be kept when the record is unreadable")
	}
}

func TestClean_WritesAuditEntry(t *testing.T) {
	dir := t.TempDir()
	encryptForTest(t, dir, "alice", testPassword)
	encryptForTest(t, dir, "bob", testPassword)

	if _, err := Clean(context.Background(), CleanOptions{StoreDir: dir}); err != nil {
		t.Fatalf("Clean failed: %v", err)
	}

	entries, err := audit.ReadEntries(layoutForTest(dir).AuditLogPath())
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Operation != "clean" || last.RemovedCount != 2 {
		t.Errorf("Unexpected clean entry: %+v", last)
	}
}
