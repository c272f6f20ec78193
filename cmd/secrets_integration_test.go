package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/cofre/internal/audit"
	"github.com/PolarWolf314/cofre/internal/store"
)

func TestSecretsEncryptDecryptIntegration(t *testing.T) {
	t.Run("EncryptWritesAllFiles", func(t *testing.T) {
		storePath := setupTestEnvironment(t)
		output := encryptWithCLI(t, "alice")

		if !strings.Contains(output, "Secret record created for alice") {
			t.Errorf("Expected success message, got: %s", output)
		}
		for _, name := range []string{"passwordFile.txt", "alice_chaveEIV.txt", "alice.kdf.toml", "audit.jsonl"} {
			if _, err := os.Stat(filepath.Join(storePath, name)); err != nil {
				t.Errorf("Expected %s to exist: %v", name, err)
			}
		}

		record, err := store.ReadRecord(filepath.Join(storePath, "passwordFile.txt"))
		if err != nil {
			t.Fatalf("Failed to read record: %v", err)
		}
		if record.Identifier != "alice" {
			t.Errorf("Expected identifier alice, got %q", record.Identifier)
		}
	})

	t.Run("DecryptPrintsSecret", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		withStdin(t, testPassword+"\n")
		output, err := runCLI(t, "secrets", "decrypt", "--password-stdin")
		if err != nil {
			t.Fatalf("decrypt failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, "decrypted successfully") {
			t.Errorf("Expected success message, got: %s", output)
		}
		if !strings.Contains(output, testPassword) {
			t.Errorf("Expected plaintext in output, got: %s", output)
		}
	})

	t.Run("DirFlagSelectsStore", func(t *testing.T) {
		setupTestEnvironment(t)
		other := t.TempDir()

		encryptWithCLI(t, "bob", "--dir", other)
		if _, err := os.Stat(filepath.Join(other, "passwordFile.txt")); err != nil {
			t.Fatalf("Expected record in --dir store: %v", err)
		}

		withStdin(t, testPassword+"\n")
		output, err := runCLI(t, "secrets", "decrypt", "--password-stdin", "--dir", other)
		if err != nil {
			t.Fatalf("decrypt failed: %v\nOutput: %s", err, output)
		}
		if !strings.Contains(output, testPassword) {
			t.Errorf("Expected plaintext in output, got: %s", output)
		}
	})

	t.Run("WrongPasswordFails", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		withStdin(t, "OutraSenhaErrada999\n")
		output, err := runCLI(t, "secrets", "decrypt", "--password-stdin")
		if err == nil {
			t.Fatalf("Expected decrypt with wrong password to fail, output: %s", output)
		}
		if strings.Contains(output, testPassword) {
			t.Errorf("Plaintext must not be printed on failure, got: %s", output)
		}
		if !strings.Contains(output, "Is the password correct?") {
			t.Errorf("Expected password hint, got: %s", output)
		}
	})

	t.Run("ExistingRecordRequiresForce", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		withStdin(t, testPassword+"\n")
		output, err := runCLI(t, "secrets", "encrypt", "-u", "alice", "--password-stdin", "--iterations", "1000")
		if err != nil {
			t.Fatalf("Expected handled error, got: %v", err)
		}
		if !strings.Contains(output, "A secret record already exists") {
			t.Errorf("Expected existing record message, got: %s", output)
		}
		ResetGlobalState()

		output = encryptWithCLI(t, "alice", "--force")
		if !strings.Contains(output, "Secret record replaced for alice") {
			t.Errorf("Expected replaced message, got: %s", output)
		}
	})

	t.Run("WeakPasswordRejected", func(t *testing.T) {
		storePath := setupTestEnvironment(t)

		withStdin(t, "fraca\n")
		output, err := runCLI(t, "secrets", "encrypt", "-u", "alice", "--password-stdin", "--iterations", "1000")
		if err != nil {
			t.Fatalf("Expected handled error, got: %v", err)
		}
		if !strings.Contains(output, "at least 8 characters") {
			t.Errorf("Expected policy message, got: %s", output)
		}
		if _, err := os.Stat(filepath.Join(storePath, "passwordFile.txt")); !os.IsNotExist(err) {
			t.Errorf("Record must not be written for a weak password")
		}
	})

	t.Run("InvalidIdentifierRejected", func(t *testing.T) {
		setupTestEnvironment(t)

		withStdin(t, testPassword+"\n")
		output, err := runCLI(t, "secrets", "encrypt", "-u", "../alice", "--password-stdin", "--iterations", "1000")
		if err != nil {
			t.Fatalf("Expected handled error, got: %v", err)
		}
		if !strings.Contains(output, "invalid identifier") {
			t.Errorf("Expected identifier message, got: %s", output)
		}
	})

	t.Run("DecryptWithoutRecord", func(t *testing.T) {
		setupTestEnvironment(t)

		withStdin(t, testPassword+"\n")
		output, err := runCLI(t, "secrets", "decrypt", "--password-stdin")
		if err != nil {
			t.Fatalf("Expected handled error, got: %v", err)
		}
		if !strings.Contains(output, "No secret record found") {
			t.Errorf("Expected missing record message, got: %s", output)
		}
	})
}

func TestSecretsDecryptCopyIntegration(t *testing.T) {
	setupTestEnvironment(t)
	encryptWithCLI(t, "alice")

	var writes []string
	original := clipboardWriter
	clipboardWriter = func(text string) error {
		writes = append(writes, text)
		return nil
	}
	t.Cleanup(func() { clipboardWriter = original })

	withStdin(t, testPassword+"\n")
	output, err := runCLI(t, "secrets", "decrypt", "--password-stdin", "--copy", "--clear-after", "10ms")
	if err != nil {
		t.Fatalf("decrypt --copy failed: %v\nOutput: %s", err, output)
	}

	if strings.Contains(output, testPassword) {
		t.Errorf("Plaintext must not be printed with --copy, got: %s", output)
	}
	if !strings.Contains(output, "Clipboard cleared") {
		t.Errorf("Expected clipboard cleared message, got: %s", output)
	}
	if len(writes) != 2 || writes[0] != testPassword || writes[1] != "" {
		t.Errorf("Expected secret then empty clipboard write, got %q", writes)
	}
}

func TestSecretsStatusIntegration(t *testing.T) {
	t.Run("NoRecord", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "secrets", "status")
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}
		if !strings.Contains(output, "No secret record found") {
			t.Errorf("Expected missing record message, got: %s", output)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		output, err := runCLI(t, "secrets", "status", "--json")
		if err != nil {
			t.Fatalf("status failed: %v", err)
		}

		var status statusOutput
		if err := json.Unmarshal([]byte(output), &status); err != nil {
			t.Fatalf("Failed to parse status JSON: %v\nOutput: %s", err, output)
		}
		if !status.HasRecord || status.Identifier != "alice" {
			t.Errorf("Unexpected status: %+v", status)
		}
		if status.KDF == nil || status.KDF.Iterations != 1000 || status.KDF.Legacy {
			t.Errorf("Expected sidecar parameters, got %+v", status.KDF)
		}
		if len(status.Orphans) != 0 {
			t.Errorf("Expected no orphans, got %v", status.Orphans)
		}
	})
}

func TestSecretsCleanIntegration(t *testing.T) {
	storePath := setupTestEnvironment(t)
	encryptWithCLI(t, "alice")
	encryptWithCLI(t, "bob", "--force")

	orphan := filepath.Join(storePath, "alice_chaveEIV.txt")

	output, err := runCLI(t, "secrets", "clean", "--dry-run")
	if err != nil {
		t.Fatalf("clean --dry-run failed: %v", err)
	}
	if !strings.Contains(output, "[dry-run] Would remove 2 file(s)") {
		t.Errorf("Expected dry-run summary, got: %s", output)
	}
	if _, err := os.Stat(orphan); err != nil {
		t.Fatalf("Dry run must not remove files: %v", err)
	}
	ResetGlobalState()

	output, err = runCLI(t, "secrets", "clean", "--force")
	if err != nil {
		t.Fatalf("clean --force failed: %v", err)
	}
	if !strings.Contains(output, "Removed 2 file(s)") {
		t.Errorf("Expected removal summary, got: %s", output)
	}
	if _, err := os.Stat(orphan); !os.IsNotExist(err) {
		t.Errorf("Expected orphan IV file to be removed")
	}
	if _, err := os.Stat(filepath.Join(storePath, "bob_chaveEIV.txt")); err != nil {
		t.Errorf("Current IV file must be kept: %v", err)
	}
}

func TestSecretsLogIntegration(t *testing.T) {
	t.Run("NoLog", func(t *testing.T) {
		setupTestEnvironment(t)

		output, err := runCLI(t, "secrets", "log")
		if err != nil {
			t.Fatalf("log failed: %v", err)
		}
		if !strings.Contains(output, "No audit log found") {
			t.Errorf("Expected missing log message, got: %s", output)
		}
	})

	t.Run("JSONWithOperationFilter", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		withStdin(t, testPassword+"\n")
		if output, err := runCLI(t, "secrets", "decrypt", "--password-stdin"); err != nil {
			t.Fatalf("decrypt failed: %v\nOutput: %s", err, output)
		}
		ResetGlobalState()

		output, err := runCLI(t, "secrets", "log", "--json", "--operation", "decrypt")
		if err != nil {
			t.Fatalf("log failed: %v", err)
		}

		var entries []audit.Entry
		if err := json.Unmarshal([]byte(output), &entries); err != nil {
			t.Fatalf("Failed to parse log JSON: %v\nOutput: %s", err, output)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected 1 decrypt entry, got %d", len(entries))
		}
		if entries[0].Operation != "decrypt" || entries[0].Identifier != "alice" {
			t.Errorf("Unexpected entry: %+v", entries[0])
		}
	})

	t.Run("InvalidSince", func(t *testing.T) {
		setupTestEnvironment(t)
		encryptWithCLI(t, "alice")

		output, err := runCLI(t, "secrets", "log", "--since", "yesterday")
		if err != nil {
			t.Fatalf("Expected handled error, got: %v", err)
		}
		if !strings.Contains(output, "invalid date format") {
			t.Errorf("Expected date format message, got: %s", output)
		}
	})
}

func TestSecretsDecryptIgnoresBadConfigForSidecarRecords(t *testing.T) {
	setupTestEnvironment(t)
	encryptWithCLI(t, "alice")

	t.Setenv("COFRE_KDF_HASH", "md5")

	withStdin(t, testPassword+"\n")
	output, err := runCLI(t, "secrets", "decrypt", "--password-stdin")
	if err != nil {
		t.Fatalf("decrypt failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, testPassword) {
		t.Errorf("Expected plaintext in output, got: %s", output)
	}
}

func TestSecretsRecordFileFromEnvironmentStaysInStore(t *testing.T) {
	storePath := setupTestEnvironment(t)
	t.Setenv("COFRE_STORE_RECORD_FILE", "../escaped.txt")

	withStdin(t, testPassword+"\n")
	output, err := runCLI(t, "secrets", "encrypt", "-u", "alice", "--password-stdin", "--iterations", "1000")
	if err != nil {
		t.Fatalf("Expected handled error, got: %v", err)
	}
	if !strings.Contains(output, "invalid identifier") {
		t.Errorf("Expected record file error, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(storePath), "escaped.txt")); !os.IsNotExist(err) {
		t.Errorf("Record was written outside the store directory")
	}
}
