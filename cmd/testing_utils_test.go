package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/cofre/internal/configs"
	logger "github.com/PolarWolf314/cofre/internal/logging"
	"github.com/spf13/cobra"
)

const testPassword = "MinhaSenhaSuperSegura123!"

// setupTestEnvironment creates a store directory and a user config directory
// for one test and points the package at them. Everything is restored when
// the test finishes.
func setupTestEnvironment(t *testing.T) (storePath string) {
	t.Helper()

	storePath = t.TempDir()
	userDir := t.TempDir()

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(storePath); err != nil {
		t.Fatalf("Failed to change to store directory: %v", err)
	}

	originalUserSettings := configs.UserCofreSettings
	configs.UserCofreSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(userDir, "cofre"),
	}

	for _, name := range []string{"COFRE_STORE_DIR", "COFRE_STORE_RECORD_FILE", "COFRE_KDF_ITERATIONS", "COFRE_KDF_HASH", "COFRE_KDF_KEY_LENGTH", "COFRE_KDF_SALT_LENGTH"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserCofreSettings = originalUserSettings
		ResetGlobalState()
		ResetConfigState()
	})

	ResetGlobalState()
	ResetConfigState()
	return storePath
}

// withStdin replaces os.Stdin with a file holding content for the rest of
// the test.
func withStdin(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write stdin file: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open stdin file: %v", err)
	}

	original := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = original
		f.Close()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// createTestCLI creates a complete CLI instance for testing with the given arguments.
func createTestCLI(args []string, verboseFlag bool) *cobra.Command {
	verbose = verboseFlag
	Logger = logger.Logger{Verbose: verboseFlag}

	rootCmd := &cobra.Command{
		Use:           "cofre",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(SecretsCmd)
	rootCmd.AddCommand(ConfigCmd)
	rootCmd.SetArgs(args)

	return rootCmd
}

// runCLI runs the CLI with args and returns the captured output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args, false).Execute()
	})
}

// encryptWithCLI stores testPassword under identifier in the current store.
func encryptWithCLI(t *testing.T, identifier string, extraArgs ...string) string {
	t.Helper()
	withStdin(t, testPassword+"\n")

	args := append([]string{"secrets", "encrypt", "-u", identifier, "--password-stdin", "--iterations", "1000"}, extraArgs...)
	output, err := runCLI(t, args...)
	if err != nil {
		t.Fatalf("encrypt failed: %v\nOutput: %s", err, output)
	}
	ResetGlobalState()
	return output
}
