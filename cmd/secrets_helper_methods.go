package cmd

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/PolarWolf314/cofre/internal/configs"
	kerrors "github.com/PolarWolf314/cofre/internal/errors"
	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/utils"
	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	return startSpinnerWithFlags(message, verbose, debug)
}

// startSpinnerWithFlags is startSpinner for commands that have their own flag
// variables (e.g., config commands).
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	quiet := !verbose && !debugFlag
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() { stopSpinner(s, quiet) })
	}

	return s, cleanup
}

func stopSpinner(s *spinner.Spinner, quiet bool) {
	if quiet {
		log.SetOutput(os.Stdout)
	}

	finalMsg := ""
	if s.FinalMSG != "" {
		finalMsg = ui.EnsureNewline(s.FinalMSG)
		// Clear FinalMSG so s.Stop() doesn't print it.
		s.FinalMSG = ""
	}

	// Stop the spinner first to clear the spinner line.
	if quiet {
		s.Stop()
	}

	// Print final message to stdout (for tests to capture).
	if finalMsg != "" {
		fmt.Print(finalMsg)
	}
}

// loadSecretsConfig loads the layered configuration and applies --dir.
func loadSecretsConfig() (*configs.Config, error) {
	Logger.Debugf("Loading configuration from %s", configs.ConfigFilePath())
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	if storeDir != "" {
		config.Store.Dir = storeDir
	}
	Logger.Debugf("Store dir: %q, record file: %q", config.Store.Dir, config.Store.RecordFile)
	return config, nil
}

// kdfFlags holds the derivation overrides shared by encrypt and config init.
type kdfFlags struct {
	iterations int
	keyLength  int
	hash       string
	saltLength int
}

func (f *kdfFlags) register(fs *pflag.FlagSet) {
	defaults := secrets.DefaultParams()
	fs.IntVar(&f.iterations, "iterations", defaults.Iterations, "PBKDF2 iteration count")
	fs.IntVar(&f.keyLength, "key-length", defaults.KeyLength, "derived key length in bytes (AES-256 needs 32)")
	fs.StringVar(&f.hash, "hash", defaults.Hash.String(), "PBKDF2 hash: sha1, sha256, sha384, sha512, sha3-256, sha3-512")
	fs.IntVar(&f.saltLength, "salt-length", defaults.SaltLength, "random salt length in bytes")
}

// apply copies only the flags that were set on the command line, so config
// file and environment values survive otherwise.
func (f *kdfFlags) apply(fs *pflag.FlagSet, kdf *configs.KDFConfig) {
	if fs.Changed("iterations") {
		kdf.Iterations = f.iterations
	}
	if fs.Changed("key-length") {
		kdf.KeyLength = f.keyLength
	}
	if fs.Changed("hash") {
		kdf.Hash = f.hash
	}
	if fs.Changed("salt-length") {
		kdf.SaltLength = f.saltLength
	}
}

func (f *kdfFlags) reset() {
	defaults := secrets.DefaultParams()
	f.iterations = defaults.Iterations
	f.keyLength = defaults.KeyLength
	f.hash = defaults.Hash.String()
	f.saltLength = defaults.SaltLength
}

// readPasswordFromStdin reads the first line of piped stdin.
func readPasswordFromStdin() ([]byte, error) {
	data, err := utils.ReadStdin()
	if err != nil {
		return nil, err
	}
	defer secrets.Wipe(data)

	return utils.ReadSecretLine(bytes.NewReader(data))
}

// readPasswordInteractive prompts for a password on the terminal. With
// confirm set, the password must be typed twice and, when policy is non-nil,
// is checked against it before the second prompt.
func readPasswordInteractive(confirm bool, policy *utils.PasswordPolicy) ([]byte, error) {
	password, err := utils.ReadPassphrase("Enter password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, fmt.Errorf("%w: password cannot be empty", kerrors.ErrInvalidInput)
	}
	if !confirm {
		return password, nil
	}

	if policy != nil {
		if err := policy.Check(password); err != nil {
			secrets.Wipe(password)
			return nil, err
		}
	}

	again, err := utils.ReadPassphrase("Confirm password: ")
	if err != nil {
		secrets.Wipe(password)
		return nil, err
	}
	defer secrets.Wipe(again)

	if subtle.ConstantTimeCompare(password, again) != 1 {
		secrets.Wipe(password)
		return nil, kerrors.ErrPasswordMismatch
	}
	return password, nil
}

// formatSecretsError maps workflow errors to a user-facing message.
func formatSecretsError(err error) string {
	switch {
	case errors.Is(err, kerrors.ErrRecordNotFound):
		return ui.Error.Sprint("✗") + " No secret record found\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("cofre secrets encrypt") + " first"

	case errors.Is(err, kerrors.ErrRecordExists):
		return ui.Error.Sprint("✗") + " A secret record already exists\n" +
			ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to replace it"

	case errors.Is(err, kerrors.ErrIVFileNotFound):
		return ui.Error.Sprint("✗") + " The protected IV file for this record is missing\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrDecryption):
		return ui.Error.Sprint("✗") + " Decryption failed. Is the password correct?"

	case errors.Is(err, kerrors.ErrCorruptData):
		return ui.Error.Sprint("✗") + " Stored data could not be read. Is the password correct?\n" +
			ui.Error.Sprint("Error: ") + err.Error()

	case errors.Is(err, kerrors.ErrPasswordMismatch):
		return ui.Error.Sprint("✗") + " Passwords do not match"

	default:
		return ui.Error.Sprint("✗") + " " + err.Error()
	}
}

// isSecretsUnexpectedError returns true if the error is unexpected and should cause a non-zero exit.
func isSecretsUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrRecordNotFound),
		errors.Is(err, kerrors.ErrRecordExists),
		errors.Is(err, kerrors.ErrWeakPassword),
		errors.Is(err, kerrors.ErrPasswordMismatch),
		errors.Is(err, kerrors.ErrInvalidIdentifier),
		errors.Is(err, kerrors.ErrInvalidInput),
		errors.Is(err, kerrors.ErrAlgorithm):
		return false
	default:
		return true
	}
}

// resetCobraFlagState resets the flag state for a command tree to prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}
