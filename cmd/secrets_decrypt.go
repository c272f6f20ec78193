package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/workflows"
	"github.com/atotto/clipboard"

	"github.com/spf13/cobra"
)

var (
	decryptPasswordStdin bool
	decryptCopy          bool
	decryptClearAfter    time.Duration
)

// clipboardWriter is replaced in tests.
var clipboardWriter = clipboard.WriteAll

func init() {
	decryptCmd.Flags().BoolVar(&decryptPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")
	decryptCmd.Flags().BoolVar(&decryptCopy, "copy", false, "copy the secret to the clipboard instead of printing it")
	decryptCmd.Flags().DurationVar(&decryptClearAfter, "clear-after", 30*time.Second, "with --copy, clear the clipboard after this long (0 keeps it)")
}

func resetDecryptCommandState() {
	decryptPasswordStdin = false
	decryptCopy = false
	decryptClearAfter = 30 * time.Second
	clipboardWriter = clipboard.WriteAll
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Recover the stored secret with your password",
	Long: `Re-derives the key from your password using the parameters stored with the
record, recovers the IV and decrypts the secret.

Records written without a .kdf.toml file are decrypted with the configured
key derivation parameters and the legacy fixed salt.

Examples:
  cofre secrets decrypt
  echo "$PASSWORD" | cofre secrets decrypt --password-stdin
  cofre secrets decrypt --copy --clear-after 15s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")

		config, err := loadSecretsConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}

		var password []byte
		if decryptPasswordStdin {
			Logger.Debugf("Reading password from stdin")
			password, err = readPasswordFromStdin()
		} else {
			password, err = readPasswordInteractive(false, nil)
		}
		if err != nil {
			return reportSecretsError(err)
		}
		defer secrets.Wipe(password)

		storePath, err := config.StoreDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve store directory: %v", err)
		}

		spinner, cleanup := startSpinner("Deriving key and decrypting...", verbose)

		result, err := workflows.Decrypt(context.Background(), workflows.DecryptOptions{
			Password:       password,
			FallbackParams: config.Params,
			StoreDir:       storePath,
			RecordFile:     config.Store.RecordFile,
		})
		if err != nil {
			Logger.Errorf("Decrypt workflow failed: %v", err)
			spinner.FinalMSG = formatSecretsError(err)
			cleanup()
			if isSecretsUnexpectedError(err) {
				return err
			}
			return nil
		}
		defer secrets.Wipe(result.Plaintext)

		if result.Legacy {
			Logger.Warnf("No parameter file for %s, used the legacy salt", result.Identifier)
		}
		Logger.Infof("Decrypt command completed successfully")

		if !decryptCopy {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Secret for " + ui.Highlight.Sprint(result.Identifier) + " decrypted successfully"
			cleanup()
			fmt.Println(ui.Secret.Sprint(string(result.Plaintext)))
			return nil
		}

		if err := clipboardWriter(string(result.Plaintext)); err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to copy to clipboard\n" +
				ui.Error.Sprint("Error: ") + err.Error()
			cleanup()
			return err
		}

		if decryptClearAfter <= 0 {
			spinner.FinalMSG = ui.Success.Sprint("✓") + " Secret for " + ui.Highlight.Sprint(result.Identifier) + " copied to the clipboard"
			cleanup()
			return nil
		}

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Secret for " + ui.Highlight.Sprint(result.Identifier) +
			" copied to the clipboard, clearing in " + decryptClearAfter.String()
		cleanup()

		return clearClipboardAfter(cmd.Context(), decryptClearAfter)
	},
}

// clearClipboardAfter blocks until d has passed or the process is
// interrupted, then empties the clipboard.
func clearClipboardAfter(parent context.Context, d time.Duration) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	if err := clipboardWriter(""); err != nil {
		return Logger.ErrorfAndReturn("failed to clear clipboard: %v", err)
	}
	fmt.Println(ui.Info.Sprint("ℹ") + " Clipboard cleared")
	return nil
}
