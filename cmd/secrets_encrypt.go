package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/PolarWolf314/cofre/internal/utils"
	"github.com/PolarWolf314/cofre/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	encryptIdentifier    string
	encryptPasswordStdin bool
	encryptForce         bool
	encryptKDF           kdfFlags
)

func init() {
	encryptCmd.Flags().StringVarP(&encryptIdentifier, "user", "u", "", "identifier stored with the record (prompted for, or the login name, when omitted)")
	encryptCmd.Flags().BoolVar(&encryptPasswordStdin, "password-stdin", false, "read the password from the first line of stdin")
	encryptCmd.Flags().BoolVar(&encryptForce, "force", false, "replace an existing record")
	encryptKDF.register(encryptCmd.Flags())
}

func resetEncryptCommandState() {
	encryptIdentifier = ""
	encryptPasswordStdin = false
	encryptForce = false
	encryptKDF.reset()
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Derive a key from your password and store the encrypted password",
	Long: `Derives an AES-256 key from your password with PBKDF2, encrypts the password
with AES-256-CBC and writes the record, the encrypted IV and the derivation
parameters to the store directory.

The password must be at least 8 characters long and contain an upper-case
letter, a lower-case letter and a digit (configurable in config.toml).

Examples:
  cofre secrets encrypt -u alice
  echo "$PASSWORD" | cofre secrets encrypt -u alice --password-stdin
  cofre secrets encrypt -u alice --force --iterations 600000 --hash sha512`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")

		config, err := loadSecretsConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to load configuration: %v", err)
		}
		encryptKDF.apply(cmd.Flags(), &config.KDF)

		params, err := config.Params()
		if err != nil {
			return reportSecretsError(err)
		}
		Logger.Debugf("KDF params: iterations=%d key_length=%d hash=%s salt_length=%d",
			params.Iterations, params.KeyLength, params.Hash, params.SaltLength)
		if params.Iterations < secrets.DefaultIterations {
			Logger.WarnfAlways("%d PBKDF2 iterations is below the default of %d", params.Iterations, secrets.DefaultIterations)
		}

		identifier, err := resolveIdentifier()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read identifier: %v", err)
		}
		Logger.Debugf("Identifier: %s", identifier)

		policy := config.PasswordPolicy()
		var password []byte
		if encryptPasswordStdin {
			Logger.Debugf("Reading password from stdin")
			password, err = readPasswordFromStdin()
		} else {
			password, err = readPasswordInteractive(true, &policy)
		}
		if err != nil {
			return reportSecretsError(err)
		}
		defer secrets.Wipe(password)

		storePath, err := config.StoreDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve store directory: %v", err)
		}

		spinner, cleanup := startSpinner("Deriving key and encrypting...", verbose)
		defer cleanup()

		result, err := workflows.Encrypt(context.Background(), workflows.EncryptOptions{
			Identifier: identifier,
			Password:   password,
			Params:     params,
			Policy:     policy,
			StoreDir:   storePath,
			RecordFile: config.Store.RecordFile,
			Force:      encryptForce,
		})
		if err != nil {
			Logger.Errorf("Encrypt workflow failed: %v", err)
			spinner.FinalMSG = formatSecretsError(err)
			if isSecretsUnexpectedError(err) {
				return err
			}
			return nil
		}

		Logger.Infof("Encrypt command completed successfully (record %s)", result.RecordUUID)

		verb := "created"
		if result.Replaced {
			verb = "replaced"
		}
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Secret record " + verb + " for " + ui.Highlight.Sprint(result.Identifier) + "\n" +
			"The following files were written: " +
			utils.FormatPaths([]string{result.RecordPath, result.IVPath, result.MetadataPath}) +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("cofre secrets decrypt") + " to recover it"
		return nil
	},
}

// resolveIdentifier returns --user, prompts for it on a terminal, or falls
// back to the login name.
func resolveIdentifier() (string, error) {
	if encryptIdentifier != "" {
		return encryptIdentifier, nil
	}
	if !encryptPasswordStdin && utils.IsTerminal() {
		return utils.ReadLine(os.Stdin, "Enter your username: ")
	}
	return utils.GetUsername()
}

// reportSecretsError prints the message for err and returns it only when it
// should change the exit code.
func reportSecretsError(err error) error {
	Logger.Errorf("%v", err)
	fmt.Println(formatSecretsError(err))
	if isSecretsUnexpectedError(err) {
		return err
	}
	return nil
}
