package cmd

import (
	logger "github.com/PolarWolf314/cofre/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose  bool
	debug    bool
	storeDir string
	Logger   logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Encrypt and recover the stored secret",
		Long: `Derives a key from your password and uses it to encrypt, decrypt and inspect
the secret record kept in the store directory.

The store directory holds:
  passwordFile.txt            the identifier and the encrypted secret
  <identifier>_chaveEIV.txt   the encrypted IV
  <identifier>.kdf.toml       the key derivation parameters and salt
  audit.jsonl                 the audit log`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing secrets command with verbose=%t, debug=%t, dir=%q", verbose, debug, storeDir)
		},
	}
)

func init() {
	SecretsCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretsCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	SecretsCmd.PersistentFlags().StringVar(&storeDir, "dir", "", "store directory (defaults to the configured directory or the working directory)")

	SecretsCmd.AddCommand(encryptCmd)
	SecretsCmd.AddCommand(decryptCmd)
	SecretsCmd.AddCommand(statusCmd)
	SecretsCmd.AddCommand(cleanCmd)
	SecretsCmd.AddCommand(logCmd)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	storeDir = ""
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetStatusCommandState()
	resetCleanCommandState()
	resetLogCommandState()
	resetCobraFlagState(SecretsCmd)
}
