package main

import (
	"fmt"
	"os"

	"github.com/PolarWolf314/cofre/cmd"
	"github.com/PolarWolf314/cofre/internal/ui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cofre",
	Short: "cofre - password-derived encryption for a single stored secret.",
	Long: `cofre derives an AES-256 key from your password with PBKDF2 and uses it to
encrypt a secret into a small on-disk record that only the same password can
recover.

Usage:
  cofre <command> [flags]

Available Commands:
  secrets    Encrypt, decrypt and inspect the stored secret
  config     Manage the user configuration file

Run 'cofre help <command>' for more details on a specific command.
`,
	Run: func(c *cobra.Command, args []string) {
		fmt.Print(ui.Banner("cofre"))
		fmt.Println("Welcome to cofre! Run " + ui.Code.Sprint("cofre --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
