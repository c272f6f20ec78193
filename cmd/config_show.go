package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/PolarWolf314/cofre/internal/configs"
	"github.com/PolarWolf314/cofre/internal/store"
	"github.com/PolarWolf314/cofre/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: `Displays the configuration cofre would use, after applying the config file
and COFRE_* environment variables over the built-in defaults.

Examples:
  cofre config show
  cofre config show --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")

		path := configs.ConfigFilePath()
		config, err := configs.LoadConfig()
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to load config: %v", err)
		}

		if configShowJSON {
			output, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("Failed to marshal config to JSON: %v", err)
			}
			fmt.Println(string(output))
			return nil
		}

		exists, _ := store.Exists(path)
		source := ui.Muted.Sprint("not found, using defaults")
		if exists {
			source = ui.Path.Sprint(path)
		}
		fmt.Println(ui.Info.Sprint("Configuration") + " " + source)
		fmt.Println()

		text, err := configs.EncodeTOML(config)
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("Failed to render config: %v", err)
		}
		fmt.Print(ui.EnsureNewline(string(text)))
		return nil
	},
}
