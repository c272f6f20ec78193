package cmd

import (
	"github.com/PolarWolf314/cofre/internal/configs"
	"github.com/PolarWolf314/cofre/internal/store"
	"github.com/PolarWolf314/cofre/internal/ui"

	"github.com/spf13/cobra"
)

var (
	configInitForce      bool
	configInitStoreDir   string
	configInitRecordFile string
	configInitKDF        kdfFlags
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configInitStoreDir, "store-dir", "", "default store directory (empty means the working directory)")
	configInitCmd.Flags().StringVar(&configInitRecordFile, "record-file", configs.DefaultRecordFile, "name of the secret record file")
	configInitKDF.register(configInitCmd.Flags())
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitStoreDir = ""
	configInitRecordFile = configs.DefaultRecordFile
	configInitKDF.reset()
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Writes the user config file (config.toml in your user config directory)
with the built-in defaults, adjusted by any flags given.

Existing records keep the parameters they were created with; changing the
key derivation settings only affects records encrypted afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		spinner, cleanup := startSpinnerWithFlags("Writing configuration...", configVerbose, configDebug)
		defer cleanup()

		path := configs.ConfigFilePath()
		ConfigLogger.Debugf("Config path: %s", path)

		exists, err := store.Exists(path)
		if err != nil {
			return ConfigLogger.ErrorfAndReturn("failed to check config file: %v", err)
		}
		if exists && !configInitForce {
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " Config file already exists at " + ui.Path.Sprint(path) + "\n" +
				ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it"
			return nil
		}

		config := configs.DefaultConfig()
		config.Store.Dir = configInitStoreDir
		if configInitRecordFile != "" {
			config.Store.RecordFile = configInitRecordFile
		}
		configInitKDF.apply(cmd.Flags(), &config.KDF)

		if _, err := config.Params(); err != nil {
			spinner.FinalMSG = formatSecretsError(err)
			return nil
		}
		if err := store.ValidateIdentifier(config.Store.RecordFile); err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Invalid record file name: " + err.Error()
			return nil
		}

		if err := configs.SaveConfig(config); err != nil {
			return ConfigLogger.ErrorfAndReturn("%v", err)
		}

		ConfigLogger.Infof("Config written to %s", path)
		spinner.FinalMSG = ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(path)
		return nil
	},
}
