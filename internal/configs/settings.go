package configs

import (
	"os"
	"path/filepath"
)

type UserSettings struct {
	UserConfigsPath string
}

var UserCofreSettings *UserSettings

func init() {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// No $HOME or $XDG_CONFIG_HOME, e.g. in minimal containers.
		configDir = "."
	}

	UserCofreSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "cofre"),
	}
}

// ConfigFilePath returns the path of the user configuration file.
func ConfigFilePath() string {
	return filepath.Join(UserCofreSettings.UserConfigsPath, "config.toml")
}
