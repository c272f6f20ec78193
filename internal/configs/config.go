package configs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/PolarWolf314/cofre/internal/secrets"
	"github.com/PolarWolf314/cofre/internal/utils"
	"github.com/caarlos0/env/v11"
)

// DefaultRecordFile is the name of the two-line secret record.
const DefaultRecordFile = "passwordFile.txt"

type Config struct {
	Store  StoreConfig  `toml:"store" json:"store" envPrefix:"STORE_"`
	KDF    KDFConfig    `toml:"kdf" json:"kdf" envPrefix:"KDF_"`
	Policy PolicyConfig `toml:"password_policy" json:"password_policy" envPrefix:"POLICY_"`
}

type StoreConfig struct {
	// Dir is the directory holding the record and IV files. Empty means the
	// current working directory.
	Dir        string `toml:"dir" json:"dir" env:"DIR"`
	RecordFile string `toml:"record_file" json:"record_file" env:"RECORD_FILE"`
}

type KDFConfig struct {
	Iterations int    `toml:"iterations" json:"iterations" env:"ITERATIONS"`
	KeyLength  int    `toml:"key_length" json:"key_length" env:"KEY_LENGTH"`
	Hash       string `toml:"hash" json:"hash" env:"HASH"`
	SaltLength int    `toml:"salt_length" json:"salt_length" env:"SALT_LENGTH"`
}

type PolicyConfig struct {
	MinLength    int  `toml:"min_length" json:"min_length" env:"MIN_LENGTH"`
	RequireUpper bool `toml:"require_upper" json:"require_upper" env:"REQUIRE_UPPER"`
	RequireLower bool `toml:"require_lower" json:"require_lower" env:"REQUIRE_LOWER"`
	RequireDigit bool `toml:"require_digit" json:"require_digit" env:"REQUIRE_DIGIT"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	params := secrets.DefaultParams()
	return &Config{
		Store: StoreConfig{
			RecordFile: DefaultRecordFile,
		},
		KDF: KDFConfig{
			Iterations: params.Iterations,
			KeyLength:  params.KeyLength,
			Hash:       params.Hash.String(),
			SaltLength: params.SaltLength,
		},
		Policy: PolicyConfig{
			MinLength:    8,
			RequireUpper: true,
			RequireLower: true,
			RequireDigit: true,
		},
	}
}

// LoadConfig reads the user config file, if present, over the defaults and
// then applies COFRE_* environment overrides.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(ConfigFilePath())
}

// LoadConfigFrom is LoadConfig with an explicit file path.
func LoadConfigFrom(configPath string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		if err := LoadTOML(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config %s: %w", configPath, err)
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: "COFRE_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to the user config file.
func SaveConfig(config *Config) error {
	if err := SaveTOML(ConfigFilePath(), config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Params converts the [kdf] section into validated derivation parameters.
func (c *Config) Params() (secrets.Params, error) {
	hash, err := secrets.ParseHash(c.KDF.Hash)
	if err != nil {
		return secrets.Params{}, err
	}

	params := secrets.Params{
		Iterations: c.KDF.Iterations,
		KeyLength:  c.KDF.KeyLength,
		Hash:       hash,
		SaltLength: c.KDF.SaltLength,
	}
	if err := params.Validate(); err != nil {
		return secrets.Params{}, err
	}
	return params, nil
}

// StoreDir resolves the store directory, falling back to the working
// directory when none is configured.
func (c *Config) StoreDir() (string, error) {
	if c.Store.Dir != "" {
		return filepath.Abs(c.Store.Dir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// PasswordPolicy converts the [password_policy] section.
func (c *Config) PasswordPolicy() utils.PasswordPolicy {
	return utils.PasswordPolicy{
		MinLength:    c.Policy.MinLength,
		RequireUpper: c.Policy.RequireUpper,
		RequireLower: c.Policy.RequireLower,
		RequireDigit: c.Policy.RequireDigit,
	}
}
