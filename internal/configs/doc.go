// Package configs manages user configuration for cofre.
//
// Configuration is resolved in layers, each overriding the previous one:
//
//  1. Built-in defaults (DefaultConfig)
//  2. TOML file at $XDG_CONFIG_HOME/cofre/config.toml
//  3. COFRE_* environment variables
//  4. Command-line flags (applied by the cmd package)
//
// # Configuration File
//
//	[store]
//	dir = "/home/alice/.local/share/cofre"
//	record_file = "passwordFile.txt"
//
//	[kdf]
//	iterations = 10000
//	key_length = 32
//	hash = "sha256"
//	salt_length = 16
//
//	[password_policy]
//	min_length = 8
//	require_upper = true
//	require_lower = true
//	require_digit = true
//
// # Environment Variables
//
//	COFRE_STORE_DIR, COFRE_STORE_RECORD_FILE
//	COFRE_KDF_ITERATIONS, COFRE_KDF_KEY_LENGTH, COFRE_KDF_HASH, COFRE_KDF_SALT_LENGTH
//	COFRE_POLICY_MIN_LENGTH
//
// # Record Metadata
//
// Each stored secret has a sidecar TOML file with the key derivation
// parameters and salt it was created with (RecordMetadata). Decryption reads
// these back so that changing the defaults never strands an existing secret.
package configs
