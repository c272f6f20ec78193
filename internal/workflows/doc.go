// Package workflows provides high-level orchestration for cofre commands.
//
// Workflows coordinate the secrets, store, configs and audit packages to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// prompting, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Reads the password from the terminal or stdin
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Validating the identifier and password policy
//   - Deriving keys and running the cipher
//   - Reading and writing the record, IV file and parameter sidecar
//   - Recording audit trail entries
//   - Wiping derived keys and IVs once they are no longer needed
//
// # Available Workflows
//
//   - Encrypt: derives a key and writes a new record
//   - Decrypt: re-derives the key and recovers the secret
//   - Status: describes the stored record without a password
//   - Clean: removes IV files and sidecars left behind by older records
//   - Log: reads and filters the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrDecryption) {
//	    // Most likely a wrong password
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Encrypt and Decrypt check it before starting key derivation.
package workflows
