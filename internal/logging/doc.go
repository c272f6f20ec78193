// Package logger provides leveled logging for cofre CLI commands.
//
// Output is formatted with colored level prefixes from fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details and errors
//
// Without flags, only WarnfAlways output is shown. User-facing results are
// printed by the commands themselves, not through the logger.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Deriving key with %d iterations", params.Iterations)
//
// Commands create a logger in their PersistentPreRun.
//
// Never log passwords, derived keys, IVs or plaintext secrets.
package logger
