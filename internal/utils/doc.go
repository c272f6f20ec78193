// Package utils provides shared utility functions for cofre.
//
// # Terminal Utilities
//
// Functions for prompting the operator:
//   - ReadPassphrase: reads a password without echoing it
//   - ReadLine: reads one line of visible input
//   - IsTerminal: checks whether stdin is a terminal
//
// # I/O Utilities
//
//   - ReadStdin: reads all data piped on standard input
//   - ReadSecretLine: reads the first line from a reader, without its newline
//
// # Password Policy
//
//   - PasswordPolicy.Check: enforces length and character-class rules
//
// # System Utilities
//
//   - GetUsername / GetHostname: used as the default identifier and in audit entries
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
package utils
