// Package ui provides semantic text formatting for CLI output.
//
// Formatters render content according to terminal capabilities. When colors
// are available, content is colorized. When NO_COLOR is set or the terminal
// doesn't support colors, text decorations (backticks, quotes) are used
// instead.
//
//	ui.Code.Sprint("cofre secrets decrypt")   // Commands and code
//	ui.Path.Sprint("passwordFile.txt")        // File paths
//	ui.Success.Sprint("✓")                    // Success indicators
//	ui.Error.Sprint("✗")                      // Error indicators
//	ui.Info.Sprint("→")                       // Informational hints
//	ui.Highlight.Sprint("alice")              // User values
//	ui.Muted.Sprint("legacy")                 // De-emphasized text
//
// Banner renders the ASCII-art project header with go-figure.
package ui
