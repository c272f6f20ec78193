package utils

import (
	"fmt"
	"strings"

	"github.com/PolarWolf314/cofre/internal/ui"
)

// FormatPaths renders paths as an indented bullet list, one per line, with a
// leading newline so it can follow a sentence.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteByte('\n')
	for _, path := range paths {
		fmt.Fprintf(&b, "    - %s\n", ui.Path.Sprint(path))
	}
	return b.String()
}
