package utils

import "testing"

func TestFormatPaths(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	got := FormatPaths([]string{"passwordFile.txt", "alice_chaveEIV.txt"})
	want := "\n    - passwordFile.txt\n    - alice_chaveEIV.txt\n"
	if got != want {
		t.Errorf("FormatPaths() = %q, want %q", got, want)
	}

	if got := FormatPaths(nil); got != "\n" {
		t.Errorf("FormatPaths(nil) = %q, want a single newline", got)
	}
}
