package ui

import (
	figure "github.com/common-nighthawk/go-figure"
)

// Banner returns the ASCII-art header for the given title.
func Banner(title string) string {
	if noColor() {
		return figure.NewFigure(title, "small", true).String()
	}
	return figure.NewColorFigure(title, "small", "green", true).ColorString()
}
