package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorBold  = "\033[1m"
	colorReset = "\033[0m"
)

// colorEnabled reports whether out is a terminal that accepts colors.
func colorEnabled(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (a *app) paint(s string) string {
	if !a.color {
		return s
	}
	return colorBold + s + colorReset
}
