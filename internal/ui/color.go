package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const (
	symCheck = "✔"
	symCross = "✖"
)

// SetColorForcing overrides terminal detection: force keeps colour on when
// output is not a terminal, disable turns it off. disable wins.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Success.Render(symCheck+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, current.Error.Render(symCross+" "+msg))
}
