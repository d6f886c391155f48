package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Stdout and Stderr are where OK/Fail and Panel write.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// SetColorForcing overrides terminal detection. disable wins over force.
func SetColorForcing(force, disable bool) {
	switch {
	case disable:
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

func OK(msg string) {
	fmt.Fprintln(Stdout, current.Success.Render(current.SymDone+" "+msg))
}

func Fail(msg string) {
	fmt.Fprintln(Stderr, current.Error.Render("✖ "+msg))
}

func Hint(msg string) {
	fmt.Fprintln(Stderr, current.Muted.Render(msg))
}
