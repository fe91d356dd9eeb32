package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isTTY(os.Stdout)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ProfileFor picks the colour profile for output written to w.
// NO_COLOR and non-terminal writers get plain ASCII.
func ProfileFor(w io.Writer, noColor bool) termenv.Profile {
	if noColor || !isTTY(w) {
		return termenv.Ascii
	}
	return termenv.NewOutput(w).EnvColorProfile()
}

// SetupColor configures lipgloss for stdout. Call once at startup.
func SetupColor(noColor bool) {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		noColor = true
	}
	lipgloss.SetColorProfile(ProfileFor(os.Stdout, noColor))
}
