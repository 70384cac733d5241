package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how results are presented on the terminal.
type OutputMode int

const (
	// OutputModePlain writes unstyled text.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text without interaction.
	OutputModeStyled
	// OutputModeInteractive runs the bubbletea list.
	OutputModeInteractive
)

// String returns the mode name.
func (m OutputMode) String() string {
	switch m {
	case OutputModeInteractive:
		return "interactive"
	case OutputModeStyled:
		return "styled"
	default:
		return "plain"
	}
}

// DetectOutputMode inspects stdout and the environment. plain and noColor
// force OutputModePlain; forceColor yields OutputModeStyled when stdout is not a
// terminal.
func DetectOutputMode(forceColor, noColor, plain bool) OutputMode {
	return detectOutputMode(term.IsTerminal(int(os.Stdout.Fd())), os.LookupEnv, forceColor, noColor, plain)
}

func detectOutputMode(
	isTTY bool,
	lookup func(string) (string, bool),
	forceColor, noColor, plain bool,
) OutputMode {
	if plain || noColor {
		return OutputModePlain
	}
	if _, ok := lookup("NO_COLOR"); ok {
		return OutputModePlain
	}
	if v, ok := lookup("FORCE_COLOR"); ok && v != "" && v != "0" {
		forceColor = true
	}
	if !isTTY {
		if forceColor {
			return OutputModeStyled
		}
		return OutputModePlain
	}
	if v, _ := lookup("TERM"); v == "dumb" {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
