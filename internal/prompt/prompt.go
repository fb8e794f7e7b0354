// Package prompt implements the interactive and non-interactive answers to
// the resolver's disambiguation questions.
package prompt

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/starford/smarttags/internal/resolver"
)

// Modes.
const (
	ModeAuto        = "auto"
	ModeInteractive = "interactive"
	ModeDefaults    = "defaults"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// New returns the chooser for mode. In ModeAuto the user is asked only when
// in is a terminal; otherwise every question takes its default answer.
func New(mode, colorMode string, in, out *os.File) (resolver.Chooser, error) {
	colorize, err := shouldColorize(colorMode, out)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeInteractive:
		return NewTerminal(in, out, colorize), nil
	case ModeDefaults:
		return Auto{}, nil
	case ModeAuto, "":
		if IsTerminal(in) {
			return NewTerminal(in, out, colorize), nil
		}
		return Auto{}, nil
	default:
		return nil, fmt.Errorf("prompt: unknown mode %q", mode)
	}
}

func shouldColorize(mode string, out *os.File) (bool, error) {
	switch mode {
	case ColorAlways:
		return true, nil
	case ColorNever:
		return false, nil
	case ColorAuto, "":
		return IsTerminal(out), nil
	default:
		return false, fmt.Errorf("prompt: unknown color mode %q", mode)
	}
}

// Auto answers every question without user input: the default option of a
// menu, and the default of a confirmation unless DeclineNew is set.
type Auto struct {
	DeclineNew bool
}

// ChooseOne returns defaultIndex.
func (a Auto) ChooseOne(_ string, _ []string, defaultIndex int) (int, error) {
	return defaultIndex, nil
}

// Confirm returns def, or false when DeclineNew is set.
func (a Auto) Confirm(_ string, def bool) (bool, error) {
	if a.DeclineNew {
		return false, nil
	}
	return def, nil
}
