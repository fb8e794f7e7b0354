package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// ErrNoAnswer is returned when input ends before a question is answered.
var ErrNoAnswer = errors.New("prompt: input closed before an answer was given")

// Terminal asks questions on out and reads answers line by line from in.
// Invalid answers are rejected and the question is repeated.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer

	question *color.Color
	option   *color.Color
	chosen   *color.Color
	hint     *color.Color
}

// NewTerminal creates a Terminal. colorize enables ANSI colours.
func NewTerminal(in io.Reader, out io.Writer, colorize bool) *Terminal {
	t := &Terminal{
		in:       bufio.NewReader(in),
		out:      out,
		question: color.New(color.FgCyan, color.Bold),
		option:   color.New(color.Reset),
		chosen:   color.New(color.FgGreen),
		hint:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{t.question, t.option, t.chosen, t.hint} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return t
}

// ChooseOne prints a numbered menu and returns the 0-based index picked.
// An empty answer selects defaultIndex.
func (t *Terminal) ChooseOne(prompt string, options []string, defaultIndex int) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("prompt: no options for %q", prompt)
	}
	fmt.Fprintln(t.out, t.question.Sprint("? "+prompt))
	for i, o := range options {
		if i == defaultIndex {
			fmt.Fprintln(t.out, t.chosen.Sprintf("> %d) %s", i+1, o))
			continue
		}
		fmt.Fprintln(t.out, t.option.Sprintf("  %d) %s", i+1, o))
	}

	for {
		fmt.Fprint(t.out, t.hint.Sprintf("Select 1-%d [%d]: ", len(options), defaultIndex+1))
		answer, err := t.readLine()
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return defaultIndex, nil
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintf(t.out, "Please enter a number between 1 and %d.\n", len(options))
	}
}

// Confirm asks a yes/no question. An empty answer selects def.
func (t *Terminal) Confirm(prompt string, def bool) (bool, error) {
	choices := "y/N"
	if def {
		choices = "Y/n"
	}
	for {
		fmt.Fprint(t.out, t.question.Sprint("? "+prompt)+" "+t.hint.Sprintf("[%s] ", choices))
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoAnswer
		}
		return "", fmt.Errorf("prompt: read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
