// Package prompt provides line-based console input, including no-echo entry
// for passwords.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads user responses from a single buffered reader so no typed
// input is lost between prompts.
type Prompter struct {
	in *bufio.Reader
}

// New returns a Prompter reading from in (normally os.Stdin).
func New(in io.Reader) *Prompter {
	return &Prompter{in: bufio.NewReader(in)}
}

// Line prints label and returns the next input line without its trailing
// newline. Leading and trailing spaces are preserved; callers decide how to
// normalize.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Print(label)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Secret prints label and reads a password. When stdin is a terminal the
// input is read with echo suppressed; otherwise (piped input, tests) it
// falls back to a plain line read.
func (p *Prompter) Secret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Print(label)
		b, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return p.Line(label)
}

// Confirm prints label and reports whether the user answered "y" (case
// insensitive, surrounding spaces ignored). Any other answer counts as no.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label)
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(answer)) == "y", nil
}
