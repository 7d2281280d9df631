package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultAttempts bounds every interactive question.
const DefaultAttempts = 5

var (
	// ErrNoInput is returned when the input stream is closed or the session
	// is not interactive.
	ErrNoInput = errors.New("no input available")
	// ErrAttemptsExhausted is returned when every attempt produced an invalid answer.
	ErrAttemptsExhausted = errors.New("no valid answer after repeated attempts")
)

// Acquire asks up to attempts times until validate accepts an answer.
// ask performs the prompt side effect and returns the raw answer; onInvalid,
// when non-nil, is called with every rejected answer.
func Acquire[T any](attempts int, ask func() (string, error), validate func(string) (T, bool), onInvalid func(string)) (T, error) {
	var zero T
	for i := 0; i < attempts; i++ {
		answer, err := ask()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return zero, ErrNoInput
			}
			return zero, err
		}
		if v, ok := validate(answer); ok {
			return v, nil
		}
		if onInvalid != nil {
			onInvalid(answer)
		}
	}
	return zero, ErrAttemptsExhausted
}

// ParseBool accepts the usual yes/no vocabulary: y, yes, t, true, on, 1 and
// n, no, f, false, off, 0 (case-insensitive).
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "t", "true", "on", "1":
		return true, nil
	case "n", "no", "f", "false", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid truth value %q", s)
}

// Prompter asks the user questions on a line-oriented stream.
type Prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
	attempts    int
}

// NewPrompter creates an interactive prompter over the given streams.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: true,
		attempts:    DefaultAttempts,
	}
}

// NewTerminalPrompter prompts on stdin/stdout. It only asks questions when
// stdin is a terminal and nonInteractive is false; assumeYes answers every
// confirmation positively without asking.
func NewTerminalPrompter(assumeYes, nonInteractive bool) *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	p.interactive = !nonInteractive && term.IsTerminal(int(os.Stdin.Fd()))
	p.assumeYes = assumeYes
	return p
}

func (p *Prompter) ask(message string) func() (string, error) {
	return func() (string, error) {
		if !p.interactive {
			return "", ErrNoInput
		}
		fmt.Fprint(p.out, message)
		line, err := p.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

// Confirm asks a yes/no question. Exhausted attempts, closed input and
// non-interactive sessions all count as "no".
func (p *Prompter) Confirm(message string) bool {
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s [Y/N]\nY (assumed)\n", message)
		return true
	}
	answer, err := Acquire(p.attempts, p.ask(message+" [Y/N]\n"),
		func(s string) (bool, bool) {
			v, err := ParseBool(s)
			return v, err == nil
		},
		func(string) {
			fmt.Fprintln(p.out, "ERROR! Please enter a valid option! Please use any of the following: Y, N, True, False, 1, 0")
		})
	if err != nil {
		return false
	}
	return answer
}

// AskPath asks for a filesystem path until valid accepts one.
func (p *Prompter) AskPath(message string, valid func(string) bool) (string, error) {
	return Acquire(p.attempts, p.ask(message+"\n"),
		func(s string) (string, bool) {
			s = strings.TrimSpace(s)
			return s, s != "" && valid(s)
		}, nil)
}
