// Package prompt asks the user questions on the terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxAttempts bounds how many invalid answers a yes/no question accepts.
const MaxAttempts = 5

// ErrTooManyInvalidPrompts is returned after MaxAttempts unreadable answers.
var ErrTooManyInvalidPrompts = errors.New("too many invalid answers")

// Prompter reads answers from in and writes questions to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a Prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Stdio creates a Prompter on the process terminal.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout)
}

// YesNo asks a yes/no question. An empty answer (or end of input) picks def.
func (p *Prompter) YesNo(question string, def bool) (bool, error) {
	hint := "(y/N)"
	if def {
		hint = "(Y/n)"
	}
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		answer, err := p.ask(question + " " + hint + " ")
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
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
	return false, fmt.Errorf("%w: %q", ErrTooManyInvalidPrompts, question)
}

// Confirm asks a y/N question. Only "y" or "Y" confirms; any other answer declines.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.ask(question + " (y/N) ")
	if err != nil {
		return false, err
	}
	return answer == "y" || answer == "Y", nil
}

// Line asks for a free-form answer, trimmed of surrounding space.
func (p *Prompter) Line(question string) (string, error) {
	return p.ask(question + " ")
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}
