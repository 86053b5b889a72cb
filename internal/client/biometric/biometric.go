// Package biometric asks the device owner to confirm their presence before
// cached credentials are replayed.
package biometric

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

type Result int

const (
	Unavailable Result = iota
	Granted
	Denied
)

func (r Result) String() string {
	switch r {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	}
	return "unavailable"
}

type Prompt interface {
	Evaluate(ctx context.Context, reason string) (Result, error)
}

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// TerminalPrompt stands in for a biometric sensor on a terminal: the owner
// confirms with "y". It is unavailable when fd is not a terminal.
type TerminalPrompt struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func NewTerminalPrompt(in *bufio.Reader, out io.Writer, fd int) *TerminalPrompt {
	return &TerminalPrompt{in: in, out: out, fd: fd}
}

func (p *TerminalPrompt) Evaluate(ctx context.Context, reason string) (Result, error) {
	if !isTerminal(p.fd) {
		return Unavailable, nil
	}
	if err := ctx.Err(); err != nil {
		return Unavailable, err
	}

	if _, err := fmt.Fprintf(p.out, "%s\nConfirm you are the device owner [y/N]: ", reason); err != nil {
		return Unavailable, err
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return Unavailable, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return Granted, nil
	}
	return Denied, nil
}
