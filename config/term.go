package config

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type TerminalIO struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

var DefaultTermIO = TerminalIO{
	Stdin:  os.Stdin,
	Stdout: os.Stdout,
	Stderr: os.Stderr,
}

func (t *TerminalIO) Printf(msg string, args ...interface{}) {
	fmt.Fprintf(t.Stdout, msg, args...)
}

// Interactive reports whether stdout is a terminal. Non-interactive output
// (a pipe, a file) is left unadorned so it can be consumed by other tools.
func (t *TerminalIO) Interactive() bool {
	f, ok := t.Stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// StdinPiped reports whether stdin has piped data rather than a terminal.
func (t *TerminalIO) StdinPiped() bool {
	f, ok := t.Stdin.(*os.File)
	if !ok {
		return t.Stdin != nil
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
