package input

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when raw mode is requested on a file that is
// not a terminal.
var ErrNotTerminal = errors.New("input: not a terminal")

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// MakeRaw puts the terminal f into raw mode so single key presses can be
// read without echo. The returned function restores the previous state.
func MakeRaw(f *os.File) (restore func() error, err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("input: make raw: %w", err)
	}
	return func() error {
		return term.Restore(fd, state)
	}, nil
}

// Size returns the width and height of the terminal f.
func Size(f *os.File) (width, height int, err error) {
	width, height, err = term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("input: terminal size: %w", err)
	}
	return width, height, nil
}
