// Package terminal draws ASCII frames with cursor-relative redraw.
//
// Drawing goes through a Screen, which exposes only the terminal control
// operations playback needs, so renderers can be exercised without a real
// terminal.
package terminal

import (
	"bufio"
	"io"
	"strconv"
)

// ANSI control sequences.
const (
	// ClearSequence clears the whole screen and homes the cursor.
	ClearSequence = "\x1b[2J\x1b[H"
	// EraseLineSequence clears from the cursor to the end of the line.
	EraseLineSequence = "\x1b[K"
)

// CursorUp returns the ANSI sequence moving the cursor up n lines.
func CursorUp(n int) string {
	return "\x1b[" + strconv.Itoa(n) + "A"
}

// Screen is the terminal control capability used by the renderer.
type Screen interface {
	io.Writer
	// Clear clears the whole screen and moves the cursor to the top left.
	Clear() error
	// MoveCursorUp moves the cursor up n lines. n <= 0 is a no-op.
	MoveCursorUp(n int) error
	// EraseLine clears from the cursor to the end of the current line.
	EraseLine() error
	// Flush writes any buffered output.
	Flush() error
}

// ANSI is a Screen writing ANSI escape sequences to a buffered writer.
type ANSI struct {
	w *bufio.Writer
}

// NewANSI returns an ANSI screen writing to w. Output is buffered until
// Flush so a whole frame reaches the terminal in one write.
func NewANSI(w io.Writer) *ANSI {
	return &ANSI{w: bufio.NewWriterSize(w, 64<<10)}
}

func (s *ANSI) Write(p []byte) (int, error) { return s.w.Write(p) }

func (s *ANSI) Clear() error {
	_, err := s.w.WriteString(ClearSequence)
	return err
}

func (s *ANSI) MoveCursorUp(n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.w.WriteString(CursorUp(n))
	return err
}

func (s *ANSI) EraseLine() error {
	_, err := s.w.WriteString(EraseLineSequence)
	return err
}

func (s *ANSI) Flush() error { return s.w.Flush() }
