package terminal

import (
	"io"
	"strings"

	"github.com/maauso/asciiplay/internal/frames"
)

// newline ends every drawn line. The carriage return keeps output aligned
// when the terminal is in raw mode.
const newline = "\r\n"

// Renderer draws frames of a fixed shape and the controls line below them.
type Renderer struct {
	screen Screen
	rows   int
	cols   int
}

// NewRenderer returns a Renderer drawing rows x cols frames on screen.
// Frames of another shape are fitted with frames.Frame.Fit.
func NewRenderer(screen Screen, rows, cols int) *Renderer {
	return &Renderer{screen: screen, rows: rows, cols: cols}
}

// Lines returns the number of lines occupied by a frame and its controls.
func (r *Renderer) Lines() int {
	return r.rows + 2
}

// Render writes all rows of f, one per line.
func (r *Renderer) Render(f frames.Frame) error {
	var sb strings.Builder
	for _, row := range f.Fit(r.rows, r.cols) {
		sb.WriteString(row)
		sb.WriteString(newline)
	}
	_, err := io.WriteString(r.screen, sb.String())
	return err
}

// RenderControls writes a separator line followed by legend.
func (r *Renderer) RenderControls(legend string) error {
	_, err := io.WriteString(r.screen, r.separator()+newline+legend+newline)
	return err
}

// RenderPaused replaces the controls line with banner.
func (r *Renderer) RenderPaused(banner string) error {
	if err := r.screen.MoveCursorUp(1); err != nil {
		return err
	}
	if err := r.screen.EraseLine(); err != nil {
		return err
	}
	_, err := io.WriteString(r.screen, banner+newline)
	return err
}

// EraseLast clears the n lines above the cursor, leaving the cursor at
// the first of them.
func (r *Renderer) EraseLast(n int) error {
	for i := 0; i < n; i++ {
		if err := r.screen.MoveCursorUp(1); err != nil {
			return err
		}
		if err := r.screen.EraseLine(); err != nil {
			return err
		}
	}
	return nil
}

// FullClear clears the whole screen.
func (r *Renderer) FullClear() error {
	return r.screen.Clear()
}

// Message writes text on its own line.
func (r *Renderer) Message(text string) error {
	_, err := io.WriteString(r.screen, text+newline)
	return err
}

// Flush sends buffered output to the terminal.
func (r *Renderer) Flush() error {
	return r.screen.Flush()
}

func (r *Renderer) separator() string {
	return strings.Repeat("-", max(r.cols, 1))
}
