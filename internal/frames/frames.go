// Package frames loads pre-rendered ASCII videos.
//
// A video container is a record {fps, resolution, frames} where frames maps
// a frame index, stored as text, to the rows of that frame. Containers are
// accepted in JSON and in Python pickle encodings. Loading normalises the
// frame keys to integers in ascending numeric order, so "10" sorts after "2".
package frames

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Static errors for container loading.
var (
	// ErrFormat is returned when a container cannot be parsed into a record.
	ErrFormat = errors.New("invalid container format")
	// ErrMissingField is returned when a required record field is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrEmptyCollection is returned when a container holds no frames.
	ErrEmptyCollection = errors.New("container has no frames")
	// ErrUnsupportedExtension is returned for files that are neither
	// .json nor .pkl containers.
	ErrUnsupportedExtension = errors.New("unsupported file type - only .json and .pkl supported")
)

// Frame is one rendered ASCII text grid. Frames are immutable once loaded.
type Frame []string

// Width returns the width of the widest row in runes.
func (f Frame) Width() int {
	var w int
	for _, row := range f {
		w = max(w, utf8.RuneCountInString(row))
	}
	return w
}

// String returns the rows of f joined by newlines.
func (f Frame) String() string {
	return strings.Join(f, "\n")
}

// Fit returns f shaped to exactly rows rows of cols runes each.
// Extra rows are dropped and missing rows are blank; each row is
// truncated or right-padded with spaces. f is returned unchanged when
// it already has the requested shape.
func (f Frame) Fit(rows, cols int) Frame {
	if f.hasShape(rows, cols) {
		return f
	}
	out := make(Frame, rows)
	for i := range out {
		var row string
		if i < len(f) {
			row = f[i]
		}
		n := utf8.RuneCountInString(row)
		switch {
		case n > cols:
			row = string([]rune(row)[:cols])
		case n < cols:
			row += strings.Repeat(" ", cols-n)
		}
		out[i] = row
	}
	return out
}

func (f Frame) hasShape(rows, cols int) bool {
	if len(f) != rows {
		return false
	}
	for _, row := range f {
		if utf8.RuneCountInString(row) != cols {
			return false
		}
	}
	return true
}

// Collection is the ordered set of frames of one video.
//
// Frames are addressed by position, 0 through Len()-1, in ascending order
// of their numeric keys. The shape of the collection is taken from its first
// frame; later frames of another shape are fitted at render time.
type Collection struct {
	// FPS is the frame rate stored in the container.
	FPS float64
	// Resolution is the scale factor used by the converter. It is zero
	// when the container does not record it and is informational only.
	Resolution float64

	keys   []int
	frames []Frame
	rows   int
	cols   int
}

// NewCollection returns a collection holding frames ordered by key.
func NewCollection(fps float64, frames map[int]Frame) (*Collection, error) {
	if len(frames) == 0 {
		return nil, ErrEmptyCollection
	}
	if !(fps > 0) {
		return nil, fmt.Errorf("%w: fps must be positive, got %v", ErrFormat, fps)
	}
	c := &Collection{
		FPS:    fps,
		keys:   make([]int, 0, len(frames)),
		frames: make([]Frame, 0, len(frames)),
	}
	for k := range frames {
		if k < 0 {
			return nil, fmt.Errorf("%w: negative frame index %d", ErrFormat, k)
		}
		c.keys = append(c.keys, k)
	}
	slices.Sort(c.keys)
	for _, k := range c.keys {
		c.frames = append(c.frames, frames[k])
	}
	first := c.frames[0]
	c.rows = len(first)
	c.cols = first.Width()
	return c, nil
}

// Len returns the number of frames.
func (c *Collection) Len() int { return len(c.frames) }

// Has reports whether pos addresses a frame.
func (c *Collection) Has(pos int) bool { return pos >= 0 && pos < len(c.frames) }

// Frame returns the frame at pos. It panics if pos is out of range.
func (c *Collection) Frame(pos int) Frame { return c.frames[pos] }

// Key returns the container key of the frame at pos.
// It panics if pos is out of range.
func (c *Collection) Key(pos int) int { return c.keys[pos] }

// Keys returns the container keys in playback order.
func (c *Collection) Keys() []int { return slices.Clone(c.keys) }

// Rows returns the row count of the first frame.
func (c *Collection) Rows() int { return c.rows }

// Cols returns the width in runes of the first frame.
func (c *Collection) Cols() int { return c.cols }
