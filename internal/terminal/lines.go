package terminal

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// LinesOptions control PrintLines.
type LinesOptions struct {
	// SeparateLines puts a separator after every line.
	SeparateLines bool
	// SeparateChunk puts a separator before and after the block.
	SeparateChunk bool
	// Separator is the separator glyph. Defaults to "-".
	Separator string
	// MaxSeparatorLength caps the separator width. Defaults to 200.
	MaxSeparatorLength int
}

// PrintLines writes lines to w, indented by one space and framed by
// separators as long as the longest line plus two.
func PrintLines(w io.Writer, lines []string, opts LinesOptions) error {
	if opts.Separator == "" {
		opts.Separator = "-"
	}
	if opts.MaxSeparatorLength <= 0 {
		opts.MaxSeparatorLength = 200
	}
	var longest int
	for _, l := range lines {
		longest = max(longest, utf8.RuneCountInString(l))
	}
	sep := separatorBlock(opts.Separator, min(longest+2, opts.MaxSeparatorLength))

	var sb strings.Builder
	if opts.SeparateChunk {
		sb.WriteString(sep)
	}
	for _, l := range lines {
		fmt.Fprintf(&sb, " %s\n", l)
		if opts.SeparateLines {
			sb.WriteString(sep)
		}
	}
	if opts.SeparateChunk {
		sb.WriteString(sep)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func separatorBlock(glyph string, n int) string {
	return "\n" + strings.Repeat(glyph, max(1, n)) + "\n\n"
}
