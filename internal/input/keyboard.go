package input

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// Compile-time check that Keyboard implements KeyState.
var _ KeyState = (*Keyboard)(nil)

// Keyboard is a KeyState fed by a byte stream, normally a terminal in raw
// mode. A background goroutine reads the stream and latches each press
// until the role is queried.
type Keyboard struct {
	r           io.Reader
	keymap      Keymap
	logger      *slog.Logger
	onInterrupt func()

	latches [numRoles]atomic.Bool
	done    chan struct{}
	started atomic.Bool
}

// KeyboardOption configures a Keyboard.
type KeyboardOption func(*Keyboard)

// WithLogger sets the logger used for read errors.
func WithLogger(logger *slog.Logger) KeyboardOption {
	return func(k *Keyboard) {
		k.logger = logger
	}
}

// WithInterrupt sets the function called when Ctrl-C is read. In raw mode
// the terminal does not turn Ctrl-C into a signal.
func WithInterrupt(fn func()) KeyboardOption {
	return func(k *Keyboard) {
		k.onInterrupt = fn
	}
}

// NewKeyboard returns a Keyboard reading r with keymap.
// Reading starts with Start.
func NewKeyboard(r io.Reader, keymap Keymap, opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		r:      r,
		keymap: keymap,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.logger == nil {
		k.logger = slog.Default()
	}
	return k
}

// Start launches the reader goroutine. It returns immediately; calling it
// more than once has no effect. The goroutine ends when the stream returns
// an error or EOF.
func (k *Keyboard) Start() {
	if !k.started.CompareAndSwap(false, true) {
		return
	}
	go k.readLoop()
}

// Done is closed once the reader goroutine has ended.
func (k *Keyboard) Done() <-chan struct{} {
	return k.done
}

// IsControlActive reports and resets the latch for role.
func (k *Keyboard) IsControlActive(role Role) bool {
	if role < 0 || role >= numRoles {
		return false
	}
	return k.latches[role].Swap(false)
}

func (k *Keyboard) readLoop() {
	defer close(k.done)
	buf := make([]byte, 64)
	for {
		n, err := k.r.Read(buf)
		if n > 0 {
			k.feed(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				k.logger.Warn("keyboard read failed", slog.String("error", err.Error()))
			}
			return
		}
	}
}

// feed latches the roles of the keys in one read. Escape sequences, such
// as those sent by arrow keys, are skipped; an Esc byte that ends the read
// is a lone Esc press.
func (k *Keyboard) feed(p []byte) {
	for i := 0; i < len(p); i++ {
		b := p[i]
		switch {
		case b == keyInterrupt:
			if k.onInterrupt != nil {
				k.onInterrupt()
			}
			continue
		case b == KeyEscape && i+1 < len(p):
			i = skipEscape(p, i)
			continue
		}
		if role, ok := k.keymap.Lookup(b); ok {
			k.latches[role].Store(true)
		}
	}
}

// skipEscape returns the index of the last byte of the escape sequence
// starting at p[start].
func skipEscape(p []byte, start int) int {
	i := start + 1
	switch p[i] {
	case '[':
		// CSI: parameters then a final byte in 0x40-0x7e.
		for i++; i < len(p); i++ {
			if p[i] >= 0x40 && p[i] <= 0x7e {
				return i
			}
		}
		return len(p) - 1
	case 'O':
		// SS3: one final byte.
		return min(i+1, len(p)-1)
	default:
		// Alt+key.
		return i
	}
}
