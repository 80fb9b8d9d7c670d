// Package input maps keyboard presses onto playback control roles.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeyConflict is returned when one key is bound to more than one role.
var ErrKeyConflict = errors.New("input: key bound to more than one role")

// Role is a playback control.
type Role int

const (
	// Pause freezes playback on the current frame.
	Pause Role = iota
	// Resume continues paused playback.
	Resume
	// Rewind steps back five frames.
	Rewind
	// FastForward steps forward five frames.
	FastForward
	// Clear wipes the whole screen.
	Clear
	// Stop ends playback.
	Stop

	numRoles
)

// Roles returns every role in the order controls are applied.
func Roles() []Role {
	return []Role{Pause, Resume, Rewind, FastForward, Clear, Stop}
}

// String returns the label shown in the controls legend.
func (r Role) String() string {
	switch r {
	case Pause:
		return "Pause"
	case Resume:
		return "Resume"
	case Rewind:
		return "Rewind"
	case FastForward:
		return "Fast forward"
	case Clear:
		return "Clear artifacts"
	case Stop:
		return "Stop"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// KeyEscape is the byte sent by a lone Esc press.
const KeyEscape byte = 0x1b

// keyInterrupt is the byte sent by Ctrl-C in raw mode.
const keyInterrupt byte = 0x03

// KeyState reports control presses without blocking.
type KeyState interface {
	// IsControlActive reports whether the key bound to role has been
	// pressed since the previous query for the same role.
	IsControlActive(role Role) bool
}

// Keymap binds roles to keys. The first key of a role is the one shown in
// the legend.
type Keymap map[Role][]byte

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() Keymap {
	return Keymap{
		Pause:       {'q'},
		Resume:      {'w'},
		Rewind:      {'e'},
		FastForward: {'r'},
		Clear:       {'t'},
		Stop:        {'y', KeyEscape},
	}
}

// Validate checks that no key is bound to two roles.
func (k Keymap) Validate() error {
	seen := make(map[byte]Role)
	for _, role := range Roles() {
		for _, key := range k[role] {
			if prev, ok := seen[key]; ok {
				return fmt.Errorf("%w: %s used by %s and %s", ErrKeyConflict, keyName(key), prev, role)
			}
			seen[key] = role
		}
	}
	return nil
}

// Lookup returns the role bound to key.
func (k Keymap) Lookup(key byte) (Role, bool) {
	for _, role := range Roles() {
		for _, b := range k[role] {
			if b == key {
				return role, true
			}
		}
	}
	return 0, false
}

// Legend returns the controls line drawn under each playing frame.
func (k Keymap) Legend() string {
	return k.line("CONTROLS:", Pause, Rewind, FastForward, Clear, Stop)
}

// PausedBanner returns the line drawn in place of the legend while paused.
func (k Keymap) PausedBanner() string {
	return k.line("PAUSED:", Resume, Clear, Stop)
}

func (k Keymap) line(title string, roles ...Role) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(" |")
	for _, role := range roles {
		keys := k[role]
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&sb, " %s - %s |", keyName(keys[0]), role)
	}
	return sb.String()
}

func keyName(b byte) string {
	switch {
	case b == KeyEscape:
		return "esc"
	case b == ' ':
		return "space"
	case b < 0x20 || b == 0x7f:
		return fmt.Sprintf("0x%02x", b)
	default:
		return string(rune(b))
	}
}
