package nudge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey is returned when a key description cannot be parsed.
var ErrInvalidKey = errors.New("invalid key description")

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0

	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

func (m Modifier) String() string {
	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// Key names the keys the controller reacts to, as browsers report them.
const (
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyPlus       = "+"
	KeyEquals     = "="
	KeyMinus      = "-"
	KeyZero       = "0"
)

// KeyEvent is one key press.
type KeyEvent struct {
	Key       string
	Modifiers Modifier
}

func (e KeyEvent) String() string {
	if e.Modifiers == ModNone {
		return e.Key
	}
	return e.Modifiers.String() + "+" + e.Key
}

var modifierNames = map[string]Modifier{
	"shift":   ModShift,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"meta":    ModMeta,
	"cmd":     ModMeta,
}

// ParseKeyEvent parses descriptions like "ArrowUp", "Shift+ArrowLeft" or
// "+". A lone "+" is the plus key, not a separator.
func ParseKeyEvent(s string) (KeyEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return KeyEvent{}, ErrInvalidKey
	}
	if s == KeyPlus || !strings.Contains(s, "+") {
		return KeyEvent{Key: s}, nil
	}
	// "Ctrl++" ends with the plus key itself
	var key string
	if strings.HasSuffix(s, "++") {
		key = KeyPlus
		s = strings.TrimSuffix(s, "++")
	} else {
		i := strings.LastIndex(s, "+")
		key = s[i+1:]
		s = s[:i]
	}
	if key == "" {
		return KeyEvent{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	mods, err := ParseModifiers(strings.ReplaceAll(s, "+", ","))
	if err != nil {
		return KeyEvent{}, err
	}
	return KeyEvent{Key: key, Modifiers: mods}, nil
}

// ParseModifiers parses a comma separated modifier list such as "shift,ctrl".
func ParseModifiers(s string) (Modifier, error) {
	var m Modifier
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		mod, ok := modifierNames[part]
		if !ok {
			return ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKey, part)
		}
		m |= mod
	}
	return m, nil
}
