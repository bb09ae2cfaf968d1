package hotkey

import (
	"fmt"
	"strings"
)

// Canonical modifier names, in the order they are printed.
const (
	modCtrl  = "ctrl"
	modAlt   = "alt"
	modShift = "shift"
	modSuper = "super"
)

var modifierOrder = []string{modCtrl, modAlt, modShift, modSuper}

var modifierAliases = map[string]string{
	"ctrl":             modCtrl,
	"control":          modCtrl,
	"alt":              modAlt,
	"option":           modAlt,
	"opt":              modAlt,
	"shift":            modShift,
	"super":            modSuper,
	"cmd":              modSuper,
	"command":          modSuper,
	"meta":             modSuper,
	"win":              modSuper,
	"cmdorctrl":        cmdOrCtrl,
	"commandorcontrol": cmdOrCtrl,
}

var keyAliases = map[string]string{
	"return":     "enter",
	"esc":        "escape",
	"del":        "delete",
	"arrowleft":  "left",
	"arrowright": "right",
	"arrowup":    "up",
	"arrowdown":  "down",
}

// Accelerator is a parsed key combination such as Ctrl+Shift+K.
type Accelerator struct {
	Modifiers []string
	Key       string
}

// String returns the canonical lowercase form, e.g. "ctrl+shift+k".
// Two accelerators that bind the same keys have the same String.
func (a Accelerator) String() string {
	parts := append(append([]string(nil), a.Modifiers...), a.Key)
	return strings.Join(parts, "+")
}

// ParseAccelerator parses strings like "Ctrl+Shift+K", "CmdOrCtrl+Space" or
// "Alt+F5". Tokens are case-insensitive and the last one is the key.
func ParseAccelerator(accel string) (Accelerator, error) {
	trimmed := strings.TrimSpace(accel)
	if trimmed == "" {
		return Accelerator{}, fmt.Errorf("%w: empty", ErrInvalidAccelerator)
	}

	parts := strings.Split(strings.ToLower(trimmed), "+")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Accelerator{}, fmt.Errorf("%w: %q", ErrInvalidAccelerator, accel)
		}
	}

	keyStr := parts[len(parts)-1]
	if alias, ok := keyAliases[keyStr]; ok {
		keyStr = alias
	}
	if !keyNames[keyStr] {
		return Accelerator{}, fmt.Errorf("%w: unsupported key %q", ErrInvalidAccelerator, keyStr)
	}

	seen := make(map[string]bool)
	for _, part := range parts[:len(parts)-1] {
		mod, ok := modifierAliases[part]
		if !ok {
			return Accelerator{}, fmt.Errorf("%w: unsupported modifier %q", ErrInvalidAccelerator, part)
		}
		seen[mod] = true
	}

	var mods []string
	for _, mod := range modifierOrder {
		if seen[mod] {
			mods = append(mods, mod)
		}
	}

	return Accelerator{Modifiers: mods, Key: keyStr}, nil
}
