//go:build windows

package hotkey

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	modCtrl:  hotkey.ModCtrl,
	modAlt:   hotkey.ModAlt,
	modShift: hotkey.ModShift,
	modSuper: hotkey.ModWin,
}
