//go:build darwin

package hotkey

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	modCtrl:  hotkey.ModCtrl,
	modAlt:   hotkey.ModOption,
	modShift: hotkey.ModShift,
	modSuper: hotkey.ModCmd,
}
