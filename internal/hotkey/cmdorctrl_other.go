//go:build !darwin

package hotkey

const cmdOrCtrl = modCtrl
