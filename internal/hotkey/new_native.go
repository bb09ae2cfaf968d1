//go:build darwin || windows

package hotkey

import "github.com/rs/zerolog"

// New creates the native hotkey manager (Carbon on macOS, RegisterHotKey on Windows)
func New(log zerolog.Logger) Manager {
	return newSystemManager(log)
}
