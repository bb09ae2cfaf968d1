//go:build linux

package hotkey

import (
	"time"

	"github.com/rs/zerolog"
)

const x11PollInterval = 10 * time.Millisecond

// New grabs keys through X11 when a display is reachable. Pure Wayland
// sessions and headless machines get the headless backend.
func New(log zerolog.Logger) Manager {
	conn, err := openX11()
	if err != nil {
		log.Warn().Err(err).Msg("Global hotkeys disabled")
		return newHeadlessManager(log)
	}
	return newX11Manager(log, conn, x11PollInterval)
}
