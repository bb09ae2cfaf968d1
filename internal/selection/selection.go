package selection

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/petems/askbar/internal/state"
	"github.com/petems/askbar/internal/window"
	"github.com/rs/zerolog"
)

// Opener shows a window with content.
type Opener interface {
	Open(id window.ID, content string) (window.Handle, error)
}

// Reader returns the currently selected text.
type Reader func() (string, error)

// ClipboardReader reads the X11 primary selection on Linux and the clipboard
// elsewhere.
func ClipboardReader() Reader {
	usePrimarySelection()
	return clipboard.ReadAll
}

// Listener opens the selection window when the user selects new text while
// the shared selection flag is on.
type Listener struct {
	state    *state.Shared
	windows  Opener
	read     Reader
	interval time.Duration
	log      zerolog.Logger
	retime   chan time.Duration

	last   string
	primed bool
}

func New(shared *state.Shared, windows Opener, read Reader, interval time.Duration, log zerolog.Logger) *Listener {
	return &Listener{
		state:    shared,
		windows:  windows,
		read:     read,
		interval: interval,
		log:      log,
		retime:   make(chan time.Duration, 1),
	}
}

// SetInterval changes the poll interval of a running listener. Only the
// latest value is kept if Run has not picked up the previous one yet.
func (l *Listener) SetInterval(d time.Duration) {
	for {
		select {
		case l.retime <- d:
			return
		default:
		}
		select {
		case <-l.retime:
		default:
		}
	}
}

// Run polls until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.poll()
		case d := <-l.retime:
			if d > 0 && d != l.interval {
				l.interval = d
				ticker.Reset(d)
				l.log.Debug().Dur("interval", d).Msg("Selection poll interval changed")
			}
		}
	}
}

func (l *Listener) poll() {
	if !l.state.SelectEnabled() {
		// Forget the last selection so re-enabling does not replay it.
		l.last = ""
		l.primed = false
		return
	}

	text, err := l.read()
	if err != nil {
		l.log.Debug().Err(err).Msg("Selection read failed")
		return
	}

	text = strings.TrimSpace(text)
	if !l.primed {
		// First read after enabling only records what is already selected.
		l.last = text
		l.primed = true
		return
	}
	if text == "" || text == l.last {
		return
	}
	l.last = text

	if _, err := l.windows.Open(window.Select, text); err != nil {
		l.log.Error().Err(err).Msg("Failed to open selection window")
		return
	}
	l.log.Debug().Int("chars", len(text)).Msg("Selection window opened")
}
