//go:build linux

package hotkey

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// X11 modifier masks from X.h.
const (
	xShiftMask   uint = 1 << 0
	xControlMask uint = 1 << 2
	xMod1Mask    uint = 1 << 3
	xMod4Mask    uint = 1 << 6
)

var x11Modifiers = map[string]uint{
	modCtrl:  xControlMask,
	modAlt:   xMod1Mask,
	modShift: xShiftMask,
	modSuper: xMod4Mask,
}

var x11Keysyms = map[string]string{
	"space":  "space",
	"enter":  "Return",
	"escape": "Escape",
	"delete": "Delete",
	"tab":    "Tab",
	"left":   "Left",
	"right":  "Right",
	"up":     "Up",
	"down":   "Down",
}

func keysymFor(key string) string {
	if sym, ok := x11Keysyms[key]; ok {
		return sym
	}
	if len(key) > 1 && key[0] == 'f' {
		return "F" + key[1:]
	}
	return key
}

// xConn is the subset of the X server connection the manager needs.
type xConn interface {
	Keycode(keysym string) (int, error)
	Grab(keycode int, mods uint) error
	Ungrab(keycode int, mods uint)
	NextKeyPress() (keycode int, mods uint, ok bool)
	Close() error
}

type x11Combo struct {
	keycode int
	mods    uint
}

type x11Binding struct {
	accel    Accelerator
	combo    x11Combo
	callback func()
}

// x11Manager grabs keys on the X root window and polls for key presses.
type x11Manager struct {
	log zerolog.Logger

	mu       sync.Mutex
	conn     xConn
	bindings map[string]*x11Binding
	combos   map[x11Combo]*x11Binding
	closed   bool

	stop chan struct{}
	done chan struct{}
}

func newX11Manager(log zerolog.Logger, conn xConn, poll time.Duration) *x11Manager {
	m := &x11Manager{
		log:      log,
		conn:     conn,
		bindings: make(map[string]*x11Binding),
		combos:   make(map[x11Combo]*x11Binding),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go m.eventLoop(poll)
	return m
}

func (m *x11Manager) Register(accel string, callback func()) error {
	parsed, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}
	name := parsed.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("register %s: manager closed", name)
	}
	if _, ok := m.bindings[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	keycode, err := m.conn.Keycode(keysymFor(parsed.Key))
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	var mods uint
	for _, mod := range parsed.Modifiers {
		mods |= x11Modifiers[mod]
	}
	combo := x11Combo{keycode: keycode, mods: mods}

	if err := m.conn.Grab(keycode, mods); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	b := &x11Binding{accel: parsed, combo: combo, callback: callback}
	m.bindings[name] = b
	m.combos[combo] = b

	m.log.Debug().Str("accel", name).Int("keycode", keycode).Msg("Hotkey grabbed")
	return nil
}

// UnregisterAll releases every grab held by this manager.
func (m *x11Manager) UnregisterAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseAllLocked()
	return nil
}

func (m *x11Manager) releaseAllLocked() {
	for name, b := range m.bindings {
		m.conn.Ungrab(b.combo.keycode, b.combo.mods)
		m.log.Debug().Str("accel", name).Msg("Hotkey released")
	}
	m.bindings = make(map[string]*x11Binding)
	m.combos = make(map[x11Combo]*x11Binding)
}

func (m *x11Manager) eventLoop(poll time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			for _, cb := range m.pending() {
				cb()
			}
		}
	}
}

// pending drains queued key presses and returns the callbacks to run.
// Callbacks run after the lock is released so they may call Register.
func (m *x11Manager) pending() []func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	var out []func()
	for {
		keycode, mods, ok := m.conn.NextKeyPress()
		if !ok {
			return out
		}
		if b, found := m.combos[x11Combo{keycode: keycode, mods: mods}]; found {
			out = append(out, b.callback)
		}
	}
}

func (m *x11Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.releaseAllLocked()
	close(m.stop)
	m.mu.Unlock()

	<-m.done
	return m.conn.Close()
}
