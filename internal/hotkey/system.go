//go:build darwin || windows

package hotkey

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.design/x/hotkey"
)

// grab is the part of *hotkey.Hotkey the manager uses.
type grab interface {
	Register() error
	Unregister() error
	Keydown() <-chan hotkey.Event
}

type binding struct {
	accel Accelerator
	grab  grab
	stop  chan struct{}
}

// systemManager binds OS-level hotkeys through golang.design/x/hotkey.
type systemManager struct {
	log     zerolog.Logger
	newGrab func(mods []hotkey.Modifier, key hotkey.Key) grab

	mu       sync.Mutex
	bindings map[string]*binding
}

func newSystemManager(log zerolog.Logger) *systemManager {
	return &systemManager{
		log: log,
		newGrab: func(mods []hotkey.Modifier, key hotkey.Key) grab {
			return hotkey.New(mods, key)
		},
		bindings: make(map[string]*binding),
	}
}

func (m *systemManager) Register(accel string, callback func()) error {
	parsed, err := ParseAccelerator(accel)
	if err != nil {
		return err
	}
	name := parsed.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bindings[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}

	mods := make([]hotkey.Modifier, 0, len(parsed.Modifiers))
	for _, mod := range parsed.Modifiers {
		mods = append(mods, modifierMap[mod])
	}

	g := m.newGrab(mods, nativeKeys[parsed.Key])
	if err := g.Register(); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	b := &binding{accel: parsed, grab: g, stop: make(chan struct{})}
	m.bindings[name] = b
	go m.dispatch(b, callback)

	m.log.Debug().Str("accel", name).Msg("Hotkey registered")
	return nil
}

func (m *systemManager) dispatch(b *binding, callback func()) {
	keydown := b.grab.Keydown()
	for {
		select {
		case <-b.stop:
			return
		case _, ok := <-keydown:
			if !ok {
				return
			}
			callback()
		}
	}
}

// UnregisterAll releases every binding. All bindings are dropped from the
// manager even if the OS refuses to release one; the first error is returned.
func (m *systemManager) UnregisterAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var first error
	for _, b := range m.bindings {
		if err := m.releaseLocked(b); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *systemManager) releaseLocked(b *binding) error {
	name := b.accel.String()
	delete(m.bindings, name)
	close(b.stop)

	if err := b.grab.Unregister(); err != nil {
		return fmt.Errorf("unregister %s: %w", name, err)
	}
	m.log.Debug().Str("accel", name).Msg("Hotkey unregistered")
	return nil
}

func (m *systemManager) Close() error {
	return m.UnregisterAll()
}
