package hotkey

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// headlessManager is used when no display server accepts key grabs.
// Bindings are validated and remembered but never fire. It has no
// UnregisterAll, so callers skip the bulk clear on this backend.
type headlessManager struct {
	log zerolog.Logger

	mu       sync.Mutex
	bindings map[string]func()
}

func newHeadlessManager(log zerolog.Logger) *headlessManager {
	return &headlessManager{
		log:      log,
		bindings: make(map[string]func()),
	}
}

func (m *headlessManager) Register(accel string, callback func()) error {
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
	m.bindings[name] = callback

	m.log.Warn().Str("accel", name).Msg("Global hotkeys unavailable on this display; binding recorded but will never fire")
	return nil
}

func (m *headlessManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings = make(map[string]func())
	return nil
}
