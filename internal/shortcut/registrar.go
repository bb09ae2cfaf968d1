// Package shortcut binds the configured global hotkeys to app actions and
// reconciles the selection feature with the configuration.
package shortcut

import (
	"fmt"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/hotkey"
	"github.com/petems/askbar/internal/state"
	"github.com/petems/askbar/internal/window"
	"github.com/rs/zerolog"
)

// Slot is one of the configurable shortcut purposes.
type Slot int

const (
	QuickAsk Slot = iota
	Search
	Chat
)

// Slots lists every slot in registration order.
var Slots = []Slot{QuickAsk, Search, Chat}

func (s Slot) String() string {
	switch s {
	case QuickAsk:
		return "quick-ask"
	case Search:
		return "search"
	case Chat:
		return "chat"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// ParseSlot returns the slot named by String, e.g. "quick-ask".
func ParseSlot(name string) (Slot, error) {
	for _, slot := range Slots {
		if slot.String() == name {
			return slot, nil
		}
	}
	return 0, fmt.Errorf("unknown slot %q (want quick-ask, search or chat)", name)
}

// Accelerator returns the slot's configured accelerator, empty when unset.
func (s Slot) Accelerator(cfg *config.Config) string {
	switch s {
	case QuickAsk:
		return cfg.QuickAskShortcut
	case Search:
		return cfg.SearchShortcut
	case Chat:
		return cfg.ChatShortcut
	default:
		return ""
	}
}

// SetAccelerator stores accel in the slot's config field.
func (s Slot) SetAccelerator(cfg *config.Config, accel string) {
	switch s {
	case QuickAsk:
		cfg.QuickAskShortcut = accel
	case Search:
		cfg.SearchShortcut = accel
	case Chat:
		cfg.ChatShortcut = accel
	}
}

// Actions holds the fixed callback for each slot.
type Actions struct {
	QuickAsk func()
	Search   func()
	Chat     func()
}

func (a Actions) forSlot(s Slot) func() {
	switch s {
	case QuickAsk:
		return a.QuickAsk
	case Search:
		return a.Search
	case Chat:
		return a.Chat
	default:
		return nil
	}
}

type Registrar struct {
	hotkeys hotkey.Manager
	windows window.Registry
	state   *state.Shared
	config  config.Provider
	actions Actions
	log     zerolog.Logger
}

type Options struct {
	Hotkeys hotkey.Manager
	Windows window.Registry
	State   *state.Shared
	Config  config.Provider
	Actions Actions
	Logger  zerolog.Logger
}

func NewRegistrar(opts Options) *Registrar {
	return &Registrar{
		hotkeys: opts.Hotkeys,
		windows: opts.Windows,
		state:   opts.State,
		config:  opts.Config,
		actions: opts.Actions,
		log:     opts.Logger,
	}
}

// Register rebinds every configured hotkey and syncs the selection flag.
//
// Stale bindings are cleared first when the backend supports it. Slots are
// registered in order quick-ask, search, chat and the first failure stops
// the remaining registrations; bindings already made are kept. Errors from
// the hotkey manager are returned unchanged. The selection flag is stored
// on every call, failed or not, and the selection window is closed when the
// flag is off.
func (r *Registrar) Register() error {
	var regErr error

	if clearer, ok := r.hotkeys.(hotkey.Clearer); ok {
		regErr = clearer.UnregisterAll()
	} else {
		r.log.Debug().Msg("Hotkey backend cannot clear bindings; skipping")
	}

	cfg := r.currentConfig()

	if regErr == nil {
		regErr = r.registerSlots(cfg)
	}

	r.syncSelect(cfg.EnableSelect)

	return regErr
}

func (r *Registrar) currentConfig() *config.Config {
	cfg, err := r.config.Current()
	if err != nil || cfg == nil {
		r.log.Warn().Err(err).Msg("Config unavailable, using defaults")
		return config.Default()
	}
	return cfg
}

func (r *Registrar) registerSlots(cfg *config.Config) error {
	for _, slot := range Slots {
		accel := slot.Accelerator(cfg)
		if accel == "" {
			continue
		}
		if err := r.hotkeys.Register(accel, r.actions.forSlot(slot)); err != nil {
			r.log.Error().Err(err).Stringer("slot", slot).Str("accel", accel).Msg("Failed to register hotkey")
			return err
		}
		r.log.Info().Stringer("slot", slot).Str("accel", accel).Msg("Registered hotkey")
	}
	return nil
}

func (r *Registrar) syncSelect(enabled bool) {
	r.state.SetSelectEnabled(enabled)
	if enabled {
		return
	}

	if w, ok := r.windows.Lookup(window.Select); ok {
		if err := w.Close(); err != nil {
			r.log.Debug().Err(err).Msg("Ignoring selection window close error")
		}
	}
}
