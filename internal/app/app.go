package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/shortcut"
	"github.com/petems/askbar/internal/window"
	"github.com/rs/zerolog"
)

// StatusUpdater is an interface for updating status (e.g., tray icon)
type StatusUpdater interface {
	SetIdle()
	SetError()
}

// Windows is the part of window.Manager the app drives.
type Windows interface {
	window.Registry
	Toggle(id window.ID, content string) error
	CloseAll() error
}

// Store persists configuration changes made from the tray.
type Store interface {
	config.Provider
	Update(fn func(*config.Config)) (*config.Config, error)
}

// Registrar rebinds hotkeys from the current configuration.
type Registrar interface {
	Register() error
}

type Config struct {
	Windows       Windows
	Store         Store
	Registrar     Registrar
	Clipboard     func() (string, error) // Optional - seeds opened windows
	Logger        zerolog.Logger
	StatusUpdater StatusUpdater // Optional - can be nil

	// OnReload is called with the saved configuration after every reload,
	// whether or not registration succeeded. Optional.
	OnReload func(*config.Config)
}

type App struct {
	windows   Windows
	store     Store
	registrar Registrar
	clipboard func() (string, error)
	log       zerolog.Logger
	status    StatusUpdater
	onReload  func(*config.Config)

	mu sync.Mutex
}

func New(cfg Config) *App {
	return &App{
		windows:   cfg.Windows,
		store:     cfg.Store,
		registrar: cfg.Registrar,
		clipboard: cfg.Clipboard,
		log:       cfg.Logger,
		status:    cfg.StatusUpdater,
		onReload:  cfg.OnReload,
	}
}

// SetRegistrar wires the registrar after construction; the registrar's
// actions point back at the app.
func (a *App) SetRegistrar(r Registrar) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registrar = r
}

// Actions returns the hotkey callbacks for each slot.
func (a *App) Actions() shortcut.Actions {
	return shortcut.Actions{
		QuickAsk: a.OpenQuickAsk,
		Search:   a.OpenSearch,
		Chat:     a.OpenChat,
	}
}

func (a *App) OpenQuickAsk() {
	a.toggle(window.QuickAsk)
}

func (a *App) OpenSearch() {
	a.toggle(window.Search)
}

func (a *App) OpenChat() {
	a.toggle(window.Chat)
}

func (a *App) toggle(id window.ID) {
	if err := a.windows.Toggle(id, a.seedText()); err != nil {
		a.log.Error().Err(err).Stringer("window", id).Msg("Failed to toggle window")
		a.setError()
		return
	}
	a.log.Info().Stringer("window", id).Msg("Toggled window")
}

func (a *App) seedText() string {
	if a.clipboard == nil {
		return ""
	}
	text, err := a.clipboard()
	if err != nil {
		a.log.Debug().Err(err).Msg("Clipboard unavailable")
		return ""
	}
	return strings.TrimSpace(text)
}

// Reload rebinds hotkeys from the saved configuration.
func (a *App) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reloadLocked()
}

func (a *App) reloadLocked() error {
	if a.registrar == nil {
		return fmt.Errorf("registrar not configured")
	}
	err := a.registrar.Register()
	if a.onReload != nil {
		a.onReload(a.Config())
	}
	if err != nil {
		a.log.Error().Err(err).Msg("Failed to register shortcuts")
		a.setError()
		return err
	}
	a.log.Info().Msg("Shortcuts registered")
	if a.status != nil {
		a.status.SetIdle()
	}
	return nil
}

// Tray actions

func (a *App) SetEnableSelect(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.store.Update(func(c *config.Config) { c.EnableSelect = enabled }); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return a.reloadLocked()
}

func (a *App) SetShortcut(slot shortcut.Slot, accel string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.store.Update(func(c *config.Config) { slot.SetAccelerator(c, accel) }); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return a.reloadLocked()
}

// Config returns the saved configuration, or defaults when unreadable.
func (a *App) Config() *config.Config {
	cfg, err := a.store.Current()
	if err != nil {
		return config.Default()
	}
	return cfg
}

// Shutdown closes every window. It gives up when ctx is done; a presenter
// stuck on a dead UI must not hang the process.
func (a *App) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		done <- a.windows.CloseAll()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

func (a *App) setError() {
	if a.status != nil {
		a.status.SetError()
	}
}
