package shortcut

import (
	"errors"
	"testing"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/hotkey"
	"github.com/petems/askbar/internal/state"
	"github.com/petems/askbar/internal/window"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementations for testing
type registration struct {
	accel    string
	callback func()
}

type mockManager struct {
	registered []registration
	failOn     map[string]error
}

func (m *mockManager) Register(accel string, callback func()) error {
	if err := m.failOn[accel]; err != nil {
		return err
	}
	m.registered = append(m.registered, registration{accel: accel, callback: callback})
	return nil
}

func (m *mockManager) Close() error { return nil }

type mockClearingManager struct {
	mockManager
	clearCalls int
	clearErr   error
}

func (m *mockClearingManager) UnregisterAll() error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.registered = nil
	return nil
}

type mockHandle struct {
	closes   int
	closeErr error
}

func (h *mockHandle) ID() window.ID { return window.Select }

func (h *mockHandle) Close() error {
	h.closes++
	return h.closeErr
}

type mockRegistry struct {
	open    map[window.ID]*mockHandle
	lookups []window.ID
}

func (r *mockRegistry) Lookup(id window.ID) (window.Handle, bool) {
	r.lookups = append(r.lookups, id)
	h, ok := r.open[id]
	if !ok {
		return nil, false
	}
	return h, true
}

type mockProvider struct {
	cfg *config.Config
	err error
}

func (p *mockProvider) Current() (*config.Config, error) {
	return p.cfg, p.err
}

type counters struct {
	quickAsk, search, chat int
}

func (c *counters) actions() Actions {
	return Actions{
		QuickAsk: func() { c.quickAsk++ },
		Search:   func() { c.search++ },
		Chat:     func() { c.chat++ },
	}
}

func newTestRegistrar(mgr hotkey.Manager, reg *mockRegistry, cfg *config.Config, c *counters) (*Registrar, *state.Shared) {
	shared := state.New()
	r := NewRegistrar(Options{
		Hotkeys: mgr,
		Windows: reg,
		State:   shared,
		Config:  &mockProvider{cfg: cfg},
		Actions: c.actions(),
		Logger:  zerolog.Nop(),
	})
	return r, shared
}

func TestRegisterEmptyConfig(t *testing.T) {
	mgr := &mockClearingManager{}
	reg := &mockRegistry{}
	r, shared := newTestRegistrar(mgr, reg, config.Default(), &counters{})
	shared.SetSelectEnabled(true)

	require.NoError(t, r.Register())
	assert.Empty(t, mgr.registered)
	assert.Equal(t, 1, mgr.clearCalls)
	assert.False(t, shared.SelectEnabled())
	assert.Equal(t, []window.ID{window.Select}, reg.lookups)
}

func TestRegisterSingleSlotBindsMatchingAction(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*config.Config)
		check func(*testing.T, *counters)
	}{
		{
			name: "quick ask",
			set:  func(c *config.Config) { c.QuickAskShortcut = "Alt+Q" },
			check: func(t *testing.T, c *counters) {
				assert.Equal(t, counters{quickAsk: 1}, *c)
			},
		},
		{
			name: "search",
			set:  func(c *config.Config) { c.SearchShortcut = "Alt+S" },
			check: func(t *testing.T, c *counters) {
				assert.Equal(t, counters{search: 1}, *c)
			},
		},
		{
			name: "chat",
			set:  func(c *config.Config) { c.ChatShortcut = "Alt+C" },
			check: func(t *testing.T, c *counters) {
				assert.Equal(t, counters{chat: 1}, *c)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.set(cfg)
			c := &counters{}
			mgr := &mockClearingManager{}
			r, _ := newTestRegistrar(mgr, &mockRegistry{}, cfg, c)

			require.NoError(t, r.Register())
			require.Len(t, mgr.registered, 1)

			mgr.registered[0].callback()
			tt.check(t, c)
		})
	}
}

func TestRegisterAllSlotsInOrder(t *testing.T) {
	cfg := config.Default()
	cfg.QuickAskShortcut = "Alt+Q"
	cfg.SearchShortcut = "Alt+S"
	cfg.ChatShortcut = "Alt+C"
	mgr := &mockClearingManager{}
	r, _ := newTestRegistrar(mgr, &mockRegistry{}, cfg, &counters{})

	require.NoError(t, r.Register())

	var accels []string
	for _, reg := range mgr.registered {
		accels = append(accels, reg.accel)
	}
	assert.Equal(t, []string{"Alt+Q", "Alt+S", "Alt+C"}, accels)
}

func TestRegisterUnregisterAllFailure(t *testing.T) {
	cfg := config.Default()
	cfg.QuickAskShortcut = "Alt+Q"
	cfg.EnableSelect = true
	clearErr := errors.New("unregister failed")
	mgr := &mockClearingManager{clearErr: clearErr}
	r, shared := newTestRegistrar(mgr, &mockRegistry{}, cfg, &counters{})

	err := r.Register()
	assert.Same(t, clearErr, err)
	assert.Empty(t, mgr.registered)
	assert.True(t, shared.SelectEnabled())
}

func TestRegisterShortCircuitsOnFailure(t *testing.T) {
	cfg := config.Default()
	cfg.QuickAskShortcut = "Alt+Q"
	cfg.SearchShortcut = "Alt+S"
	cfg.ChatShortcut = "Alt+C"
	regErr := errors.New("duplicate binding")
	mgr := &mockClearingManager{mockManager: mockManager{failOn: map[string]error{"Alt+S": regErr}}}
	reg := &mockRegistry{open: map[window.ID]*mockHandle{window.Select: {}}}
	r, shared := newTestRegistrar(mgr, reg, cfg, &counters{})
	shared.SetSelectEnabled(true)

	err := r.Register()
	assert.Same(t, regErr, err, "error must be surfaced unchanged")
	require.Len(t, mgr.registered, 1, "quick-ask is kept, chat is never attempted")
	assert.Equal(t, "Alt+Q", mgr.registered[0].accel)

	// Flag still reconciled after the failure.
	assert.False(t, shared.SelectEnabled())
	assert.Equal(t, 1, reg.open[window.Select].closes)
}

func TestRegisterSkipsClearWithoutCapability(t *testing.T) {
	cfg := config.Default()
	cfg.ChatShortcut = "Alt+C"
	mgr := &mockManager{}
	r, _ := newTestRegistrar(mgr, &mockRegistry{}, cfg, &counters{})

	require.NoError(t, r.Register())
	assert.Len(t, mgr.registered, 1)
}

func TestRegisterMissingConfigUsesDefaults(t *testing.T) {
	mgr := &mockClearingManager{}
	shared := state.New()
	shared.SetSelectEnabled(true)
	r := NewRegistrar(Options{
		Hotkeys: mgr,
		Windows: &mockRegistry{},
		State:   shared,
		Config:  &mockProvider{err: errors.New("no config")},
		Logger:  zerolog.Nop(),
	})

	require.NoError(t, r.Register())
	assert.Empty(t, mgr.registered)
	assert.False(t, shared.SelectEnabled())
}

func TestRegisterSelectWindow(t *testing.T) {
	t.Run("disabled closes open window once", func(t *testing.T) {
		reg := &mockRegistry{open: map[window.ID]*mockHandle{window.Select: {}}}
		r, _ := newTestRegistrar(&mockClearingManager{}, reg, config.Default(), &counters{})

		require.NoError(t, r.Register())
		assert.Equal(t, 1, reg.open[window.Select].closes)
	})

	t.Run("disabled without window is not an error", func(t *testing.T) {
		reg := &mockRegistry{}
		r, _ := newTestRegistrar(&mockClearingManager{}, reg, config.Default(), &counters{})

		require.NoError(t, r.Register())
		assert.Equal(t, []window.ID{window.Select}, reg.lookups)
	})

	t.Run("close error is ignored", func(t *testing.T) {
		reg := &mockRegistry{open: map[window.ID]*mockHandle{window.Select: {closeErr: errors.New("busy")}}}
		r, _ := newTestRegistrar(&mockClearingManager{}, reg, config.Default(), &counters{})

		require.NoError(t, r.Register())
		assert.Equal(t, 1, reg.open[window.Select].closes)
	})

	t.Run("enabled leaves window open", func(t *testing.T) {
		cfg := config.Default()
		cfg.EnableSelect = true
		reg := &mockRegistry{open: map[window.ID]*mockHandle{window.Select: {}}}
		r, shared := newTestRegistrar(&mockClearingManager{}, reg, cfg, &counters{})

		require.NoError(t, r.Register())
		assert.True(t, shared.SelectEnabled())
		assert.Zero(t, reg.open[window.Select].closes)
		assert.Empty(t, reg.lookups)
	})
}

func TestRegisterTwiceClearsStaleBindings(t *testing.T) {
	cfg := config.Default()
	cfg.QuickAskShortcut = "Alt+Q"
	mgr := &mockClearingManager{}
	provider := &mockProvider{cfg: cfg}
	r := NewRegistrar(Options{
		Hotkeys: mgr,
		Windows: &mockRegistry{},
		State:   state.New(),
		Config:  provider,
		Actions: (&counters{}).actions(),
		Logger:  zerolog.Nop(),
	})

	require.NoError(t, r.Register())

	next := config.Default()
	next.SearchShortcut = "Alt+S"
	provider.cfg = next
	require.NoError(t, r.Register())

	require.Len(t, mgr.registered, 1)
	assert.Equal(t, "Alt+S", mgr.registered[0].accel)
	assert.Equal(t, 2, mgr.clearCalls)
}

func TestCheck(t *testing.T) {
	cfg := config.Default()
	cfg.QuickAskShortcut = "Ctrl+Shift+Q"
	cfg.SearchShortcut = "shift+ctrl+q"
	cfg.ChatShortcut = "Ctrl+Bogus"

	problems := Check(cfg)
	require.Len(t, problems, 2)
	assert.True(t, errors.Is(problems[0], ErrDuplicateShortcut))
	assert.True(t, errors.Is(problems[1], hotkey.ErrInvalidAccelerator))

	assert.Empty(t, Check(config.Default()))
}

func TestSlotAccessors(t *testing.T) {
	cfg := config.Default()
	for _, slot := range Slots {
		slot.SetAccelerator(cfg, "F"+slot.String())
		assert.Equal(t, "F"+slot.String(), slot.Accelerator(cfg))
	}
	assert.Equal(t, "slot(7)", Slot(7).String())
}

func TestParseSlot(t *testing.T) {
	for _, slot := range Slots {
		got, err := ParseSlot(slot.String())
		require.NoError(t, err)
		assert.Equal(t, slot, got)
	}
	_, err := ParseSlot("sidebar")
	assert.Error(t, err)
}
