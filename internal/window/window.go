package window

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// ID identifies one of the app's well-known windows.
type ID int

const (
	QuickAsk ID = iota
	Search
	Chat
	Select
)

var ErrUnknownWindow = errors.New("unknown window")

func (id ID) String() string {
	switch id {
	case QuickAsk:
		return "quick-ask"
	case Search:
		return "search"
	case Chat:
		return "chat"
	case Select:
		return "select"
	default:
		return fmt.Sprintf("window(%d)", int(id))
	}
}

// Title is the human-readable label used by presenters.
func (id ID) Title() string {
	switch id {
	case QuickAsk:
		return "Quick Ask"
	case Search:
		return "Search"
	case Chat:
		return "Chat"
	case Select:
		return "Selection"
	default:
		return id.String()
	}
}

func (id ID) valid() bool {
	return id >= QuickAsk && id <= Select
}

// Handle is an open window.
type Handle interface {
	ID() ID
	Close() error
}

// Registry looks up open windows.
type Registry interface {
	Lookup(id ID) (Handle, bool)
}

// Presenter renders windows on screen.
type Presenter interface {
	Present(id ID, content string) error
	Dismiss(id ID) error
}

// Manager tracks open windows and delegates drawing to a Presenter.
type Manager struct {
	mu        sync.Mutex
	open      map[ID]*handle
	presenter Presenter
	log       zerolog.Logger
}

func NewManager(presenter Presenter, log zerolog.Logger) *Manager {
	return &Manager{
		open:      make(map[ID]*handle),
		presenter: presenter,
		log:       log,
	}
}

// Open shows id with content, replacing the content if it is already open.
func (m *Manager) Open(id ID, content string) (Handle, error) {
	if !id.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, int(id))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.presenter.Present(id, content); err != nil {
		return nil, fmt.Errorf("present %s: %w", id, err)
	}

	h, ok := m.open[id]
	if !ok {
		h = &handle{id: id, mgr: m}
		m.open[id] = h
		m.log.Debug().Stringer("window", id).Msg("Window opened")
	}
	return h, nil
}

// Toggle closes id if it is open, otherwise opens it with content.
func (m *Manager) Toggle(id ID, content string) error {
	if h, ok := m.Lookup(id); ok {
		return h.Close()
	}
	_, err := m.Open(id, content)
	return err
}

func (m *Manager) Lookup(id ID) (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.open[id]
	if !ok {
		return nil, false
	}
	return h, true
}

// CloseAll closes every open window and returns the first error.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	handles := make([]*handle, 0, len(m.open))
	for _, h := range m.open {
		handles = append(handles, h)
	}
	m.mu.Unlock()

	var first error
	for _, h := range handles {
		if err := h.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *Manager) close(h *handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cur, ok := m.open[h.id]; !ok || cur != h {
		return nil
	}
	delete(m.open, h.id)

	if err := m.presenter.Dismiss(h.id); err != nil {
		return fmt.Errorf("dismiss %s: %w", h.id, err)
	}
	m.log.Debug().Stringer("window", h.id).Msg("Window closed")
	return nil
}

type handle struct {
	id  ID
	mgr *Manager
}

func (h *handle) ID() ID {
	return h.id
}

// Close is a no-op once the window is gone.
func (h *handle) Close() error {
	return h.mgr.close(h)
}
