//go:build linux

package hotkey

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeXConn struct {
	mu      sync.Mutex
	grabbed map[x11Combo]bool
	presses []x11Combo
	grabErr error
	closed  bool
}

func newFakeXConn() *fakeXConn {
	return &fakeXConn{grabbed: make(map[x11Combo]bool)}
}

// Keycodes are faked as the first byte of the keysym name.
func (c *fakeXConn) Keycode(keysym string) (int, error) {
	return int(keysym[0]), nil
}

func (c *fakeXConn) Grab(keycode int, mods uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grabErr != nil {
		return c.grabErr
	}
	c.grabbed[x11Combo{keycode, mods}] = true
	return nil
}

func (c *fakeXConn) Ungrab(keycode int, mods uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.grabbed, x11Combo{keycode, mods})
}

func (c *fakeXConn) NextKeyPress() (int, uint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.presses) == 0 {
		return 0, 0, false
	}
	p := c.presses[0]
	c.presses = c.presses[1:]
	return p.keycode, p.mods, true
}

func (c *fakeXConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeXConn) press(keycode int, mods uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presses = append(c.presses, x11Combo{keycode, mods})
}

func (c *fakeXConn) grabs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.grabbed)
}

func TestNewFallsBackToHeadlessWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")

	mgr := New(zerolog.Nop())
	defer mgr.Close()

	_, headless := mgr.(*headlessManager)
	assert.True(t, headless)
	_, ok := mgr.(Clearer)
	assert.False(t, ok)
}

func TestX11ManagerDispatchesMatchingPress(t *testing.T) {
	conn := newFakeXConn()
	m := newX11Manager(zerolog.Nop(), conn, time.Millisecond)
	defer m.Close()

	fired := make(chan struct{}, 1)
	require.NoError(t, m.Register("Ctrl+Shift+K", func() { fired <- struct{}{} }))
	assert.Equal(t, 1, conn.grabs())

	// Same key without shift must not fire.
	conn.press('k', xControlMask)
	conn.press('k', xControlMask|xShiftMask)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback not invoked")
	}
	select {
	case <-fired:
		t.Fatal("callback invoked for unbound combination")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestX11ManagerKeysyms(t *testing.T) {
	assert.Equal(t, "Return", keysymFor("enter"))
	assert.Equal(t, "F11", keysymFor("f11"))
	assert.Equal(t, "q", keysymFor("q"))
	assert.Equal(t, "7", keysymFor("7"))
}

func TestX11ManagerRejectsDuplicate(t *testing.T) {
	m := newX11Manager(zerolog.Nop(), newFakeXConn(), time.Millisecond)
	defer m.Close()

	require.NoError(t, m.Register("Alt+Space", func() {}))
	assert.True(t, errors.Is(m.Register("option+space", func() {}), ErrAlreadyRegistered))
}

func TestX11ManagerGrabFailureNotRecorded(t *testing.T) {
	conn := newFakeXConn()
	conn.grabErr = errors.New("grabbed by another client")
	m := newX11Manager(zerolog.Nop(), conn, time.Millisecond)
	defer m.Close()

	require.Error(t, m.Register("Alt+Space", func() {}))
	assert.Empty(t, m.bindings)
}

func TestX11ManagerUnregisterAllAndClose(t *testing.T) {
	conn := newFakeXConn()
	var mgr Manager = newX11Manager(zerolog.Nop(), conn, time.Millisecond)

	clearer, ok := mgr.(Clearer)
	require.True(t, ok)

	require.NoError(t, mgr.Register("Alt+1", func() {}))
	require.NoError(t, mgr.Register("Alt+2", func() {}))
	require.NoError(t, clearer.UnregisterAll())
	assert.Equal(t, 0, conn.grabs())

	// Released accelerators can be bound again.
	require.NoError(t, mgr.Register("Alt+1", func() {}))

	require.NoError(t, mgr.Close())
	require.NoError(t, mgr.Close())
	assert.Equal(t, 0, conn.grabs())
	assert.True(t, conn.closed)
	assert.Error(t, mgr.Register("Alt+3", func() {}))
}
