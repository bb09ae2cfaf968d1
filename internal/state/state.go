// Package state holds process-wide flags shared between the shortcut
// registrar and background listeners.
package state

import "sync/atomic"

// Shared is created once at startup and handed to every component that reads
// or writes the flags. The zero value is ready to use with selection disabled.
type Shared struct {
	enableSelect atomic.Bool
}

func New() *Shared {
	return &Shared{}
}

// SetSelectEnabled publishes the selection flag. Go atomics are sequentially
// consistent, so a concurrent listener observes the store on its next load.
func (s *Shared) SetSelectEnabled(enabled bool) {
	s.enableSelect.Store(enabled)
}

func (s *Shared) SelectEnabled() bool {
	return s.enableSelect.Load()
}
