package hotkey

import "errors"

var (
	// ErrInvalidAccelerator is returned for accelerators that cannot be parsed.
	ErrInvalidAccelerator = errors.New("invalid accelerator")
	// ErrAlreadyRegistered is returned when an accelerator is bound twice.
	ErrAlreadyRegistered = errors.New("accelerator already registered")
)

// Manager defines the interface for global hotkey management
type Manager interface {
	Register(accel string, callback func()) error
	Close() error
}

// Clearer is implemented by managers that can drop every binding at once.
// Not every backend has it; callers type-assert.
type Clearer interface {
	UnregisterAll() error
}
