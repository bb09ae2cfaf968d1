//go:build !darwin

package permissions

// EnsurePermissions is a no-op on non-macOS platforms; X11 and Windows
// deliver global hotkeys without an extra grant.
func EnsurePermissions() error {
	return nil
}
