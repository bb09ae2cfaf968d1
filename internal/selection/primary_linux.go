//go:build linux

package selection

import "github.com/atotto/clipboard"

// usePrimarySelection makes reads return highlighted text rather than the
// last explicit copy.
func usePrimarySelection() {
	clipboard.Primary = true
}
