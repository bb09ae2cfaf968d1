//go:build !linux

package selection

func usePrimarySelection() {}
