package shortcut

import (
	"errors"
	"fmt"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/hotkey"
)

// ErrDuplicateShortcut is reported when two slots share an accelerator.
var ErrDuplicateShortcut = errors.New("duplicate shortcut")

// Check reports every configured accelerator that would fail to register:
// unparsable ones and ones bound to more than one slot.
func Check(cfg *config.Config) []error {
	var problems []error
	seen := make(map[string]Slot)

	for _, slot := range Slots {
		accel := slot.Accelerator(cfg)
		if accel == "" {
			continue
		}
		parsed, err := hotkey.ParseAccelerator(accel)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", slot, err))
			continue
		}
		if other, ok := seen[parsed.String()]; ok {
			problems = append(problems, fmt.Errorf("%s: %w: %s also bound to %s", slot, ErrDuplicateShortcut, parsed, other))
			continue
		}
		seen[parsed.String()] = slot
	}

	return problems
}
