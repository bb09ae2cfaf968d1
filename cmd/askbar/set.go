package main

import (
	"fmt"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/shortcut"
	"github.com/spf13/cobra"
)

func newSetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "set <slot> [accelerator]",
		Short: "Change or clear a slot's shortcut",
		Long: "Saves the accelerator for quick-ask, search or chat. Omit the accelerator to clear it.\n" +
			"A running askbar picks up the change from the config file.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := shortcut.ParseSlot(args[0])
			if err != nil {
				return err
			}
			accel := ""
			if len(args) == 2 {
				accel = args[1]
			}

			store := config.NewStore(opts.configPath)
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			slot.SetAccelerator(cfg, accel)
			if problems := shortcut.Check(cfg); len(problems) > 0 {
				for _, p := range problems {
					fmt.Fprintln(cmd.ErrOrStderr(), "error:", p)
				}
				return errInvalidConfig
			}

			if _, err := store.Update(func(c *config.Config) { slot.SetAccelerator(c, accel) }); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			if accel == "" {
				accel = "(none)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", slot, accel)
			return nil
		},
	}
}
