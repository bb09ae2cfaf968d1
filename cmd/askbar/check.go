package main

import (
	"errors"
	"fmt"

	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/shortcut"
	"github.com/spf13/cobra"
)

var errInvalidConfig = errors.New("config has invalid shortcuts")

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configured shortcuts without binding them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := config.NewStore(opts.configPath)
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, slot := range shortcut.Slots {
				accel := slot.Accelerator(cfg)
				if accel == "" {
					accel = "(none)"
				}
				fmt.Fprintf(out, "%-10s %s\n", slot, accel)
			}
			fmt.Fprintf(out, "%-10s %t\n", "select", cfg.EnableSelect)

			problems := shortcut.Check(cfg)
			for _, p := range problems {
				fmt.Fprintln(cmd.ErrOrStderr(), "error:", p)
			}
			if len(problems) > 0 {
				return errInvalidConfig
			}
			return nil
		},
	}
}
