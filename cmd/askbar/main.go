package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/petems/askbar/internal/app"
	"github.com/petems/askbar/internal/config"
	"github.com/petems/askbar/internal/hotkey"
	"github.com/petems/askbar/internal/logging"
	"github.com/petems/askbar/internal/permissions"
	"github.com/petems/askbar/internal/selection"
	"github.com/petems/askbar/internal/shortcut"
	"github.com/petems/askbar/internal/state"
	"github.com/petems/askbar/internal/tray"
	"github.com/petems/askbar/internal/window"
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time
	Version = "dev"
	// Commit is set via ldflags at build time
	Commit = "unknown"
)

type options struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "askbar",
		Short:        "Global hotkeys for quick ask, search and chat windows",
		Version:      fmt.Sprintf("%s (%s)", Version, Commit),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: platform config dir)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newSetCmd(opts))
	return cmd
}

func run(parent context.Context, opts *options) error {
	store := config.NewStore(opts.configPath)

	// A broken config file must not stop the app; registration falls back
	// to defaults the same way.
	cfg, loadErr := store.Load()
	if loadErr != nil {
		cfg = config.Default()
	}

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logging.NewWithLevel(level)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("path", store.Path()).Msg("Failed to load config, using defaults")
	}

	// macOS requires accessibility approval before global hotkeys are delivered
	if err := permissions.EnsurePermissions(); err != nil {
		log.Error().Err(err).Msg("Required permissions not granted")
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shared := state.New()

	// Initialize hotkey manager
	hkManager := hotkey.New(log)
	defer hkManager.Close()

	// Create tray UI first; it presents windows and shows status
	trayUI := tray.New(nil, Version, Commit, log)
	windows := window.NewManager(trayUI, log)
	readSelection := selection.ClipboardReader()
	listener := selection.New(shared, windows, readSelection, cfg.PollInterval(), log)

	application := app.New(app.Config{
		Windows:       windows,
		Store:         store,
		Clipboard:     readSelection,
		Logger:        log,
		StatusUpdater: trayUI,
		OnReload: func(c *config.Config) {
			listener.SetInterval(c.PollInterval())
		},
	})

	registrar := shortcut.NewRegistrar(shortcut.Options{
		Hotkeys: hkManager,
		Windows: windows,
		State:   shared,
		Config:  store,
		Actions: application.Actions(),
		Logger:  log,
	})
	application.SetRegistrar(registrar)
	trayUI.SetApp(application)

	// Shortcuts are registered from the tray's ready callback. Registration
	// errors are shown in the tray; the app keeps running so the user can fix
	// the config and reload.
	go listener.Run(ctx)

	go func() {
		err := store.Watch(ctx, func() {
			log.Info().Str("path", store.Path()).Msg("Config changed, re-registering shortcuts")
			if err := application.Reload(); err != nil {
				log.Error().Err(err).Msg("Failed to re-register shortcuts")
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("Config watcher stopped")
		}
	}()

	log.Info().Str("version", Version).Msg("askbar starting...")

	// Start tray UI - MUST run on main thread
	err := trayUI.Run(ctx)

	log.Info().Msg("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancelShutdown()
	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("Shutdown error")
	}
	return err
}
