package tray

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/getlantern/systray"
	"github.com/petems/askbar/internal/app"
	"github.com/petems/askbar/internal/logging"
	"github.com/petems/askbar/internal/shortcut"
	"github.com/petems/askbar/internal/window"
	"github.com/rs/zerolog"
)

const snippetLen = 40

type UI struct {
	app     *app.App
	version string
	commit  string
	log     zerolog.Logger

	mu      sync.Mutex
	ready   bool
	status  string
	showing map[window.ID]string

	// Menu items
	mSlots   map[shortcut.Slot]*systray.MenuItem
	mClear   map[shortcut.Slot]*systray.MenuItem
	mShowing *systray.MenuItem
	mSelect  *systray.MenuItem
	mReload  *systray.MenuItem
}

func New(application *app.App, version, commit string, log zerolog.Logger) *UI {
	return &UI{
		app:     application,
		version: version,
		commit:  commit,
		log:     log,
		status:  "idle",
		showing: make(map[window.ID]string),
		mSlots:  make(map[shortcut.Slot]*systray.MenuItem),
		mClear:  make(map[shortcut.Slot]*systray.MenuItem),
	}
}

// SetApp sets the app reference (for circular dependency resolution)
func (u *UI) SetApp(application *app.App) {
	u.app = application
}

// Status update methods for the app to call
func (u *UI) SetIdle() {
	u.updateStatus("idle")
}

func (u *UI) SetError() {
	u.updateStatus("error")
}

// Present shows a window's content in the tray menu.
func (u *UI) Present(id window.ID, content string) error {
	u.mu.Lock()
	u.showing[id] = content
	u.mu.Unlock()
	u.refreshShowing()
	return nil
}

// Dismiss removes a window from the tray menu.
func (u *UI) Dismiss(id window.ID) error {
	u.mu.Lock()
	delete(u.showing, id)
	u.mu.Unlock()
	u.refreshShowing()
	return nil
}

func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		systray.Quit()
	}()
	systray.Run(u.onReady, u.onExit)
	return nil
}

func (u *UI) onReady() {
	u.mu.Lock()
	u.ready = true
	u.mu.Unlock()

	u.updateStatus("idle")
	systray.SetTooltip("Quick ask, search and chat")

	cfg := u.app.Config()

	// Build menu
	for _, slot := range shortcut.Slots {
		u.mSlots[slot] = systray.AddMenuItem(slotTitle(slot), slotTooltip(slot, slot.Accelerator(cfg)))
	}
	systray.AddSeparator()

	u.mShowing = systray.AddMenuItem(showingTitle(nil), "Open windows")
	u.mShowing.Disable()
	systray.AddSeparator()

	u.mSelect = systray.AddMenuItemCheckbox("Enable Selection", "Open a window when text is selected", cfg.EnableSelect)
	u.mReload = systray.AddMenuItem("Reload Shortcuts", "Re-read config and rebind hotkeys")
	mClear := systray.AddMenuItem("Clear Hotkey", "Remove a global hotkey")
	for _, slot := range shortcut.Slots {
		u.mClear[slot] = mClear.AddSubMenuItem(slotTitle(slot), fmt.Sprintf("Unbind the %s hotkey", slotTitle(slot)))
	}

	systray.AddSeparator()
	mAbout := systray.AddMenuItem("About", "About askbar")
	mQuit := systray.AddMenuItem("Quit", "Exit application")

	u.refreshShowing()

	// Event loop
	go u.handleEvents(mAbout, mQuit)

	// Carbon hotkey registration dispatches onto the main thread, so it can
	// only run once systray owns the run loop.
	go u.registerShortcuts()
}

func (u *UI) registerShortcuts() {
	if err := u.app.Reload(); err != nil {
		u.log.Error().Err(err).Msg("Failed to register shortcuts")
		return
	}
	u.refreshTooltips()
}

func (u *UI) handleEvents(mAbout, mQuit *systray.MenuItem) {
	for {
		select {
		case <-u.mSlots[shortcut.QuickAsk].ClickedCh:
			u.app.OpenQuickAsk()
		case <-u.mSlots[shortcut.Search].ClickedCh:
			u.app.OpenSearch()
		case <-u.mSlots[shortcut.Chat].ClickedCh:
			u.app.OpenChat()
		case <-u.mSelect.ClickedCh:
			u.toggleSelect()
		case <-u.mReload.ClickedCh:
			u.reload()
		case <-u.mClear[shortcut.QuickAsk].ClickedCh:
			u.clearShortcut(shortcut.QuickAsk)
		case <-u.mClear[shortcut.Search].ClickedCh:
			u.clearShortcut(shortcut.Search)
		case <-u.mClear[shortcut.Chat].ClickedCh:
			u.clearShortcut(shortcut.Chat)
		case <-mAbout.ClickedCh:
			u.showAbout()
		case <-mQuit.ClickedCh:
			systray.Quit()
			return
		}
	}
}

func (u *UI) toggleSelect() {
	enable := !u.mSelect.Checked()
	if err := u.app.SetEnableSelect(enable); err != nil {
		u.log.Error().Err(err).Msg("Failed to update selection setting")
	}
	// Reflect whatever the registrar stored, even after a failure.
	if u.app.Config().EnableSelect {
		u.mSelect.Check()
	} else {
		u.mSelect.Uncheck()
	}
	u.log.Info().Bool("enabled", enable).Msg("Changed selection listener")
}

func (u *UI) reload() {
	if err := u.app.Reload(); err != nil {
		u.log.Error().Err(err).Msg("Reload failed")
		return
	}
	u.refreshTooltips()
}

// clearShortcut unbinds a slot's hotkey and saves the empty accelerator.
func (u *UI) clearShortcut(slot shortcut.Slot) {
	if err := u.app.SetShortcut(slot, ""); err != nil {
		u.log.Error().Err(err).Stringer("slot", slot).Msg("Failed to clear hotkey")
	}
	u.refreshTooltips()
	u.log.Info().Stringer("slot", slot).Msg("Cleared hotkey")
}

func (u *UI) refreshTooltips() {
	cfg := u.app.Config()
	for slot, item := range u.mSlots {
		item.SetTooltip(slotTooltip(slot, slot.Accelerator(cfg)))
	}
}

func (u *UI) showAbout() {
	u.log.Info().
		Str("version", u.version).
		Str("commit", u.commit).
		Str("logs", logging.Path()).
		Msg("askbar")
}

func (u *UI) onExit() {
	u.mu.Lock()
	u.ready = false
	u.mu.Unlock()
}

func (u *UI) refreshShowing() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.ready || u.mShowing == nil {
		return
	}
	u.mShowing.SetTitle(showingTitle(u.showing))
	systray.SetTitle(titleFor(u.status, len(u.showing)))
}

// updateStatus sets the tray title with status indicator
func (u *UI) updateStatus(status string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.status = status
	if !u.ready {
		return
	}
	systray.SetTitle(titleFor(status, len(u.showing)))
}

func slotTitle(slot shortcut.Slot) string {
	switch slot {
	case shortcut.QuickAsk:
		return "Quick Ask"
	case shortcut.Search:
		return "Search"
	case shortcut.Chat:
		return "Chat"
	default:
		return slot.String()
	}
}

func slotTooltip(slot shortcut.Slot, accel string) string {
	if accel == "" {
		return fmt.Sprintf("Open %s (no hotkey)", slotTitle(slot))
	}
	return fmt.Sprintf("Open %s (%s)", slotTitle(slot), accel)
}

// showingTitle lists open windows in ID order with a snippet of their content.
func showingTitle(showing map[window.ID]string) string {
	if len(showing) == 0 {
		return "No open windows"
	}
	var parts []string
	for _, id := range []window.ID{window.QuickAsk, window.Search, window.Chat, window.Select} {
		content, ok := showing[id]
		if !ok {
			continue
		}
		if s := snippet(content); s != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", id.Title(), s))
		} else {
			parts = append(parts, id.Title())
		}
	}
	return strings.Join(parts, " | ")
}

// snippet collapses whitespace and truncates to snippetLen runes.
func snippet(content string) string {
	s := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(s) <= snippetLen {
		return s
	}
	return string([]rune(s)[:snippetLen-1]) + "…"
}

// titleFor returns the tray title for a status and number of open windows
func titleFor(status string, open int) string {
	if open > 0 {
		return fmt.Sprintf("💬 %s %d", emojiForStatus(status), open)
	}
	return fmt.Sprintf("💬 %s", emojiForStatus(status))
}

// emojiForStatus returns the appropriate status emoji
func emojiForStatus(status string) string {
	switch status {
	case "idle":
		return "🟢" // Green - hotkeys bound
	case "error":
		return "⚪️" // White - registration failed
	default:
		return "🟢" // Green - default to ready
	}
}
