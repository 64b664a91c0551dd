package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

const menuTitle = "One Line"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnExportPNG   func()
	OnExportPDF   func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	exportItem *fyne.MenuItem
	callbacks  Callbacks
	drawnToday bool
	totalDays  int
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Today: starting...", nil)
	manager.statusItem.Disabled = true

	manager.exportItem = fyne.NewMenuItem("Export", nil)
	manager.exportItem.ChildMenu = fyne.NewMenu("",
		fyne.NewMenuItem("PNG image...", func() { call(manager.callbacks.OnExportPNG) }),
		fyne.NewMenuItem("PDF document...", func() { call(manager.callbacks.OnExportPDF) }),
	)
	manager.exportItem.Disabled = true

	manager.refreshMenu()
	return manager
}

// SetStatus updates the status line from the current day state.
func (manager *Manager) SetStatus(drawnToday bool, totalDays int) {
	manager.drawnToday = drawnToday
	manager.totalDays = totalDays
	manager.exportItem.Disabled = totalDays == 0
	manager.statusItem.Label = StatusText(drawnToday, totalDays)
	manager.refreshMenu()
}

// StatusText formats the tray status line.
func StatusText(drawnToday bool, totalDays int) string {
	today := "waiting for today's line"
	if drawnToday {
		today = "drawn"
	}
	return fmt.Sprintf("Today: %s (%d total)", today, totalDays)
}

func (manager *Manager) menu() *fyne.Menu {
	return fyne.NewMenu(menuTitle,
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open", func() { call(manager.callbacks.OnOpen) }),
		manager.exportItem,
		fyne.NewMenuItem("Preferences", func() { call(manager.callbacks.OnPreferences) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) }),
	)
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu())
	}
}

func call(handler func()) {
	if handler != nil {
		handler()
	}
}
