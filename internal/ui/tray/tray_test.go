package tray

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDesktop struct {
	menus []*fyne.Menu
	icon  fyne.Resource
}

func (app *fakeDesktop) SetSystemTrayMenu(menu *fyne.Menu)      { app.menus = append(app.menus, menu) }
func (app *fakeDesktop) SetSystemTrayIcon(icon fyne.Resource)   { app.icon = icon }
func (app *fakeDesktop) SetSystemTrayWindow(window fyne.Window) {}

func TestManager_StatusAndExportState(t *testing.T) {
	app := &fakeDesktop{}
	manager := New(app, Callbacks{})
	require.Len(t, app.menus, 1)
	assert.True(t, manager.exportItem.Disabled)

	manager.SetStatus(true, 3)

	latest := app.menus[len(app.menus)-1]
	assert.Equal(t, "Today: drawn (3 total)", latest.Items[0].Label)
	assert.False(t, manager.exportItem.Disabled)
}

func TestManager_MenuItemsInvokeCallbacks(t *testing.T) {
	app := &fakeDesktop{}
	var opened, quit, png int
	New(app, Callbacks{
		OnOpen:      func() { opened++ },
		OnQuit:      func() { quit++ },
		OnExportPNG: func() { png++ },
	})

	items := map[string]*fyne.MenuItem{}
	for _, item := range app.menus[0].Items {
		items[item.Label] = item
	}
	items["Open"].Action()
	items["Quit"].Action()
	items["Export"].ChildMenu.Items[0].Action()
	items["Preferences"].Action()

	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, quit)
	assert.Equal(t, 1, png)
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Today: waiting for today's line (0 total)", StatusText(false, 0))
}
