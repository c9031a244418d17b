package app

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
)

func (a *Application) setupMenus() {
	a.recentItem = fyne.NewMenuItem("Open Recent", nil)
	a.recentItem.ChildMenu = fyne.NewMenu("", a.buildRecentItems()...)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open JSON...", func() {
			a.controller.OpenDocument()
		}),
		a.recentItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save CSV...", func() {
			a.controller.SaveResult()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.initiateShutdown()
			a.fyneApp.Quit()
		}),
	)

	darkItem := fyne.NewMenuItem("Dark Mode", nil)
	darkItem.Checked = a.appConfig.Theme() == "dark"
	darkItem.Action = func() {
		darkItem.Checked = !darkItem.Checked
		a.controller.ToggleDarkMode(darkItem.Checked)
		a.applyTheme()
	}

	viewMenu := fyne.NewMenu("View",
		darkItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reload Document", func() {
			a.controller.ReloadDocument()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About "+AppName,
				fmt.Sprintf("%s %s\n\nConverts JSON documents to CSV.", AppName, AppVersion),
				a.window)
		}),
	)

	a.mainMenu = fyne.NewMainMenu(fileMenu, viewMenu, helpMenu)
	a.window.SetMainMenu(a.mainMenu)

	// Keep the submenu in sync with files opened during the session.
	a.controller.AddEventListener("document_loaded", func(interface{}) error {
		a.refreshRecentMenu()
		return nil
	})
}

// buildRecentItems creates the Open Recent submenu entries from the stored
// history
func (a *Application) buildRecentItems() []*fyne.MenuItem {
	recents := a.controller.RecentFiles()

	items := make([]*fyne.MenuItem, 0, len(recents))
	for _, path := range recents {
		p := path
		items = append(items, fyne.NewMenuItem(p, func() {
			a.controller.OpenPath(p)
		}))
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("(empty)", nil)
		empty.Disabled = true
		items = append(items, empty)
	}
	return items
}

// refreshRecentMenu rebuilds the Open Recent submenu after the history
// changes
func (a *Application) refreshRecentMenu() {
	fyne.Do(func() {
		a.recentItem.ChildMenu.Items = a.buildRecentItems()
		a.mainMenu.Refresh()
	})
}

// applyTheme switches the Fyne theme from the configured name
func (a *Application) applyTheme() {
	switch a.appConfig.Theme() {
	case "dark":
		a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	case "light":
		a.fyneApp.Settings().SetTheme(theme.LightTheme())
	}
}
