package main

import (
	"context"
	"fmt"
	"io"

	"oneline/internal/core/daygate"
	"oneline/internal/core/model"
	"oneline/internal/core/scene"
	"oneline/internal/export"
	"oneline/internal/platform"
	"oneline/internal/storage"
	"oneline/internal/ui/preferences"
	"oneline/internal/ui/screen"
	"oneline/internal/ui/tray"
	"oneline/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fynestorage "fyne.io/fyne/v2/storage"
	"go.uber.org/zap"
)

const (
	appName = "OneLine"
	appID   = "com.oneline.app"
)

type exporter func(io.Writer, scene.Scene, scene.Style) error

func main() {
	settings, settingsErr := storage.LoadSettings(appName)
	logger := newLogger(settings.VerboseLogging)
	defer func() {
		_ = logger.Sync()
	}()
	if settingsErr != nil {
		logger.Warn("load settings, using defaults", zap.Error(settingsErr))
	}

	guard, err := platform.AcquireSingleInstance(appName, logger)
	if err != nil {
		logger.Info("single instance", zap.Error(err))
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.AppIcon))

	store := storage.NewStore(storage.NewFyneBlob(fyneApp.Storage()), logger)

	mainWindow := fyneApp.NewWindow("One Line")
	mainWindow.Resize(fyne.NewSize(960, 640))
	controller := screen.New(mainWindow, store, screen.Config{
		Settings: settings,
		Logger:   logger,
	})

	watcher := daygate.NewWatcher(settings.WatcherConfig())
	controller.Watch(ctx, watcher.Subscribe(4))

	openWindow := func() {
		mainWindow.Show()
		mainWindow.RequestFocus()
	}
	guard.Serve(func() {
		fyne.Do(openWindow)
	})

	prefsWindow := preferences.New(fyneApp, settings, model.DefaultColorScheme, func(updated preferences.Settings, colorScheme string) {
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Error("save settings", zap.Error(err))
		}
		if err := store.SetColorScheme(ctx, colorScheme); err != nil {
			logger.Error("save color scheme", zap.Error(err))
		} else {
			controller.ApplyColorScheme(colorScheme)
		}
		settings = updated
		controller.ApplySettings(settings)
		watcher.UpdateConfig(settings.WatcherConfig())
	})

	exportPNG := func() {
		showExportDialog(mainWindow, controller, ".png", export.PNG, logger)
	}
	exportPDF := func() {
		showExportDialog(mainWindow, controller, ".pdf", export.PDF, logger)
	}

	mainWindow.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Export PNG...", exportPNG),
			fyne.NewMenuItem("Export PDF...", exportPDF),
			fyne.NewMenuItemSeparator(),
			fyne.NewMenuItem("Preferences", prefsWindow.Show),
		),
	))

	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager := tray.New(desktopApp, tray.Callbacks{
			OnOpen:        openWindow,
			OnExportPNG:   exportPNG,
			OnExportPDF:   exportPDF,
			OnPreferences: prefsWindow.Show,
			OnQuit: func() {
				watcher.Stop()
				fyneApp.Quit()
			},
		})
		desktopApp.SetSystemTrayIcon(resources.MustIcon(resources.AppIcon))
		controller.SetOnChange(func(mode screen.Mode, stats model.Stats) {
			locked := mode == screen.ModeLocked
			trayManager.SetStatus(locked, stats.TotalDays)
			icon := resources.AppIcon
			if locked {
				icon = resources.LockedIcon
			}
			desktopApp.SetSystemTrayIcon(resources.MustIcon(icon))
		})
		mainWindow.SetCloseIntercept(mainWindow.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	controller.Show(ctx)
	prefsWindow.UpdateSettings(settings, controller.Style().Color)
	watcher.Start()

	mainWindow.Show()
	fyneApp.Run()

	watcher.Stop()
	controller.Close()
}

func newLogger(verbose bool) *zap.Logger {
	build := zap.NewProduction
	if verbose {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return logger.Named("oneline")
}

func showExportDialog(window fyne.Window, controller *screen.Controller, extension string, write exporter, logger *zap.Logger) {
	if controller.ExportScene().Empty() {
		dialog.ShowInformation("Export", "Draw your first line before exporting.", window)
		return
	}
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, window)
			return
		}
		if writer == nil {
			return
		}
		if err := writeExport(writer, controller.ExportScene(), controller.Style(), write); err != nil {
			logger.Error("export", zap.String("uri", writer.URI().String()), zap.Error(err))
			dialog.ShowError(err, window)
			return
		}
		logger.Info("exported", zap.String("uri", writer.URI().String()))
	}, window)
	save.SetFileName("one-line" + extension)
	save.SetFilter(fynestorage.NewExtensionFileFilter([]string{extension}))
	save.Show()
}

func writeExport(writer fyne.URIWriteCloser, built scene.Scene, style scene.Style, write exporter) error {
	if err := write(writer, built, style); err != nil {
		_ = writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	return nil
}
