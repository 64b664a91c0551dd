package preferences

import (
	"time"

	"oneline/internal/core/daygate"
	"oneline/internal/core/scene"
)

// Settings defines editable user preferences.
type Settings struct {
	LineWidth        float64
	ShowJunctions    bool
	Ease             time.Duration
	DayCheckInterval time.Duration
	VerboseLogging   bool
}

// DefaultSettings returns default settings for One Line.
func DefaultSettings() Settings {
	return Settings{
		LineWidth:        3,
		ShowJunctions:    true,
		Ease:             90 * time.Millisecond,
		DayCheckInterval: 30 * time.Second,
		VerboseLogging:   false,
	}
}

// WatcherConfig converts settings to the day watcher options.
func (settings Settings) WatcherConfig() daygate.Config {
	return daygate.Config{TickInterval: settings.DayCheckInterval}
}

// Style combines settings with the stored colour scheme.
func (settings Settings) Style(colorScheme string) scene.Style {
	style := scene.DefaultStyle()
	if colorScheme != "" {
		style.Color = colorScheme
	}
	style.LineWidth = settings.LineWidth
	style.ShowJunctions = settings.ShowJunctions
	return style
}
