package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"oneline/internal/platform"
	"oneline/internal/ui/preferences"

	"gopkg.in/yaml.v3"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	LineWidth       float64 `yaml:"line_width"`
	ShowJunctions   *bool   `yaml:"show_junctions"`
	EaseMillis      int     `yaml:"ease_millis"`
	DayCheckSeconds int     `yaml:"day_check_seconds"`
	VerboseLogging  bool    `yaml:"verbose_logging"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return preferences.DefaultSettings(), err
	}
	return loadSettingsFile(configPath)
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}
	return saveSettingsFile(configPath, settings)
}

func loadSettingsFile(configPath string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

func saveSettingsFile(configPath string, settings preferences.Settings) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	showJunctions := settings.ShowJunctions
	fileData := yamlSettings{
		LineWidth:       settings.LineWidth,
		ShowJunctions:   &showJunctions,
		EaseMillis:      int(settings.Ease / time.Millisecond),
		DayCheckSeconds: int(settings.DayCheckInterval / time.Second),
		VerboseLogging:  settings.VerboseLogging,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := platform.ConfigDir(appName)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return filepath.Join(configDir, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.LineWidth >= 1 && fileData.LineWidth <= 12 {
		settings.LineWidth = fileData.LineWidth
	}
	if fileData.EaseMillis > 0 && fileData.EaseMillis <= 1000 {
		settings.Ease = time.Duration(fileData.EaseMillis) * time.Millisecond
	}
	if fileData.DayCheckSeconds > 0 {
		settings.DayCheckInterval = time.Duration(fileData.DayCheckSeconds) * time.Second
	}
	if fileData.ShowJunctions != nil {
		settings.ShowJunctions = *fileData.ShowJunctions
	}
	settings.VerboseLogging = fileData.VerboseLogging
}
