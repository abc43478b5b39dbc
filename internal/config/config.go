package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the user-facing settings loaded from config.toml.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Confirm  ConfirmConfig  `toml:"confirm"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig controls the runtime logger level and the optional dev log file.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty = <data dir>/log
}

// ConfirmConfig selects which destructive actions ask before proceeding.
type ConfirmConfig struct {
	DeleteActive    bool `toml:"delete_active"`
	DeleteCompleted bool `toml:"delete_completed"`
}

type UIConfig struct {
	ShowHistory    bool `toml:"show_history"`
	ShowTimestamps bool `toml:"show_timestamps"`
}

// KeyConfig overrides the primary key of individual TUI bindings.
type KeyConfig struct {
	Add    string `toml:"add"`
	Edit   string `toml:"edit"`
	Delete string `toml:"delete"`
	Toggle string `toml:"toggle"`
	Copy   string `toml:"copy"`
}

// Default returns the built-in configuration rooted at dbPath.
func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
			},
		},
		Confirm: ConfirmConfig{
			DeleteActive:    true,
			DeleteCompleted: true,
		},
		UI: UIConfig{
			ShowHistory:    true,
			ShowTimestamps: false,
		},
		Keys: KeyConfig{
			Add:    "a",
			Edit:   "e",
			Delete: "d",
			Toggle: " ",
			Copy:   "y",
		},
	}
}

// Load overlays the TOML file at path onto defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	seen := map[string]string{}
	for _, binding := range []struct {
		name string
		key  string
	}{
		{"keys.add", c.Keys.Add},
		{"keys.edit", c.Keys.Edit},
		{"keys.delete", c.Keys.Delete},
		{"keys.toggle", c.Keys.Toggle},
		{"keys.copy", c.Keys.Copy},
	} {
		key := normalizeKey(binding.key)
		if key == "" {
			continue
		}
		if reserved(key) {
			return fmt.Errorf("%s: %q is reserved", binding.name, binding.key)
		}
		if other, ok := seen[key]; ok {
			return fmt.Errorf("%s conflicts with %s: %q", binding.name, other, binding.key)
		}
		seen[key] = binding.name
	}
	return nil
}

// LogLevel parses logging.level. Blank means info.
func (c Config) LogLevel() (charmLog.Level, error) {
	raw := strings.TrimSpace(c.Logging.Level)
	if raw == "" {
		return charmLog.InfoLevel, nil
	}
	level, err := charmLog.ParseLevel(strings.ToLower(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return level, nil
}

// normalizeKey folds the spellings a user may write for one key.
func normalizeKey(raw string) string {
	if raw == " " {
		return "space"
	}
	key := strings.ToLower(strings.TrimSpace(raw))
	if len(raw) == 1 && raw != strings.ToLower(raw) {
		key = "shift+" + key
	}
	return key
}

// reserved lists keys the TUI needs for navigation, quitting and modals.
func reserved(key string) bool {
	switch key {
	case "q", "ctrl+c", "tab", "shift+tab", "enter", "esc", "j", "k", "up", "down", "?", "r":
		return true
	}
	return false
}

// EnsureConfigDir creates the parent directory of a config path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
