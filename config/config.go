package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"go-pianoroll/roll"
)

// Environment overrides, applied after the config file
const (
	EnvAddNoteDuration = "PIANOROLL_ADD_NOTE_DURATION"
	EnvReadOnly        = "PIANOROLL_READ_ONLY"
	EnvPalette         = "PIANOROLL_PALETTE"
	EnvDebug           = "PIANOROLL_DEBUG"
	EnvExportDir       = "PIANOROLL_EXPORT_DIR"
	EnvProject         = "PIANOROLL_PROJECT"
)

// EditorConfig holds the only two settings the editor core recognizes
type EditorConfig struct {
	AddNoteDuration float64 `json:"addNoteDuration"` // seconds, 0 disables click-to-add
	ReadOnly        bool    `json:"readOnly,omitempty"`
}

// UIConfig stores UI preferences
type UIConfig struct {
	Palette     string `json:"palette,omitempty"` // builtin name or .gpl path
	Debug       bool   `json:"debug,omitempty"`
	LastFile    string `json:"lastFile,omitempty"`
	LastProject string `json:"lastProject,omitempty"`
}

// ExportConfig controls where downloads and snapshots land
type ExportConfig struct {
	Dir string `json:"dir,omitempty"` // empty means next to the source file
}

// Config is the main configuration structure
type Config struct {
	Editor EditorConfig `json:"editor"`
	UI     UIConfig     `json:"ui,omitempty"`
	Export ExportConfig `json:"export,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			AddNoteDuration: 0.25,
		},
		UI: UIConfig{
			Palette:     "plasma",
			LastProject: "untitled",
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianoroll"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path over the defaults
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}


// Remember records the last opened file and project in the config on disk.
// Flag and environment overrides live only in the running process, so the
// file is reloaded and only these two fields are written back.
func Remember(lastFile, lastProject string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return RememberAt(path, lastFile, lastProject)
}

// RememberAt is Remember for the config at path. Empty values keep what the
// file already has.
func RememberAt(path, lastFile, lastProject string) error {
	cfg, err := LoadFrom(path)
	if err != nil {
		return err
	}
	if lastFile != "" {
		cfg.UI.LastFile = lastFile
	}
	if lastProject != "" {
		cfg.UI.LastProject = lastProject
	}
	return cfg.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate rejects values the editor cannot use
func (c *Config) Validate() error {
	if c.Editor.AddNoteDuration < 0 {
		return fmt.Errorf("addNoteDuration must not be negative, got %v", c.Editor.AddNoteDuration)
	}
	if c.Editor.AddNoteDuration > roll.MaxTotalSeconds {
		return fmt.Errorf("addNoteDuration must be at most %vs, got %v", roll.MaxTotalSeconds, c.Editor.AddNoteDuration)
	}
	return nil
}

// LoadEnv reads .env files into the process environment. Missing files are
// not an error; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from PIANOROLL_* variables
func (c *Config) ApplyEnv() error {
	if v := getEnv(EnvAddNoteDuration, ""); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAddNoteDuration, err)
		}
		c.Editor.AddNoteDuration = d
	}
	if v := getEnv(EnvReadOnly, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvReadOnly, err)
		}
		c.Editor.ReadOnly = b
	}
	if v := getEnv(EnvDebug, ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.UI.Debug = b
	}
	c.UI.Palette = getEnv(EnvPalette, c.UI.Palette)
	c.UI.LastProject = getEnv(EnvProject, c.UI.LastProject)
	c.Export.Dir = getEnv(EnvExportDir, c.Export.Dir)

	return c.Validate()
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
