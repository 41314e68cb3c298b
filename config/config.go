// Package config loads camterm settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level camterm configuration.
type Config struct {
	Shell  ShellConfig  `yaml:"shell"`
	Camera CameraConfig `yaml:"camera"`
	Modal  ModalConfig  `yaml:"modal"`
	ASCII  ASCIIConfig  `yaml:"ascii"`
	UI     UIConfig     `yaml:"ui"`
	Log    LogConfig    `yaml:"log"`
}

// ShellConfig selects the program run inside the session.
type ShellConfig struct {
	Command string `yaml:"command"` // empty: $SHELL, then /bin/zsh
}

// CameraConfig controls frame capture.
type CameraConfig struct {
	Device     int    `yaml:"device"`
	Mirror     *bool  `yaml:"mirror"`
	Resolution string `yaml:"resolution"` // low | medium | high
	FPS        int    `yaml:"fps"`
	Source     string `yaml:"source"` // v4l2 | image:PATH | replay:PATH
}

// ModalConfig controls the overlay window.
type ModalConfig struct {
	Visible      *bool  `yaml:"visible"`
	Position     string `yaml:"position"`
	Size         string `yaml:"size"`
	Border       bool   `yaml:"border"`
	Transparency *int   `yaml:"transparency"`
}

// ASCIIConfig controls glyph rendering.
type ASCIIConfig struct {
	Charset string `yaml:"charset"`
	Invert  bool   `yaml:"invert"`
	Mode    string `yaml:"mode"`

	// Contrast stretches brightness around mid gray; 1 leaves it as is.
	Contrast     float64 `yaml:"contrast"`
	EdgePreserve float64 `yaml:"edge_preserve"`
	KeepAspect   bool    `yaml:"keep_aspect"`
}

// UIConfig controls extra decorations.
type UIConfig struct {
	StatusBar *bool `yaml:"status_bar"`
}

// LogConfig controls the diagnostic log. Logging is off unless a file is
// named, since the terminal belongs to the shell.
type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"` // debug | info | warn | error
}

// Error reports a config file that exists but could not be used.
type Error struct {
	Path string
	Op   string // "read" or "parse"
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s config file '%s': %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// DefaultPath returns $XDG_CONFIG_HOME/camterm/config.yaml or the platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "camterm", "config.yaml")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads the YAML file at path, or DefaultPath when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, &Error{Path: path, Op: "read", Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &Error{Path: path, Op: "parse", Err: err}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Camera.Mirror == nil {
		c.Camera.Mirror = boolPtr(true)
	}
	if c.Camera.Resolution == "" {
		c.Camera.Resolution = "medium"
	}
	if c.Camera.FPS <= 0 {
		c.Camera.FPS = 15
	}
	if c.Camera.Source == "" {
		c.Camera.Source = "v4l2"
	}
	if c.Modal.Visible == nil {
		c.Modal.Visible = boolPtr(true)
	}
	if c.Modal.Position == "" {
		c.Modal.Position = "bottom-right"
	}
	if c.Modal.Size == "" {
		c.Modal.Size = "small"
	}
	if c.Modal.Transparency == nil {
		c.Modal.Transparency = intPtr(80)
	}
	if c.ASCII.Charset == "" {
		c.ASCII.Charset = "standard"
	}
	if c.ASCII.Mode == "" {
		c.ASCII.Mode = "flat"
	}
	if c.ASCII.Contrast == 0 {
		c.ASCII.Contrast = 1
	}
	if c.UI.StatusBar == nil {
		c.UI.StatusBar = boolPtr(true)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Init writes the default configuration to path, or DefaultPath when path
// is empty. An existing file is never overwritten.
func Init(path string) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return path, &Error{Path: path, Op: "create", Err: err}
	}

	data, err := Default().Marshal()
	if err != nil {
		return path, err
	}
	data = append([]byte("# camterm configuration\n"), data...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return path, &Error{Path: path, Op: "write", Err: err}
	}
	return path, nil
}
