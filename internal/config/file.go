package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chatnary/chatnary/internal/layout"
)

// fileConfig mirrors Config with pointer fields so we can distinguish
// "not set" from zero values when merging TOML.
type fileConfig struct {
	LibraryPath *string     `toml:"library_path"`
	Listen      *string     `toml:"listen"`
	Theme       *string     `toml:"theme"`
	LogLevel    *string     `toml:"log_level"`
	LogFile     *string     `toml:"log_file"`
	ResizeStep  *int        `toml:"resize_step"`
	Layout      *fileLayout `toml:"layout"`
}

type fileLayout struct {
	Left  *filePanel `toml:"left"`
	Right *filePanel `toml:"right"`
}

type filePanel struct {
	DefaultWidth   *int  `toml:"default_width"`
	MinWidth       *int  `toml:"min_width"`
	MaxWidth       *int  `toml:"max_width"`
	CollapsedWidth *int  `toml:"collapsed_width"`
	Collapsed      *bool `toml:"collapsed"`
}

func (fp *filePanel) merge(pc *layout.PanelConfig) {
	if fp == nil {
		return
	}
	if fp.DefaultWidth != nil {
		pc.DefaultWidth = *fp.DefaultWidth
	}
	if fp.MinWidth != nil {
		pc.MinWidth = *fp.MinWidth
	}
	if fp.MaxWidth != nil {
		pc.MaxWidth = *fp.MaxWidth
	}
	if fp.CollapsedWidth != nil {
		pc.CollapsedWidth = *fp.CollapsedWidth
	}
	if fp.Collapsed != nil {
		pc.Collapsed = *fp.Collapsed
	}
}

// ConfigDir returns the chatnary config directory, respecting XDG_CONFIG_HOME.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatnary")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chatnary")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// LoadFile reads config.toml and merges non-nil fields into cfg.
// Returns true if the file existed, false otherwise.
func LoadFile(cfg *Config) (bool, error) {
	data, err := os.ReadFile(ConfigPath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return true, err
	}

	if fc.LibraryPath != nil {
		cfg.LibraryPath = ExpandHome(*fc.LibraryPath)
	}
	if fc.Listen != nil {
		cfg.Listen = *fc.Listen
	}
	if fc.Theme != nil {
		cfg.Theme = *fc.Theme
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.LogFile != nil {
		cfg.LogFile = *fc.LogFile
	}
	if fc.ResizeStep != nil {
		cfg.ResizeStep = *fc.ResizeStep
	}
	if fc.Layout != nil {
		fc.Layout.Left.merge(&cfg.Left)
		fc.Layout.Right.merge(&cfg.Right)
	}

	return true, nil
}

// SaveFile writes a minimal config.toml with the given library path.
func SaveFile(libraryPath string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Store with ~ for readability if under home dir.
	home, _ := os.UserHomeDir()
	display := libraryPath
	if home != "" && strings.HasPrefix(libraryPath, home+string(os.PathSeparator)) {
		display = "~" + libraryPath[len(home):]
	}

	fc := fileConfig{LibraryPath: &display}
	f, err := os.Create(filepath.Join(dir, "config.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(fc)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, _ := os.UserHomeDir()
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
