package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chatnary/chatnary/internal/layout"
	"github.com/chatnary/chatnary/internal/theme"
)

type Config struct {
	LibraryPath string
	Listen      string
	Theme       string
	LogLevel    string
	LogFile     string // empty means <library>/.chatnary/chatnary.log
	ResizeStep  int    // columns per keyboard resize
	Left        layout.PanelConfig
	Right       layout.PanelConfig
}

func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		LibraryPath: filepath.Join(home, "chatnary"),
		Listen:      ":2222",
		Theme:       "catppuccin",
		LogLevel:    "info",
		ResizeStep:  2,
		Left: layout.PanelConfig{
			DefaultWidth:   30,
			MinWidth:       20,
			MaxWidth:       50,
			CollapsedWidth: 3,
		},
		Right: layout.PanelConfig{
			DefaultWidth:   40,
			MinWidth:       30,
			MaxWidth:       70,
			CollapsedWidth: 3,
		},
	}
}

// StateDir is where the index, session and log live inside the library.
func (c Config) StateDir() string {
	return filepath.Join(c.LibraryPath, ".chatnary")
}

// LogPath resolves the log file location.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return ExpandHome(c.LogFile)
	}
	return filepath.Join(c.StateDir(), "chatnary.log")
}

// Validate checks the panel configuration before any UI is built.
func (c Config) Validate() error {
	if err := c.Left.Validate(); err != nil {
		return fmt.Errorf("layout.left: %w", err)
	}
	if err := c.Right.Validate(); err != nil {
		return fmt.Errorf("layout.right: %w", err)
	}
	if c.ResizeStep < 1 {
		return fmt.Errorf("resize_step must be at least 1, got %d", c.ResizeStep)
	}
	if names := theme.Names(); !slices.Contains(names, c.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(names, ", "))
	}
	return nil
}
