package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chatnary/chatnary/internal/app"
	"github.com/chatnary/chatnary/internal/config"
	"github.com/chatnary/chatnary/internal/logging"
	"github.com/chatnary/chatnary/internal/theme"
)

var errSetupCancelled = errors.New("setup cancelled")

// env is the resolved configuration shared by every command.
type env struct {
	library  string
	theme    string
	logLevel string
	logFile  string

	cfg    config.Config
	logger *log.Logger
	logOut *os.File
}

func newRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:           "chatnary",
		Short:         "Browse and search a document library in the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return e.close()
		},
		RunE: func(*cobra.Command, []string) error {
			return runLocal(e)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.library, "library", "", "path to the document library")
	flags.StringVar(&e.theme, "theme", "", "color theme: "+strings.Join(theme.Names(), ", "))
	flags.StringVar(&e.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&e.logFile, "log-file", "", "log file (default: <library>/.chatnary/chatnary.log)")

	root.AddCommand(newServeCmd(e), newIndexCmd(e), newImportCmd(e), newRemoveCmd(e))
	return root
}

// load merges defaults, config.toml and flags, runs first-time setup when
// nothing names a library, and opens the log file.
func (e *env) load(cmd *cobra.Command) error {
	cfg := config.Default()
	existed, err := config.LoadFile(&cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", config.ConfigPath(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("library") {
		cfg.LibraryPath = e.library
	}
	if flags.Changed("theme") {
		cfg.Theme = e.theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = e.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = e.logFile
	}

	if !existed && !flags.Changed("library") {
		res, err := config.RunSetup()
		if err != nil {
			return fmt.Errorf("setup: %w", err)
		}
		if res.Cancelled {
			return errSetupCancelled
		}
		cfg.LibraryPath = res.LibraryPath
	}

	cfg.LibraryPath = config.ExpandHome(cfg.LibraryPath)
	if abs, err := filepath.Abs(cfg.LibraryPath); err == nil {
		cfg.LibraryPath = abs
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(cfg.StateDir(), 0755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	out, err := logging.OpenFile(cfg.LogPath())
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Output: out})
	if err != nil {
		out.Close()
		return err
	}

	e.cfg = cfg
	e.logger = logger
	e.logOut = out
	return nil
}

func (e *env) close() error {
	if e.logOut == nil {
		return nil
	}
	err := e.logOut.Close()
	e.logOut = nil
	return err
}

func runLocal(e *env) error {
	defer e.close()

	a, err := app.New(e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	e.logger.Info("starting", "library", e.cfg.LibraryPath, "version", version)
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithReportFocus())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return a.Err()
}
