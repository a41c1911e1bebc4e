// Package cli implements the pilaster command-line interface.
//
// This package provides commands for running batch column placement against
// model snapshot files, placing single columns, and exporting the segment
// connectivity graph. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - place: Detect rectangles in a snapshot's segments and create columns
//   - column: Place a single column at explicit coordinates
//   - graph: Export the segment connectivity graph as DOT or SVG
//   - settings: Inspect or initialize the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pilaster/pkg/buildinfo"
	"pilaster/pkg/settings"
)

// appName is the application name used for directories and display.
const appName = "pilaster"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config override; empty means search the
	// default locations.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pilaster places structural columns from CAD linework",
		Long:         `Pilaster detects axis-aligned rectangles in 2D line segments and creates one structural column per rectangle, resolving a sized placement symbol for each.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (TOML)")

	root.AddCommand(c.placeCommand())
	root.AddCommand(c.columnCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadSettings returns the effective settings: the --config file if given,
// else ./pilaster.toml if present, else the user config dir, else defaults.
// A missing file is not an error; a broken one is.
func (c *CLI) loadSettings() (settings.Settings, error) {
	if c.configPath != "" {
		return settings.Load(c.configPath)
	}
	for _, path := range []string{localSettingsFile, userSettingsFile()} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			c.Logger.Debug("using settings file", "path", path)
			return settings.Load(path)
		}
	}
	return settings.Default(), nil
}

// localSettingsFile is the per-project settings file name.
const localSettingsFile = "pilaster.toml"

// userSettingsFile returns the XDG config path (~/.config/pilaster/pilaster.toml).
func userSettingsFile() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, localSettingsFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, localSettingsFile)
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
