package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pilaster/pkg/settings"
)

// settingsCommand creates the settings command group.
func (c *CLI) settingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or initialize the settings file",
	}
	cmd.AddCommand(c.settingsInitCommand())
	cmd.AddCommand(c.settingsShowCommand())
	return cmd
}

// settingsInitCommand writes a settings file with every default filled in,
// ready to edit.
func (c *CLI) settingsInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a settings file with the engine defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := localSettingsFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := settings.Save(settings.Default(), path); err != nil {
				return err
			}
			printSuccess("Wrote default settings")
			printFile(path)
			return nil
		},
	}
}

// settingsShowCommand prints the effective settings after file resolution.
func (c *CLI) settingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.loadSettings()
			if err != nil {
				return err
			}
			printKeyValue("tolerance", fmt.Sprintf("%g", s.Tolerance))
			printKeyValue("min_size", fmt.Sprintf("%g", s.MinSize))
			printKeyValue("max_size", fmt.Sprintf("%g", s.MaxSize))
			printKeyValue("symbol_tolerance", fmt.Sprintf("%g", s.SymbolTolerance))
			printKeyValue("base_family", s.BaseFamily)
			printKeyValue("width_params", strings.Join(s.WidthParams, ", "))
			printKeyValue("height_params", strings.Join(s.HeightParams, ", "))
			printKeyValue("elevation", fmt.Sprintf("%g", s.Elevation))
			printKeyValue("failure_preview", fmt.Sprintf("%d", s.FailurePreview))
			return nil
		},
	}
}
