package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pilaster/pkg/batch"
	"pilaster/pkg/errors"
	"pilaster/pkg/host/memmodel"
	"pilaster/pkg/modelio"
)

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	output     string  // updated snapshot path (skip writing if empty)
	yes        bool    // skip the confirmation prompt
	elevation  float64 // placement reference elevation
	baseFamily string  // family used to derive sized symbols
	tolerance  float64 // endpoint-coincidence tolerance
	minSize    float64 // minimum accepted edge length
	maxSize    float64 // maximum accepted edge length
}

// placeCommand creates the place command: the full batch pipeline from a
// model snapshot file.
func (c *CLI) placeCommand() *cobra.Command {
	var opts placeOpts

	cmd := &cobra.Command{
		Use:   "place <model.json>",
		Short: "Detect rectangles and create one column per rectangle",
		Long: `Place runs the batch placement pipeline on a model snapshot file.

The snapshot's segments are scanned for closed axis-aligned rectangles; each
rectangle gets a sized symbol (matched, derived, or closest available) and
one column at its center on the nearest level.

Examples:
  pilaster place model.json                 # Prompt before placing
  pilaster place model.json -y -o out.json  # No prompt, write updated snapshot
  pilaster place model.json --elevation 3.5 # Place against the nearest level to 3.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlace(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the updated snapshot to this file")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().Float64Var(&opts.elevation, "elevation", 0, "placement reference elevation")
	cmd.Flags().StringVar(&opts.baseFamily, "base-family", "", "family used to derive sized symbols")
	cmd.Flags().Float64Var(&opts.tolerance, "tolerance", 0, "endpoint-coincidence tolerance")
	cmd.Flags().Float64Var(&opts.minSize, "min-size", 0, "minimum accepted rectangle edge length")
	cmd.Flags().Float64Var(&opts.maxSize, "max-size", 0, "maximum accepted rectangle edge length")

	return cmd
}

func (c *CLI) runPlace(cmd *cobra.Command, path string, opts placeOpts) error {
	logger := loggerFromContext(cmd.Context())

	snap, err := modelio.Import(path)
	if err != nil {
		return err
	}
	if len(snap.Segments) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot %s has no segments", path)
	}
	printInfo("Loaded %s: %d segments, %d symbols, %d levels",
		path, len(snap.Segments), len(snap.Symbols), len(snap.Levels))

	cfg, err := c.loadSettings()
	if err != nil {
		return err
	}

	batchOpts := batch.Options{
		Segments:   snap.Segments,
		Tolerance:  opts.tolerance,
		MinSize:    opts.minSize,
		MaxSize:    opts.maxSize,
		BaseFamily: opts.baseFamily,
		Elevation:  opts.elevation,
		Logger:     logger,
	}
	cfg.Apply(&batchOpts)
	if !opts.yes {
		batchOpts.Confirm = confirmPlacement
	}

	model := modelio.BuildModel(snap)
	runner := batch.NewRunner(model, logger)

	prog := newProgress(logger)
	result, err := runner.Execute(cmd.Context(), batchOpts)
	switch {
	case errors.Is(err, errors.ErrCodeUserCancelled):
		printWarning("Cancelled, no changes made")
		return nil
	case errors.Is(err, errors.ErrCodeNoRectangles):
		printReport(result.Report)
		printWarning("No closed rectangles found")
		return nil
	case err != nil:
		if result != nil {
			printReport(result.Report)
		}
		return err
	}
	prog.done(fmt.Sprintf("Placed %d columns", result.Report.Created))

	printReport(result.Report)
	return c.writeSnapshot(model, snap, opts.output)
}

// writeSnapshot persists the post-run model state next to the original
// segment selection. An empty path skips the write.
func (c *CLI) writeSnapshot(model *memmodel.Model, snap *modelio.Snapshot, path string) error {
	if path == "" {
		return nil
	}
	out, err := modelio.Capture(model, snap.Segments)
	if err != nil {
		return err
	}
	out.Defaults = snap.Defaults
	if err := modelio.Export(out, path); err != nil {
		return err
	}
	printFile(path)
	return nil
}
