package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/session"
)

type editOpts struct {
	design string
	load   bool
}

// editCommand creates the edit command, the interactive editor.
func (c *CLI) editCommand() *cobra.Command {
	opts := editOpts{}

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit design placements in the terminal",
		Long: `Open the interactive floorplan editor.

Without --design every design of the project manifest is edited in turn;
quitting the editor moves on to the next design.

Keys:
  arrows       move the cursor
  tab / 1-8    switch mode (place, delete, delete region, orientation,
               place blockage, delete blockage, select w/ and w/o blockage)
  [ ]          previous / next shape
  enter        apply the mode at the cursor
  space        start / finish a region in region modes
  w a s d      move the selection
  t            move the selected block to a cell (e.g. B4)
  c            duplicate the selection (direction, interval)
  x            swap the selected block to the current shape
  o            cycle the orientation of the block at the cursor
  g            toggle guidelines of the block at the cursor
  ctrl+s       save          ctrl+o  load
  ctrl+n       clear         esc     cancel / clear selection
  q            quit`,
		Example: `  # Edit every design of project "mye"
  floorplan edit

  # Edit one design and restore its saved placement
  floorplan edit -p mye -d top --load`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), opts)
		},
	}

	c.addDesignFlag(cmd, &opts.design, "design to edit (default: every design in turn)")
	cmd.Flags().BoolVar(&opts.load, "load", false, "restore the saved placement on start")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, opts editOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// The editor owns the terminal; log to the project log file meanwhile.
	logger, closer, err := openLogFile(cfg.LogPath(c.project), c.Logger.GetLevel())
	if err != nil {
		return err
	}
	defer closer.Close()
	setHooks(logger)
	defer setHooks(c.Logger)
	ctx = withLogger(ctx, logger)

	return c.eachDesign(ctx, opts.design, func(sess *session.Session) error {
		logger.Info("editing design", "design", sess.Key)
		if opts.load {
			if _, err := sess.Load(ctx); err != nil && !session.IsNotFound(err) {
				return err
			}
		}
		if err := runEditor(ctx, sess, logger); err != nil {
			return err
		}
		printInfo("%s: %d blocks", sess.Key, sess.Engine.Len())
		return nil
	})
}
