package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/placement"
	"github.com/matzehuels/floorplan/pkg/session"
)

// loadSaved restores the saved placement of sess. A design without a saved
// placement is reported and returns ok == false.
func loadSaved(ctx context.Context, sess *session.Session) (warnings []error, ok bool, err error) {
	warnings, err = sess.Load(ctx)
	if session.IsNotFound(err) {
		printWarning("%s: no saved placement", sess.Key)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return warnings, true, nil
}

// snapshotCommand writes grid snapshots of saved placements.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		design string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the grid snapshot of saved placements",
		Long: `Write output/<project>/<design>_grid.txt from the saved placement.

Each grid row becomes one line; each cell is written as "None , " when
empty or "<shape>(<id>) <orientation> , " when occupied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.eachDesign(ctx, design, func(sess *session.Session) error {
				if _, ok, err := loadSaved(ctx, sess); err != nil || !ok {
					return err
				}
				if stdout {
					return placement.WriteSnapshot(sess.Engine, os.Stdout)
				}
				if err := sess.WriteSnapshot(); err != nil {
					return err
				}
				printSuccess("%s: %d blocks", sess.Key, sess.Engine.Len())
				printFile(sess.SnapshotPath())
				return nil
			})
		},
	}
	c.addDesignFlag(cmd, &design, "design (default: every design)")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the snapshot to stdout")
	return cmd
}

// checkCommand verifies saved placements against the current catalogs.
func (c *CLI) checkCommand() *cobra.Command {
	var design string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that saved placements fit their catalog and grid",
		Long: `Load each saved placement and report records that reference unknown
shapes, leave the grid or overlap other blocks. Exits non-zero if any record
would be dropped on load.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			checked, bad := 0, 0
			err := c.eachDesign(ctx, design, func(sess *session.Session) error {
				warnings, ok, err := loadSaved(ctx, sess)
				if err != nil || !ok {
					return err
				}
				checked++
				if err := sess.Engine.Verify(); err != nil {
					return err
				}
				if len(warnings) == 0 {
					printSuccess("%s: %d blocks", sess.Key, sess.Engine.Len())
					return nil
				}
				bad++
				printWarning("%s: %d blocks, %d skipped", sess.Key, sess.Engine.Len(), len(warnings))
				for _, w := range warnings {
					printDetail("%s", ferrors.UserMessage(w))
				}
				return nil
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Checked %d designs", checked))
			if bad > 0 {
				return ferrors.New(ferrors.ErrCodeMalformedInput, "%d of %d placements have records that do not fit", bad, checked)
			}
			return nil
		},
	}
	c.addDesignFlag(cmd, &design, "design (default: every design)")
	return cmd
}

// clearCommand deletes saved placements.
func (c *CLI) clearCommand() *cobra.Command {
	var (
		design string
		yes    bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved placements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return ferrors.New(ferrors.ErrCodeMalformedInput, "refusing to clear without --yes")
			}
			ctx := cmd.Context()
			return c.eachDesign(ctx, design, func(sess *session.Session) error {
				if _, err := sess.Clear(ctx); err != nil {
					return err
				}
				printSuccess("%s: cleared", sess.Key)
				return nil
			})
		},
	}
	c.addDesignFlag(cmd, &design, "design (default: every design)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
