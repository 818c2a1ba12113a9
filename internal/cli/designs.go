package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/placement"
	"github.com/matzehuels/floorplan/pkg/session"
	"github.com/matzehuels/floorplan/pkg/store"
)

var headerStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// designsCommand lists the designs of the project manifest.
func (c *CLI) designsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "designs",
		Short: "List the designs of a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDesigns(cmd.Context())
		},
	}
}

func (c *CLI) runDesigns(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	designs, err := session.Designs(cfg, c.project)
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	t := newTable("Design", "Grid", "Catalog", "Saved")
	for _, d := range designs {
		saved := StyleDim.Render("-")
		doc, err := st.Load(ctx, placement.Key{Project: c.project, Design: d.Name})
		switch {
		case err == nil:
			saved = StyleSuccess.Render(fmt.Sprintf("%d blocks", doc.Len()))
			if !doc.SavedAt.IsZero() {
				saved += StyleDim.Render(" " + doc.SavedAt.Local().Format("Jan 2 15:04"))
			}
		case !errors.Is(err, store.ErrNotFound):
			saved = StyleWarning.Render("unreadable")
			loggerFromContext(ctx).Debug("load failed", "design", d.Name, "err", err)
		}
		t.Row(d.Name, fmt.Sprintf("%dx%d", d.Width, d.Height), cfg.CatalogPath(c.project, d.Name), saved)
	}

	fmt.Println(StyleTitle.Render(c.project) + StyleDim.Render(" "+cfg.ManifestPath(c.project)))
	fmt.Println(t.Render())
	return nil
}

// shapesCommand lists the shape catalog of each design.
func (c *CLI) shapesCommand() *cobra.Command {
	var design string

	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the shape catalog of a design",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.eachDesign(cmd.Context(), design, func(sess *session.Session) error {
				printShapes(sess)
				return nil
			})
		},
	}
	c.addDesignFlag(cmd, &design, "design (default: every design)")
	return cmd
}

func printShapes(sess *session.Session) {
	cat := sess.Engine.Catalog()
	t := newTable("Shape", "Size", "Color", "Pins")
	for _, name := range cat.Names() {
		s, _ := cat.Shape(name)
		w, h := s.Extent()
		size := fmt.Sprintf("%dx%d", w, h)
		if s.Round {
			size += StyleDim.Render(" round")
		}
		c, ok := catalog.ResolveColor(s.Color)
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("■") + " " + s.Color
		if !ok {
			color += StyleWarning.Render(" (unknown)")
		}
		pins := s.Pins.String()
		if s.Pins == 0 {
			pins = StyleDim.Render("-")
		}
		t.Row(name, size, color, pins)
	}
	fmt.Println(StyleTitle.Render(sess.Key.String()) + StyleDim.Render(fmt.Sprintf(" · %d shapes", cat.Len())))
	fmt.Println(t.Render())
}
