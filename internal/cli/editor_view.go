package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/floorplan/pkg/buildinfo"
	"github.com/matzehuels/floorplan/pkg/catalog"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// cellWidth is the number of terminal columns per grid cell.
const cellWidth = 2

// rowLabelWidth holds the 1-based row numbers left of the grid.
const rowLabelWidth = 5

// chromeLines is the number of non-grid lines in the view.
const chromeLines = 8

var (
	styleCursor  = lipgloss.NewStyle().Reverse(true)
	styleRegion  = lipgloss.NewStyle().Background(lipgloss.Color("24"))
	styleEmpty   = lipgloss.NewStyle().Foreground(colorDim)
	styleGuide   = lipgloss.NewStyle().Foreground(colorYellow)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray)
	styleCurrent = lipgloss.NewStyle().Bold(true).Underline(true)
)

// =============================================================================
// Palette
// =============================================================================

type shapeStyle struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	swatch   lipgloss.Style
}

// palette holds the terminal styles of every catalog shape. Selected blocks
// are drawn in a darkened variant of their color.
type palette struct {
	styles map[string]shapeStyle
}

func newPalette(cat *floorplan.Catalog) *palette {
	p := &palette{styles: make(map[string]shapeStyle, cat.Len())}
	for _, name := range cat.Names() {
		s, _ := cat.Shape(name)
		c, ok := catalog.ResolveColor(s.Color)
		if !ok && name == floorplan.BlockageShape {
			c, _ = catalog.ResolveColor("black")
		}
		dark := catalog.Darken(c, 0.45)
		p.styles[name] = shapeStyle{
			normal: lipgloss.NewStyle().
				Background(lipgloss.Color(c.Hex())).
				Foreground(lipgloss.Color(catalog.Contrast(c).Hex())),
			selected: lipgloss.NewStyle().
				Background(lipgloss.Color(dark.Hex())).
				Foreground(lipgloss.Color(catalog.Contrast(dark).Hex())).
				Bold(true),
			swatch: lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())),
		}
	}
	return p
}

func (p *palette) style(shape string, selected bool) lipgloss.Style {
	s, ok := p.styles[shape]
	if !ok {
		return styleEmpty
	}
	if selected {
		return s.selected
	}
	return s.normal
}

// =============================================================================
// View
// =============================================================================

func (m Editor) View() string {
	var b strings.Builder

	b.WriteString(m.titleLine())
	b.WriteString("\n")
	b.WriteString(m.columnHeader())
	b.WriteString("\n")
	m.writeGrid(&b)
	b.WriteString("\n")
	b.WriteString(m.infoLine())
	b.WriteString("\n")
	b.WriteString(m.paletteLine())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows cursor  ⏎ act  ␣ region  tab mode  [ ] shape  wasd move  t move-to  c duplicate  x swap  o orient  g guide  ^s save  ^o load  ^n clear  q quit"))
	return b.String()
}

func (m Editor) titleLine() string {
	title := StyleTitle.Render(buildinfo.Short()) + " " + StyleValue.Render(m.sess.Key.String())
	if m.dirty {
		title += StyleWarning.Render(" *")
	}
	return title + StyleDim.Render("  mode: ") + StyleHighlight.Render(m.mode.String())
}

// visible returns the number of grid columns and rows that fit the terminal.
func (m Editor) visible() (cols, rows int) {
	cols = max((m.width-rowLabelWidth)/cellWidth, 1)
	rows = max(m.height-chromeLines, 1)
	return min(cols, m.eng.Width()), min(rows, m.eng.Height())
}

// scroll keeps the cursor inside the viewport.
func (m *Editor) scroll() {
	cols, rows := m.visible()
	if m.cursor.X < m.offX {
		m.offX = m.cursor.X
	} else if m.cursor.X >= m.offX+cols {
		m.offX = m.cursor.X - cols + 1
	}
	if m.cursor.Y < m.offY {
		m.offY = m.cursor.Y
	} else if m.cursor.Y >= m.offY+rows {
		m.offY = m.cursor.Y - rows + 1
	}
	m.offX = max(min(m.offX, m.eng.Width()-cols), 0)
	m.offY = max(min(m.offY, m.eng.Height()-rows), 0)
}

// columnHeader labels every fifth column.
func (m Editor) columnHeader() string {
	cols, _ := m.visible()
	line := []rune(strings.Repeat(" ", rowLabelWidth+cols*cellWidth))
	for i := 0; i < cols; i++ {
		x := m.offX + i
		if x%5 != 0 && i != 0 {
			continue
		}
		pos := rowLabelWidth + i*cellWidth
		for j, r := range floorplan.ColumnName(x) {
			if pos+j < len(line) {
				line[pos+j] = r
			}
		}
	}
	return styleLabel.Render(string(line))
}

func (m Editor) writeGrid(b *strings.Builder) {
	cols, rows := m.visible()
	g := m.eng.Grid()
	cat := m.eng.Catalog()

	blocks := make(map[floorplan.BlockID]floorplan.Block, m.eng.Len())
	for _, blk := range m.eng.Blocks() {
		blocks[blk.ID] = blk
	}
	guideX, guideY := m.guideLines()

	var region *floorplan.Rect
	if m.anchor != nil {
		r := floorplan.RectFromCorners(*m.anchor, m.cursor)
		region = &r
	}

	for j := 0; j < rows; j++ {
		y := m.offY + j
		b.WriteString(styleLabel.Render(fmt.Sprintf("%*d ", rowLabelWidth-1, y+1)))
		for i := 0; i < cols; i++ {
			x := m.offX + i

			var text string
			var style lipgloss.Style
			if id := g.At(x, y); id != 0 {
				blk := blocks[id]
				text = cellText(blk, cat, x, y)
				style = m.palette.style(blk.Shape, m.eng.IsSelected(id))
			} else {
				text, style = emptyCell(x, y, guideX, guideY)
			}

			switch {
			case x == m.cursor.X && y == m.cursor.Y:
				style = styleCursor
			case region != nil && region.Contains(x, y):
				style = style.Underline(true)
				if g.At(x, y) == 0 {
					style = styleRegion
				}
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}
}

// guideLines returns the cell columns and rows touched by guidelines: the
// first and last column and row of every guided block.
func (m Editor) guideLines() (xs, ys map[int]bool) {
	xs, ys = make(map[int]bool), make(map[int]bool)
	for _, g := range m.eng.Guides() {
		xs[g.Left], xs[g.Right-1] = true, true
		ys[g.Top], ys[g.Bottom-1] = true, true
	}
	return xs, ys
}

func emptyCell(x, y int, guideX, guideY map[int]bool) (string, lipgloss.Style) {
	switch {
	case guideX[x] && guideY[y]:
		return "┼┼", styleGuide
	case guideX[x]:
		return "┊ ", styleGuide
	case guideY[y]:
		return "┈┈", styleGuide
	}
	return "· ", styleEmpty
}

// cellText draws one cell of a block: its name across the middle row, pin
// marks on the edges that carry pins under the block's orientation.
func cellText(b floorplan.Block, cat *floorplan.Catalog, x, y int) string {
	shape, _ := cat.Shape(b.Shape)
	switch {
	case shape.Round:
		return "()"
	case b.IsBlockage():
		return "░░"
	}

	r := b.Bounds()
	cell := []rune("  ")
	pins := b.PinEdges(cat)
	switch {
	case y == r.Y0+(r.Height()-1)/2:
		name := []rune(b.Shape)
		for k := range cell {
			if idx := (x-r.X0)*cellWidth + k; idx < len(name) {
				cell[k] = name[idx]
			}
		}
	case y == r.Y0 && pins.Has(floorplan.Top):
		cell = []rune("▔▔")
	case y == r.Y1 && pins.Has(floorplan.Bottom):
		cell = []rune("▁▁")
	}
	if x == r.X0 && pins.Has(floorplan.Left) && cell[0] == ' ' {
		cell[0] = '▏'
	}
	if x == r.X1 && pins.Has(floorplan.Right) && cell[1] == ' ' {
		cell[1] = '▕'
	}
	return string(cell)
}

func (m Editor) infoLine() string {
	x, y := m.cursor.X, m.cursor.Y
	parts := []string{StyleHighlight.Render(floorplan.FormatCell(x, y))}
	if blk, ok := m.eng.At(x, y); ok {
		parts = append(parts, StyleValue.Render(fmt.Sprintf("%s(%d) %s", blk.Shape, blk.ID, blk.Orientation)))
		r := blk.Bounds()
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%s-%s", floorplan.FormatCell(r.X0, r.Y0), floorplan.FormatCell(r.X1, r.Y1))))
		if pins := blk.PinEdges(m.eng.Catalog()); pins != 0 {
			parts = append(parts, StyleDim.Render("pins "+pins.String()))
		}
	}
	if n := len(m.eng.Selected()); n > 0 {
		parts = append(parts, StyleNumber.Render(fmt.Sprintf("%d selected", n)))
	}
	parts = append(parts, StyleDim.Render(fmt.Sprintf("%d blocks", m.eng.Len())))
	return strings.Join(parts, StyleDim.Render(" · "))
}

func (m Editor) paletteLine() string {
	var parts []string
	for i, name := range m.shapes {
		s := m.palette.styles[name]
		label := name
		if i == m.shape {
			label = styleCurrent.Render(name)
		}
		parts = append(parts, s.swatch.Render("■")+" "+label)
	}
	return strings.Join(parts, "  ")
}

func (m Editor) statusLine() string {
	if p := m.prompt; p != nil {
		return StyleHighlight.Render(p.label) + " " + StyleValue.Render(p.input) + styleCursor.Render(" ")
	}
	switch m.statusKind {
	case statusSuccess:
		return styleIconSuccess.Render(iconSuccess) + " " + m.status
	case statusWarning:
		return styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(m.status)
	case statusError:
		return styleIconError.Render(iconError) + " " + m.status
	}
	return styleIconInfo.Render(iconInfo) + " " + m.status
}
