package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/session"
)

// =============================================================================
// Modes
// =============================================================================

// editMode decides what enter and space do at the cursor.
type editMode int

const (
	modePlace editMode = iota
	modeDelete
	modeDeleteRegion
	modeOrient
	modePlaceBlockage
	modeDeleteBlockage
	modeSelectWithBlockage
	modeSelectWithoutBlockage
	modeCount
)

var modeNames = [modeCount]string{
	"Place",
	"Delete",
	"Delete Region",
	"Change Orientation",
	"Place Blockage",
	"Delete Blockage",
	"Select w/ blockage",
	"Select w/o blockage",
}

func (m editMode) String() string { return modeNames[m] }

// regional reports whether the mode acts on a marked rectangle.
func (m editMode) regional() bool {
	switch m {
	case modeDeleteRegion, modePlaceBlockage, modeDeleteBlockage, modeSelectWithBlockage, modeSelectWithoutBlockage:
		return true
	}
	return false
}

// =============================================================================
// Prompts
// =============================================================================

type promptKind int

const (
	promptDirection promptKind = iota
	promptInterval
	promptMoveTo
	promptClear
	promptQuit
)

type prompt struct {
	kind  promptKind
	label string
	input string
}

// yesNo reports whether the prompt is answered by a single y/n key.
func (p *prompt) yesNo() bool { return p.kind == promptClear || p.kind == promptQuit }

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// =============================================================================
// Editor
// =============================================================================

// Editor is the bubbletea model of the interactive floorplan editor. It only
// translates keys into engine calls and draws the result; every placement
// decision is made by the engine.
type Editor struct {
	ctx    context.Context
	sess   *session.Session
	eng    *floorplan.Engine
	logger *log.Logger

	shapes []string
	shape  int
	mode   editMode
	cursor floorplan.Point
	anchor *floorplan.Point

	prompt *prompt
	dupDir floorplan.Direction

	status     string
	statusKind statusKind
	dirty      bool

	palette *palette
	width   int
	height  int
	offX    int
	offY    int
}

// NewEditor creates the editor model for an open session.
func NewEditor(ctx context.Context, sess *session.Session, logger *log.Logger) Editor {
	if logger == nil {
		logger = log.Default()
	}
	cat := sess.Engine.Catalog()
	return Editor{
		ctx:     ctx,
		sess:    sess,
		eng:     sess.Engine,
		logger:  logger,
		shapes:  cat.Names(),
		palette: newPalette(cat),
		width:   100,
		height:  40,
		status:  fmt.Sprintf("%s: %dx%d grid, %d shapes", sess.Key, sess.Engine.Width(), sess.Engine.Height(), cat.Len()),
	}
}

func (m Editor) Init() tea.Cmd {
	return nil
}

func (m Editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.scroll()
	case tea.KeyMsg:
		if m.prompt != nil {
			return m, m.handlePrompt(msg)
		}
		cmd := m.handleKey(msg)
		m.scroll()
		return m, cmd
	}
	return m, nil
}

// Mode returns the current edit mode name.
func (m Editor) Mode() string { return m.mode.String() }

// Shape returns the palette shape used for placement and swap.
func (m Editor) Shape() string {
	if len(m.shapes) == 0 {
		return ""
	}
	return m.shapes[m.shape]
}

// Cursor returns the cursor cell.
func (m Editor) Cursor() floorplan.Point { return m.cursor }

// Status returns the status line text.
func (m Editor) Status() string { return m.status }

// Prompting reports whether a prompt is open.
func (m Editor) Prompting() bool { return m.prompt != nil }

// =============================================================================
// Key handling
// =============================================================================

func (m *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return tea.Quit
	case "q":
		if m.dirty {
			m.ask(promptQuit, "unsaved changes, quit anyway? (y/n)")
			return nil
		}
		return tea.Quit

	case "up", "down", "left", "right":
		m.moveCursor(key)
	case "home":
		m.cursor.X = 0
	case "end":
		m.cursor.X = m.eng.Width() - 1

	case "tab":
		m.setMode((m.mode + 1) % modeCount)
	case "shift+tab":
		m.setMode((m.mode + modeCount - 1) % modeCount)
	case "1", "2", "3", "4", "5", "6", "7", "8":
		m.setMode(editMode(key[0] - '1'))

	case "[":
		m.cycleShape(-1)
	case "]":
		m.cycleShape(1)

	case "enter":
		m.act()
	case " ", "space":
		if m.mode.regional() {
			m.markRegion()
		} else {
			m.act()
		}
	case "esc":
		switch {
		case m.anchor != nil:
			m.anchor = nil
			m.info("region cancelled")
		case len(m.eng.Selected()) > 0:
			m.eng.ClearSelection()
			m.info("selection cleared")
		}

	case "w", "a", "s", "d":
		n := len(m.eng.Selected())
		m.commit(m.eng.Nudge(key), "moved %d block(s)", n)
	case "t":
		if m.needSingle() {
			m.ask(promptMoveTo, "move to cell (e.g. B4):")
		}
	case "c":
		if len(m.eng.Selected()) == 0 {
			m.report(ferrors.New(ferrors.ErrCodeNoSelection, "no block selected"))
			return nil
		}
		m.ask(promptDirection, "duplicate direction (V/H):")
	case "x":
		b, err := m.eng.Swap(m.Shape())
		m.commit(err, "swapped block %d to %s", b.ID, b.Shape)
	case "o":
		b, err := m.eng.CycleOrientation(m.cursor.X, m.cursor.Y)
		m.commit(err, "%s(%d) is now %s", b.Shape, b.ID, b.Orientation)
	case "g":
		shown, err := m.eng.ToggleGuideAt(m.cursor.X, m.cursor.Y)
		if err != nil {
			m.report(err)
		} else if shown {
			m.info("guides shown")
		} else {
			m.info("guides hidden")
		}

	case "ctrl+s":
		m.save()
	case "ctrl+o":
		m.load()
	case "ctrl+n":
		m.ask(promptClear, "clear the floorplan? (y/n)")
	}
	return nil
}

func (m *Editor) handlePrompt(msg tea.KeyMsg) tea.Cmd {
	p := m.prompt
	key := msg.String()

	if p.yesNo() {
		m.prompt = nil
		if key != "y" && key != "Y" {
			m.info("cancelled")
			return nil
		}
		switch p.kind {
		case promptClear:
			n := m.eng.Clear()
			m.dirty = true
			m.success("cleared %d block(s)", n)
		case promptQuit:
			return tea.Quit
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.prompt = nil
		m.info("cancelled")
	case tea.KeyEnter:
		m.prompt = nil
		m.submit(p)
	case tea.KeyBackspace:
		if r := []rune(p.input); len(r) > 0 {
			p.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		p.input += " "
	case tea.KeyRunes:
		p.input += string(msg.Runes)
	}
	return nil
}

func (m *Editor) submit(p *prompt) {
	switch p.kind {
	case promptDirection:
		dir, err := floorplan.ParseDirection(p.input)
		if err != nil {
			m.report(err)
			return
		}
		m.dupDir = dir
		m.ask(promptInterval, "interval (cells, >= 0):")
	case promptInterval:
		interval, err := strconv.Atoi(strings.TrimSpace(p.input))
		if err != nil {
			m.report(ferrors.New(ferrors.ErrCodeMalformedInput, "interval %q is not a number", p.input))
			return
		}
		blocks, err := m.eng.Duplicate(m.dupDir, interval)
		m.commit(err, "duplicated %d block(s) %s", len(blocks), m.dupDir)
	case promptMoveTo:
		target := strings.TrimSpace(p.input)
		m.commit(m.eng.MoveTo(target), "moved to %s", strings.ToUpper(target))
	}
}

func (m *Editor) ask(kind promptKind, label string) {
	m.prompt = &prompt{kind: kind, label: label}
}

// act applies the current mode at the cursor.
func (m *Editor) act() {
	x, y := m.cursor.X, m.cursor.Y
	switch m.mode {
	case modePlace:
		b, err := m.eng.Place(m.Shape(), x, y)
		m.commit(err, "placed %s(%d) at %s", b.Shape, b.ID, floorplan.FormatCell(x, y))
	case modeDelete:
		b, err := m.eng.DeleteAt(x, y)
		m.commit(err, "deleted %s(%d)", b.Shape, b.ID)
	case modeOrient:
		b, err := m.eng.CycleOrientation(x, y)
		m.commit(err, "%s(%d) is now %s", b.Shape, b.ID, b.Orientation)
	case modeSelectWithBlockage, modeSelectWithoutBlockage:
		if _, err := m.eng.ToggleSelectAt(x, y); err != nil {
			m.report(err)
			return
		}
		m.info("%d selected", len(m.eng.Selected()))
	default:
		m.markRegion()
	}
}

// markRegion starts a region at the cursor or completes the open one.
func (m *Editor) markRegion() {
	if m.anchor == nil {
		a := m.cursor
		m.anchor = &a
		m.info("region from %s, move the cursor and press space", floorplan.FormatCell(a.X, a.Y))
		return
	}
	r := floorplan.RectFromCorners(*m.anchor, m.cursor)
	m.anchor = nil

	switch m.mode {
	case modeDeleteRegion, modeDeleteBlockage:
		removed := m.eng.DeleteRegion(r, m.mode == modeDeleteBlockage)
		if len(removed) > 0 {
			m.dirty = true
		}
		m.success("deleted %d block(s)", len(removed))
	case modePlaceBlockage:
		placed, err := m.eng.FillBlockage(r)
		m.commit(err, "placed %d blockage(s)", len(placed))
	case modeSelectWithBlockage, modeSelectWithoutBlockage:
		n := m.eng.SelectRegion(r, m.mode == modeSelectWithBlockage)
		m.info("%d selected", n)
	}
}

func (m *Editor) needSingle() bool {
	switch n := len(m.eng.Selected()); {
	case n == 0:
		m.report(ferrors.New(ferrors.ErrCodeNoSelection, "no block selected"))
		return false
	case n > 1:
		m.report(ferrors.New(ferrors.ErrCodeInvalidSelectionCount, "only one selected block is supported (%d selected)", n))
		return false
	}
	return true
}

func (m *Editor) setMode(mode editMode) {
	m.mode = mode
	m.anchor = nil
	m.info("mode: %s", mode)
}

func (m *Editor) cycleShape(step int) {
	if len(m.shapes) == 0 {
		return
	}
	m.shape = (m.shape + step + len(m.shapes)) % len(m.shapes)
	m.info("shape: %s", m.Shape())
}

func (m *Editor) moveCursor(key string) {
	switch key {
	case "up":
		m.cursor.Y = max(m.cursor.Y-1, 0)
	case "down":
		m.cursor.Y = min(m.cursor.Y+1, m.eng.Height()-1)
	case "left":
		m.cursor.X = max(m.cursor.X-1, 0)
	case "right":
		m.cursor.X = min(m.cursor.X+1, m.eng.Width()-1)
	}
}

// =============================================================================
// Persistence
// =============================================================================

func (m *Editor) save() {
	doc, err := m.sess.Save(m.ctx)
	if err != nil {
		m.report(err)
		return
	}
	m.dirty = false
	m.success("saved %d block(s) to %s", doc.Len(), m.sess.Key)
}

func (m *Editor) load() {
	warnings, err := m.sess.Load(m.ctx)
	if session.IsNotFound(err) {
		m.warn("no saved placement for %s", m.sess.Key)
		return
	}
	if err != nil {
		m.report(err)
		return
	}
	m.dirty = false
	if len(warnings) > 0 {
		m.warn("loaded %d block(s), skipped %d: %s", m.eng.Len(), len(warnings), ferrors.UserMessage(warnings[0]))
		return
	}
	m.success("loaded %d block(s)", m.eng.Len())
}

// =============================================================================
// Status
// =============================================================================

// commit reports err, or the formatted success message and marks the
// floorplan as modified.
func (m *Editor) commit(err error, format string, args ...any) {
	if err != nil {
		m.report(err)
		return
	}
	m.dirty = true
	m.success(format, args...)
}

// report shows err in the status line. Warnings are user mistakes; anything
// else is also logged.
func (m *Editor) report(err error) {
	if ferrors.Warning(err) {
		m.setStatus(statusWarning, ferrors.UserMessage(err))
		m.logger.Debug("edit rejected", "code", ferrors.GetCode(err), "err", err)
		return
	}
	m.setStatus(statusError, err.Error())
	m.logger.Error("edit failed", "err", err)
}

func (m *Editor) info(format string, args ...any) {
	m.setStatus(statusInfo, fmt.Sprintf(format, args...))
}

func (m *Editor) success(format string, args ...any) {
	m.setStatus(statusSuccess, fmt.Sprintf(format, args...))
}

func (m *Editor) warn(format string, args ...any) {
	m.setStatus(statusWarning, fmt.Sprintf(format, args...))
}

func (m *Editor) setStatus(kind statusKind, msg string) {
	m.status = msg
	m.statusKind = kind
}

// =============================================================================
// Runner
// =============================================================================

// runEditor runs the editor on the terminal until the user quits.
func runEditor(ctx context.Context, sess *session.Session, logger *log.Logger) error {
	p := tea.NewProgram(NewEditor(ctx, sess, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}
