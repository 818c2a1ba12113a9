package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/config"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/session"
	"github.com/matzehuels/floorplan/pkg/store"
)

const (
	editorManifest = "design_name,grid_width,grid_height\ntop,10,10\n"
	editorCatalog  = "block_name,width,height,color,pinside\nA,2,1,light blue,\"{'T'}\"\nB,2,1,orange,{}\nBlockage,1,1,black,{}\n"
)

// writeProject creates input/mye under dir and returns a config rooted there.
func writeProject(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(dir, "input")
	cfg.OutputDir = filepath.Join(dir, "output")
	for path, content := range map[string]string{
		cfg.ManifestPath("mye"):                           editorManifest,
		filepath.Join(cfg.InputDir, "mye", "mye_top.csv"): editorCatalog,
	} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func newTestEditor(t *testing.T) (Editor, *session.Session) {
	t.Helper()
	cfg := writeProject(t, t.TempDir())
	ctx := context.Background()
	sess, err := session.Open(ctx, store.NewMemoryStore(), session.Options{Design: "top", Config: cfg})
	if err != nil {
		t.Fatalf("session.Open: %v", err)
	}
	return NewEditor(ctx, sess, log.New(&strings.Builder{})), sess
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends keys in order and returns the resulting model and last command.
func press(t *testing.T, m Editor, keys ...string) (Editor, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsg(k))
		m = next.(Editor)
	}
	return m, cmd
}

// typeText sends each rune of s as its own key.
func typeText(s string) []string {
	var keys []string
	for _, r := range s {
		keys = append(keys, string(r))
	}
	return keys
}

func TestEditorPlaceAndDelete(t *testing.T) {
	m, sess := newTestEditor(t)
	if m.Mode() != "Place" || m.Shape() != "A" {
		t.Fatalf("initial mode/shape = %s/%s, want Place/A", m.Mode(), m.Shape())
	}

	m, _ = press(t, m, "enter")
	if sess.Engine.Occupant(0, 0) == 0 || sess.Engine.Occupant(1, 0) == 0 {
		t.Fatalf("A not placed at A1: %s", m.Status())
	}

	// Placing over the first block is rejected without side effects.
	m, _ = press(t, m, "right", "enter")
	if sess.Engine.Len() != 1 {
		t.Errorf("Len() = %d after overlapping place, want 1", sess.Engine.Len())
	}
	if !strings.Contains(m.Status(), "occupied") {
		t.Errorf("status = %q, want occupied warning", m.Status())
	}

	m, _ = press(t, m, "2", "enter")
	if m.Mode() != "Delete" {
		t.Fatalf("mode = %s, want Delete", m.Mode())
	}
	if sess.Engine.Len() != 0 {
		t.Errorf("Len() = %d after delete, want 0", sess.Engine.Len())
	}
}

func TestEditorCursorClamps(t *testing.T) {
	m, _ := newTestEditor(t)
	m, _ = press(t, m, "up", "left")
	if got := m.Cursor(); got != (floorplan.Point{}) {
		t.Errorf("Cursor() = %v, want origin", got)
	}
	keys := make([]string, 15)
	for i := range keys {
		keys[i] = "down"
	}
	m, _ = press(t, m, keys...)
	if got := m.Cursor().Y; got != 9 {
		t.Errorf("Cursor().Y = %d, want 9", got)
	}
}

func TestEditorRegionFillAndSelect(t *testing.T) {
	m, sess := newTestEditor(t)

	// Place blockage over A1:C2.
	m, _ = press(t, m, "5", " ", "right", "right", "down", " ")
	if m.Mode() != "Place Blockage" {
		t.Fatalf("mode = %s", m.Mode())
	}
	if got := sess.Engine.Len(); got != 6 {
		t.Fatalf("Len() = %d after fill, want 6", got)
	}

	// Select w/o blockage over the same region selects nothing.
	m, _ = press(t, m, "8", " ", "left", "left", "up", " ")
	if n := len(sess.Engine.Selected()); n != 0 {
		t.Errorf("selected %d blockages without blockage", n)
	}
	m, _ = press(t, m, "7", " ", "right", " ")
	if n := len(sess.Engine.Selected()); n != 2 {
		t.Errorf("selected %d, want 2", n)
	}

	m, _ = press(t, m, "esc")
	if n := len(sess.Engine.Selected()); n != 0 {
		t.Errorf("esc left %d selected", n)
	}
	_ = m
}

func TestEditorMoveAndMoveTo(t *testing.T) {
	m, sess := newTestEditor(t)
	m, _ = press(t, m, "enter", "7", "enter")
	if n := len(sess.Engine.Selected()); n != 1 {
		t.Fatalf("selected %d, want 1", n)
	}

	m, _ = press(t, m, "s")
	b := sess.Engine.Blocks()[0]
	if b.X != 0 || b.Y != 1 {
		t.Fatalf("after s block at (%d,%d), want (0,1)", b.X, b.Y)
	}

	m, _ = press(t, m, "t")
	if !m.Prompting() {
		t.Fatal("t did not open a prompt")
	}
	m, _ = press(t, m, append(typeText("c5"), "enter")...)
	b = sess.Engine.Blocks()[0]
	if b.X != 2 || b.Y != 4 {
		t.Errorf("after move-to C5 block at (%d,%d), want (2,4): %s", b.X, b.Y, m.Status())
	}
}

func TestEditorPromptCancelHasNoEffect(t *testing.T) {
	m, sess := newTestEditor(t)
	m, _ = press(t, m, "enter", "7", "enter")
	before := sess.Engine.Records()

	m, _ = press(t, m, "c", "v", "enter", "0", "esc")
	if m.Prompting() {
		t.Fatal("esc left the prompt open")
	}
	if got := sess.Engine.Len(); got != len(before) {
		t.Errorf("Len() = %d after cancelled duplicate, want %d", got, len(before))
	}

	m, _ = press(t, m, "t", "b", "esc")
	if b := sess.Engine.Blocks()[0]; b.X != 0 || b.Y != 0 {
		t.Errorf("cancelled move-to moved the block to (%d,%d)", b.X, b.Y)
	}

	m, _ = press(t, m, "ctrl+n", "n")
	if sess.Engine.Len() != 1 {
		t.Error("declined clear removed blocks")
	}
	_ = m
}

func TestEditorDuplicate(t *testing.T) {
	m, sess := newTestEditor(t)
	m, _ = press(t, m, "enter", "7", "enter")
	m, _ = press(t, m, "c", "v", "enter", "0", "enter")
	if got := sess.Engine.Len(); got != 10 {
		t.Errorf("Len() = %d after vertical duplicate, want 10: %s", got, m.Status())
	}

	m, _ = press(t, m, "c", "q", "enter")
	if m.Prompting() {
		t.Error("invalid direction kept the prompt open")
	}
	if !strings.Contains(m.Status(), "direction") {
		t.Errorf("status = %q, want direction warning", m.Status())
	}
}

func TestEditorSwapAndOrient(t *testing.T) {
	m, sess := newTestEditor(t)
	m, _ = press(t, m, "enter", "o")
	if b := sess.Engine.Blocks()[0]; b.Orientation != floorplan.MX {
		t.Errorf("orientation = %s, want MX", b.Orientation)
	}

	// Swap needs a selection.
	m, _ = press(t, m, "]", "x")
	if sess.Engine.Blocks()[0].Shape != "A" {
		t.Fatal("swap without selection changed the block")
	}
	m, _ = press(t, m, "7", "enter", "x")
	if b := sess.Engine.Blocks()[0]; b.Shape != "B" || b.Orientation != floorplan.MX {
		t.Errorf("after swap block = %s %s, want B MX", b.Shape, b.Orientation)
	}

	// Blockage has a different footprint.
	m, _ = press(t, m, "]", "x")
	if sess.Engine.Blocks()[0].Shape != "B" {
		t.Error("swap to a different footprint succeeded")
	}
	if !strings.Contains(m.Status(), "dimension") && !strings.Contains(m.Status(), "footprint") {
		t.Errorf("status = %q, want shape mismatch", m.Status())
	}
}

func TestEditorSaveLoad(t *testing.T) {
	m, sess := newTestEditor(t)
	m, _ = press(t, m, "enter", "ctrl+s")
	if _, err := os.Stat(sess.SnapshotPath()); err != nil {
		t.Fatalf("snapshot not written: %v (%s)", err, m.Status())
	}

	m, _ = press(t, m, "ctrl+n", "y")
	if sess.Engine.Len() != 0 {
		t.Fatal("clear left blocks")
	}
	m, _ = press(t, m, "ctrl+o")
	if sess.Engine.Len() != 1 {
		t.Errorf("Len() = %d after load, want 1: %s", sess.Engine.Len(), m.Status())
	}
}

func TestEditorQuit(t *testing.T) {
	m, _ := newTestEditor(t)
	_, cmd := press(t, m, "q")
	if cmd == nil {
		t.Fatal("q on a clean editor returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}

	m, _ = press(t, m, "enter")
	m, cmd = press(t, m, "q")
	if cmd != nil || !m.Prompting() {
		t.Error("q with unsaved changes did not ask")
	}
	_, cmd = press(t, m, "y")
	if cmd == nil {
		t.Error("confirmed quit returned no command")
	}
}

func TestEditorView(t *testing.T) {
	m, _ := newTestEditor(t)
	m, _ = press(t, m, "enter", "g")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	view := next.(Editor).View()
	for _, want := range []string{"mye/top", "Place", "A1", "Blockage"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestCellText(t *testing.T) {
	cat, err := floorplan.NewCatalog(
		floorplan.Shape{Name: "SRAM", Footprint: floorplan.Rectangle(3, 3), Pins: floorplan.NewPinSides(floorplan.Top, floorplan.Left)},
		floorplan.Shape{Name: "TSV", Footprint: floorplan.Rectangle(1, 1), Round: true},
	)
	if err != nil {
		t.Fatal(err)
	}
	e, err := floorplan.New(5, 5, cat)
	if err != nil {
		t.Fatal(err)
	}
	sram, _ := e.Place("SRAM", 0, 0)
	tsv, _ := e.Place("TSV", 4, 4)

	tests := []struct {
		b    floorplan.Block
		x, y int
		want string
	}{
		{sram, 0, 1, "SR"},
		{sram, 1, 1, "AM"},
		{sram, 2, 1, "  "},
		{sram, 1, 0, "▔▔"},
		{sram, 0, 2, "▏ "},
		{tsv, 4, 4, "()"},
	}
	for _, tt := range tests {
		if got := cellText(tt.b, cat, tt.x, tt.y); got != tt.want {
			t.Errorf("cellText(%s, %d, %d) = %q, want %q", tt.b.Shape, tt.x, tt.y, got, tt.want)
		}
	}
}
