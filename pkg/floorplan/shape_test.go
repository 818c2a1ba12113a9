package floorplan

import (
	"slices"
	"testing"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
	}{
		{"empty name", []Shape{{Name: "", Footprint: Rectangle(1, 1)}}},
		{"bad name", []Shape{{Name: "a b", Footprint: Rectangle(1, 1)}}},
		{"duplicate", []Shape{{Name: "A", Footprint: Rectangle(1, 1)}, {Name: "A", Footprint: Rectangle(2, 1)}}},
		{"empty footprint", []Shape{{Name: "A"}}},
		{"negative offset", []Shape{{Name: "A", Footprint: []Point{{-1, 0}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.shapes...)
			if !ferrors.Is(err, ferrors.ErrCodeMissingConfig) {
				t.Errorf("NewCatalog() = %v, want MISSING_CONFIG", err)
			}
		})
	}
}

func TestCatalogOrderAndCopies(t *testing.T) {
	cat, err := NewCatalog(
		Shape{Name: "Z", Footprint: Rectangle(1, 1)},
		Shape{Name: "A", Footprint: Rectangle(2, 2)},
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := cat.Names(); !slices.Equal(got, []string{"Z", "A"}) {
		t.Errorf("Names() = %v, want [Z A]", got)
	}
	s, _ := cat.Shape("A")
	s.Footprint[0] = Point{9, 9}
	again, _ := cat.Shape("A")
	if again.Footprint[0] != (Point{0, 0}) {
		t.Error("Shape() returned shared footprint")
	}
	if cat.Has("missing") {
		t.Error("Has(missing) = true")
	}
}

func TestRectangle(t *testing.T) {
	got := Rectangle(2, 2)
	want := []Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	if !slices.Equal(got, want) {
		t.Errorf("Rectangle(2,2) = %v, want %v", got, want)
	}
	s := Shape{Footprint: Rectangle(3, 2)}
	if w, h := s.Extent(); w != 3 || h != 2 {
		t.Errorf("Extent() = %d,%d, want 3,2", w, h)
	}
}

func TestPinSides(t *testing.T) {
	p := NewPinSides(Left, Top)
	if !p.Has(Top) || !p.Has(Left) || p.Has(Bottom) {
		t.Errorf("Has() wrong for %v", p)
	}
	if got := p.String(); got != "{T,L}" {
		t.Errorf("String() = %q, want {T,L}", got)
	}
	if got := PinSides(0).String(); got != "{}" {
		t.Errorf("empty String() = %q, want {}", got)
	}
	for _, in := range []string{"T", "b", "L", "r"} {
		if _, err := ParseSide(in); err != nil {
			t.Errorf("ParseSide(%q) = %v", in, err)
		}
	}
	if _, err := ParseSide("X"); !ferrors.Is(err, ferrors.ErrCodeMalformedInput) {
		t.Errorf("ParseSide(X) = %v, want MALFORMED_INPUT", err)
	}
}

func TestOrientationCycle(t *testing.T) {
	o := R0
	var seen []string
	for range 5 {
		o = o.Next()
		seen = append(seen, o.String())
	}
	if want := []string{"MX", "MY", "R180", "R90", "R0"}; !slices.Equal(seen, want) {
		t.Errorf("cycle = %v, want %v", seen, want)
	}
}

func TestParseOrientation(t *testing.T) {
	for _, name := range []string{"R0", "mx", "MY", "r180", "R90"} {
		o, err := ParseOrientation(name)
		if err != nil {
			t.Errorf("ParseOrientation(%q) = %v", name, err)
			continue
		}
		var back Orientation
		text, _ := o.MarshalText()
		if err := back.UnmarshalText(text); err != nil || back != o {
			t.Errorf("text round trip of %s = %s, %v", o, back, err)
		}
	}
	if _, err := ParseOrientation("R270"); err == nil {
		t.Error("ParseOrientation(R270) succeeded")
	}
}

func TestPhysicalSide(t *testing.T) {
	tests := []struct {
		o    Orientation
		want [4]Side // indexed by logical Top, Bottom, Left, Right
	}{
		{R0, [4]Side{Top, Bottom, Left, Right}},
		{MX, [4]Side{Bottom, Top, Left, Right}},
		{MY, [4]Side{Top, Bottom, Right, Left}},
		{R180, [4]Side{Bottom, Top, Right, Left}},
		{R90, [4]Side{Left, Right, Bottom, Top}},
	}
	for _, tt := range tests {
		for _, s := range Sides {
			if got := PhysicalSide(tt.o, s); got != tt.want[s] {
				t.Errorf("PhysicalSide(%s, %s) = %s, want %s", tt.o, s, got, tt.want[s])
			}
		}
	}
}

// Every orientation permutes the four sides.
func TestPhysicalSideIsPermutation(t *testing.T) {
	for o := R0; o <= R90; o++ {
		all := NewPinSides(Sides[:]...)
		if got := PhysicalPins(o, all); got != all {
			t.Errorf("PhysicalPins(%s, all) = %v", o, got)
		}
	}
}

func TestBlockPinEdges(t *testing.T) {
	e := newTestEngine(t, 4, 4)
	b := mustPlace(t, e, "A", 0, 0) // pins on T
	if got := b.PinEdges(e.Catalog()); got != NewPinSides(Top) {
		t.Errorf("PinEdges R0 = %v, want {T}", got)
	}
	b, _ = e.CycleOrientation(0, 0)
	if got := b.PinEdges(e.Catalog()); got != NewPinSides(Bottom) {
		t.Errorf("PinEdges MX = %v, want {B}", got)
	}
}

func TestParseCell(t *testing.T) {
	tests := []struct {
		in      string
		x, y    int
		wantErr bool
	}{
		{"A1", 0, 0, false},
		{"b3", 1, 2, false},
		{"Z10", 25, 9, false},
		{"AA1", 26, 0, false},
		{"AZ2", 51, 1, false},
		{"  C4\t", 2, 3, false},
		{"A0", 0, 0, true},
		{"1A", 0, 0, true},
		{"A", 0, 0, true},
		{"A1B", 0, 0, true},
		{"A-1", 0, 0, true},
		{"", 0, 0, true},
		{"ABCDEFG1", 0, 0, true},
	}
	for _, tt := range tests {
		x, y, err := ParseCell(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCell(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			if !ferrors.Is(err, ferrors.ErrCodeMalformedInput) {
				t.Errorf("ParseCell(%q) code = %s, want MALFORMED_INPUT", tt.in, ferrors.GetCode(err))
			}
			continue
		}
		if x != tt.x || y != tt.y {
			t.Errorf("ParseCell(%q) = (%d,%d), want (%d,%d)", tt.in, x, y, tt.x, tt.y)
		}
	}
}

func TestFormatCellRoundTrip(t *testing.T) {
	for x := 0; x < 800; x += 7 {
		for _, y := range []int{0, 1, 99} {
			s := FormatCell(x, y)
			gx, gy, err := ParseCell(s)
			if err != nil || gx != x || gy != y {
				t.Errorf("ParseCell(FormatCell(%d,%d)=%q) = (%d,%d,%v)", x, y, s, gx, gy, err)
			}
		}
	}
	if got := FormatCell(-1, 2); got != "(-1,2)" {
		t.Errorf("FormatCell(-1,2) = %q", got)
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Point{5, 1}, Point{2, 4})
	if r != (Rect{2, 1, 5, 4}) {
		t.Errorf("RectFromCorners = %+v", r)
	}
	if r.Width() != 4 || r.Height() != 4 {
		t.Errorf("size = %dx%d, want 4x4", r.Width(), r.Height())
	}
	if !r.Contains(2, 4) || r.Contains(6, 1) {
		t.Error("Contains wrong at edges")
	}
}
