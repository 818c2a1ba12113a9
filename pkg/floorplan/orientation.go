package floorplan

import (
	"fmt"
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

// Orientation is a placement orientation.
// The cycle order used by the editor is R0 → MX → MY → R180 → R90 → R0.
type Orientation uint8

const (
	R0 Orientation = iota
	MX
	MY
	R180
	R90
)

var orientationNames = [...]string{R0: "R0", MX: "MX", MY: "MY", R180: "R180", R90: "R90"}

// String returns the orientation name as persisted (e.g. "R180").
func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return fmt.Sprintf("Orientation(%d)", o)
}

// Next returns the following orientation in the cycle.
func (o Orientation) Next() Orientation {
	return (o + 1) % Orientation(len(orientationNames))
}

// ParseOrientation parses a persisted orientation name (case-insensitive).
func ParseOrientation(s string) (Orientation, error) {
	for i, n := range orientationNames {
		if strings.EqualFold(s, n) {
			return Orientation(i), nil
		}
	}
	return 0, ferrors.New(ferrors.ErrCodeMalformedInput, "unknown orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(b []byte) error {
	v, err := ParseOrientation(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// sideTable maps (orientation, logical side) to the physical edge the pins
// are drawn on. Footprints are not rotated; only pin edges move.
var sideTable = [len(orientationNames)][4]Side{
	R0:   {Top: Top, Bottom: Bottom, Left: Left, Right: Right},
	MX:   {Top: Bottom, Bottom: Top, Left: Left, Right: Right},
	MY:   {Top: Top, Bottom: Bottom, Left: Right, Right: Left},
	R180: {Top: Bottom, Bottom: Top, Left: Right, Right: Left},
	R90:  {Top: Left, Bottom: Right, Left: Bottom, Right: Top},
}

// PhysicalSide returns the edge a logical pin side is drawn on under o.
func PhysicalSide(o Orientation, logical Side) Side {
	return sideTable[o][logical]
}

// PhysicalPins maps a logical pin set through the orientation table.
func PhysicalPins(o Orientation, pins PinSides) PinSides {
	var out PinSides
	for _, s := range pins.List() {
		out |= NewPinSides(PhysicalSide(o, s))
	}
	return out
}
