package catalog

import (
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// ParsePins parses the pinside column of a CSV catalog.
//
// Accepted forms are set, list and tuple literals with quoted or bare side
// letters ({'T','B'}, ["L"], ('R',), {T, B}), the empty forms set(), {} and
// "", and a single bare letter.
func ParsePins(s string) (floorplan.PinSides, error) {
	body := strings.TrimSpace(s)
	if body == "" || body == "set()" {
		return 0, nil
	}
	if l, r := body[0], body[len(body)-1]; len(body) >= 2 &&
		(l == '{' && r == '}' || l == '[' && r == ']' || l == '(' && r == ')') {
		body = body[1 : len(body)-1]
	}

	var pins floorplan.PinSides
	for _, item := range strings.Split(body, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		item = unquote(item)
		side, err := floorplan.ParseSide(item)
		if err != nil {
			return 0, ferrors.Wrap(ferrors.ErrCodeMissingConfig, err, "pinside %q", s)
		}
		pins |= floorplan.NewPinSides(side)
	}
	return pins, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// FormatPins renders pins in the CSV set-literal form, e.g. {'T','B'}.
// An empty set is rendered as set().
func FormatPins(p floorplan.PinSides) string {
	sides := p.List()
	if len(sides) == 0 {
		return "set()"
	}
	parts := make([]string, len(sides))
	for i, s := range sides {
		parts[i] = "'" + s.String() + "'"
	}
	return "{" + strings.Join(parts, ",") + "}"
}
