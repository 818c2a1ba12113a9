package catalog

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Fallback is used for shapes whose color cannot be resolved.
var Fallback = colorful.Color{R: 0.6, G: 0.6, B: 0.6}

// ResolveColor resolves a catalog color: an SVG/X11 name such as
// "light blue" or "SteelBlue", or a hex value such as "#4682b4" or "4682b4".
func ResolveColor(name string) (colorful.Color, bool) {
	s := strings.TrimSpace(name)
	if s == "" {
		return Fallback, false
	}
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if rgba, ok := colornames.Map[key]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, true
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if c, err := colorful.Hex(s); err == nil {
		return c, true
	}
	return Fallback, false
}

// Hex returns the resolved color of name as "#rrggbb".
func Hex(name string) string {
	c, _ := ResolveColor(name)
	return c.Hex()
}

// Darken blends c toward black in Lab space; amount is in [0,1].
func Darken(c colorful.Color, amount float64) colorful.Color {
	return c.BlendLab(colorful.Color{}, amount).Clamped()
}

// Contrast returns black or white, whichever reads better on c.
func Contrast(c colorful.Color) colorful.Color {
	l, _, _ := c.Lab()
	if l > 0.6 {
		return colorful.Color{}
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}
