package domain

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ColorRGB is a color with three 8-bit channels and no alpha.
type ColorRGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// ParseHexColor converts a "#RRGGBB" string into its channels.
// Surrounding whitespace is ignored; shorthand and alpha forms are rejected.
func ParseHexColor(hex string) (ColorRGB, error) {
	s := strings.TrimSpace(hex)
	if !hexColorRegex.MatchString(s) {
		return ColorRGB{}, fmt.Errorf("%w: %q", ErrInvalidHexColor, hex)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return ColorRGB{}, fmt.Errorf("%w: %v", ErrInvalidHexColor, err)
	}

	r, g, b := c.RGB255()
	return ColorRGB{R: r, G: g, B: b}, nil
}

// Hex encodes the color as lowercase "#rrggbb"
func (c ColorRGB) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}.Hex()
}

// Distance is the plain Euclidean distance between two colors in RGB space.
func Distance(a, b ColorRGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}
