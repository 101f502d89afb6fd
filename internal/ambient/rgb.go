// Package ambient derives background colors from album artwork: it samples
// the mean color of an image and blends sampled colors into one.
package ambient

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Default is the ambient color used before any artwork has been sampled.
var Default = RGB{R: 40, G: 40, B: 40}

// String formats the color as "rgb(r, g, b)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// IsLight reports whether dark text reads better than light text on c.
func (c RGB) IsLight() bool {
	l, _, _ := c.colorful().Lab()
	return l > 0.6
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}
