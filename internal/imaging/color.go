package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseColor parses a "#RRGGBB" hex string into an opaque color.
func ParseColor(hex string) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// ColorResult is a sampled pixel color.
type ColorResult struct {
	Hex   string `json:"hex"`   // "#rrggbb", alpha excluded
	Alpha uint8  `json:"alpha"` // 0 = transparent, 255 = opaque
}

// SampleColor returns the color of the pixel at (x, y).
//
// Coordinates are 0-based with the origin at the top-left of img's bounds.
// Returns an error if (x, y) is outside the image.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	nc := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	c := colorful.Color{R: float64(nc.R) / 255, G: float64(nc.G) / 255, B: float64(nc.B) / 255}
	return &ColorResult{Hex: c.Hex(), Alpha: nc.A}, nil
}
