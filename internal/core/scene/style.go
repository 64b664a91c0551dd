package scene

import (
	"fmt"
	"image/color"
	"strings"
)

// Style holds the visual parameters shared by every renderer.
type Style struct {
	Color          string
	Background     string
	LineWidth      float64
	MarkerRadius   float64
	JunctionRadius float64
	ShowJunctions  bool
}

// DefaultStyle matches the app's out-of-the-box look.
func DefaultStyle() Style {
	return Style{
		Color:          "#3B82F6",
		Background:     "#FFFFFF",
		LineWidth:      3,
		MarkerRadius:   12,
		JunctionRadius: 6,
		ShowJunctions:  true,
	}
}

// ParseHex converts "#RRGGBB" or "#RGB" to a colour. Invalid input yields
// opaque black and an error.
func ParseHex(hex string) (color.NRGBA, error) {
	value := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(value) == 3 {
		value = string([]byte{value[0], value[0], value[1], value[1], value[2], value[2]})
	}
	black := color.NRGBA{A: 255}
	if len(value) != 6 {
		return black, fmt.Errorf("parse colour %q: want 3 or 6 hex digits", hex)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(value, "%02x%02x%02x", &r, &g, &b); err != nil {
		return black, fmt.Errorf("parse colour %q: %w", hex, err)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
