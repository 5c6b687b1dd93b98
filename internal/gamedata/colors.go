package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color length: %s", hex)
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}

	return tcell.NewHexColor(int32(rgb)), nil
}

// Dim scales a color towards black. Neutralized tiles are drawn dimmed.
func Dim(c tcell.Color, factor float64) tcell.Color {
	r, g, b := c.RGB()
	if r < 0 {
		return c
	}
	scale := func(v int32) int32 { return int32(float64(v) * factor) }
	return tcell.NewRGBColor(scale(r), scale(g), scale(b))
}
