// Package palette resolves task color strings to concrete colors.
//
// The five palette names map to fixed shades. Any other string may be a hex
// color ("#rgb", "#rrggbb", "#aarrggbb") or an SVG color name; anything that
// cannot be read resolves to fully transparent.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"weekcal/internal/model"
)

// Transparent is returned for unreadable color strings.
var Transparent = color.NRGBA{}

var named = map[string]color.NRGBA{
	"red":    {R: 0xe6, G: 0x7c, B: 0x73, A: 0xff},
	"yellow": {R: 0xf7, G: 0xcb, B: 0x4d, A: 0xff},
	"green":  {R: 0x41, G: 0xb3, B: 0x75, A: 0xff},
	"blue":   {R: 0x7b, G: 0xaa, B: 0xf7, A: 0xff},
	"purple": {R: 0xba, G: 0x67, B: 0xc8, A: 0xff},
}

// IsPalette reports whether s names one of the palette colors.
func IsPalette(s string) bool {
	_, ok := named[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Canonical returns the palette spelling of s ("green" -> "Green"), or s
// unchanged when it is not a palette name.
func Canonical(s string) string {
	for _, name := range model.PaletteColors {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return name
		}
	}
	return s
}

// Resolve maps a task color string to a concrete color.
func Resolve(s string) color.NRGBA {
	c, ok := Lookup(s)
	if !ok {
		return Transparent
	}
	return c
}

// Lookup is like Resolve but reports whether s was understood.
func Lookup(s string) (color.NRGBA, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Transparent, false
	}
	if c, ok := named[key]; ok {
		return c, true
	}
	if strings.HasPrefix(key, "#") {
		return parseHex(key[1:])
	}
	if c, ok := colornames.Map[key]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
	}
	return Transparent, false
}

// parseHex reads "rgb", "rrggbb" or "aarrggbb" (alpha first, as in XAML).
func parseHex(h string) (color.NRGBA, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
		fallthrough
	case 6:
		h = "ff" + h
	case 8:
	default:
		return Transparent, false
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Transparent, false
	}
	return color.NRGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}, true
}

// CSS formats c for an HTML style attribute.
func CSS(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", c.R, c.G, c.B, float64(c.A)/255)
}

// Hex formats an opaque color as "#rrggbb".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
