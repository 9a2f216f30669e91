package models

import "strings"

// Color is one of the umbrella color themes
type Color string

const (
	ColorBlue   Color = "blue"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
)

// DefaultColor is the theme every session starts with and returns to on reset
const DefaultColor = ColorBlue

// Colors lists the themes in swatch order
var Colors = []Color{ColorBlue, ColorYellow, ColorPink}

// ParseColor parses a color name case-insensitively
// Returns false for anything outside the closed set of themes
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Colors {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Title returns the color name with its first letter capitalized (e.g. "Blue")
func (c Color) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// ThemeClass returns the CSS class the page body carries for this color
func (c Color) ThemeClass() string {
	return "theme-" + string(c)
}
