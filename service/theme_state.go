package service

import "umbrella-customizer/models"

// ThemeState holds the currently selected color theme
type ThemeState struct {
	color models.Color
}

// NewThemeState creates a ThemeState set to the default color
func NewThemeState() *ThemeState {
	return &ThemeState{color: models.DefaultColor}
}

// Color returns the active color
func (t *ThemeState) Color() models.Color {
	return t.color
}

// SetColor switches to color and reports whether anything changed.
// Selecting the active color again is a no-op.
func (t *ThemeState) SetColor(color models.Color) bool {
	if t.color == color {
		return false
	}
	t.color = color
	return true
}
