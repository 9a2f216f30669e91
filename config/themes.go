package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"umbrella-customizer/models"
)

// Theme describes the assets and palette of one color theme
type Theme struct {
	Label  string `toml:"label" validate:"required"`
	Asset  string `toml:"asset" validate:"required"`
	Accent string `toml:"accent" validate:"required,hexcolor"`
}

// Themes maps each color to its theme
type Themes map[models.Color]Theme

type themesFile struct {
	Themes map[string]Theme `toml:"themes"`
}

// DefaultThemes returns the built-in themes.
// Base images are named "<Color> umbrella.png".
func DefaultThemes() Themes {
	accents := map[models.Color]string{
		models.ColorBlue:   "#2563eb",
		models.ColorYellow: "#eab308",
		models.ColorPink:   "#ec4899",
	}

	themes := make(Themes, len(models.Colors))
	for _, color := range models.Colors {
		themes[color] = Theme{
			Label:  color.Title(),
			Asset:  color.Title() + " umbrella.png",
			Accent: accents[color],
		}
	}
	return themes
}

// For returns the theme for color, falling back to the built-in one
func (t Themes) For(color models.Color) Theme {
	if theme, ok := t[color]; ok {
		return theme
	}
	return DefaultThemes()[color]
}

// LoadThemes reads a TOML themes file and merges it over the defaults
// Fields left empty in the file keep their default value
func LoadThemes(path string) (Themes, error) {
	themes := DefaultThemes()
	if path == "" {
		return themes, nil
	}

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("themes file not found: %w", err)
	}

	var file themesFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to parse themes file %s: %w", path, err)
	}

	for name, override := range file.Themes {
		color, ok := models.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("themes file %s: unknown color %q", path, name)
		}
		merged := themes[color]
		if override.Label != "" {
			merged.Label = override.Label
		}
		if override.Asset != "" {
			merged.Asset = override.Asset
		}
		if override.Accent != "" {
			merged.Accent = override.Accent
		}
		themes[color] = merged
	}

	for color, theme := range themes {
		if err := validatorInstance().Struct(theme); err != nil {
			return nil, fmt.Errorf("invalid theme %s: %w", color, err)
		}
	}

	return themes, nil
}
