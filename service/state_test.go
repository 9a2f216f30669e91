package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"umbrella-customizer/models"
)

func TestThemeStateDefaultsToBlue(t *testing.T) {
	assert.Equal(t, models.ColorBlue, NewThemeState().Color())
}

func TestThemeStateSetColorIsIdempotent(t *testing.T) {
	theme := NewThemeState()

	assert.True(t, theme.SetColor(models.ColorPink))
	assert.False(t, theme.SetColor(models.ColorPink))
	assert.Equal(t, models.ColorPink, theme.Color())
	assert.False(t, NewThemeState().SetColor(models.ColorBlue))
}

func TestLogoStateClampsSize(t *testing.T) {
	logo := NewLogoState()
	assert.Equal(t, DefaultLogoSize, logo.Size())

	cases := map[int]int{30: 50, 200: 150, 100: 100, 50: 50, 150: 150, -10: 50}
	for in, want := range cases {
		assert.Equal(t, want, logo.SetSize(in), "SetSize(%d)", in)
		assert.Equal(t, want, logo.Size())
	}
}

func TestLogoStateReplaceAndRemove(t *testing.T) {
	state := NewLogoState()
	assert.Nil(t, state.Logo())

	logo := &Logo{FileName: "a.png"}
	state.Replace(logo)
	assert.Same(t, logo, state.Logo())

	state.SetSize(120)
	state.Remove()
	assert.Nil(t, state.Logo())
	assert.Equal(t, 120, state.Size())
}
