package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umbrella-customizer/models"
)

func TestExportFileNameRoundTrip(t *testing.T) {
	name := ExportFileName(models.ColorPink, 1700000000123)
	assert.Equal(t, "custom-umbrella-pink-1700000000123.png", name)

	color, stamp, err := ParseExportFileName(name)
	require.NoError(t, err)
	assert.Equal(t, models.ColorPink, color)
	assert.Equal(t, int64(1700000000123), stamp)
}

func TestParseExportFileNameRejects(t *testing.T) {
	for _, name := range []string{
		"umbrella.png",
		"custom-umbrella-green-1.png",
		"custom-umbrella-blue-.png",
		"custom-umbrella-blue-12.jpg",
	} {
		_, _, err := ParseExportFileName(name)
		assert.Error(t, err, name)
	}
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "logo.png", SanitizeFileName(`C:\fakepath\logo.png`))
	assert.Equal(t, "my logo.png", SanitizeFileName(`../"my logo".png`[3:]))
	assert.Equal(t, "a.png", SanitizeFileName("dir/a.png\n"))
}
