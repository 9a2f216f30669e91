package main

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "PORT", "BASE_URL", "CACHE_DIR", "EXPORT_DIR", "THEMES_FILE",
		"GOOGLE_APPLICATION_CREDENTIALS", "UMBRELLA_DRIVE_FOLDER_ID", "SESSION_TTL",
		"NOTIFICATION_TIMEOUT", "NOTIFICATION_EXIT", "IMAGE_LOAD_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ASSETS_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("HUMAN_LOGS", "false")
}

func TestRunRenderWritesExport(t *testing.T) {
	renderEnv(t)

	var logo bytes.Buffer
	require.NoError(t, imaging.Encode(&logo, imaging.New(40, 40, color.NRGBA{R: 255, A: 255}), imaging.PNG))
	logoPath := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(logoPath, logo.Bytes(), 0644))

	outDir := t.TempDir()
	root := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env")}
	flags := &renderFlags{color: "yellow", logo: logoPath, size: 500, outDir: outDir}

	path, err := runRender(context.Background(), root, flags)
	require.NoError(t, err)

	assert.Equal(t, outDir, filepath.Dir(path))
	assert.Regexp(t, regexp.MustCompile(`^custom-umbrella-yellow-\d+\.png$`), filepath.Base(path))

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	// the 600x600 placeholder fills the canvas height; at the clamped 150%
	// the logo spans (340,450)-(460,570)
	got := color.NRGBAModel.Convert(img.At(400, 510)).(color.NRGBA)
	assert.Greater(t, got.R, uint8(240))
	assert.Less(t, got.G, uint8(16))
	assert.Greater(t, got.A, uint8(240))
}

func TestRunRenderRejectsUnknownColor(t *testing.T) {
	renderEnv(t)

	root := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env")}
	flags := &renderFlags{color: "green", size: 100, outDir: t.TempDir()}

	_, err := runRender(context.Background(), root, flags)
	assert.Error(t, err)
}

func TestRunRenderRejectsTextLogo(t *testing.T) {
	renderEnv(t)

	logoPath := filepath.Join(t.TempDir(), "logo.txt")
	require.NoError(t, os.WriteFile(logoPath, []byte("not an image"), 0644))

	outDir := t.TempDir()
	root := &rootFlags{envFile: filepath.Join(t.TempDir(), "missing.env")}
	flags := &renderFlags{color: "blue", logo: logoPath, size: 100, outDir: outDir}

	_, err := runRender(context.Background(), root, flags)
	assert.Error(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
