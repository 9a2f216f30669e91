package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umbrella-customizer/models"
)

func TestComputeLayoutExactOffsets(t *testing.T) {
	tests := []struct {
		name         string
		baseW, baseH int
		scale        int
		wantBase     image.Rectangle
		wantLogo     image.Rectangle
	}{
		{"native width at 100%", 600, 400, 100, image.Rect(100, 100, 700, 500), image.Rect(360, 400, 440, 480)},
		{"native width at 150%", 600, 400, 150, image.Rect(100, 100, 700, 500), image.Rect(340, 380, 460, 500)},
		{"native width at 50%", 600, 400, 50, image.Rect(100, 100, 700, 500), image.Rect(380, 420, 420, 460)},
		{"downscaled base", 1200, 900, 100, image.Rect(100, 75, 700, 525), image.Rect(360, 418, 440, 498)},
		{"scale is clamped", 600, 400, 300, image.Rect(100, 100, 700, 500), image.Rect(340, 380, 460, 500)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := ComputeLayout(tt.baseW, tt.baseH, tt.scale)
			assert.Equal(t, tt.wantBase, layout.Base)
			assert.Equal(t, tt.wantLogo, layout.Logo)
		})
	}
}

func TestLogoEdge(t *testing.T) {
	assert.Equal(t, 80.0, LogoEdge(100))
	assert.Equal(t, 40.0, LogoEdge(50))
	assert.Equal(t, 120.0, LogoEdge(150))
	assert.Equal(t, 96.0, LogoEdge(120))
}

func TestCompositePlacesLogo(t *testing.T) {
	renderer := NewRenderer(newMemSource(t))
	logoData := solidPNG(t, 10, 10, red)
	logo, _, err := DecodeImage(logoData)
	require.NoError(t, err)

	export, err := renderer.Composite(context.Background(), models.Snapshot{
		Color:    models.ColorBlue,
		HasLogo:  true,
		Logo:     logo,
		LogoData: logoData,
		LogoSize: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, image.Rect(100, 100, 700, 500), export.BaseBox)
	assert.Equal(t, image.Rect(360, 400, 440, 480), export.LogoBox)
	assert.True(t, strings.HasPrefix(export.FileName, "custom-umbrella-blue-"))

	img := decodePNG(t, export.Data)
	require.Equal(t, image.Rect(0, 0, CanvasWidth, CanvasHeight), img.Bounds())

	assertColorNear(t, red, img.At(400, 440))
	assertColorNear(t, red, img.At(362, 402))
	assertColorNear(t, blue, img.At(355, 440))
	assertColorNear(t, blue, img.At(400, 485))
	assertColorNear(t, blue, img.At(200, 200))
	assertColorNear(t, color.NRGBA{}, img.At(10, 10))
	assertColorNear(t, color.NRGBA{}, img.At(400, 550))
}

func TestCompositeDecodesLogoData(t *testing.T) {
	renderer := NewRenderer(newMemSource(t))

	export, err := renderer.Composite(context.Background(), models.Snapshot{
		Color:    models.ColorPink,
		HasLogo:  true,
		LogoData: solidPNG(t, 30, 30, red),
		LogoSize: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(340, 380, 460, 500), export.LogoBox)
	assertColorNear(t, red, decodePNG(t, export.Data).At(400, 440))
}

func TestCompositeWithoutLogo(t *testing.T) {
	renderer := NewRenderer(newMemSource(t))

	export, err := renderer.Composite(context.Background(), models.Snapshot{Color: models.ColorBlue, LogoSize: 100})
	require.NoError(t, err)
	assert.False(t, export.HasLogo)
	assert.True(t, export.LogoBox.Empty())
	assertColorNear(t, blue, decodePNG(t, export.Data).At(400, 440))
}

func TestCompositeFailsOnMissingBase(t *testing.T) {
	source := newMemSource(t)
	delete(source.images, models.ColorYellow)
	renderer := NewRenderer(source)

	_, err := renderer.Composite(context.Background(), models.Snapshot{Color: models.ColorYellow, LogoSize: 100})
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestCompositeFailsOnCorruptLogo(t *testing.T) {
	renderer := NewRenderer(newMemSource(t))

	_, err := renderer.Composite(context.Background(), models.Snapshot{
		Color:    models.ColorBlue,
		HasLogo:  true,
		LogoData: []byte("garbage"),
		LogoSize: 100,
	})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCompositeHonorsCancellation(t *testing.T) {
	source := &gateSource{data: solidPNG(t, 600, 400, blue), gate: make(chan struct{})}
	defer close(source.gate)
	renderer := NewRenderer(source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := renderer.Composite(ctx, models.Snapshot{Color: models.ColorBlue, LogoSize: 100})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBaseImageIsCached(t *testing.T) {
	source := newMemSource(t)
	renderer := NewRenderer(source)
	ctx := context.Background()

	_, err := renderer.BaseImage(ctx, models.ColorPink)
	require.NoError(t, err)
	_, err = renderer.BaseImage(ctx, models.ColorPink)
	require.NoError(t, err)
	assert.Equal(t, int32(1), source.calls.Load())

	renderer.Forget()
	_, err = renderer.BaseImage(ctx, models.ColorPink)
	require.NoError(t, err)
	assert.Equal(t, int32(2), source.calls.Load())
}

func TestFileNameNeverRepeats(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	renderer := NewRenderer(newMemSource(t), WithClock(func() time.Time { return fixed }))

	first, _ := renderer.FileName(models.ColorPink)
	second, _ := renderer.FileName(models.ColorPink)
	third, _ := renderer.FileName(models.ColorBlue)

	assert.Equal(t, "custom-umbrella-pink-1700000000000.png", first)
	assert.Equal(t, "custom-umbrella-pink-1700000000001.png", second)
	assert.Equal(t, "custom-umbrella-blue-1700000000002.png", third)
}

func TestPreview(t *testing.T) {
	renderer := NewRenderer(newMemSource(t), WithLogoURL(func(id string, rev uint64) string {
		return fmt.Sprintf("/logo/%s/%d", id, rev)
	}))

	layout := renderer.Preview(models.Snapshot{
		SessionID: "s1",
		Color:     models.ColorPink,
		HasLogo:   true,
		LogoSize:  120,
		Revision:  7,
	})
	assert.Equal(t, models.ColorPink, layout.Color)
	assert.Equal(t, "theme-pink", layout.ThemeClass)
	assert.Equal(t, "/assets/umbrella/pink", layout.BaseImageURL)
	assert.True(t, layout.LogoVisible)
	assert.Equal(t, "/logo/s1/7", layout.LogoImageURL)
	assert.Equal(t, 96.0, layout.LogoMaxSize)
	assert.Equal(t, "120%", layout.SizeLabel)

	layout = renderer.Preview(models.Snapshot{Color: models.ColorBlue, LogoSize: 100})
	assert.False(t, layout.LogoVisible)
	assert.Empty(t, layout.LogoImageURL)
	assert.Equal(t, 80.0, layout.LogoMaxSize)
}

func TestBaseImageLoadTimeout(t *testing.T) {
	source := &gateSource{data: solidPNG(t, 600, 400, blue), gate: make(chan struct{})}
	defer close(source.gate)
	renderer := NewRenderer(source, WithLoadTimeout(20*time.Millisecond))

	_, err := renderer.BaseImage(context.Background(), models.ColorBlue)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// a non-positive timeout keeps the default
	assert.Equal(t, DefaultLoadTimeout, NewRenderer(source, WithLoadTimeout(0)).loadTimeout)
}
