package service

import (
	"bytes"
	"context"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"umbrella-customizer/config"
	"umbrella-customizer/models"
)

const (
	placeholderWidth  = 600
	placeholderHeight = 600
)

// PlaceholderSource draws a flat umbrella in the theme's accent color.
// It is the last source in the chain so the customizer works without asset files.
type PlaceholderSource struct {
	themes config.Themes
}

// NewPlaceholderSource creates a PlaceholderSource
func NewPlaceholderSource(themes config.Themes) *PlaceholderSource {
	return &PlaceholderSource{themes: themes}
}

// Ensure PlaceholderSource implements BaseImageSource
var _ BaseImageSource = (*PlaceholderSource)(nil)

// Open renders the placeholder and encodes it as PNG
func (s *PlaceholderSource) Open(ctx context.Context, color models.Color) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc := DrawPlaceholderUmbrella(s.themes.For(color).Accent, placeholderWidth, placeholderHeight)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

// DrawPlaceholderUmbrella draws a canopy, shaft and hook on a transparent background
func DrawPlaceholderUmbrella(accent string, width, height int) *gg.Context {
	w, h := float64(width), float64(height)
	cx := w / 2
	canopyY := h * 0.45
	radius := w * 0.45

	dc := gg.NewContext(width, height)

	// canopy
	dc.SetHexColor(accent)
	dc.DrawArc(cx, canopyY, radius, math.Pi, 2*math.Pi)
	dc.ClosePath()
	dc.Fill()

	// scalloped rim
	const scallops = 5
	scallopR := radius / scallops
	for i := 0; i < scallops; i++ {
		x := cx - radius + scallopR*(2*float64(i)+1)
		dc.DrawArc(x, canopyY, scallopR, 0, math.Pi)
		dc.Fill()
	}

	// shaft and hook
	dc.SetRGB255(64, 64, 64)
	dc.SetLineWidth(w * 0.02)
	dc.SetLineCap(gg.LineCapRound)
	hookR := w * 0.05
	shaftEnd := h * 0.88
	dc.DrawLine(cx, canopyY-radius*0.1, cx, shaftEnd)
	dc.Stroke()
	dc.DrawArc(cx-hookR, shaftEnd, hookR, 0, math.Pi)
	dc.Stroke()

	return dc
}
