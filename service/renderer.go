package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"umbrella-customizer/logger"
	"umbrella-customizer/models"
	"umbrella-customizer/utils"
)

const (
	// CanvasWidth and CanvasHeight are the dimensions of an exported preview
	CanvasWidth  = 800
	CanvasHeight = 600
	// BaseWidth is the width the base umbrella is scaled to on the canvas
	BaseWidth = 600
	// LogoBaseSize is the logo edge, in pixels, at 100% scale
	LogoBaseSize = 80
	// LogoAnchorY is how far down the base image the logo center sits
	LogoAnchorY = 0.85

	// DefaultLoadTimeout bounds a base image load when no other limit is set
	DefaultLoadTimeout = 30 * time.Second
	assetPrefix        = "/assets/umbrella/"
)

// CompositeLayout is where the base image and logo land on the export canvas
type CompositeLayout struct {
	Base image.Rectangle
	Logo image.Rectangle
}

// ComputeLayout places a baseW x baseH image and a logo at scale percent on the canvas.
// The base is scaled to BaseWidth keeping its aspect ratio and centered. The logo is
// a square centered horizontally with its center at LogoAnchorY of the base height.
func ComputeLayout(baseW, baseH, scale int) CompositeLayout {
	baseHeight := float64(baseH) * BaseWidth / float64(baseW)
	baseX := (CanvasWidth - BaseWidth) / 2
	baseY := (CanvasHeight - baseHeight) / 2

	top := round(baseY)
	base := image.Rect(baseX, top, baseX+BaseWidth, top+round(baseHeight))

	edge := LogoEdge(scale)
	logoX := (CanvasWidth - edge) / 2
	logoY := baseY + baseHeight*LogoAnchorY - edge/2

	x, y, e := round(logoX), round(logoY), round(edge)
	return CompositeLayout{
		Base: base,
		Logo: image.Rect(x, y, x+e, y+e),
	}
}

// LogoEdge returns the logo edge length for scale percent
func LogoEdge(scale int) float64 {
	return float64(LogoBaseSize*ClampLogoSize(scale)) / 100
}

func round(v float64) int {
	return int(math.Round(v))
}

// RendererOption configures a Renderer
type RendererOption func(*Renderer)

// WithClock overrides the time source used for export names
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// WithLogoURL sets how the page addresses a session's logo
func WithLogoURL(fn func(sessionID string, revision uint64) string) RendererOption {
	return func(r *Renderer) { r.logoURL = fn }
}

// WithLoadTimeout bounds a single base image load; non-positive keeps the default
func WithLoadTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) {
		if d > 0 {
			r.loadTimeout = d
		}
	}
}

// WithLogger sets the renderer logger
func WithLogger(log *logger.Logger) RendererOption {
	return func(r *Renderer) { r.log = log }
}

// Renderer maps a customization snapshot to its on-screen preview and its export.
// Decoded base images are cached per color and shared by every session.
type Renderer struct {
	source      BaseImageSource
	log         *logger.Logger
	now         func() time.Time
	logoURL     func(sessionID string, revision uint64) string
	loadTimeout time.Duration

	loads singleflight.Group
	mu    sync.RWMutex
	cache map[models.Color]image.Image

	lastStamp *atomic.Int64
}

// NewRenderer creates a Renderer reading base images from source
func NewRenderer(source BaseImageSource, opts ...RendererOption) *Renderer {
	r := &Renderer{
		source:      source,
		log:         logger.Nop(),
		now:         time.Now,
		loadTimeout: DefaultLoadTimeout,
		cache:       make(map[models.Color]image.Image),
		lastStamp:   atomic.NewInt64(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseImage returns the decoded base image for theme.
// Concurrent callers share one load; a caller leaving early does not abort it.
func (r *Renderer) BaseImage(ctx context.Context, theme models.Color) (image.Image, error) {
	r.mu.RLock()
	img, ok := r.cache[theme]
	r.mu.RUnlock()
	if ok {
		return img, nil
	}

	ch := r.loads.DoChan(string(theme), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()

		data, err := r.source.Open(loadCtx, theme)
		if err != nil {
			return nil, err
		}
		img, format, err := DecodeImage(data)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[theme] = img
		r.mu.Unlock()

		r.log.Debug("base image loaded", "color", string(theme), "format", format, "bounds", img.Bounds().String())
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Forget drops every cached base image
func (r *Renderer) Forget() {
	r.mu.Lock()
	r.cache = make(map[models.Color]image.Image)
	r.mu.Unlock()
}

// Preview describes the on-screen preview of s
func (r *Renderer) Preview(s models.Snapshot) models.PreviewLayout {
	layout := models.PreviewLayout{
		Color:        s.Color,
		ThemeClass:   s.Color.ThemeClass(),
		BaseImageURL: assetPrefix + string(s.Color),
		LogoVisible:  s.HasLogo,
		LogoMaxSize:  LogoEdge(s.LogoSize),
		SizeLabel:    fmt.Sprintf("%d%%", s.LogoSize),
		Loading:      s.Loading,
	}
	if s.HasLogo && r.logoURL != nil {
		layout.LogoImageURL = r.logoURL(s.SessionID, s.Revision)
	}
	return layout
}

type sourceResult struct {
	img image.Image
	err error
}

// Composite flattens the base image and the logo of s into a PNG.
// Base and logo decode concurrently; the canvas is finalized once, after both are in.
func (r *Renderer) Composite(ctx context.Context, s models.Snapshot) (*models.Export, error) {
	baseCh := make(chan sourceResult, 1)
	go func() {
		img, err := r.BaseImage(ctx, s.Color)
		baseCh <- sourceResult{img: img, err: err}
	}()

	var logoCh chan sourceResult
	if s.HasLogo {
		logoCh = make(chan sourceResult, 1)
		go func() {
			if s.Logo != nil {
				logoCh <- sourceResult{img: s.Logo}
				return
			}
			img, _, err := DecodeImage(s.LogoData)
			logoCh <- sourceResult{img: img, err: err}
		}()
	}

	base, err := await(ctx, baseCh)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: base image for %s: %w", ErrDecode, s.Color, err)
	}

	bounds := base.Bounds()
	layout := ComputeLayout(bounds.Dx(), bounds.Dy(), s.LogoSize)
	if layout.Base.Dy() <= 0 {
		return nil, fmt.Errorf("%w: base image for %s is too flat (%dx%d)", ErrDecode, s.Color, bounds.Dx(), bounds.Dy())
	}

	canvas := imaging.New(CanvasWidth, CanvasHeight, color.NRGBA{})
	scaled := imaging.Resize(base, layout.Base.Dx(), layout.Base.Dy(), imaging.Lanczos)
	canvas = imaging.Overlay(canvas, scaled, layout.Base.Min, 1.0)

	if logoCh != nil {
		logo, err := await(ctx, logoCh)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%w: logo: %w", ErrDecode, err)
		}
		resized := imaging.Resize(logo, layout.Logo.Dx(), layout.Logo.Dy(), imaging.Lanczos)
		canvas = imaging.Overlay(canvas, resized, layout.Logo.Min, 1.0)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	name, createdAt := r.FileName(s.Color)
	export := &models.Export{
		FileName:  name,
		Color:     s.Color,
		Width:     CanvasWidth,
		Height:    CanvasHeight,
		BaseBox:   layout.Base,
		HasLogo:   s.HasLogo,
		CreatedAt: createdAt,
		Data:      buf.Bytes(),
	}
	if s.HasLogo {
		export.LogoBox = layout.Logo
	}
	return export, nil
}

func await(ctx context.Context, ch <-chan sourceResult) (image.Image, error) {
	select {
	case res := <-ch:
		return res.img, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FileName returns a unique export name for theme.
// Names never repeat within the process, even for exports in the same millisecond.
func (r *Renderer) FileName(theme models.Color) (string, time.Time) {
	now := r.now()
	stamp := now.UnixMilli()
	for {
		last := r.lastStamp.Load()
		next := stamp
		if next <= last {
			next = last + 1
		}
		if r.lastStamp.CompareAndSwap(last, next) {
			return utils.ExportFileName(theme, next), now
		}
	}
}
