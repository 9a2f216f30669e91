package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"umbrella-customizer/models"
)

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(w, h, c), imaging.PNG))
	return buf.Bytes()
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

var (
	blue = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	red  = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

// memSource serves fixed images per color and counts calls
type memSource struct {
	mu     sync.Mutex
	images map[models.Color][]byte
	calls  atomic.Int32
}

func newMemSource(t *testing.T) *memSource {
	return &memSource{images: map[models.Color][]byte{
		models.ColorBlue:   solidPNG(t, 600, 400, blue),
		models.ColorYellow: solidPNG(t, 600, 400, color.NRGBA{R: 255, G: 255, A: 255}),
		models.ColorPink:   solidPNG(t, 600, 400, color.NRGBA{R: 255, G: 105, B: 180, A: 255}),
	}}
}

func (s *memSource) Open(ctx context.Context, c models.Color) ([]byte, error) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.images[c]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return data, nil
}

// gateSource blocks every Open until the gate is closed
type gateSource struct {
	data  []byte
	gate  chan struct{}
	calls atomic.Int32
}

func (s *gateSource) Open(ctx context.Context, c models.Color) ([]byte, error) {
	s.calls.Add(1)
	select {
	case <-s.gate:
		return s.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func assertColorNear(t *testing.T, want color.NRGBA, got color.Color) {
	t.Helper()
	g := color.NRGBAModel.Convert(got).(color.NRGBA)
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	require.LessOrEqualf(t, diff(want.R, g.R)+diff(want.G, g.G)+diff(want.B, g.B)+diff(want.A, g.A), 8,
		"want %v, got %v", want, g)
}

// gatedDecoder holds the first decode until release is closed
type gatedDecoder struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{started: make(chan struct{}), release: make(chan struct{})}
}

func (d *gatedDecoder) decode(data []byte) (image.Image, string, error) {
	if d.calls.Add(1) == 1 {
		close(d.started)
		<-d.release
	}
	return DecodeImage(data)
}
