package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"umbrella-customizer/config"
	"umbrella-customizer/logger"
	"umbrella-customizer/models"
)

// ErrAssetNotFound is returned by a source that has no base image for a color
var ErrAssetNotFound = errors.New("base image not found")

// BaseImageSource provides the encoded base umbrella image for a color
type BaseImageSource interface {
	Open(ctx context.Context, color models.Color) ([]byte, error)
}

// DirSource reads base images from a local directory
type DirSource struct {
	dir    string
	themes config.Themes
}

// NewDirSource creates a DirSource rooted at dir
func NewDirSource(dir string, themes config.Themes) *DirSource {
	return &DirSource{dir: dir, themes: themes}
}

// Ensure DirSource implements BaseImageSource
var _ BaseImageSource = (*DirSource)(nil)

// Open reads the theme's asset file
func (s *DirSource) Open(ctx context.Context, color models.Color) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, s.themes.For(color).Asset)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, path)
		}
		return nil, fmt.Errorf("failed to read base image %s: %w", path, err)
	}
	return data, nil
}

// FallbackSource tries each source in order until one has the image
type FallbackSource struct {
	sources []BaseImageSource
	log     *logger.Logger
}

// NewFallbackSource chains sources, skipping nil entries
func NewFallbackSource(log *logger.Logger, sources ...BaseImageSource) *FallbackSource {
	chain := make([]BaseImageSource, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			chain = append(chain, s)
		}
	}
	return &FallbackSource{sources: chain, log: log}
}

// Open returns the first image found. Cancellation stops the chain.
func (s *FallbackSource) Open(ctx context.Context, color models.Color) ([]byte, error) {
	var lastErr error = fmt.Errorf("%w: no sources configured", ErrAssetNotFound)
	for i, source := range s.sources {
		data, err := source.Open(ctx, color)
		if err == nil {
			return data, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.log.Debug("base image source missed", "source", i, "color", string(color), "error", err.Error())
		lastErr = err
	}
	return nil, lastErr
}
