package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"umbrella-customizer/logger"
)

const (
	// Size settings (max dimension)
	maxSizeThumb  = 300
	maxSizeMedium = 800

	SizeThumb  = "thumb"
	SizeMedium = "medium"
)

// ImageOptimizer produces page-sized PNG renditions of base images and keeps
// them in a disk cache
type ImageOptimizer struct {
	cacheDir string
	log      *logger.Logger
}

// NewImageOptimizer creates an ImageOptimizer caching under cacheDir
func NewImageOptimizer(cacheDir string, log *logger.Logger) *ImageOptimizer {
	if log == nil {
		log = logger.Nop()
	}
	return &ImageOptimizer{cacheDir: cacheDir, log: log}
}

// EnsureCacheDir ensures the cache directory exists, creates it if it doesn't
func (o *ImageOptimizer) EnsureCacheDir() error {
	if err := os.MkdirAll(o.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

// CachePath returns the cache file path for a rendition key and size
func (o *ImageOptimizer) CachePath(key, size string) string {
	filename := fmt.Sprintf("umbrella_%s_%s.png", key, size)
	return filepath.Join(o.cacheDir, filename)
}

// CacheExists checks if a cached image exists
func CacheExists(cachePath string) bool {
	_, err := os.Stat(cachePath)
	return err == nil
}

// ReadFromCache reads an image from the cache
func ReadFromCache(cachePath string) ([]byte, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read from cache: %w", err)
	}
	return data, nil
}

// SaveToCache saves an image to the cache
func (o *ImageOptimizer) SaveToCache(cachePath string, imageData []byte) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	if err := os.WriteFile(cachePath, imageData, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}

	o.log.Debug("image cached", "path", cachePath)
	return nil
}

// Rendition returns the cached rendition for key, producing it from img on a miss
func (o *ImageOptimizer) Rendition(key, size string, img image.Image) ([]byte, error) {
	cachePath := o.CachePath(key, normalizeSize(size))
	if CacheExists(cachePath) {
		if data, err := ReadFromCache(cachePath); err == nil {
			return data, nil
		}
	}

	data, err := OptimizeImage(img, size)
	if err != nil {
		return nil, err
	}
	if err := o.SaveToCache(cachePath, data); err != nil {
		// a cache failure still serves the image
		o.log.Warn("failed to cache rendition", "path", cachePath, "error", err.Error())
	}
	return data, nil
}

func normalizeSize(size string) string {
	if size == SizeThumb {
		return SizeThumb
	}
	return SizeMedium
}

// OptimizeImage resizes an image to fit the size's max dimension and encodes it as PNG.
// PNG keeps the transparent background around the umbrella.
// size: "thumb" or "medium"; anything else is treated as medium
func OptimizeImage(img image.Image, size string) ([]byte, error) {
	maxDim := maxSizeMedium
	if normalizeSize(size) == SizeThumb {
		maxDim = maxSizeThumb
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > maxDim || height > maxDim {
		// imaging keeps the aspect ratio when one dimension is 0
		if width > height {
			resized = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
		} else {
			resized = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.PNG, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return nil, fmt.Errorf("failed to encode to PNG: %w", err)
	}
	return buf.Bytes(), nil
}
