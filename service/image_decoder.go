package service

import (
	"bytes"
	"fmt"
	"image"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	// Register formats beyond the ones imaging pulls in
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MaxUploadBytes is the largest logo upload accepted (5MB)
const MaxUploadBytes int64 = 5 * 1024 * 1024

// Upload is a logo file as received from a file dialog or drop
type Upload struct {
	Data      []byte
	MimeType  string
	SizeBytes int64
	FileName  string
}

// ValidateUpload checks the declared type and size of an upload.
// A missing or generic MIME type is replaced by the sniffed one before the check.
func ValidateUpload(up *Upload) error {
	mimeType := normalizeMimeType(up.MimeType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = normalizeMimeType(mimetype.Detect(up.Data).String())
	}
	up.MimeType = mimeType

	if !strings.HasPrefix(mimeType, "image/") {
		return fmt.Errorf("%w: %s", ErrInvalidType, mimeType)
	}

	size := up.SizeBytes
	if size < int64(len(up.Data)) {
		size = int64(len(up.Data))
	}
	if size > MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, size, MaxUploadBytes)
	}
	up.SizeBytes = size
	return nil
}

func normalizeMimeType(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return strings.ToLower(value)
	}
	return strings.ToLower(mediaType)
}

// DecodeImage decodes raw image bytes, honoring EXIF orientation
// Returns the image and the name of its format (png, jpeg, gif, webp, ...)
func DecodeImage(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty data", ErrDecode)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, "", fmt.Errorf("%w: image has no pixels", ErrDecode)
	}

	return img, format, nil
}
