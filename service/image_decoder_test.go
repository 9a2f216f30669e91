package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUploadRejectsNonImages(t *testing.T) {
	up := Upload{Data: []byte("hello"), MimeType: "text/plain", SizeBytes: 5}
	assert.ErrorIs(t, ValidateUpload(&up), ErrInvalidType)

	up = Upload{Data: []byte("%PDF-1.4 ..."), MimeType: "application/pdf"}
	assert.ErrorIs(t, ValidateUpload(&up), ErrInvalidType)
}

func TestValidateUploadRejectsLargeFiles(t *testing.T) {
	up := Upload{Data: []byte{1}, MimeType: "image/png", SizeBytes: 6 * 1024 * 1024}
	assert.ErrorIs(t, ValidateUpload(&up), ErrTooLarge)

	up = Upload{Data: []byte{1}, MimeType: "image/png", SizeBytes: MaxUploadBytes}
	assert.NoError(t, ValidateUpload(&up))
}

func TestValidateUploadChecksTypeBeforeSize(t *testing.T) {
	up := Upload{Data: []byte("x"), MimeType: "text/plain", SizeBytes: 6 * 1024 * 1024}
	assert.ErrorIs(t, ValidateUpload(&up), ErrInvalidType)
}

func TestValidateUploadSniffsMissingType(t *testing.T) {
	up := Upload{Data: solidPNG(t, 4, 4, red)}
	require.NoError(t, ValidateUpload(&up))
	assert.Equal(t, "image/png", up.MimeType)
	assert.Equal(t, int64(len(up.Data)), up.SizeBytes)

	up = Upload{Data: []byte("plain text"), MimeType: "application/octet-stream"}
	assert.ErrorIs(t, ValidateUpload(&up), ErrInvalidType)
}

func TestValidateUploadNormalizesParameters(t *testing.T) {
	up := Upload{Data: solidPNG(t, 4, 4, red), MimeType: "IMAGE/PNG; charset=binary"}
	require.NoError(t, ValidateUpload(&up))
	assert.Equal(t, "image/png", up.MimeType)
}

func TestDecodeImage(t *testing.T) {
	img, format, err := DecodeImage(solidPNG(t, 12, 7, red))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 12, img.Bounds().Dx())
	assert.Equal(t, 7, img.Bounds().Dy())
}

func TestDecodeImageRejectsCorruptData(t *testing.T) {
	_, _, err := DecodeImage([]byte("not an image"))
	assert.ErrorIs(t, err, ErrDecode)

	_, _, err = DecodeImage(nil)
	assert.ErrorIs(t, err, ErrDecode)

	data := solidPNG(t, 10, 10, red)
	_, _, err = DecodeImage(data[:len(data)/2])
	assert.ErrorIs(t, err, ErrDecode)
}
