package service

import (
	"errors"
)

var (
	// ErrInvalidType is returned when an upload is not an image
	ErrInvalidType = errors.New("invalid file type")
	// ErrTooLarge is returned when an upload exceeds MaxUploadBytes
	ErrTooLarge = errors.New("file too large")
	// ErrDecode is returned when image data cannot be decoded
	ErrDecode = errors.New("failed to decode image")
	// ErrExport is returned when the export pipeline cannot produce a PNG
	ErrExport = errors.New("failed to export preview")
	// ErrUnknownColor is returned for a color outside the theme set
	ErrUnknownColor = errors.New("unknown color")
	// ErrSuperseded is returned to the caller of an operation replaced by a newer one
	ErrSuperseded = errors.New("operation superseded")
	// ErrSessionClosed is returned once a session loop has stopped
	ErrSessionClosed = errors.New("session closed")
)

// UserMessage returns the notification text shown for err
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return "Please select a valid image file."
	case errors.Is(err, ErrTooLarge):
		return "File size must be less than 5MB."
	case errors.Is(err, ErrDecode):
		return "Error reading file. Please try again."
	case errors.Is(err, ErrExport):
		return "Error generating preview. Please try again."
	case errors.Is(err, ErrUnknownColor):
		return "Please select one of the available colors."
	default:
		return "Something went wrong. Please try again."
	}
}
