package models

import "image"

// EventKind identifies what part of a customization changed
type EventKind string

const (
	EventThemeChanged EventKind = "theme-changed"
	EventLogoChanged  EventKind = "logo-changed"
	EventSizeChanged  EventKind = "size-changed"
)

// Event is emitted by a customizer session after each state mutation
type Event struct {
	Kind     EventKind `json:"kind"`
	Color    Color     `json:"color"`
	LogoSize int       `json:"logoSize"`
	HasLogo  bool      `json:"hasLogo"`
	Revision uint64    `json:"revision"`
}

// Snapshot is an immutable copy of a session's theme and logo state
type Snapshot struct {
	SessionID string `json:"sessionId"`
	Color     Color  `json:"color"`
	HasLogo   bool   `json:"hasLogo"`
	LogoName  string `json:"logoName,omitempty"`
	LogoSize  int    `json:"logoSize"`
	Loading   bool   `json:"loading"`
	Revision  uint64 `json:"revision"`

	// Logo is the decoded upload, LogoData the bytes it was decoded from
	Logo     image.Image `json:"-"`
	LogoData []byte      `json:"-"`
}

// PreviewLayout describes the on-screen preview of a snapshot
type PreviewLayout struct {
	Color        Color   `json:"color"`
	ThemeClass   string  `json:"themeClass"`
	BaseImageURL string  `json:"baseImageUrl"`
	LogoVisible  bool    `json:"logoVisible"`
	LogoImageURL string  `json:"logoImageUrl,omitempty"`
	LogoMaxSize  float64 `json:"logoMaxSize"`
	SizeLabel    string  `json:"sizeLabel"`
	Loading      bool    `json:"loading"`
}

// SessionResponse is returned by the session endpoints
type SessionResponse struct {
	ID       string        `json:"id"`
	Snapshot Snapshot      `json:"snapshot"`
	Preview  PreviewLayout `json:"preview"`
}
