package service

import "image"

const (
	MinLogoSize     = 50
	MaxLogoSize     = 150
	DefaultLogoSize = 100
)

// Logo is a successfully decoded upload
type Logo struct {
	Image     image.Image
	Data      []byte
	Format    string
	MimeType  string
	FileName  string
	SizeBytes int64
}

// LogoState holds the optional uploaded logo and its size scale in percent
type LogoState struct {
	logo *Logo
	size int
}

// NewLogoState creates an empty LogoState at the default size
func NewLogoState() *LogoState {
	return &LogoState{size: DefaultLogoSize}
}

// Logo returns the current logo, or nil when none is set
func (s *LogoState) Logo() *Logo {
	return s.logo
}

// Replace swaps in a new logo wholesale
func (s *LogoState) Replace(logo *Logo) {
	s.logo = logo
}

// Remove clears the logo. The size scale is kept.
func (s *LogoState) Remove() {
	s.logo = nil
}

// Size returns the size scale in percent
func (s *LogoState) Size() int {
	return s.size
}

// SetSize stores scale clamped to [MinLogoSize, MaxLogoSize] and returns the stored value
func (s *LogoState) SetSize(scale int) int {
	s.size = ClampLogoSize(scale)
	return s.size
}

// ClampLogoSize limits scale to [MinLogoSize, MaxLogoSize]
func ClampLogoSize(scale int) int {
	if scale < MinLogoSize {
		return MinLogoSize
	}
	if scale > MaxLogoSize {
		return MaxLogoSize
	}
	return scale
}
