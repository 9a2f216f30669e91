package models

import (
	"image"
	"time"
)

// Export is a flattened PNG of the base umbrella with the logo composited on top
type Export struct {
	FileName  string          `json:"fileName"`
	Color     Color           `json:"color"`
	Width     int             `json:"width"`
	Height    int             `json:"height"`
	BaseBox   image.Rectangle `json:"baseBox"`
	LogoBox   image.Rectangle `json:"logoBox"`
	HasLogo   bool            `json:"hasLogo"`
	CreatedAt time.Time       `json:"createdAt"`
	Data      []byte          `json:"-"`
}
