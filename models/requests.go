package models

// ColorRequest represents the request body for selecting a color theme
type ColorRequest struct {
	Color string `json:"color"`
}

// SizeRequest represents the request body for adjusting the logo size
type SizeRequest struct {
	Size int `json:"size"`
}
