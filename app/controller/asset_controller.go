package controller

import (
	"net/http"
	"strings"

	"umbrella-customizer/logger"
	"umbrella-customizer/models"
	"umbrella-customizer/service"
)

// AssetController serves base umbrella images for the page
type AssetController struct {
	renderer  *service.Renderer
	optimizer *service.ImageOptimizer
	log       *logger.Logger
}

// NewAssetController creates a new AssetController
func NewAssetController(renderer *service.Renderer, optimizer *service.ImageOptimizer, log *logger.Logger) *AssetController {
	return &AssetController{
		renderer:  renderer,
		optimizer: optimizer,
		log:       log,
	}
}

// BaseImage handles GET /assets/umbrella/:color?size=thumb|medium
func (c *AssetController) BaseImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/assets/umbrella/")
	color, ok := models.ParseColor(name)
	if !ok {
		http.Error(w, "Unknown color. Valid colors: blue, yellow, pink", http.StatusNotFound)
		return
	}

	size := r.URL.Query().Get("size")
	if size == "" {
		size = service.SizeMedium
	}

	img, err := c.renderer.BaseImage(r.Context(), color)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	data, err := c.optimizer.Rendition(string(color), size, img)
	if err != nil {
		writeError(w, c.log, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}
