package service

import (
	"fmt"
	"os"
	"path/filepath"

	"umbrella-customizer/logger"
	"umbrella-customizer/models"
	"umbrella-customizer/utils"
)

// ExportWriter saves exported previews to a directory
type ExportWriter struct {
	dir string
	log *logger.Logger
}

// NewExportWriter creates an ExportWriter for dir
func NewExportWriter(dir string, log *logger.Logger) *ExportWriter {
	if log == nil {
		log = logger.Nop()
	}
	return &ExportWriter{dir: dir, log: log}
}

// Save writes export under its file name and returns the full path.
// An existing file is never overwritten. Only export file names are accepted.
func (w *ExportWriter) Save(export *models.Export) (string, error) {
	if _, _, err := utils.ParseExportFileName(export.FileName); err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(w.dir, export.FileName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := f.Write(export.Data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	w.log.Info("export saved", "path", path, "bytes", len(export.Data))
	return path, nil
}
