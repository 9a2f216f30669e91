package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"umbrella-customizer/models"
)

var exportNameRegex = regexp.MustCompile(`^custom-umbrella-([a-z]+)-(\d+)\.png$`)

// ExportFileName builds the download name of an exported preview:
// custom-umbrella-<color>-<timestamp>.png
func ExportFileName(color models.Color, stamp int64) string {
	return fmt.Sprintf("custom-umbrella-%s-%d.png", color, stamp)
}

// ParseExportFileName extracts the color and timestamp from an export file name
func ParseExportFileName(name string) (models.Color, int64, error) {
	matches := exportNameRegex.FindStringSubmatch(strings.ToLower(name))
	if len(matches) != 3 {
		return "", 0, fmt.Errorf("invalid export file name: %s", name)
	}

	color, ok := models.ParseColor(matches[1])
	if !ok {
		return "", 0, fmt.Errorf("invalid export file name %s: unknown color %s", name, matches[1])
	}

	stamp, err := strconv.ParseInt(matches[2], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid export file name %s: %w", name, err)
	}
	return color, stamp, nil
}

// SanitizeFileName keeps the base name of an uploaded file and strips
// characters that would break a Content-Disposition header
func SanitizeFileName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.Map(func(r rune) rune {
		if r == '"' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}
