package geo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rescuemap/internal/models"
)

// ErrEmptyCache is returned when the cache directory holds no KML files.
var ErrEmptyCache = errors.New("boundary cache is empty")

// LoadCache reads every cached KML file and returns one boundary per ward.
// The cache is laid out as <cacheDir>/<district>/<id>.kml; the district
// comes from the directory, the ward name from the placemark. Ward names
// are raw here; the pipeline normalizes them with everything else.
func LoadCache(cacheDir string) ([]models.WardBoundary, error) {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache dir: %w", err)
	}

	var boundaries []models.WardBoundary

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		district := entry.Name()

		files, err := filepath.Glob(filepath.Join(cacheDir, district, "*.kml"))
		if err != nil {
			return nil, fmt.Errorf("failed to list cache files: %w", err)
		}

		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}

			name, geometry, err := ParseBoundary(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}

			boundaries = append(boundaries, models.WardBoundary{
				Ward:     strings.TrimSpace(name),
				District: district,
				Geometry: geometry,
			})
		}
	}

	if len(boundaries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCache, cacheDir)
	}

	return boundaries, nil
}
