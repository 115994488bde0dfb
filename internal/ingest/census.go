package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rescuemap/internal/models"
	"rescuemap/pkg/utils"
)

// Header candidates for the census extract; different vintages of the
// extract name the columns differently.
var (
	censusAreaColumns        = []string{"Ward", "Electoral wards and divisions", "Area"}
	censusObservationColumns = []string{"Observation", "Population"}
)

// ReadCensus loads per-ward population observations. The extract may carry
// several sub-rows per ward (age bands); they are summed so each raw ward
// name yields exactly one observation.
func ReadCensus(path string) ([]models.PopulationObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, path)
	}

	areaIdx, err := findColumn(records[0], censusAreaColumns, path)
	if err != nil {
		return nil, err
	}

	obsIdx, err := findColumn(records[0], censusObservationColumns, path)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int)

	var order []string

	for i, row := range records[1:] {
		area := utils.NormalizeWhitespace(cell(row, areaIdx))
		if area == "" {
			continue
		}

		obs := cell(row, obsIdx)

		count, convErr := strconv.Atoi(strings.ReplaceAll(obs, ",", ""))
		if convErr != nil {
			return nil, fmt.Errorf("%w: %s field %q row %d: %q", ErrBadNumber, path, records[0][obsIdx], i+2, obs)
		}

		if _, seen := totals[area]; !seen {
			order = append(order, area)
		}

		totals[area] += count
	}

	observations := make([]models.PopulationObservation, 0, len(order))
	for _, area := range order {
		observations = append(observations, models.PopulationObservation{
			Ward:       area,
			Population: totals[area],
		})
	}

	return observations, nil
}

// findColumn locates the first header matching any candidate name.
func findColumn(header []string, candidates []string, path string) (int, error) {
	for idx, name := range header {
		name = utils.NormalizeWhitespace(name)
		for _, want := range candidates {
			if strings.EqualFold(name, want) {
				return idx, nil
			}
		}
	}

	return 0, fmt.Errorf("%w: %s field %q", ErrMissingColumn, path, candidates[0])
}
