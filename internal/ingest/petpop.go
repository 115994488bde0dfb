package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"rescuemap/internal/models"
	"rescuemap/pkg/utils"
)

// ColYear is the index column of the pet-population survey.
const ColYear = "Year"

// ReadPetPopulation loads the pet-population survey: one row per year, one
// column per species. Every non-year column is treated as a species count.
func ReadPetPopulation(path string) ([]models.PetPopulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptySheet, path)
	}

	header := records[0]

	yearIdx := -1

	for idx, name := range header {
		if strings.EqualFold(utils.NormalizeWhitespace(name), ColYear) {
			yearIdx = idx

			break
		}
	}

	if yearIdx < 0 {
		return nil, fmt.Errorf("%w: %s field %q", ErrMissingColumn, path, ColYear)
	}

	surveys := make([]models.PetPopulation, 0, len(records)-1)

	for i, row := range records[1:] {
		year, convErr := strconv.Atoi(cell(row, yearIdx))
		if convErr != nil {
			return nil, fmt.Errorf("%w: %s field %q row %d: %q", ErrBadNumber, path, ColYear, i+2, cell(row, yearIdx))
		}

		survey := models.PetPopulation{
			Year:      year,
			BySpecies: make(map[string]int, len(header)-1),
		}

		for idx, name := range header {
			if idx == yearIdx {
				continue
			}

			value := cell(row, idx)
			if value == "" {
				continue
			}

			count, countErr := strconv.Atoi(strings.ReplaceAll(value, ",", ""))
			if countErr != nil {
				return nil, fmt.Errorf("%w: %s field %q row %d: %q", ErrBadNumber, path, name, i+2, value)
			}

			survey.BySpecies[utils.NormalizeWhitespace(name)] = count
		}

		surveys = append(surveys, survey)
	}

	sort.Slice(surveys, func(i, j int) bool { return surveys[i].Year < surveys[j].Year })

	return surveys, nil
}
