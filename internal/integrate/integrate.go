// Package integrate joins boundary geometry, incident counts and census
// population into the unified per-ward table, with district rollups.
package integrate

import (
	"errors"
	"fmt"
	"sort"

	"github.com/twpayne/go-geom"

	"rescuemap/internal/geo"
	"rescuemap/internal/models"
)

// ErrNoBoundaries is returned when the geometry input is empty; the join is
// anchored on geometry, so there is nothing to build without it.
var ErrNoBoundaries = errors.New("no ward boundaries to integrate")

// Input carries the three reconciled sources. Ward keys must already be
// canonical; Build joins on them verbatim.
type Input struct {
	Boundaries []models.WardBoundary
	Incidents  []models.Incident
	Population []models.PopulationObservation
}

// Build produces the unified table. The join is anchored on the geometry
// table: every ward with a boundary appears exactly once, with incident
// counts defaulting to zero. Population stays nil when the census has no
// row for the ward, keeping "zero incidents" distinct from "no data".
// Data-quality gaps are collected into the returned QualityReport.
func Build(in Input) (*models.UnifiedTable, *models.QualityReport, error) {
	if len(in.Boundaries) == 0 {
		return nil, nil, ErrNoBoundaries
	}

	report := &models.QualityReport{}

	population := make(map[string]int, len(in.Population))
	for _, obs := range in.Population {
		population[obs.Ward] += obs.Population
	}

	wards := make(map[string]*models.UnifiedWard, len(in.Boundaries))

	var order []string

	for _, b := range in.Boundaries {
		if _, dup := wards[b.Ward]; dup {
			// Split boundary files for the same ward merge into one row.
			merged, err := geo.Union([]geom.T{wards[b.Ward].Geometry, b.Geometry})
			if err != nil {
				return nil, nil, fmt.Errorf("failed to merge split ward %q: %w", b.Ward, err)
			}

			wards[b.Ward].Geometry = merged

			continue
		}

		wards[b.Ward] = &models.UnifiedWard{
			Ward:            b.Ward,
			District:        b.District,
			Geometry:        b.Geometry,
			ByFinancialYear: make(map[int]int),
			ByAnimal:        make(map[string]int),
		}

		order = append(order, b.Ward)
	}

	for _, inc := range in.Incidents {
		row, ok := wards[inc.Ward]
		if !ok {
			report.MissingGeometry = appendUnique(report.MissingGeometry, inc.Ward)

			continue
		}

		row.TotalIncidents++
		row.ByFinancialYear[inc.FinancialYear]++

		if inc.Animal != "" {
			row.ByAnimal[inc.Animal]++
		}
	}

	for _, ward := range order {
		row := wards[ward]

		if pop, ok := population[ward]; ok {
			row.Population = &pop
			row.IncidentsPer10k = ratePer10k(row.TotalIncidents, pop)
		} else {
			report.MissingPopulation = appendUnique(report.MissingPopulation, ward)
		}
	}

	// Census rows naming wards with no boundary are geometry gaps too.
	for _, obs := range in.Population {
		if _, ok := wards[obs.Ward]; !ok {
			report.MissingGeometry = appendUnique(report.MissingGeometry, obs.Ward)
		}
	}

	sort.Strings(order)
	sort.Strings(report.MissingGeometry)
	sort.Strings(report.MissingPopulation)

	table := &models.UnifiedTable{
		Wards: make([]models.UnifiedWard, 0, len(order)),
	}

	for _, ward := range order {
		table.Wards = append(table.Wards, *wards[ward])
	}

	districts, err := rollupDistricts(table.Wards)
	if err != nil {
		return nil, nil, err
	}

	table.Districts = districts

	return table, report, nil
}

// ratePer10k returns incidents per 10,000 residents, or nil when the
// population is unknown or zero. A zero population must not divide.
func ratePer10k(incidents, population int) *float64 {
	if population <= 0 {
		return nil
	}

	rate := float64(incidents) / float64(population) * 10000

	return &rate
}

// rollupDistricts groups wards by parent district, summing counts and
// population and unioning geometry.
func rollupDistricts(wards []models.UnifiedWard) ([]models.DistrictSummary, error) {
	byDistrict := make(map[string][]models.UnifiedWard)

	var order []string

	for _, w := range wards {
		if _, seen := byDistrict[w.District]; !seen {
			order = append(order, w.District)
		}

		byDistrict[w.District] = append(byDistrict[w.District], w)
	}

	sort.Strings(order)

	summaries := make([]models.DistrictSummary, 0, len(order))

	for _, district := range order {
		members := byDistrict[district]

		summary := models.DistrictSummary{
			District:        district,
			ByFinancialYear: make(map[int]int),
		}

		geometries := make([]geom.T, 0, len(members))
		populationKnown := false
		populationTotal := 0

		for _, w := range members {
			summary.TotalIncidents += w.TotalIncidents

			for fy, n := range w.ByFinancialYear {
				summary.ByFinancialYear[fy] += n
			}

			if w.Population != nil {
				populationKnown = true
				populationTotal += *w.Population
			}

			if w.Geometry != nil {
				geometries = append(geometries, w.Geometry)
			}
		}

		if populationKnown {
			summary.Population = &populationTotal
			summary.IncidentsPer10k = ratePer10k(summary.TotalIncidents, populationTotal)
		}

		union, err := geo.Union(geometries)
		if err != nil {
			return nil, fmt.Errorf("failed to union district %q: %w", district, err)
		}

		summary.Geometry = union
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}

	return append(list, value)
}
