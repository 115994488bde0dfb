package models

import "github.com/twpayne/go-geom"

// PopulationObservation is one census population count for a ward. Source
// rows broken down by age band are summed before this struct is produced.
type PopulationObservation struct {
	Ward       string `json:"ward"`
	Population int    `json:"population"`
}

// WardBoundary is one named ward polygon from the boundary source.
type WardBoundary struct {
	Ward     string `json:"ward"`
	District string `json:"district"`
	Geometry geom.T `json:"-"`
}

// UnifiedWard is one row of the unified spatial table. Population is nil
// when the census has no observation for the ward, which is distinct from a
// ward that recorded zero incidents. IncidentsPer10k is nil whenever the
// population is nil or zero.
type UnifiedWard struct {
	Ward            string         `json:"ward"`
	District        string         `json:"district"`
	Geometry        geom.T         `json:"-"`
	TotalIncidents  int            `json:"totalIncidents"`
	ByFinancialYear map[int]int    `json:"byFinancialYear"`
	ByAnimal        map[string]int `json:"byAnimal"`
	Population      *int           `json:"population"`
	IncidentsPer10k *float64       `json:"incidentsPer10k"`
}

// DistrictSummary is a rollup of the wards nested in one district.
type DistrictSummary struct {
	District        string             `json:"district"`
	Geometry        *geom.MultiPolygon `json:"-"`
	TotalIncidents  int                `json:"totalIncidents"`
	ByFinancialYear map[int]int        `json:"byFinancialYear"`
	Population      *int               `json:"population"`
	IncidentsPer10k *float64           `json:"incidentsPer10k"`
}

// UnifiedTable is the joined output consumed by the reporting layer.
type UnifiedTable struct {
	Wards     []UnifiedWard     `json:"wards"`
	Districts []DistrictSummary `json:"districts"`
}
