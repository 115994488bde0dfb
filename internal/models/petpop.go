package models

// PetPopulation is one year of the pet-population survey, with estimated
// population counts per species.
type PetPopulation struct {
	Year      int            `json:"year"`
	BySpecies map[string]int `json:"bySpecies"`
}
