package models

// QualityReport collects the data-quality faults found during a pipeline
// run. These are reported beside the output rather than aborting it:
// partial results are more useful than none for exploratory analysis.
type QualityReport struct {
	// UnresolvedNames lists canonical ward keys that appear in one source
	// but not another after normalization.
	UnresolvedNames []string `json:"unresolvedNames"`
	// MissingGeometry lists wards seen in incident or census data with no
	// boundary polygon.
	MissingGeometry []string `json:"missingGeometry"`
	// MissingPopulation lists wards with boundaries or incidents but no
	// census observation.
	MissingPopulation []string `json:"missingPopulation"`
	// RejectedTimestamps counts incident rows dropped for unparseable
	// timestamps when the run is configured to drop rather than abort.
	RejectedTimestamps int `json:"rejectedTimestamps"`
}

// HasFaults reports whether any data-quality fault was recorded.
func (q *QualityReport) HasFaults() bool {
	return len(q.UnresolvedNames) > 0 ||
		len(q.MissingGeometry) > 0 ||
		len(q.MissingPopulation) > 0 ||
		q.RejectedTimestamps > 0
}
