package services

import "math"

// band is one classification bucket: scores up to and including max.
type band struct {
	max    float64
	status string
}

// The bands for each questionnaire partition the whole score range with no
// gaps or overlaps; the breakpoints drive user-facing messaging and must
// not drift.
var (
	franchiseBands = []band{
		{6, "Not Ready"},
		{11, "Somewhat Ready"},
		{math.Inf(1), "Ready"},
	}
	healthBands = []band{
		{49, "Poor Health"},
		{74, "Moderate Health"},
		{math.Inf(1), "Healthy"},
	}
)

// Classify maps a total score to its qualitative status for the given
// questionnaire. Unknown questionnaire ids use the business-health bands,
// matching the boundary's default-questionnaire behavior.
func Classify(questionnaireID int64, score float64) string {
	bands := healthBands
	if questionnaireID == FranchiseReadinessID {
		bands = franchiseBands
	}
	for _, b := range bands {
		if score <= b.max {
			return b.status
		}
	}
	return bands[len(bands)-1].status
}
