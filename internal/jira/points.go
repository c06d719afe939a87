package jira

import "math"

// DefaultHoursPerPoint is the fixed hours-to-points conversion ratio used
// when falling back to the original time estimate.
const DefaultHoursPerPoint = 8.0

// originalEstimateField holds the estimate in seconds.
const originalEstimateField = "timeoriginalestimate"

// storyPointFields is the ordered probe list for story-point custom fields.
// The order is a contract: when several fields are populated, the
// earliest-listed one wins. Deployments migrate between these IDs over time,
// which is why the probe chain exists at all.
var storyPointFields = []string{
	"customfield_10106",
	"customfield_10016",
	"customfield_10026",
	"customfield_10004",
	"customfield_10002",
}

// pointProbe attempts to resolve a point value from the field map.
type pointProbe func(Fields) (float64, bool)

// fieldPoints probes a single field ID for a positive numeric value.
func fieldPoints(id string) pointProbe {
	return func(f Fields) (float64, bool) {
		if n, ok := f.Number(id); ok && n > 0 {
			return n, true
		}
		return 0, false
	}
}

// estimatePoints converts the original time estimate (seconds) into points
// via hours, rounded to one decimal.
func estimatePoints(hoursPerPoint float64) pointProbe {
	return func(f Fields) (float64, bool) {
		seconds, ok := f.Number(originalEstimateField)
		if !ok || seconds <= 0 {
			return 0, false
		}
		hours := seconds / 3600.0
		return math.Round(hours/hoursPerPoint*10) / 10, true
	}
}

// StoryPoints resolves the effort estimate for an issue's field map through
// the ordered probe chain, falling back to the time estimate and finally 0.
// It never fails: missing fields degrade to zero, not to an error.
func StoryPoints(f Fields, hoursPerPoint float64) float64 {
	if hoursPerPoint <= 0 {
		hoursPerPoint = DefaultHoursPerPoint
	}

	probes := make([]pointProbe, 0, len(storyPointFields)+1)
	for _, id := range storyPointFields {
		probes = append(probes, fieldPoints(id))
	}
	probes = append(probes, estimatePoints(hoursPerPoint))

	for _, probe := range probes {
		if pts, ok := probe(f); ok {
			return pts
		}
	}
	return 0
}
