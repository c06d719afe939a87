// Package velocity turns raw Jira issues into sprint velocity statistics.
// Concurrent sprints represent simultaneous work streams: their points are
// summed within an overlap group, and each group counts as exactly one
// sample when averaging across the timeline.
package velocity

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"devpulse/internal/jira"
	"devpulse/internal/timeline"
)

// Options controls a velocity computation.
type Options struct {
	// Range optionally restricts sprints to those overlapping the window
	// before grouping. The zero value is unrestricted.
	Range timeline.DateRange

	// HoursPerPoint feeds the story-point estimate fallback.
	// Zero means jira.DefaultHoursPerPoint.
	HoursPerPoint float64
}

// BoardVelocity is the per-board breakdown: the board's own sprints averaged
// individually, not grouped.
type BoardVelocity struct {
	Sprints         []jira.Sprint `json:"sprints"`
	AverageVelocity float64       `json:"averageVelocity"`
	TotalSprints    int           `json:"totalSprints"`
}

// Result is the complete velocity statistics payload.
type Result struct {
	ByBoard                 map[string]BoardVelocity `json:"byBoard"`
	Sprints                 []jira.Sprint            `json:"sprints"`
	AverageVelocity         float64                  `json:"averageVelocity"`
	CombinedAverageVelocity float64                  `json:"combinedAverageVelocity"`
	TotalSprints            int                      `json:"totalSprints"`
	IssuesWithoutSprint     int                      `json:"issuesWithoutSprint"`
	SprintsWithoutDates     int                      `json:"sprintsWithoutDates"`
}

// Calculate aggregates the issues' sprint references into velocity stats.
//
// Each issue attributes its story points to exactly one sprint (earliest
// start, see jira.ExtractSprint). Issues with no parseable sprint reference
// are tallied, never silently assigned. Sprints missing a start or end date
// cannot be grouped and are likewise excluded and tallied.
func Calculate(issues []jira.Issue, opts Options) Result {
	byIdentity := make(map[string]*jira.Sprint)

	result := Result{ByBoard: make(map[string]BoardVelocity)}

	for _, issue := range issues {
		ref := jira.ExtractSprint(issue.Fields)
		if ref == nil {
			result.IssuesWithoutSprint++
			continue
		}

		identity := fmt.Sprintf("%d|%s", ref.ID, ref.Name)
		sprint, ok := byIdentity[identity]
		if !ok {
			clone := *ref
			sprint = &clone
			byIdentity[identity] = sprint
		}

		sprint.Points += jira.StoryPoints(issue.Fields, opts.HoursPerPoint)
		sprint.IssueCount++
		sprint.IssueKeys = append(sprint.IssueKeys, issue.Key)
	}

	var dated []jira.Sprint
	for _, sprint := range byIdentity {
		sort.Strings(sprint.IssueKeys)
		if !sprint.HasDates() {
			result.SprintsWithoutDates++
			continue
		}
		dated = append(dated, *sprint)
	}

	if !opts.Range.Unrestricted() {
		kept := dated[:0]
		for _, s := range dated {
			if overlapsRange(s, opts.Range) {
				kept = append(kept, s)
			}
		}
		dated = kept
	}

	sort.Slice(dated, func(i, j int) bool {
		if !dated[i].StartDate.Equal(*dated[j].StartDate) {
			return dated[i].StartDate.Before(*dated[j].StartDate)
		}
		return dated[i].Name < dated[j].Name
	})

	result.Sprints = dated
	result.TotalSprints = len(dated)

	// Sum within each overlap group, then average across groups: one sample
	// per connected component regardless of how many sprints it contains.
	groups := GroupOverlapping(dated)
	var combinedTotal float64
	var combinedSamples int
	for _, group := range groups {
		var combined float64
		for _, s := range group {
			combined += s.Points
		}
		if combined > 0 {
			combinedTotal += combined
			combinedSamples++
		}
	}

	average := 0.0
	if combinedSamples > 0 {
		average = round1(combinedTotal / float64(combinedSamples))
	}
	result.AverageVelocity = average
	result.CombinedAverageVelocity = average

	for name, sprints := range groupByBoard(dated) {
		result.ByBoard[name] = boardVelocity(sprints)
	}

	return result
}

// boardVelocity averages a board's individual sprint totals; zero-point
// sprints do not dilute the mean.
func boardVelocity(sprints []jira.Sprint) BoardVelocity {
	var total float64
	var samples int
	for _, s := range sprints {
		if s.Points > 0 {
			total += s.Points
			samples++
		}
	}

	average := 0.0
	if samples > 0 {
		average = round1(total / float64(samples))
	}
	return BoardVelocity{
		Sprints:         sprints,
		AverageVelocity: average,
		TotalSprints:    len(sprints),
	}
}

func groupByBoard(sprints []jira.Sprint) map[string][]jira.Sprint {
	byBoard := make(map[string][]jira.Sprint)
	for _, s := range sprints {
		name := inferBoardName(s)
		byBoard[name] = append(byBoard[name], s)
	}
	return byBoard
}

// sprintSuffix strips trailing sprint numbering from a sprint name, e.g.
// "Alpha Sprint 12" -> "Alpha", "Payments #3" -> "Payments".
var sprintSuffix = regexp.MustCompile(`(?i)[\s_-]*(?:sprint\s*)?#?\d+(?:\.\d+)?$`)

// inferBoardName derives a display board name for a sprint. The name prefix
// wins; a bare "Sprint N" style name falls back to the board reference.
func inferBoardName(s jira.Sprint) string {
	name := strings.TrimSpace(sprintSuffix.ReplaceAllString(s.Name, ""))
	if name != "" {
		return name
	}
	if s.BoardID > 0 {
		return fmt.Sprintf("Board %d", s.BoardID)
	}
	return "Unknown Board"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
