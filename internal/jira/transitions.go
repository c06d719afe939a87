package jira

import (
	"math"
	"strings"
	"time"
)

// ResolutionStats summarizes how long issues take to travel between two
// workflow stages, in days.
type ResolutionStats struct {
	AvgResolutionTime      float64 `json:"avgResolutionTime"`
	AvgResolutionTimeCount int     `json:"avgResolutionTimeCount"`
}

// normalizeStatus lowers the case and collapses runs of whitespace so that
// "In  Progress " and "in progress" compare equal.
func normalizeStatus(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// statusMatches reports whether a status satisfies any of the given aliases.
// It tries whole-phrase containment in either direction first, then falls
// back to the alias's significant words: a query for "In Progress" accepts
// any status containing "progress", even when the surrounding phrasing
// differs ("Progress: Dev"). Workflow names drift across deployments; exact
// equality misses too much.
func statusMatches(status string, aliases []string) bool {
	normStatus := normalizeStatus(status)
	if normStatus == "" {
		return false
	}
	for _, alias := range aliases {
		normAlias := normalizeStatus(alias)
		if normAlias == "" {
			continue
		}
		if strings.Contains(normStatus, normAlias) || strings.Contains(normAlias, normStatus) {
			return true
		}
		if containsSignificantWords(normStatus, normAlias) {
			return true
		}
	}
	return false
}

// statusStopwords are connective words that carry no workflow meaning on
// their own and are ignored during word-level matching.
var statusStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "for": true,
	"in": true, "of": true, "on": true, "the": true, "to": true,
}

// containsSignificantWords reports whether every non-stopword of the alias
// appears somewhere in the status. An alias made entirely of stopwords
// matches nothing.
func containsSignificantWords(status, alias string) bool {
	matched := false
	for _, word := range strings.Fields(alias) {
		if statusStopwords[word] {
			continue
		}
		if !strings.Contains(status, word) {
			return false
		}
		matched = true
	}
	return matched
}

// FirstTransitionTo returns the time of the first changelog transition into a
// status matching any alias, or nil when no such transition exists. Entries
// with unparseable timestamps are skipped, not treated as matches.
func FirstTransitionTo(ch *Changelog, aliases ...string) *time.Time {
	if ch == nil {
		return nil
	}
	for _, h := range ch.Histories {
		at := ParseTime(h.Created)
		if at.IsZero() {
			continue
		}
		for _, item := range h.Items {
			if item.Field != "status" {
				continue
			}
			if statusMatches(item.ToString, aliases) {
				return &at
			}
		}
	}
	return nil
}

// TransitionDays computes the elapsed days between the first transition into
// a start status and the first transition into an end status.
//
// Returns nil when the start transition is missing. When the end transition
// is missing but the issue has a resolution date, the resolution date stands
// in for it. A computed end that predates the start means the history is
// out of order or inconsistent; the result is nil, never a negative number.
func TransitionDays(ch *Changelog, start, end []string, resolved *time.Time) *float64 {
	startAt := FirstTransitionTo(ch, start...)
	if startAt == nil {
		return nil
	}

	endAt := FirstTransitionTo(ch, end...)
	if endAt == nil {
		endAt = resolved
	}
	if endAt == nil || endAt.Before(*startAt) {
		return nil
	}

	days := endAt.Sub(*startAt).Hours() / 24.0
	return &days
}

// ResolutionTimes averages TransitionDays across a set of issues. Issues
// where the resolver returns nil are excluded from the average, not counted
// as zero; the count reports how many issues actually contributed.
func ResolutionTimes(issues []Issue, start, end []string) ResolutionStats {
	var total float64
	var count int

	for _, issue := range issues {
		days := TransitionDays(issue.Changelog, start, end, issue.ResolutionDate())
		if days == nil {
			continue
		}
		total += *days
		count++
	}

	if count == 0 {
		return ResolutionStats{}
	}
	return ResolutionStats{
		AvgResolutionTime:      math.Round(total/float64(count)*10) / 10,
		AvgResolutionTimeCount: count,
	}
}
