package jira

import (
	"strconv"
	"strings"
	"time"
)

// Sprint is the normalized sprint record extracted from an issue's sprint
// reference field. Points, IssueCount and IssueKeys are accumulated by the
// velocity engine; extraction leaves them zero. Sprints are transient per
// computation and never persisted.
type Sprint struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	State      string     `json:"state,omitempty"`
	StartDate  *time.Time `json:"startDate"`
	EndDate    *time.Time `json:"endDate"`
	BoardID    int        `json:"boardId,omitempty"`
	Points     float64    `json:"points"`
	IssueCount int        `json:"issueCount"`
	IssueKeys  []string   `json:"issueKeys"`
}

// HasDates reports whether both interval bounds are present. Sprints missing
// either bound cannot be grouped or dated and are excluded from velocity.
func (s Sprint) HasDates() bool {
	return s.StartDate != nil && s.EndDate != nil
}

// sprintFields is the ordered probe list for the sprint reference field.
var sprintFields = []string{
	"customfield_10020",
	"customfield_10007",
	"customfield_10010",
}

// ExtractSprints returns every sprint referenced by the field map, in field
// order. The physical encoding varies per deployment and API version: a
// single greenhopper-style encoded string, an array of such strings, an
// array of structured objects, or a single structured object. Unparseable
// entries are dropped; a fully unparseable field yields nil.
func ExtractSprints(f Fields) []Sprint {
	for _, id := range sprintFields {
		raw, ok := f[id]
		if !ok || raw == nil {
			continue
		}
		if sprints := parseSprintValue(raw); len(sprints) > 0 {
			return sprints
		}
	}
	return nil
}

// ExtractSprint returns the single sprint an issue's points should attribute
// to: the one with the earliest start date, so that an issue carried across
// several sprints is never double-counted. When no start dates are available
// for comparison, the first referenced sprint wins. Returns nil when the
// issue has no parseable sprint reference.
func ExtractSprint(f Fields) *Sprint {
	sprints := ExtractSprints(f)
	if len(sprints) == 0 {
		return nil
	}

	best := -1
	for i, s := range sprints {
		if s.StartDate == nil {
			continue
		}
		if best == -1 || s.StartDate.Before(*sprints[best].StartDate) {
			best = i
		}
	}
	if best == -1 {
		best = 0
	}
	return &sprints[best]
}

func parseSprintValue(raw any) []Sprint {
	var sprints []Sprint

	appendSprint := func(s *Sprint) {
		if s != nil {
			sprints = append(sprints, *s)
		}
	}

	switch v := raw.(type) {
	case string:
		appendSprint(parseSprintBlob(v))
	case map[string]any:
		appendSprint(sprintFromMap(v))
	case []any:
		for _, el := range v {
			switch e := el.(type) {
			case string:
				appendSprint(parseSprintBlob(e))
			case map[string]any:
				appendSprint(sprintFromMap(e))
			}
		}
	}
	return sprints
}

// parseSprintBlob decodes the legacy greenhopper string encoding, e.g.
//
//	com.atlassian...Sprint@1a2b[id=42,rapidViewId=7,state=CLOSED,name=Sprint 3,startDate=2025-01-06T08:00:00.000Z,endDate=2025-01-17T17:00:00.000Z,...]
//
// The bracket contents are split on commas and each pair on the first "=";
// "<null>" coerces to absent and numeric-looking values to numbers. The
// parse happens once here at the boundary; the raw string never travels
// deeper into the pipeline.
func parseSprintBlob(s string) *Sprint {
	open := strings.Index(s, "[")
	closing := strings.LastIndex(s, "]")
	if open < 0 || closing <= open {
		return nil
	}

	attrs := make(map[string]string)
	for _, pair := range strings.Split(s[open+1:closing], ",") {
		k, v, found := strings.Cut(pair, "=")
		if !found || v == "<null>" {
			continue
		}
		attrs[strings.TrimSpace(k)] = v
	}

	if len(attrs) == 0 {
		return nil
	}

	sprint := &Sprint{
		Name:  attrs["name"],
		State: attrs["state"],
	}
	if id, err := strconv.Atoi(attrs["id"]); err == nil {
		sprint.ID = id
	}
	if board, err := strconv.Atoi(attrs["rapidViewId"]); err == nil {
		sprint.BoardID = board
	}
	sprint.StartDate = parseSprintDate(attrs["startDate"])
	sprint.EndDate = parseSprintDate(attrs["endDate"])

	if sprint.Name == "" && sprint.ID == 0 {
		return nil
	}
	return sprint
}

// sprintFromMap decodes the structured object form used by newer API
// versions.
func sprintFromMap(m map[string]any) *Sprint {
	f := Fields(m)

	sprint := &Sprint{
		Name:  f.String("name"),
		State: f.String("state"),
	}
	if id, ok := f.Number("id"); ok {
		sprint.ID = int(id)
	}
	for _, key := range []string{"originBoardId", "boardId", "rapidViewId"} {
		if board, ok := f.Number(key); ok {
			sprint.BoardID = int(board)
			break
		}
	}
	sprint.StartDate = parseSprintDate(f.String("startDate"))
	sprint.EndDate = parseSprintDate(f.String("endDate"))

	if sprint.Name == "" && sprint.ID == 0 {
		return nil
	}
	return sprint
}

func parseSprintDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := ParseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}
