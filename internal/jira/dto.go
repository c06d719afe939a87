// Package jira provides a provider-specific view over raw Jira issue records:
// custom-field probing for story points and sprints, changelog-based status
// transition resolution, and the normalized Sprint record consumed by the
// velocity engine. It never performs I/O; callers hand it already-fetched
// issue arrays.
package jira

import (
	"strconv"
	"time"
)

// SearchResponse is the top-level container for Jira search results.
type SearchResponse struct {
	Total  int     `json:"total"`
	Issues []Issue `json:"issues"`
}

// Issue is a single issue as returned by the Jira search API. Fields is kept
// as a raw map because custom field IDs vary per deployment; typed access
// goes through the Fields helpers and the probe chains in points.go and
// sprint.go.
type Issue struct {
	Key       string     `json:"key"`
	Fields    Fields     `json:"fields"`
	Changelog *Changelog `json:"changelog,omitempty"`
}

// Fields is the issue field map.
type Fields map[string]any

// Changelog contains historical transitions.
type Changelog struct {
	Histories []History `json:"histories"`
}

// History is a single entry in the changelog.
type History struct {
	Created string        `json:"created"`
	Items   []HistoryItem `json:"items"`
}

// HistoryItem is a single field change within a history entry.
type HistoryItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

var timeLayouts = []string{
	"2006-01-02T15:04:05.000-0700", // strict Jira format
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
}

// ParseTime parses a Jira timestamp. Returns the zero time when nothing
// matches; callers treat zero as "missing", never as epoch.
func ParseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// String returns the field as a string, or "" when absent or not a string.
func (f Fields) String(key string) string {
	if s, ok := f[key].(string); ok {
		return s
	}
	return ""
}

// Number returns the field as a float64. Numeric strings are coerced.
func (f Fields) Number(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Time returns the field parsed as a timestamp, zero when absent or invalid.
func (f Fields) Time(key string) time.Time {
	return ParseTime(f.String(key))
}

// nested walks a chain of object keys, returning nil when any hop is missing.
func (f Fields) nested(keys ...string) any {
	var cur any = map[string]any(f)
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

// NestedString returns a string at a nested path like ("status", "name").
func (f Fields) NestedString(keys ...string) string {
	if s, ok := f.nested(keys...).(string); ok {
		return s
	}
	return ""
}

// Created returns the issue creation time, zero when missing.
func (i Issue) Created() time.Time {
	return i.Fields.Time("created")
}

// Updated returns the last-updated time, zero when missing.
func (i Issue) Updated() time.Time {
	return i.Fields.Time("updated")
}

// ResolutionDate returns the resolution time, nil when unresolved.
func (i Issue) ResolutionDate() *time.Time {
	t := i.Fields.Time("resolutiondate")
	if t.IsZero() {
		return nil
	}
	return &t
}

// Status returns the current status name.
func (i Issue) Status() string {
	return i.Fields.NestedString("status", "name")
}

// epicLinkFields is the ordered probe list for the epic link custom field.
var epicLinkFields = []string{"customfield_10014", "customfield_10008"}

// EpicLink returns the linked epic key, or "" when the issue has none.
func (i Issue) EpicLink() string {
	for _, id := range epicLinkFields {
		if s := i.Fields.String(id); s != "" {
			return s
		}
	}
	return ""
}
