package jira

import (
	"testing"
	"time"
)

const blobA = "com.atlassian.greenhopper.service.sprint.Sprint@14b1c359[id=42,rapidViewId=7,state=CLOSED,name=Sprint 3,startDate=2025-01-06T08:00:00.000Z,endDate=2025-01-17T17:00:00.000Z,completeDate=2025-01-17T17:05:00.000Z,sequence=42]"
const blobB = "com.atlassian.greenhopper.service.sprint.Sprint@77af02[id=43,rapidViewId=7,state=ACTIVE,name=Sprint 4,startDate=2025-02-01T08:00:00.000Z,endDate=<null>,completeDate=<null>,sequence=43]"

func TestParseSprintBlob(t *testing.T) {
	fields := Fields{"customfield_10020": blobA}

	sprints := ExtractSprints(fields)
	if len(sprints) != 1 {
		t.Fatalf("Expected 1 sprint, got %d", len(sprints))
	}

	s := sprints[0]
	if s.ID != 42 || s.Name != "Sprint 3" || s.State != "CLOSED" || s.BoardID != 7 {
		t.Errorf("Unexpected sprint: %+v", s)
	}
	if s.StartDate == nil || !s.StartDate.Equal(time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("StartDate = %v, want 2025-01-06T08:00:00Z", s.StartDate)
	}
	if s.EndDate == nil || s.EndDate.Day() != 17 {
		t.Errorf("EndDate = %v, want the 17th", s.EndDate)
	}
}

func TestParseSprintBlob_NullCoercion(t *testing.T) {
	fields := Fields{"customfield_10020": blobB}

	sprints := ExtractSprints(fields)
	if len(sprints) != 1 {
		t.Fatalf("Expected 1 sprint, got %d", len(sprints))
	}
	if sprints[0].EndDate != nil {
		t.Errorf("EndDate = %v, want nil for <null>", sprints[0].EndDate)
	}
	if sprints[0].HasDates() {
		t.Error("Sprint without end date must not report HasDates")
	}
}

func TestExtractSprints_StructuredObjects(t *testing.T) {
	fields := Fields{
		"customfield_10020": []any{
			map[string]any{
				"id":            float64(9),
				"name":          "Alpha Sprint 1",
				"state":         "closed",
				"originBoardId": float64(3),
				"startDate":     "2025-03-03T00:00:00.000Z",
				"endDate":       "2025-03-14T23:59:00.000Z",
			},
		},
	}

	sprints := ExtractSprints(fields)
	if len(sprints) != 1 {
		t.Fatalf("Expected 1 sprint, got %d", len(sprints))
	}
	s := sprints[0]
	if s.ID != 9 || s.BoardID != 3 || s.Name != "Alpha Sprint 1" {
		t.Errorf("Unexpected sprint: %+v", s)
	}
	if !s.HasDates() {
		t.Error("Structured sprint with both dates should report HasDates")
	}
}

func TestExtractSprints_SingleObject(t *testing.T) {
	fields := Fields{
		"customfield_10007": map[string]any{"id": float64(1), "name": "Solo"},
	}
	sprints := ExtractSprints(fields)
	if len(sprints) != 1 || sprints[0].Name != "Solo" {
		t.Errorf("Expected single Solo sprint, got %+v", sprints)
	}
}

func TestExtractSprint_EarliestStartWins(t *testing.T) {
	// Points must attribute to exactly one sprint: the earliest-starting one.
	fields := Fields{"customfield_10020": []any{blobB, blobA}}

	s := ExtractSprint(fields)
	if s == nil {
		t.Fatal("Expected a sprint")
	}
	if s.Name != "Sprint 3" {
		t.Errorf("Selected %q, want Sprint 3 (starts 2025-01-06, before 2025-02-01)", s.Name)
	}
}

func TestExtractSprint_FallbackToFirst(t *testing.T) {
	fields := Fields{
		"customfield_10020": []any{
			map[string]any{"id": float64(1), "name": "First"},
			map[string]any{"id": float64(2), "name": "Second"},
		},
	}

	s := ExtractSprint(fields)
	if s == nil || s.Name != "First" {
		t.Errorf("Without comparable dates the first element should win, got %+v", s)
	}
}

func TestExtractSprint_Unparseable(t *testing.T) {
	cases := []struct {
		name   string
		fields Fields
	}{
		{"no sprint field", Fields{}},
		{"null field", Fields{"customfield_10020": nil}},
		{"garbage string", Fields{"customfield_10020": "no brackets here"}},
		{"empty array", Fields{"customfield_10020": []any{}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if s := ExtractSprint(tc.fields); s != nil {
				t.Errorf("Expected nil, got %+v", s)
			}
		})
	}
}
