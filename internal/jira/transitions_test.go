package jira

import (
	"testing"
	"time"
)

func historyEntry(created, toStatus string) History {
	return History{
		Created: created,
		Items:   []HistoryItem{{Field: "status", ToString: toStatus}},
	}
}

func TestFirstTransitionTo(t *testing.T) {
	ch := &Changelog{Histories: []History{
		historyEntry("2025-01-02T09:00:00.000+0000", "In Progress"),
		historyEntry("2025-01-05T09:00:00.000+0000", "Ready for QA Release"),
		{Created: "2025-01-03T09:00:00.000+0000", Items: []HistoryItem{{Field: "assignee", ToString: "someone"}}},
	}}

	cases := []struct {
		name    string
		aliases []string
		wantDay int
	}{
		{"case insensitive", []string{"in progress"}, 2},
		{"substring containment", []string{"progress"}, 2},
		{"query broader than status", []string{"Ready for QA"}, 5},
		{"extra whitespace", []string{"  In   Progress "}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			at := FirstTransitionTo(ch, tc.aliases...)
			if at == nil {
				t.Fatalf("Expected a transition for %v", tc.aliases)
			}
			if at.Day() != tc.wantDay {
				t.Errorf("Transition day = %d, want %d", at.Day(), tc.wantDay)
			}
		})
	}

	if at := FirstTransitionTo(ch, "Blocked"); at != nil {
		t.Errorf("Expected nil for unmatched status, got %v", at)
	}
	if at := FirstTransitionTo(nil, "In Progress"); at != nil {
		t.Errorf("Expected nil for missing changelog, got %v", at)
	}
}

func TestStatusMatches_WordLevel(t *testing.T) {
	cases := []struct {
		name   string
		status string
		alias  string
		want   bool
	}{
		{"rephrased status", "Progress: Dev", "In Progress", true},
		{"reordered words", "QA Ready", "Ready for QA", true},
		{"stopword-only overlap", "In Review", "In Progress", false},
		{"unrelated status", "Backlog", "In Progress", false},
		{"partial word set", "QA Release", "Ready for QA", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusMatches(tc.status, []string{tc.alias}); got != tc.want {
				t.Errorf("statusMatches(%q, %q) = %v, want %v", tc.status, tc.alias, got, tc.want)
			}
		})
	}
}

func TestTransitionDays(t *testing.T) {
	start := []string{"in progress"}
	end := []string{"ready for qa"}

	ch := &Changelog{Histories: []History{
		historyEntry("2025-01-02T09:00:00.000+0000", "In Progress"),
		historyEntry("2025-01-05T09:00:00.000+0000", "Ready for QA Release"),
	}}

	days := TransitionDays(ch, start, end, nil)
	if days == nil {
		t.Fatal("Expected a value")
	}
	if *days != 3 {
		t.Errorf("TransitionDays = %v, want 3", *days)
	}
}

func TestTransitionDays_MissingStart(t *testing.T) {
	ch := &Changelog{Histories: []History{
		historyEntry("2025-01-05T09:00:00.000+0000", "Ready for QA Release"),
	}}

	resolved := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	if days := TransitionDays(ch, []string{"in progress"}, []string{"ready for qa"}, &resolved); days != nil {
		t.Errorf("Missing start transition must yield nil, got %v", *days)
	}
}

func TestTransitionDays_ResolutionFallback(t *testing.T) {
	ch := &Changelog{Histories: []History{
		historyEntry("2025-01-02T09:00:00.000+0000", "In Progress"),
	}}

	resolved := time.Date(2025, 1, 4, 9, 0, 0, 0, time.UTC)
	days := TransitionDays(ch, []string{"in progress"}, []string{"ready for qa"}, &resolved)
	if days == nil {
		t.Fatal("Expected fallback to resolution date")
	}
	if *days != 2 {
		t.Errorf("TransitionDays = %v, want 2", *days)
	}
}

func TestTransitionDays_OutOfOrderHistory(t *testing.T) {
	// End transition before start transition: corrupted history, never a
	// negative number.
	ch := &Changelog{Histories: []History{
		historyEntry("2025-01-05T09:00:00.000+0000", "In Progress"),
		historyEntry("2025-01-02T09:00:00.000+0000", "Ready for QA Release"),
	}}

	if days := TransitionDays(ch, []string{"in progress"}, []string{"ready for qa"}, nil); days != nil {
		t.Errorf("Out-of-order history must yield nil, got %v", *days)
	}
}

func TestResolutionTimes(t *testing.T) {
	issues := []Issue{
		{
			Key: "A-1",
			Changelog: &Changelog{Histories: []History{
				historyEntry("2025-01-02T09:00:00.000+0000", "In Progress"),
				historyEntry("2025-01-04T09:00:00.000+0000", "Ready for QA Release"),
			}},
		},
		{
			Key: "A-2",
			Changelog: &Changelog{Histories: []History{
				historyEntry("2025-01-02T09:00:00.000+0000", "In Progress"),
				historyEntry("2025-01-06T09:00:00.000+0000", "Ready for QA Release"),
			}},
		},
		{Key: "A-3"}, // no changelog: excluded, not counted as zero
	}

	stats := ResolutionTimes(issues, []string{"in progress"}, []string{"ready for qa"})

	if stats.AvgResolutionTimeCount != 2 {
		t.Errorf("Count = %d, want 2", stats.AvgResolutionTimeCount)
	}
	if stats.AvgResolutionTime != 3 {
		t.Errorf("AvgResolutionTime = %v, want 3 (mean of 2 and 4)", stats.AvgResolutionTime)
	}
}

func TestResolutionTimes_Empty(t *testing.T) {
	stats := ResolutionTimes(nil, []string{"in progress"}, []string{"done"})
	if stats.AvgResolutionTime != 0 || stats.AvgResolutionTimeCount != 0 {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
}
