package jira

import "testing"

func TestStoryPoints_ProbeOrder(t *testing.T) {
	// An earlier-listed field must win over a later one when both are set.
	fields := Fields{
		"customfield_10106": float64(3),
		"customfield_10016": float64(5),
	}
	if pts := StoryPoints(fields, DefaultHoursPerPoint); pts != 3 {
		t.Errorf("StoryPoints = %v, want 3 (customfield_10106 listed first)", pts)
	}
}

func TestStoryPoints_SkipsNonPositive(t *testing.T) {
	fields := Fields{
		"customfield_10106": float64(0),
		"customfield_10016": float64(5),
	}
	if pts := StoryPoints(fields, DefaultHoursPerPoint); pts != 5 {
		t.Errorf("StoryPoints = %v, want 5 (zero value skipped)", pts)
	}
}

func TestStoryPoints_StringCoercion(t *testing.T) {
	fields := Fields{"customfield_10016": "8"}
	if pts := StoryPoints(fields, DefaultHoursPerPoint); pts != 8 {
		t.Errorf("StoryPoints = %v, want 8 (numeric string)", pts)
	}
}

func TestStoryPoints_EstimateFallback(t *testing.T) {
	cases := []struct {
		name    string
		seconds float64
		want    float64
	}{
		{"two days", 57600, 2},      // 16h / 8h per point
		{"half point", 14400, 0.5},  // 4h
		{"rounds to one decimal", 30000, 1}, // 8.33h -> 1.0
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := Fields{"timeoriginalestimate": tc.seconds}
			if pts := StoryPoints(fields, DefaultHoursPerPoint); pts != tc.want {
				t.Errorf("StoryPoints(%v seconds) = %v, want %v", tc.seconds, pts, tc.want)
			}
		})
	}
}

func TestStoryPoints_NothingSet(t *testing.T) {
	if pts := StoryPoints(Fields{}, DefaultHoursPerPoint); pts != 0 {
		t.Errorf("StoryPoints on empty fields = %v, want 0", pts)
	}
	if pts := StoryPoints(Fields{"customfield_10106": "not a number"}, DefaultHoursPerPoint); pts != 0 {
		t.Errorf("StoryPoints on garbage = %v, want 0", pts)
	}
}
