package velocity

import (
	"devpulse/internal/jira"
	"devpulse/internal/timeline"
)

// Overlaps reports whether two dated sprints share any part of their
// intervals: start1 <= end2 && end1 >= start2. Undated sprints never
// overlap anything.
func Overlaps(a, b jira.Sprint) bool {
	if !a.HasDates() || !b.HasDates() {
		return false
	}
	return !a.StartDate.After(*b.EndDate) && !a.EndDate.Before(*b.StartDate)
}

// GroupOverlapping partitions sprints into connected components under the
// overlap relation. Membership is transitive: if A overlaps B and B overlaps
// C, all three land in one group even when A and C never touch.
//
// Each sprint first joins the earliest existing group containing any sprint
// it overlaps, or starts a new one. Because group-forming order is not
// overlap order, a second phase repeatedly merges group pairs that share an
// overlapping sprint until a full pass produces no merge. Quadratic, which
// is fine at sprint-per-board volumes.
func GroupOverlapping(sprints []jira.Sprint) [][]jira.Sprint {
	var groups [][]jira.Sprint

	for _, s := range sprints {
		placed := false
		for gi := range groups {
			for _, member := range groups[gi] {
				if Overlaps(s, member) {
					groups[gi] = append(groups[gi], s)
					placed = true
					break
				}
			}
			if placed {
				break
			}
		}
		if !placed {
			groups = append(groups, []jira.Sprint{s})
		}
	}

	for {
		merged := false
		for i := 0; i < len(groups) && !merged; i++ {
			for j := i + 1; j < len(groups) && !merged; j++ {
				if groupsOverlap(groups[i], groups[j]) {
					groups[i] = append(groups[i], groups[j]...)
					groups = append(groups[:j], groups[j+1:]...)
					merged = true
				}
			}
		}
		if !merged {
			return groups
		}
	}
}

func groupsOverlap(a, b []jira.Sprint) bool {
	for _, x := range a {
		for _, y := range b {
			if Overlaps(x, y) {
				return true
			}
		}
	}
	return false
}

// overlapsRange reports whether a dated sprint intersects the requested
// window, using the same predicate as sprint-to-sprint overlap. One-sided
// ranges clip on the supplied bound only.
func overlapsRange(s jira.Sprint, r timeline.DateRange) bool {
	if !s.HasDates() || r.Invalid() {
		return false
	}
	if r.Start != nil && s.EndDate.Before(*r.Start) {
		return false
	}
	if r.End != nil && s.StartDate.After(*r.End) {
		return false
	}
	return true
}
