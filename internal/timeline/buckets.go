package timeline

import (
	"math"
	"time"
)

// MonthBucket is a single calendar-month slot in a time series.
type MonthBucket struct {
	Month string `json:"month"` // "YYYY-MM", UTC
	Count int    `json:"count"`
}

// BucketResult carries the full month series plus the per-month average.
type BucketResult struct {
	Buckets         []MonthBucket `json:"buckets"`
	AveragePerMonth float64       `json:"averagePerMonth"`
}

// defaultSpanMonths is the bucket span used for unrestricted ranges.
const defaultSpanMonths = 12

// BucketByMonth counts dates per UTC calendar month across the range.
//
// The bucket list always spans every month of the range, zero-count months
// included; an interior month is never omitted. An unrestricted range spans
// the trailing 12 months ending at now. The average is computed only over
// months with a non-zero count: an empty month does not pull it toward zero.
// Presentation depends on both behaviors, so they are deliberately asymmetric.
// An invalid range yields an empty bucket list, never a walk from the zero time.
func BucketByMonth(dates []time.Time, r DateRange, now time.Time) BucketResult {
	if r.Invalid() {
		return BucketResult{Buckets: []MonthBucket{}}
	}
	start, end := spanFor(r, now)

	months := monthsBetween(start, end)
	index := make(map[string]int, len(months))
	buckets := make([]MonthBucket, len(months))
	for i, m := range months {
		buckets[i] = MonthBucket{Month: m}
		index[m] = i
	}

	for _, d := range dates {
		if d.IsZero() || !r.Contains(d) {
			continue
		}
		if i, ok := index[d.UTC().Format("2006-01")]; ok {
			buckets[i].Count++
		}
	}

	total, active := 0, 0
	for _, b := range buckets {
		if b.Count > 0 {
			total += b.Count
			active++
		}
	}

	avg := 0.0
	if active > 0 {
		avg = math.Round(float64(total)/float64(active)*10) / 10
	}

	return BucketResult{Buckets: buckets, AveragePerMonth: avg}
}

func spanFor(r DateRange, now time.Time) (time.Time, time.Time) {
	// Anchor the default span to the first of the month: day arithmetic on
	// the 29th-31st would normalize into the next month and drop a bucket.
	end := now.UTC()
	start := time.Date(end.Year(), end.Month()-(defaultSpanMonths-1), 1, 0, 0, 0, 0, time.UTC)
	if r.Start != nil {
		start = r.Start.UTC()
	}
	if r.End != nil {
		end = r.End.UTC()
	}
	return start, end
}

// monthsBetween lists every "YYYY-MM" from start's month through end's month.
func monthsBetween(start, end time.Time) []string {
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []string
	for !cur.After(last) {
		months = append(months, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return months
}
