package items

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"devpulse/internal/timeline"
)

// sampleCap bounds the representative item sample in Stats.Items.
const sampleCap = 5

// Options configures an aggregation run. DateField is the only required
// path; the rest default sensibly for records whose primary date is the
// creation date.
type Options struct {
	// DateField is the dotted path of the date that buckets and counts the
	// item (e.g. "created_at" or "fields.created").
	DateField string

	// CreatedField is the creation timestamp used for cycle time. Defaults
	// to DateField.
	CreatedField string

	// MergedField is the terminal (merge/resolution) timestamp used for
	// cycle time. Items without a valid value here are excluded from the
	// average, not counted as zero.
	MergedField string

	// CommentsDateField buckets the comments collection. Defaults to
	// DateField.
	CommentsDateField string

	Range      timeline.DateRange
	Classifier Classifier

	// Comments is the independently-supplied comment collection.
	Comments []Item

	// Now pins the clock for relative-date math. Zero means time.Now(),
	// read once so every comparison within a run agrees.
	Now time.Time
}

// GroupStats is the per-group (repo/project) rollup.
type GroupStats struct {
	Total  int `json:"total"`
	Merged int `json:"merged"`
	Open   int `json:"open"`
}

// Stats is the aggregated item statistics payload.
type Stats struct {
	Total               int                    `json:"total"`
	Merged              int                    `json:"merged"`
	Open                int                    `json:"open"`
	Closed              int                    `json:"closed"`
	Last30Days          int                    `json:"last30Days"`
	Last90Days          int                    `json:"last90Days"`
	AvgTimeToMerge      float64                `json:"avgTimeToMerge"`
	MonthlyItems        []timeline.MonthBucket `json:"monthlyItems"`
	AvgPerMonth         float64                `json:"avgPerMonth"`
	TotalComments       int                    `json:"totalComments"`
	MonthlyComments     []timeline.MonthBucket `json:"monthlyComments"`
	AvgCommentsPerMonth float64                `json:"avgCommentsPerMonth"`
	Grouped             map[string]GroupStats  `json:"grouped"`
	Items               []json.RawMessage      `json:"items"`
	DateRange           timeline.DateRange     `json:"dateRange"`
}

// Aggregate computes the full statistics record for a collection of raw
// provider items. It performs no I/O and is deterministic for identical
// inputs, which makes it safe to memoize.
func Aggregate(list []Item, opts Options) Stats {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	if opts.CreatedField == "" {
		opts.CreatedField = opts.DateField
	}
	if opts.CommentsDateField == "" {
		opts.CommentsDateField = opts.DateField
	}

	stats := Stats{
		Grouped:   make(map[string]GroupStats),
		DateRange: opts.Range,
	}

	type dated struct {
		item Item
		at   time.Time
	}

	var inRange []dated
	cutoff30 := now.AddDate(0, 0, -30)
	cutoff90 := now.AddDate(0, 0, -90)

	var itemDates []time.Time
	for _, it := range list {
		at := it.Date(opts.DateField)
		itemDates = append(itemDates, at)

		if at.IsZero() {
			continue
		}

		// Trailing windows are anchored to now, independent of the range.
		if at.After(cutoff30) && !at.After(now) {
			stats.Last30Days++
		}
		if at.After(cutoff90) && !at.After(now) {
			stats.Last90Days++
		}

		if !opts.Range.Contains(at) {
			continue
		}
		inRange = append(inRange, dated{item: it, at: at})
	}

	var mergeDays float64
	var mergeSamples int

	for _, d := range inRange {
		stats.Total++

		merged := opts.Classifier.IsMerged != nil && opts.Classifier.IsMerged(d.item)
		open := opts.Classifier.IsOpen != nil && opts.Classifier.IsOpen(d.item)
		closed := opts.Classifier.IsClosed != nil && opts.Classifier.IsClosed(d.item)

		if merged {
			stats.Merged++
		}
		if open {
			stats.Open++
		}
		if closed {
			stats.Closed++
		}

		if opts.Classifier.GroupKey != nil {
			key := opts.Classifier.GroupKey(d.item)
			if key == "" {
				key = "unknown"
			}
			group := stats.Grouped[key]
			group.Total++
			if merged {
				group.Merged++
			}
			if open {
				group.Open++
			}
			stats.Grouped[key] = group
		}

		if opts.MergedField != "" {
			created := d.item.Date(opts.CreatedField)
			terminal := d.item.Date(opts.MergedField)
			if !created.IsZero() && !terminal.IsZero() && !terminal.Before(created) {
				mergeDays += terminal.Sub(created).Hours() / 24.0
				mergeSamples++
			}
		}
	}

	if mergeSamples > 0 {
		stats.AvgTimeToMerge = math.Round(mergeDays/float64(mergeSamples)*10) / 10
	}

	itemBuckets := timeline.BucketByMonth(itemDates, opts.Range, now)
	stats.MonthlyItems = itemBuckets.Buckets
	stats.AvgPerMonth = itemBuckets.AveragePerMonth

	var commentDates []time.Time
	for _, c := range opts.Comments {
		commentDates = append(commentDates, c.Date(opts.CommentsDateField))
	}
	commentBuckets := timeline.BucketByMonth(commentDates, opts.Range, now)
	stats.TotalComments = len(opts.Comments)
	stats.MonthlyComments = commentBuckets.Buckets
	stats.AvgCommentsPerMonth = commentBuckets.AveragePerMonth

	// Representative sample: most-recent-first items from the current
	// calendar month, falling back to the most recent overall when the
	// month is empty.
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].at.After(inRange[j].at)
	})

	monthStart := time.Date(now.UTC().Year(), now.UTC().Month(), 1, 0, 0, 0, 0, time.UTC)
	// Non-nil so an empty sample marshals as [] rather than null.
	sample := make([]json.RawMessage, 0, sampleCap)
	for _, d := range inRange {
		if d.at.UTC().Before(monthStart) {
			continue
		}
		sample = append(sample, json.RawMessage(d.item.Raw()))
		if len(sample) == sampleCap {
			break
		}
	}
	if len(sample) == 0 {
		for _, d := range inRange {
			sample = append(sample, json.RawMessage(d.item.Raw()))
			if len(sample) == sampleCap {
				break
			}
		}
	}
	stats.Items = sample

	return stats
}
