package timeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return Normalize(&RangeRequest{Start: start, End: end}, epoch, now)
}

func TestBucketByMonth_ZeroFilledMonths(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, "2025-01-01", "2025-03-31")

	res := BucketByMonth(nil, r, now)

	want := []MonthBucket{
		{Month: "2025-01", Count: 0},
		{Month: "2025-02", Count: 0},
		{Month: "2025-03", Count: 0},
	}
	if diff := cmp.Diff(want, res.Buckets); diff != "" {
		t.Errorf("Buckets mismatch (-want +got):\n%s", diff)
	}
	if res.AveragePerMonth != 0 {
		t.Errorf("AveragePerMonth = %v, want 0", res.AveragePerMonth)
	}
}

func TestBucketByMonth_AverageIgnoresEmptyMonths(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, "2025-01-01", "2025-03-31")

	var dates []time.Time
	for i := 0; i < 10; i++ {
		dates = append(dates, time.Date(2025, 2, 1+i, 9, 0, 0, 0, time.UTC))
	}

	res := BucketByMonth(dates, r, now)

	if len(res.Buckets) != 3 {
		t.Fatalf("Expected 3 buckets, got %d", len(res.Buckets))
	}
	if res.Buckets[1].Count != 10 {
		t.Errorf("February count = %d, want 10", res.Buckets[1].Count)
	}
	// 10 items in one of three months: average is 10, not 10/3.
	if res.AveragePerMonth != 10 {
		t.Errorf("AveragePerMonth = %v, want 10", res.AveragePerMonth)
	}
}

func TestBucketByMonth_UnrestrictedTrailingYear(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	res := BucketByMonth(nil, DateRange{}, now)

	if len(res.Buckets) != 12 {
		t.Fatalf("Expected 12 trailing months, got %d", len(res.Buckets))
	}
	if res.Buckets[0].Month != "2024-07" {
		t.Errorf("First month = %q, want %q", res.Buckets[0].Month, "2024-07")
	}
	if res.Buckets[11].Month != "2025-06" {
		t.Errorf("Last month = %q, want %q", res.Buckets[11].Month, "2025-06")
	}
}

func TestBucketByMonth_TrailingYearFromMonthEnd(t *testing.T) {
	// A month-end "now" must not lose the oldest bucket to day normalization.
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	res := BucketByMonth(nil, DateRange{}, now)

	if len(res.Buckets) != 12 {
		t.Fatalf("Expected 12 trailing months, got %d", len(res.Buckets))
	}
	if res.Buckets[0].Month != "2025-04" {
		t.Errorf("First month = %q, want %q", res.Buckets[0].Month, "2025-04")
	}
	if res.Buckets[11].Month != "2026-03" {
		t.Errorf("Last month = %q, want %q", res.Buckets[11].Month, "2026-03")
	}
}

func TestBucketByMonth_InvalidRangeYieldsNoBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, "garbage", "2025-06-01")

	res := BucketByMonth(nil, r, now)

	if len(res.Buckets) != 0 {
		t.Fatalf("Invalid range produced %d buckets, want none", len(res.Buckets))
	}
	if res.Buckets == nil {
		t.Error("Buckets should be empty, not nil")
	}
	if res.AveragePerMonth != 0 {
		t.Errorf("AveragePerMonth = %v, want 0", res.AveragePerMonth)
	}
}

func TestBucketByMonth_SkipsInvalidAndOutOfRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, "2025-01-01", "2025-01-31")

	dates := []time.Time{
		{}, // invalid record date
		time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), // before range
		time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
	}

	res := BucketByMonth(dates, r, now)

	if len(res.Buckets) != 1 || res.Buckets[0].Count != 1 {
		t.Errorf("Expected a single January bucket with count 1, got %+v", res.Buckets)
	}
}
