// Package items computes provider-agnostic work-item statistics. Records
// arrive as raw provider-shaped JSON; callers supply dotted field paths and
// a classifier capability set instead of the package assuming any fixed
// schema.
package items

import (
	"time"

	"github.com/tidwall/gjson"

	"devpulse/internal/timeline"
)

// Item is a single raw provider record. Field access goes through gjson so
// dotted paths like "fields.resolutiondate" or "merged_at" both work.
type Item struct {
	raw gjson.Result
}

// FromJSON parses a JSON array of provider records. A non-array document
// yields nil; per-item shape problems surface later as excluded records,
// never as errors.
func FromJSON(data []byte) []Item {
	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil
	}

	var list []Item
	for _, el := range parsed.Array() {
		list = append(list, Item{raw: el})
	}
	return list
}

// Get resolves a dotted path within the record.
func (it Item) Get(path string) gjson.Result {
	return it.raw.Get(path)
}

// Str returns the string at path, "" when absent.
func (it Item) Str(path string) string {
	return it.raw.Get(path).String()
}

// Date returns the timestamp at path, zero when absent or unparseable. A
// zero date excludes the record from date-bound counts; it is never read as
// epoch or "now".
func (it Item) Date(path string) time.Time {
	s := it.raw.Get(path).String()
	if s == "" {
		return time.Time{}
	}
	return timeline.ParseDate(s)
}

// Raw returns the record's original JSON.
func (it Item) Raw() string {
	return it.raw.Raw
}

// Classifier is the capability set that maps provider-specific state
// semantics onto the common merged/open/closed classification. Each provider
// adapter supplies its own; the aggregator depends only on this interface.
type Classifier struct {
	State    func(Item) string
	IsMerged func(Item) bool
	IsOpen   func(Item) bool
	IsClosed func(Item) bool
	GroupKey func(Item) string
}
