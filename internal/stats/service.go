// Package stats orchestrates the aggregation pipeline: it normalizes range
// requests, picks provider presets, and memoizes every expensive computation
// in an injected TTL cache. All computed values are pure functions of their
// inputs, so concurrent requests and cache races are harmless.
package stats

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"devpulse/internal/config"
	"devpulse/internal/items"
	"devpulse/internal/jira"
	"devpulse/internal/timeline"
	"devpulse/internal/velocity"
)

// Store is the cache contract the service depends on. It is satisfied by
// *cache.TTLCache; tests may inject their own.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	Clear()
	DeleteByPrefix(prefix string)
	Memoize(key string, ttl time.Duration, fn func() (any, error)) (any, error)
}

// Service computes dashboard statistics over already-fetched provider data.
type Service struct {
	store         Store
	defaultStart  time.Time
	hoursPerPoint float64
	rawTTL        time.Duration
	statsTTL      time.Duration
}

// NewService creates a Service backed by the given cache.
func NewService(store Store, cfg *config.AppConfig) *Service {
	return &Service{
		store:         store,
		defaultStart:  cfg.DefaultRangeStart,
		hoursPerPoint: cfg.HoursPerPoint,
		rawTTL:        cfg.RawTTL,
		statsTTL:      cfg.StatsTTL,
	}
}

// preset binds a provider name to its record shape: classifier plus the
// field paths the aggregator needs.
type preset struct {
	classifier  items.Classifier
	dateField   string
	mergedField string
}

func presetFor(provider string) (preset, error) {
	switch strings.ToLower(provider) {
	case "github":
		return preset{
			classifier:  items.GitHubPullRequests(),
			dateField:   "created_at",
			mergedField: "merged_at",
		}, nil
	case "gitlab":
		return preset{
			classifier:  items.GitLabMergeRequests(),
			dateField:   "created_at",
			mergedField: "merged_at",
		}, nil
	case "jira":
		return preset{
			classifier:  items.JiraIssues(),
			dateField:   "fields.created",
			mergedField: "fields.resolutiondate",
		}, nil
	default:
		return preset{}, fmt.Errorf("unknown provider %q", provider)
	}
}

// ItemStats computes item statistics for one provider's records, memoized by
// (operation, provider, content, normalized range) so that logically
// different queries never collide and identical ones always hit.
func (s *Service) ItemStats(provider string, records, comments []byte, req *timeline.RangeRequest) (items.Stats, error) {
	p, err := presetFor(provider)
	if err != nil {
		return items.Stats{}, err
	}

	now := time.Now()
	rng := timeline.Normalize(req, s.defaultStart, now)
	key := fmt.Sprintf("item-stats:%s:%s:%s:%s", provider, digest(records), digest(comments), requestKey(req))

	v, err := s.store.Memoize(key, s.statsTTL, func() (any, error) {
		list, err := s.parseItems(provider, records)
		if err != nil {
			return nil, err
		}
		commentList, err := s.parseItems(provider+"-comments", comments)
		if err != nil {
			return nil, err
		}

		stats := items.Aggregate(list, items.Options{
			DateField:   p.dateField,
			MergedField: p.mergedField,
			Range:       rng,
			Classifier:  p.classifier,
			Comments:    commentList,
			Now:         now,
		})
		log.Debug().Str("provider", provider).Int("total", stats.Total).Msg("Computed item statistics")
		return stats, nil
	})
	if err != nil {
		return items.Stats{}, err
	}
	return v.(items.Stats), nil
}

// VelocityStats computes sprint velocity over raw Jira issue records,
// optionally restricted to sprints overlapping the requested range.
func (s *Service) VelocityStats(records []byte, req *timeline.RangeRequest) (velocity.Result, error) {
	now := time.Now()
	rng := timeline.Normalize(req, s.defaultStart, now)
	key := fmt.Sprintf("velocity:%s:%s", digest(records), requestKey(req))

	v, err := s.store.Memoize(key, s.statsTTL, func() (any, error) {
		issues, err := s.parseIssues(records)
		if err != nil {
			return nil, err
		}
		result := velocity.Calculate(issues, velocity.Options{
			Range:         rng,
			HoursPerPoint: s.hoursPerPoint,
		})
		log.Debug().
			Int("sprints", result.TotalSprints).
			Int("withoutSprint", result.IssuesWithoutSprint).
			Msg("Computed velocity statistics")
		return result, nil
	})
	if err != nil {
		return velocity.Result{}, err
	}
	return v.(velocity.Result), nil
}

// ResolutionStats averages the time issues spend between two workflow
// stages, falling back to the resolution date when the end transition never
// happened.
func (s *Service) ResolutionStats(records []byte, start, end []string) (jira.ResolutionStats, error) {
	key := fmt.Sprintf("resolution:%s:%s:%s", digest(records), strings.Join(start, ","), strings.Join(end, ","))

	v, err := s.store.Memoize(key, s.statsTTL, func() (any, error) {
		issues, err := s.parseIssues(records)
		if err != nil {
			return nil, err
		}
		return jira.ResolutionTimes(issues, start, end), nil
	})
	if err != nil {
		return jira.ResolutionStats{}, err
	}
	return v.(jira.ResolutionStats), nil
}

// Invalidate drops every cached computation for one provider.
func (s *Service) Invalidate(provider string) {
	s.store.DeleteByPrefix(fmt.Sprintf("item-stats:%s:", provider))
	if strings.EqualFold(provider, "jira") {
		s.store.DeleteByPrefix("velocity:")
		s.store.DeleteByPrefix("resolution:")
		s.store.DeleteByPrefix("raw:jira:")
	}
	s.store.DeleteByPrefix(fmt.Sprintf("raw:%s:", provider))
}

// parseItems memoizes raw-collection parsing under the longer-lived TTL
// class: raw collections outlive any particular range-bound query.
func (s *Service) parseItems(provider string, data []byte) ([]items.Item, error) {
	if len(data) == 0 {
		return nil, nil
	}
	key := fmt.Sprintf("raw:%s:%s", provider, digest(data))
	v, err := s.store.Memoize(key, s.rawTTL, func() (any, error) {
		return items.FromJSON(data), nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]items.Item), nil
}

// parseIssues memoizes Jira issue decoding under the raw TTL class. Both
// a bare array and a SearchResponse envelope are accepted.
func (s *Service) parseIssues(data []byte) ([]jira.Issue, error) {
	key := fmt.Sprintf("raw:jira:%s", digest(data))
	v, err := s.store.Memoize(key, s.rawTTL, func() (any, error) {
		var issues []jira.Issue
		if err := json.Unmarshal(data, &issues); err == nil {
			return issues, nil
		}
		var resp jira.SearchResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("decoding issues: %w", err)
		}
		return resp.Issues, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]jira.Issue), nil
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum[:8])
}

// requestKey serializes the raw range request. The requested bounds rather
// than the normalized range go into the key: an open-ended request resolves
// "now" freshly on every compute, and keying on that would defeat the cache
// for the most common query. Bounds are quoted so no user-supplied bound
// string can collide with the empty-bound form of another request.
func requestKey(req *timeline.RangeRequest) string {
	if req == nil {
		return "default"
	}
	return fmt.Sprintf("%q..%q", req.Start, req.End)
}
