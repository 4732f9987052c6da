package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codepulse-lab/codepulse/internal/core/bucket"
	"github.com/codepulse-lab/codepulse/internal/core/ranking"
	"github.com/codepulse-lab/codepulse/internal/core/storage"
	"github.com/shopspring/decimal"
)

// Sentinel labels applied at the response boundary. Internally "no language"
// stays a nil pointer and never collides with a category named like these.
const (
	NoLanguage      = "N/A"
	UnknownLanguage = "Unknown"
)

// ErrInvalidQuery marks parameter validation errors that should return HTTP 400.
var ErrInvalidQuery = errors.New("invalid analytics query")

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}

// Service computes time-windowed analytics from the record store. Every call
// re-reads the store and holds no state between calls, so concurrent callers
// are safe as long as the store supports concurrent reads. Missing data is
// never an error: empty input resolves to zeroed series and sentinel labels,
// while a failing store surfaces as storage.ErrUnavailable.
type Service struct {
	store             storage.RecordStore
	loc               *time.Location
	defaultWindowDays int
	defaultTopLimit   int
	nowFn             func() time.Time
}

// NewService creates an analytics service bucketing days in loc.
func NewService(store storage.RecordStore, loc *time.Location, defaultWindowDays, defaultTopLimit int) *Service {
	return &Service{
		store:             store,
		loc:               loc,
		defaultWindowDays: defaultWindowDays,
		defaultTopLimit:   defaultTopLimit,
		nowFn:             time.Now,
	}
}

// Today returns the current day bucket in the service's zone.
func (s *Service) Today() time.Time {
	return bucket.Midnight(s.nowFn(), s.loc)
}

// dayAggregate accumulates one day bucket during a series scan.
type dayAggregate struct {
	seconds   decimal.Decimal
	sessions  int64
	languages *ranking.Counter
}

// DailySeries computes the focus-time series for the windowDays+1 calendar
// days ending at asOf (oldest first), plus a summary over the whole window.
// A zero asOf means "today". Days without records yield zero points.
func (s *Service) DailySeries(ctx context.Context, windowDays int, asOf time.Time) (*DailySeriesResult, error) {
	if windowDays < 0 {
		return nil, invalidQueryf("window days must be >= 0, got %d", windowDays)
	}
	if asOf.IsZero() {
		asOf = s.nowFn()
	}

	days := bucket.Window(asOf, windowDays, s.loc)
	startUnix, _ := bucket.Bounds(days[0])
	_, endUnix := bucket.Bounds(days[len(days)-1])

	records, err := s.store.RecordsInRange(ctx, startUnix, endUnix)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}

	// One pass over the window's records in ingest order; per-day buckets
	// keep their own language counter so the window's top language is
	// counted per day of appearance, not per record.
	perDay := make(map[string]*dayAggregate, len(days))
	for _, rec := range records {
		key := bucket.Key(bucket.DayOf(rec.Timestamp, s.loc))
		agg, ok := perDay[key]
		if !ok {
			agg = &dayAggregate{seconds: decimal.Zero, languages: ranking.NewCounter()}
			perDay[key] = agg
		}

		agg.seconds = agg.seconds.Add(decimal.NewFromFloat(rec.DurationSec))
		agg.sessions++
		if rec.HasLanguage() {
			agg.languages.Add(strings.TrimSpace(*rec.Language))
		}
	}

	result := &DailySeriesResult{
		Labels:  make([]string, 0, len(days)),
		Minutes: make([]float64, 0, len(days)),
	}

	totalSeconds := decimal.Zero
	windowLanguages := ranking.NewCounter()

	for _, day := range days {
		key := bucket.Key(day)
		result.Labels = append(result.Labels, key)

		agg, ok := perDay[key]
		if !ok {
			result.Minutes = append(result.Minutes, 0)
			continue
		}

		result.Minutes = append(result.Minutes, minutesOf(agg.seconds))
		totalSeconds = totalSeconds.Add(agg.seconds)
		result.Summary.TotalSessions += agg.sessions
		for _, lang := range agg.languages.Labels() {
			windowLanguages.Add(lang)
		}
	}

	result.Summary.TotalMinutes = minutesOf(totalSeconds)
	result.Summary.Languages = windowLanguages.Labels()
	result.Summary.TopLanguage = NoLanguage
	if top, ok := windowLanguages.MostCommon(); ok {
		result.Summary.TopLanguage = top
	}

	return result, nil
}

// LanguageDistribution computes per-language minutes for one calendar day,
// sorted descending with ties kept in first-seen order. Records without a
// language are excluded entirely.
func (s *Service) LanguageDistribution(ctx context.Context, day time.Time) (*LanguageDistributionResult, error) {
	if day.IsZero() {
		day = s.nowFn()
	}
	startUnix, endUnix := bucket.Bounds(bucket.Midnight(day, s.loc))

	records, err := s.store.RecordsInRange(ctx, startUnix, endUnix)
	if err != nil {
		return nil, fmt.Errorf("language distribution: %w", err)
	}

	type langGroup struct {
		label   string
		seconds decimal.Decimal
	}

	index := make(map[string]int)
	var groups []*langGroup
	for _, rec := range records {
		if !rec.HasLanguage() {
			continue
		}
		label := strings.TrimSpace(*rec.Language)

		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, &langGroup{label: label, seconds: decimal.Zero})
		}
		groups[i].seconds = groups[i].seconds.Add(decimal.NewFromFloat(rec.DurationSec))
	}

	// Sort on raw seconds so rounding cannot reorder near ties.
	sorted := ranking.TopN(groups, len(groups), func(g *langGroup) float64 {
		return g.seconds.InexactFloat64()
	})

	result := &LanguageDistributionResult{
		Labels:  make([]string, 0, len(sorted)),
		Minutes: make([]float64, 0, len(sorted)),
	}
	for _, g := range sorted {
		result.Labels = append(result.Labels, g.label)
		result.Minutes = append(result.Minutes, minutesOf(g.seconds))
	}

	return result, nil
}

// TopProjects ranks (folder, language) groups across all records carrying a
// file path, descending by total minutes, truncated to limit. Folder is the
// path segment before the first '/' ("root" when there is none); a missing
// language surfaces as "Unknown" in the response row only.
func (s *Service) TopProjects(ctx context.Context, limit int) ([]ProjectRow, error) {
	if limit <= 0 {
		return nil, invalidQueryf("limit must be > 0, got %d", limit)
	}

	records, err := s.store.RecordsWithFile(ctx)
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}

	type projectKey struct {
		folder      string
		language    string
		hasLanguage bool
	}
	type projectGroup struct {
		key      projectKey
		seconds  decimal.Decimal
		sessions int64
	}

	index := make(map[projectKey]int)
	var groups []*projectGroup
	for _, rec := range records {
		folder, ok := rec.Folder()
		if !ok {
			continue
		}

		key := projectKey{folder: folder}
		if rec.HasLanguage() {
			key.language = strings.TrimSpace(*rec.Language)
			key.hasLanguage = true
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, &projectGroup{key: key, seconds: decimal.Zero})
		}
		groups[i].seconds = groups[i].seconds.Add(decimal.NewFromFloat(rec.DurationSec))
		groups[i].sessions++
	}

	top := ranking.TopN(groups, limit, func(g *projectGroup) float64 {
		return g.seconds.InexactFloat64()
	})

	rows := make([]ProjectRow, 0, len(top))
	for _, g := range top {
		language := UnknownLanguage
		if g.key.hasLanguage {
			language = g.key.language
		}
		rows = append(rows, ProjectRow{
			Folder:          g.key.folder,
			Language:        language,
			DurationMinutes: minutesOf(g.seconds),
			SessionCount:    g.sessions,
		})
	}

	return rows, nil
}

// RecordCount exposes the store's record count as the liveness signal.
func (s *Service) RecordCount(ctx context.Context) (int64, error) {
	count, err := s.store.CountRecords(ctx)
	if err != nil {
		return 0, fmt.Errorf("record count: %w", err)
	}
	return count, nil
}

// minutesOf converts a seconds total to minutes rounded to 2 decimal places.
func minutesOf(seconds decimal.Decimal) float64 {
	m, _ := seconds.Div(decimal.NewFromInt(60)).Round(2).Float64()
	return m
}
