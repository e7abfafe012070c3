package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"fricu/internal/analysis"
	"fricu/internal/observability"
	"fricu/internal/store"
)

// QueryService provides read-only analysis queries for the TUI, the CLI
// and the HTTP API
type QueryService struct {
	store    *store.Store
	fallback store.Profile
	opts     analysis.Options
	now      func() time.Time
}

// NewQueryService creates a new query service. Profile fields the stored
// profile leaves unset are taken from fallback.
func NewQueryService(s *store.Store, fallback store.Profile, opts analysis.Options) *QueryService {
	return &QueryService{store: s, fallback: fallback, opts: opts, now: time.Now}
}

// Location returns the time zone that bounds calendar days
func (q *QueryService) Location() *time.Location {
	if q.opts.Location == nil {
		return time.UTC
	}
	return q.opts.Location
}

// DashboardData contains all data needed for the dashboard
type DashboardData struct {
	Report analysis.Report

	// Recent activities, newest first
	RecentActivities []analysis.ClassifiedActivity

	// For charts
	WeeklyTSS    []float64
	WeeklyLabels []string // Week labels (e.g., "Jan 06")
}

// Profile returns the stored athlete profile with fallbacks applied
func (q *QueryService) Profile(ctx context.Context) (store.Profile, error) {
	p, err := q.store.Profile(ctx)
	if err != nil {
		return store.Profile{}, fmt.Errorf("loading profile: %w", err)
	}
	return p.WithDefaults(q.fallback), nil
}

// Report computes the analysis report for a query. Fixed windows without
// an AsOf end today; the "all" window ends on the last activity.
func (q *QueryService) Report(ctx context.Context, query analysis.Query) (*analysis.Report, error) {
	profile, err := q.Profile(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := q.store.Activities(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading activities: %w", err)
	}
	if query.AsOf.IsZero() && !query.Window.IsAll() {
		query.AsOf = q.now()
	}

	start := time.Now()
	report := analysis.NewEngine(profile, q.opts).Compute(activities, query)
	observability.RecordCompute(time.Since(start), len(report.Activities))

	return &report, nil
}

// GetDashboardData fetches all data needed for the dashboard
func (q *QueryService) GetDashboardData(ctx context.Context, query analysis.Query) (*DashboardData, error) {
	report, err := q.Report(ctx, query)
	if err != nil {
		return nil, err
	}

	data := &DashboardData{Report: *report}
	data.RecentActivities = recentActivities(report.Activities, RecentActivitiesLimit)
	data.WeeklyTSS, data.WeeklyLabels = weeklyLoad(report.Load, ChartWeeks)
	return data, nil
}

// recentActivities returns up to limit activities, newest first
func recentActivities(items []analysis.ClassifiedActivity, limit int) []analysis.ClassifiedActivity {
	sorted := append([]analysis.ClassifiedActivity(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Activity.Date.After(sorted[j].Activity.Date)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// weeklyLoad sums daily TSS into the trailing numWeeks Monday-based weeks
// of the series
func weeklyLoad(points []analysis.DailyLoadPoint, numWeeks int) ([]float64, []string) {
	if len(points) == 0 || numWeeks <= 0 {
		return nil, nil
	}

	last := points[len(points)-1].Date
	currentWeekStart := weekStart(last)
	firstWeekStart := currentWeekStart.AddDate(0, 0, -7*(numWeeks-1))

	totals := make([]float64, numWeeks)
	labels := make([]string, numWeeks)
	for i := range labels {
		labels[i] = firstWeekStart.AddDate(0, 0, 7*i).Format("Jan 02")
	}

	for _, p := range points {
		if p.Date.Before(firstWeekStart) {
			continue
		}
		days := int(math.Round(p.Date.Sub(firstWeekStart).Hours() / 24))
		idx := days / 7
		if idx >= 0 && idx < numWeeks {
			totals[idx] += p.TSS
		}
	}
	return totals, labels
}

// weekStart returns the Monday on or before t
func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}
