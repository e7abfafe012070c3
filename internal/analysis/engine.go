package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fricu/internal/store"
)

// AthleteProfile supplies the thresholds the engine classifies against.
// store.Profile satisfies it.
type AthleteProfile interface {
	FTPWatts(sport store.Sport, asOf time.Time) int
	ThresholdHeartRate(sport store.Sport, asOf time.Time) int
	AthleteWeightKg() float64
}

// ErrInvalidWindow is returned when a window string cannot be parsed
var ErrInvalidWindow = errors.New("invalid window")

// MaxWindowDays bounds a fixed window, the span of an "all" report and the
// warm-up history before a window. Load older than that keeps less than
// e^-80 of its weight in CTL.
const MaxWindowDays = 3650

// Window selects how many calendar days a report covers. The zero value
// covers every activity.
type Window struct {
	Days int
}

// WindowAll spans from the first to the last activity
var WindowAll = Window{}

// Standard dashboard windows
var (
	Window30  = Window{Days: 30}
	Window90  = Window{Days: 90}
	Window180 = Window{Days: 180}
	Window365 = Window{Days: 365}
)

// IsAll reports whether the window covers every activity
func (w Window) IsAll() bool {
	return w.Days <= 0
}

// String returns "all" or the day count
func (w Window) String() string {
	if w.IsAll() {
		return "all"
	}
	return strconv.Itoa(w.Days)
}

// ParseWindow parses "all" or a day count such as "90" or "90d", up to MaxWindowDays
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return WindowAll, nil
	}
	days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
	if err != nil || days <= 0 {
		return Window{}, fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
	if days > MaxWindowDays {
		return Window{}, fmt.Errorf("%w: %d days exceeds the %d day limit", ErrInvalidWindow, days, MaxWindowDays)
	}
	return Window{Days: days}, nil
}

// Query scopes a report
type Query struct {
	Window Window
	Sport  store.Sport // empty for all sports
	AsOf   time.Time   // last day of a fixed window; zero means the last activity day
}

// Options tunes the engine. Zero fields select the defaults.
type Options struct {
	Location              *time.Location // calendar day boundaries
	Curve                 AnaerobicCurve
	SeedAnaerobicFraction float64
}

// DefaultOptions returns UTC days with the default anaerobic curve
func DefaultOptions() Options {
	return Options{
		Location:              time.UTC,
		Curve:                 DefaultAnaerobicCurve,
		SeedAnaerobicFraction: DefaultSeedAnaerobicFraction,
	}
}

// Report is everything the dashboard shows for one query
type Report struct {
	Window string      `json:"window"`
	Sport  store.Sport `json:"sport,omitempty"`
	From   time.Time   `json:"from"`
	To     time.Time   `json:"to"`

	Load    []DailyLoadPoint `json:"load"`
	Current DailyLoadPoint   `json:"current"`
	Form    string           `json:"form"`

	Intensity    IntensityBreakdown `json:"intensity"`
	Distribution []TemplateMatch    `json:"distribution"`
	Summary      Summary            `json:"summary"`

	Activities []ClassifiedActivity `json:"-"`
}

// BestTemplate returns the best-fitting distribution template, if any
func (r Report) BestTemplate() (TemplateMatch, bool) {
	return BestMatch(r.Distribution)
}

// Engine computes reports from activities and an athlete profile. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	profile AthleteProfile
	opts    Options
}

// NewEngine creates an engine, filling unset options with defaults
func NewEngine(profile AthleteProfile, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Curve == (AnaerobicCurve{}) {
		opts.Curve = DefaultAnaerobicCurve
	}
	if opts.SeedAnaerobicFraction <= 0 || opts.SeedAnaerobicFraction > 1 {
		opts.SeedAnaerobicFraction = DefaultSeedAnaerobicFraction
	}
	return &Engine{profile: profile, opts: opts}
}

// Options returns the engine's effective options
func (e *Engine) Options() Options {
	return e.opts
}

// Compute builds a report. The activities slice is not modified.
func (e *Engine) Compute(activities []store.Activity, q Query) Report {
	filtered := filterSport(activities, q.Sport)
	from, to, ok := e.windowBounds(filtered, q)

	report := Report{Window: q.Window.String(), Sport: q.Sport}
	if !ok {
		report.Intensity = AggregateIntensity(nil)
		report.Distribution = MatchDistribution(report.Intensity.Mix)
		report.Summary = Summarize(nil, e.profile.AthleteWeightKg(), e.opts.Location)
		report.Form = FormDescription(report.Current.TSB)
		return report
	}
	report.From, report.To = from, to

	report.Load = e.LoadSeries(filtered, from, to)
	report.Current = GetCurrentFitness(report.Load)
	report.Form = FormDescription(report.Current.TSB)

	inWindow := e.between(filtered, from, to)
	report.Activities = ClassifyAll(inWindow, e.profile)
	report.Intensity = AggregateIntensity(report.Activities)
	// Ranked even on a zero mix; Intensity.HasData tells whether the best match means anything
	report.Distribution = MatchDistribution(report.Intensity.Mix)
	report.Summary = Summarize(report.Activities, e.profile.AthleteWeightKg(), e.opts.Location)

	return report
}

// LoadSeries returns the daily series for [from, to]. The recurrence warms
// up from the earliest activity when it precedes from, looking back at most
// MaxWindowDays.
func (e *Engine) LoadSeries(activities []store.Activity, from, to time.Time) []DailyLoadPoint {
	from = StartOfDay(from, e.opts.Location)
	to = StartOfDay(to, e.opts.Location)
	if earliest := to.AddDate(0, 0, -(MaxWindowDays - 1)); from.Before(earliest) {
		from = earliest
	}

	limit := from.AddDate(0, 0, -MaxWindowDays)
	start := from
	for _, a := range e.between(activities, limit, to) {
		if day := StartOfDay(a.Date, e.opts.Location); day.Before(start) {
			start = day
		}
	}
	relevant := e.between(activities, start, to)

	series := CalculateFitnessTrend(BuildDailyLoads(relevant, e.profile), LoadOptions{
		From:                  start,
		To:                    to,
		Location:              e.opts.Location,
		Curve:                 e.opts.Curve,
		SeedAnaerobicFraction: e.opts.SeedAnaerobicFraction,
	})
	for i, p := range series {
		if !p.Date.Before(from) {
			return series[i:]
		}
	}
	return nil
}

// windowBounds resolves a query into an inclusive day range
func (e *Engine) windowBounds(activities []store.Activity, q Query) (from, to time.Time, ok bool) {
	var first, last time.Time
	for _, a := range activities {
		day := StartOfDay(a.Date, e.opts.Location)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}
	}

	to = last
	if !q.AsOf.IsZero() {
		to = StartOfDay(q.AsOf, e.opts.Location)
	}

	if q.Window.IsAll() {
		if first.IsZero() || first.After(to) {
			return time.Time{}, time.Time{}, false
		}
		if earliest := to.AddDate(0, 0, -(MaxWindowDays - 1)); first.Before(earliest) {
			first = earliest
		}
		return first, to, true
	}

	if to.IsZero() {
		return time.Time{}, time.Time{}, false
	}
	days := min(q.Window.Days, MaxWindowDays)
	return to.AddDate(0, 0, -(days - 1)), to, true
}

// between returns activities whose day falls in [from, to]; a zero from is unbounded
func (e *Engine) between(activities []store.Activity, from, to time.Time) []store.Activity {
	var out []store.Activity
	for _, a := range activities {
		day := StartOfDay(a.Date, e.opts.Location)
		if (!from.IsZero() && day.Before(from)) || day.After(to) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func filterSport(activities []store.Activity, sport store.Sport) []store.Activity {
	if sport == "" {
		return activities
	}
	var out []store.Activity
	for _, a := range activities {
		if a.Sport == sport {
			out = append(out, a)
		}
	}
	return out
}
