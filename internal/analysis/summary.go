package analysis

import (
	"sort"
	"time"

	"fricu/internal/store"
)

// Energy estimation constants
const (
	joulesPerCalorie   = 4.184
	grossEfficiency    = 0.24
	referenceWeightKg  = 70.0
	defaultKcalPerHour = 350.0
	secondsPerHour     = 3600.0
	joulesPerKilojoule = 1000.0
)

// Rough energy cost per hour for a 70 kg athlete, used without power data
var kcalPerHour = map[store.Sport]float64{
	store.SportCycling:  600,
	store.SportRunning:  700,
	store.SportSwimming: 500,
	store.SportStrength: 350,
}

// Typical climbing per kilometre, used to estimate elevation gain
var elevationPerKm = map[store.Sport]float64{
	store.SportCycling: 8,
	store.SportRunning: 10,
}

// SportTotals aggregates the activities of a single sport
type SportTotals struct {
	Sport          store.Sport `json:"sport,omitempty"`
	Count          int         `json:"count"`
	DurationSec    int         `json:"durationSec"`
	DistanceKm     float64     `json:"distanceKm"`
	TSS            int         `json:"tss"`
	WorkKJ         float64     `json:"workKj"`
	Calories       float64     `json:"calories"`
	ElevationGainM float64     `json:"elevationGainM"`
}

func (t *SportTotals) add(o SportTotals) {
	t.Count += o.Count
	t.DurationSec += o.DurationSec
	t.DistanceKm += o.DistanceKm
	t.TSS += o.TSS
	t.WorkKJ += o.WorkKJ
	t.Calories += o.Calories
	t.ElevationGainM += o.ElevationGainM
}

// PathCounts counts activities by the signal that classified them
type PathCounts struct {
	Power       int `json:"power"`
	HeartRate   int `json:"heartRate"`
	LoadDensity int `json:"loadDensity"`
}

// Summary holds window totals for the dashboard
type Summary struct {
	SportTotals
	ActiveDays int            `json:"activeDays"`
	SpanDays   int            `json:"spanDays"` // first to last activity day, inclusive
	BySport    []SportTotals  `json:"bySport"`
	Paths      PathCounts     `json:"paths"`
	ZoneCounts map[string]int `json:"zoneCounts"`
}

// ActivityTotals estimates totals for a single activity. Work and calories
// come from power when present, otherwise from a per-sport hourly rate
// scaled by body mass.
func ActivityTotals(a store.Activity, weightKg float64) SportTotals {
	hours := float64(max(a.DurationSec, 0)) / secondsPerHour
	t := SportTotals{
		Sport:       a.Sport,
		Count:       1,
		DurationSec: max(a.DurationSec, 0),
		TSS:         a.TSS,
	}
	if a.Sport.IsDistanceSport() && a.DistanceKm > 0 {
		t.DistanceKm = a.DistanceKm
		t.ElevationGainM = a.DistanceKm * elevationPerKm[a.Sport]
	}

	if a.HasPower() {
		t.WorkKJ = float64(*a.NormalizedPower) * float64(t.DurationSec) / joulesPerKilojoule
		t.Calories = t.WorkKJ / (joulesPerCalorie * grossEfficiency)
		return t
	}

	if weightKg <= 0 {
		weightKg = referenceWeightKg
	}
	rate, ok := kcalPerHour[a.Sport]
	if !ok {
		rate = defaultKcalPerHour
	}
	t.Calories = rate * hours * weightKg / referenceWeightKg
	return t
}

// Summarize folds classified activities into window totals
func Summarize(items []ClassifiedActivity, weightKg float64, loc *time.Location) Summary {
	s := Summary{ZoneCounts: make(map[string]int)}
	bySport := make(map[store.Sport]*SportTotals)
	days := make(map[string]struct{})
	var first, last time.Time

	for _, item := range items {
		a := item.Activity
		t := ActivityTotals(a, weightKg)
		s.add(t)

		st, ok := bySport[a.Sport]
		if !ok {
			st = &SportTotals{Sport: a.Sport}
			bySport[a.Sport] = st
		}
		st.add(t)

		day := StartOfDay(a.Date, loc)
		days[day.Format(dayKeyLayout)] = struct{}{}
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}

		switch item.Classification.Path {
		case PathPower:
			s.Paths.Power++
		case PathHeartRate:
			s.Paths.HeartRate++
		case PathLoadDensity:
			s.Paths.LoadDensity++
		}
		if z := item.Classification.Zone; z != ZoneUnknown {
			s.ZoneCounts[z.String()]++
		}
	}
	s.ActiveDays = len(days)
	if !first.IsZero() {
		s.SpanDays = calendarDays(first, last) + 1
	}

	for _, sport := range store.Sports {
		if st, ok := bySport[sport]; ok {
			s.BySport = append(s.BySport, *st)
			delete(bySport, sport)
		}
	}
	// Sports outside the known list follow, alphabetically
	var rest []SportTotals
	for _, st := range bySport {
		rest = append(rest, *st)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Sport < rest[j].Sport })
	s.BySport = append(s.BySport, rest...)

	return s
}

// calendarDays counts whole days between two local midnights, ignoring DST shifts
func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
