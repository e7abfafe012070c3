package analysis

import (
	"math"
	"time"

	"fricu/internal/store"
)

// Performance management model constants
const (
	CTLTimeConstant = 42.0 // days, "fitness"
	ATLTimeConstant = 7.0  // days, "fatigue"

	// Every series starts from these values on its first day, regardless
	// of training history before it.
	CTLSeed = 45.0
	ATLSeed = 50.0

	// DefaultSeedAnaerobicFraction splits the seeds between the aerobic
	// and anaerobic accumulators.
	DefaultSeedAnaerobicFraction = 0.1
)

const dayKeyLayout = "2006-01-02"

// DailyLoad is a single activity's contribution to its day
type DailyLoad struct {
	Date        time.Time
	TSS         float64
	DurationSec int
	PowerIF     float64 // NP/FTP, 0 without power
}

// DailyLoadPoint is one day of the performance management series
type DailyLoadPoint struct {
	Date            time.Time `json:"date"`
	TSS             float64   `json:"tss"`
	CTL             float64   `json:"ctl"` // Chronic Training Load (42-day EMA) - "Fitness"
	ATL             float64   `json:"atl"` // Acute Training Load (7-day EMA) - "Fatigue"
	TSB             float64   `json:"tsb"` // Training Stress Balance (CTL - ATL) - "Form"
	IntensityFactor float64   `json:"intensityFactor"`

	AerobicTISS   float64 `json:"aerobicTiss"`
	AnaerobicTISS float64 `json:"anaerobicTiss"`

	AerobicLongTermStress    float64 `json:"aerobicLongTermStress"`
	AnaerobicLongTermStress  float64 `json:"anaerobicLongTermStress"`
	AerobicShortTermStress   float64 `json:"aerobicShortTermStress"`
	AnaerobicShortTermStress float64 `json:"anaerobicShortTermStress"`
}

// LoadOptions bounds and tunes a fitness trend calculation
type LoadOptions struct {
	// From and To are inclusive calendar days. A zero value falls back
	// to the first or last loaded day.
	From time.Time
	To   time.Time

	Location              *time.Location
	Curve                 AnaerobicCurve
	SeedAnaerobicFraction float64
}

// BuildDailyLoads converts activities into per-activity daily loads,
// resolving FTP as of each activity's date.
func BuildDailyLoads(activities []store.Activity, profile AthleteProfile) []DailyLoad {
	loads := make([]DailyLoad, 0, len(activities))
	for _, a := range activities {
		loads = append(loads, DailyLoad{
			Date:        a.Date,
			TSS:         float64(a.TSS),
			DurationSec: max(a.DurationSec, 0),
			PowerIF:     powerIntensityFactor(a, profile, a.Date),
		})
	}
	return loads
}

type dayTotals struct {
	tss         float64
	durationSec int
	weightedIF  float64
	powerSec    int
}

// intensityFactor is the duration-weighted NP/FTP of the day's power
// activities, or an estimate from TSS density when none carried power.
func (d dayTotals) intensityFactor() float64 {
	if d.powerSec > 0 {
		return d.weightedIF / float64(d.powerSec)
	}
	if d.tss <= 0 {
		return 0
	}
	hours := max(float64(d.durationSec)/3600.0, minDensityHours)
	return math.Sqrt(d.tss / (100 * hours))
}

// CalculateFitnessTrend computes the daily CTL/ATL/TSB series with its
// aerobic and anaerobic split. Every calendar day in range gets a point;
// days without training contribute zero stress. The input is not modified.
func CalculateFitnessTrend(dailyLoads []DailyLoad, opts LoadOptions) []DailyLoadPoint {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	// Group loads by calendar day in the athlete's time zone
	loadMap := make(map[string]*dayTotals)
	var first, last time.Time
	for _, dl := range dailyLoads {
		day := StartOfDay(dl.Date, loc)
		if first.IsZero() || day.Before(first) {
			first = day
		}
		if last.IsZero() || day.After(last) {
			last = day
		}

		key := day.Format(dayKeyLayout)
		totals, ok := loadMap[key]
		if !ok {
			totals = &dayTotals{}
			loadMap[key] = totals
		}
		totals.tss += dl.TSS
		totals.durationSec += dl.DurationSec
		if dl.PowerIF > 0 && dl.DurationSec > 0 {
			totals.weightedIF += dl.PowerIF * float64(dl.DurationSec)
			totals.powerSec += dl.DurationSec
		}
	}

	startDate, endDate := first, last
	if !opts.From.IsZero() {
		startDate = StartOfDay(opts.From, loc)
	}
	if !opts.To.IsZero() {
		endDate = StartOfDay(opts.To, loc)
	}
	if startDate.IsZero() {
		startDate = endDate
	}
	if endDate.IsZero() {
		endDate = startDate
	}
	if startDate.IsZero() || startDate.After(endDate) {
		return nil
	}

	fraction := opts.SeedAnaerobicFraction
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		fraction = DefaultSeedAnaerobicFraction
	}
	ctl, atl := CTLSeed, ATLSeed
	aerLT, anaLT := CTLSeed*(1-fraction), CTLSeed*fraction
	aerST, anaST := ATLSeed*(1-fraction), ATLSeed*fraction

	var metrics []DailyLoadPoint
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		var totals dayTotals
		if t, ok := loadMap[d.Format(dayKeyLayout)]; ok {
			totals = *t
		}
		tss := totals.tss
		intensity := totals.intensityFactor()
		aerobic, anaerobic := opts.Curve.Split(tss, intensity)

		ctl = ema(ctl, tss, CTLTimeConstant)
		atl = ema(atl, tss, ATLTimeConstant)
		aerLT = ema(aerLT, aerobic, CTLTimeConstant)
		anaLT = ema(anaLT, anaerobic, CTLTimeConstant)
		aerST = ema(aerST, aerobic, ATLTimeConstant)
		anaST = ema(anaST, anaerobic, ATLTimeConstant)

		metrics = append(metrics, DailyLoadPoint{
			Date:                     d,
			TSS:                      tss,
			CTL:                      ctl,
			ATL:                      atl,
			TSB:                      ctl - atl,
			IntensityFactor:          intensity,
			AerobicTISS:              aerobic,
			AnaerobicTISS:            anaerobic,
			AerobicLongTermStress:    aerLT,
			AnaerobicLongTermStress:  anaLT,
			AerobicShortTermStress:   aerST,
			AnaerobicShortTermStress: anaST,
		})
	}

	return metrics
}

func ema(prev, value, timeConstant float64) float64 {
	return prev + (value-prev)/timeConstant
}

// GetCurrentFitness returns the most recent point of a series
func GetCurrentFitness(metrics []DailyLoadPoint) DailyLoadPoint {
	if len(metrics) == 0 {
		return DailyLoadPoint{}
	}
	return metrics[len(metrics)-1]
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}
