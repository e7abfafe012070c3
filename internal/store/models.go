package store

import (
	"sort"
	"time"
)

// Sport identifies the discipline of an activity
type Sport string

const (
	SportCycling  Sport = "cycling"
	SportRunning  Sport = "running"
	SportSwimming Sport = "swimming"
	SportStrength Sport = "strength"
)

// Sports lists the known sports in display order
var Sports = []Sport{SportCycling, SportRunning, SportSwimming, SportStrength}

// IsKnown reports whether s is one of Sports
func (s Sport) IsKnown() bool {
	for _, k := range Sports {
		if k == s {
			return true
		}
	}
	return false
}

// IsDistanceSport reports whether distance is meaningful for the sport
func (s Sport) IsDistanceSport() bool {
	switch s {
	case SportCycling, SportRunning, SportSwimming:
		return true
	default:
		return false
	}
}

// Activity represents a completed training session as stored by the app
type Activity struct {
	ID              string    `json:"id"`
	Name            string    `json:"name,omitempty"`
	Date            time.Time `json:"date"`
	Sport           Sport     `json:"sport"`
	DurationSec     int       `json:"durationSec"`
	DistanceKm      float64   `json:"distanceKm"`
	TSS             int       `json:"tss"`
	NormalizedPower *int      `json:"normalizedPower,omitempty"` // watts, nullable
	AvgHeartRate    *int      `json:"avgHeartRate,omitempty"`    // bpm, nullable
}

// HasPower reports whether the activity carries a usable normalized power
func (a Activity) HasPower() bool {
	return a.NormalizedPower != nil && *a.NormalizedPower > 0
}

// HasHeartRate reports whether the activity carries a usable average heart rate
func (a Activity) HasHeartRate() bool {
	return a.AvgHeartRate != nil && *a.AvgHeartRate > 0
}

// ThresholdEntry scopes FTP and threshold HR to a sport from a given date on
type ThresholdEntry struct {
	Sport              Sport     `json:"sport"`
	EffectiveFrom      time.Time `json:"effectiveFrom"`
	FTPWatts           int       `json:"ftpWatts,omitempty"`
	ThresholdHeartRate int       `json:"thresholdHeartRate,omitempty"`
}

// Profile holds the athlete settings stored under the "profile" key
type Profile struct {
	DefaultFTPWatts           int              `json:"ftpWatts,omitempty"`
	DefaultThresholdHeartRate int              `json:"thresholdHeartRate,omitempty"`
	WeightKg                  float64          `json:"athleteWeightKg,omitempty"`
	Thresholds                []ThresholdEntry `json:"thresholds,omitempty"`
}

// FTPWatts returns the FTP in effect for the sport on the given date.
// Entries without an FTP are skipped so an HR-only update does not hide an older FTP.
func (p Profile) FTPWatts(sport Sport, asOf time.Time) int {
	if e, ok := p.latest(sport, asOf, func(e ThresholdEntry) bool { return e.FTPWatts > 0 }); ok {
		return e.FTPWatts
	}
	return p.DefaultFTPWatts
}

// ThresholdHeartRate returns the threshold heart rate in effect for the sport on the given date
func (p Profile) ThresholdHeartRate(sport Sport, asOf time.Time) int {
	if e, ok := p.latest(sport, asOf, func(e ThresholdEntry) bool { return e.ThresholdHeartRate > 0 }); ok {
		return e.ThresholdHeartRate
	}
	return p.DefaultThresholdHeartRate
}

// AthleteWeightKg returns the athlete's body mass
func (p Profile) AthleteWeightKg() float64 {
	return p.WeightKg
}

func (p Profile) latest(sport Sport, asOf time.Time, usable func(ThresholdEntry) bool) (ThresholdEntry, bool) {
	var (
		best  ThresholdEntry
		found bool
	)
	for _, e := range p.Thresholds {
		if e.Sport != sport || e.EffectiveFrom.After(asOf) || !usable(e) {
			continue
		}
		if !found || e.EffectiveFrom.After(best.EffectiveFrom) {
			best = e
			found = true
		}
	}
	return best, found
}

// WithDefaults fills zero-valued profile fields from the given fallback
func (p Profile) WithDefaults(fallback Profile) Profile {
	if p.DefaultFTPWatts == 0 {
		p.DefaultFTPWatts = fallback.DefaultFTPWatts
	}
	if p.DefaultThresholdHeartRate == 0 {
		p.DefaultThresholdHeartRate = fallback.DefaultThresholdHeartRate
	}
	if p.WeightKg == 0 {
		p.WeightKg = fallback.WeightKg
	}
	if len(p.Thresholds) == 0 && len(fallback.Thresholds) > 0 {
		p.Thresholds = append([]ThresholdEntry(nil), fallback.Thresholds...)
	}
	return p
}

// SortActivities sorts activities by date ascending in place
func SortActivities(activities []Activity) {
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].Date.Before(activities[j].Date)
	})
}
