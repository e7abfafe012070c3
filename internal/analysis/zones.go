package analysis

import (
	"time"

	"fricu/internal/store"
)

// Zone is an effort zone. Values are ordered by intensity, with the
// sweet spot sub-zone ranked between Z3 and Z4.
type Zone int

const (
	ZoneUnknown Zone = iota
	Z1
	Z2
	Z3
	SS
	Z4
	Z5
	Z6
	Z7
)

var zoneNames = map[Zone]string{
	Z1: "Z1",
	Z2: "Z2",
	Z3: "Z3",
	SS: "SS",
	Z4: "Z4",
	Z5: "Z5",
	Z6: "Z6",
	Z7: "Z7",
}

// String returns the zone label ("Z1".."Z7", "SS")
func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return "-"
}

// Description returns a human-readable name for the zone
func (z Zone) Description() string {
	switch z {
	case Z1:
		return "Recovery"
	case Z2:
		return "Endurance"
	case Z3:
		return "Tempo"
	case SS:
		return "Sweet Spot"
	case Z4:
		return "Threshold"
	case Z5:
		return "VO2max"
	case Z6:
		return "Anaerobic"
	case Z7:
		return "Neuromuscular"
	default:
		return "Unclassified"
	}
}

// PowerZones lists the buckets of the power and overall histograms
var PowerZones = []Zone{Z1, Z2, Z3, SS, Z4, Z5, Z6, Z7}

// HeartRateZones lists the buckets of the heart-rate histogram
var HeartRateZones = []Zone{Z1, Z2, Z3, Z4, Z5, Z6, Z7}

// Path identifies which signal decided an activity's overall zone
type Path int

const (
	PathNone Path = iota
	PathPower
	PathHeartRate
	PathLoadDensity
)

// String returns the path name
func (p Path) String() string {
	switch p {
	case PathPower:
		return "power"
	case PathHeartRate:
		return "heart_rate"
	case PathLoadDensity:
		return "load_density"
	default:
		return "none"
	}
}

// zoneBreakpoint maps every value strictly below Upper to Zone
type zoneBreakpoint struct {
	Upper float64
	Zone  Zone
}

// Ratio breakpoints against FTP; anything at or above the last is Z7
var powerBreakpoints = []zoneBreakpoint{
	{0.56, Z1},
	{0.76, Z2},
	{0.88, Z3},
	{0.94, SS},
	{1.06, Z4},
	{1.21, Z5},
	{1.50, Z6},
}

// Ratio breakpoints against threshold heart rate
var heartRateBreakpoints = []zoneBreakpoint{
	{0.68, Z1},
	{0.78, Z2},
	{0.88, Z3},
	{0.94, Z4},
	{1.00, Z5},
	{1.06, Z6},
}

// TSS-per-hour breakpoints for activities without power or heart rate
var densityBreakpoints = []zoneBreakpoint{
	{40, Z1},
	{55, Z2},
	{70, Z3},
	{85, Z4},
	{100, Z5},
	{115, Z6},
}

const (
	powerRatioMin     = 0.3
	powerRatioMax     = 1.8
	heartRateRatioMin = 0.3
	heartRateRatioMax = 1.4

	// minDensityHours keeps very short activities from dividing by ~0
	minDensityHours = 1.0 / 60.0
)

func bucket(value float64, breakpoints []zoneBreakpoint) Zone {
	for _, bp := range breakpoints {
		if value < bp.Upper {
			return bp.Zone
		}
	}
	return Z7
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// PowerRatio returns normalized power over FTP, clamped to [0.3, 1.8].
// A non-positive FTP is treated as 1 W.
func PowerRatio(normalizedPower, ftpWatts int) float64 {
	return clamp(float64(normalizedPower)/float64(max(ftpWatts, 1)), powerRatioMin, powerRatioMax)
}

// PowerZone classifies normalized power against FTP
func PowerZone(normalizedPower, ftpWatts int) Zone {
	return bucket(PowerRatio(normalizedPower, ftpWatts), powerBreakpoints)
}

// HeartRateZone classifies average heart rate against threshold heart rate
func HeartRateZone(avgHeartRate, thresholdHeartRate int) Zone {
	ratio := clamp(float64(avgHeartRate)/float64(max(thresholdHeartRate, 1)), heartRateRatioMin, heartRateRatioMax)
	return bucket(ratio, heartRateBreakpoints)
}

// LoadDensity returns TSS per hour with the duration floored at one minute
func LoadDensity(tss, durationSec int) float64 {
	hours := max(float64(durationSec)/3600.0, minDensityHours)
	return float64(tss) / hours
}

// DensityZone classifies an activity by TSS per hour
func DensityZone(tss, durationSec int) Zone {
	return bucket(LoadDensity(tss, durationSec), densityBreakpoints)
}

// Classification is the zone assignment for a single activity
type Classification struct {
	Zone          Zone // best available: power, then heart rate, then load density
	Path          Path
	PowerZone     Zone // ZoneUnknown without power data
	HeartRateZone Zone // ZoneUnknown without heart-rate data
}

// Classify assigns exactly one overall zone to an activity, using the
// athlete thresholds in effect on the activity's date.
func Classify(activity store.Activity, profile AthleteProfile) Classification {
	var c Classification
	asOf := activity.Date

	if activity.HasPower() {
		c.PowerZone = PowerZone(*activity.NormalizedPower, profile.FTPWatts(activity.Sport, asOf))
	}
	if activity.HasHeartRate() {
		c.HeartRateZone = HeartRateZone(*activity.AvgHeartRate, profile.ThresholdHeartRate(activity.Sport, asOf))
	}

	switch {
	case c.PowerZone != ZoneUnknown:
		c.Zone, c.Path = c.PowerZone, PathPower
	case c.HeartRateZone != ZoneUnknown:
		c.Zone, c.Path = c.HeartRateZone, PathHeartRate
	default:
		c.Zone, c.Path = DensityZone(activity.TSS, activity.DurationSec), PathLoadDensity
	}
	return c
}

// ClassifiedActivity pairs an activity with its zone assignment
type ClassifiedActivity struct {
	Activity       store.Activity
	Classification Classification
}

// ClassifyAll classifies every activity, preserving input order
func ClassifyAll(activities []store.Activity, profile AthleteProfile) []ClassifiedActivity {
	out := make([]ClassifiedActivity, len(activities))
	for i, a := range activities {
		out[i] = ClassifiedActivity{Activity: a, Classification: Classify(a, profile)}
	}
	return out
}

// powerIntensityFactor returns NP/FTP for an activity with power, unclamped
func powerIntensityFactor(activity store.Activity, profile AthleteProfile, asOf time.Time) float64 {
	if !activity.HasPower() {
		return 0
	}
	return float64(*activity.NormalizedPower) / float64(max(profile.FTPWatts(activity.Sport, asOf), 1))
}
