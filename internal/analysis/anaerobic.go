package analysis

import "math"

// AnaerobicCurve maps an intensity factor to the share of a day's stress
// attributed to anaerobic work. The share is logistic in IF, 0.5 at
// Midpoint and sharpening with Steepness.
type AnaerobicCurve struct {
	Midpoint  float64 `json:"midpoint"`
	Steepness float64 `json:"steepness"`
}

// DefaultAnaerobicCurve puts half of the stress into the anaerobic system at threshold
var DefaultAnaerobicCurve = AnaerobicCurve{Midpoint: 1.0, Steepness: 12}

// Share returns the anaerobic fraction for the given intensity factor, in [0, 1].
// Days without intensity (IF <= 0) are fully aerobic.
func (c AnaerobicCurve) Share(intensityFactor float64) float64 {
	if intensityFactor <= 0 || math.IsNaN(intensityFactor) {
		return 0
	}
	c = c.normalized()
	return 1 / (1 + math.Exp(-c.Steepness*(intensityFactor-c.Midpoint)))
}

// Split divides a day's TSS into aerobic and anaerobic parts that sum to tss
func (c AnaerobicCurve) Split(tss, intensityFactor float64) (aerobic, anaerobic float64) {
	anaerobic = tss * c.Share(intensityFactor)
	return tss - anaerobic, anaerobic
}

func (c AnaerobicCurve) normalized() AnaerobicCurve {
	if c.Midpoint <= 0 {
		c.Midpoint = DefaultAnaerobicCurve.Midpoint
	}
	if c.Steepness <= 0 {
		c.Steepness = DefaultAnaerobicCurve.Steepness
	}
	return c
}
