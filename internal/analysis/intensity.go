package analysis

// ZoneDurationStat is one histogram bucket
type ZoneDurationStat struct {
	Zone        Zone    `json:"-"`
	Name        string  `json:"name"`
	DurationSec int     `json:"durationSec"`
	Percent     float64 `json:"percent"`
}

// IntensityMix collapses the overall histogram into three bands.
// Low is Z1+Z2, mid is Z3+SS+Z4, high is Z5+Z6+Z7.
type IntensityMix struct {
	LowPct  float64 `json:"lowPct"`
	MidPct  float64 `json:"midPct"`
	HighPct float64 `json:"highPct"`
}

// Total returns the sum of the three bands
func (m IntensityMix) Total() float64 {
	return m.LowPct + m.MidPct + m.HighPct
}

// IntensityBreakdown holds the power, heart-rate and overall zone histograms
type IntensityBreakdown struct {
	Power     []ZoneDurationStat `json:"power"`
	HeartRate []ZoneDurationStat `json:"heartRate"`
	Overall   []ZoneDurationStat `json:"overall"`
	Mix       IntensityMix       `json:"mix"`

	TotalDurationSec int `json:"totalDurationSec"`
}

// HasData reports whether any classified duration fed the overall histogram
func (b IntensityBreakdown) HasData() bool {
	return b.TotalDurationSec > 0
}

// Stat returns the overall bucket for a zone
func (b IntensityBreakdown) Stat(z Zone) ZoneDurationStat {
	for _, s := range b.Overall {
		if s.Zone == z {
			return s
		}
	}
	return ZoneDurationStat{Zone: z, Name: z.String()}
}

// AggregateIntensity builds duration-weighted zone histograms. Activities
// with negative durations contribute nothing.
func AggregateIntensity(items []ClassifiedActivity) IntensityBreakdown {
	power := newHistogram(PowerZones)
	heartRate := newHistogram(HeartRateZones)
	overall := newHistogram(PowerZones)

	for _, item := range items {
		sec := max(item.Activity.DurationSec, 0)
		c := item.Classification
		power.add(c.PowerZone, sec)
		heartRate.add(c.HeartRateZone, sec)
		overall.add(c.Zone, sec)
	}

	b := IntensityBreakdown{
		Power:            power.stats(),
		HeartRate:        heartRate.stats(),
		Overall:          overall.stats(),
		TotalDurationSec: overall.total,
	}
	b.Mix = mixOf(overall)
	return b
}

type histogram struct {
	zones   []Zone
	seconds map[Zone]int
	total   int
}

func newHistogram(zones []Zone) *histogram {
	return &histogram{zones: zones, seconds: make(map[Zone]int, len(zones))}
}

func (h *histogram) add(z Zone, sec int) {
	if !h.accepts(z) {
		return
	}
	h.seconds[z] += sec
	h.total += sec
}

func (h *histogram) accepts(z Zone) bool {
	for _, known := range h.zones {
		if known == z {
			return true
		}
	}
	return false
}

func (h *histogram) percent(sec int) float64 {
	return float64(sec) * 100 / float64(max(h.total, 1))
}

func (h *histogram) stats() []ZoneDurationStat {
	out := make([]ZoneDurationStat, len(h.zones))
	for i, z := range h.zones {
		sec := h.seconds[z]
		out[i] = ZoneDurationStat{Zone: z, Name: z.String(), DurationSec: sec, Percent: h.percent(sec)}
	}
	return out
}

func mixOf(h *histogram) IntensityMix {
	band := func(zones ...Zone) float64 {
		var sec int
		for _, z := range zones {
			sec += h.seconds[z]
		}
		return h.percent(sec)
	}
	return IntensityMix{
		LowPct:  band(Z1, Z2),
		MidPct:  band(Z3, SS, Z4),
		HighPct: band(Z5, Z6, Z7),
	}
}
