package analysis

import (
	"math"
	"testing"
	"time"

	"fricu/internal/store"
)

func TestAggregateIntensity(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	activities := []store.Activity{
		{Date: date, Sport: store.SportCycling, DurationSec: 3600, TSS: 50, NormalizedPower: intPtr(175)},
		{Date: date, Sport: store.SportCycling, DurationSec: 1800, TSS: 45, NormalizedPower: intPtr(280)},
		{Date: date, Sport: store.SportRunning, DurationSec: 1800, TSS: 20, AvgHeartRate: intPtr(100)},
	}
	b := AggregateIntensity(ClassifyAll(activities, testProfile()))

	if len(b.Power) != 8 || len(b.HeartRate) != 7 || len(b.Overall) != 8 {
		t.Fatalf("bucket counts = %d/%d/%d, want 8/7/8", len(b.Power), len(b.HeartRate), len(b.Overall))
	}
	if b.TotalDurationSec != 7200 {
		t.Errorf("TotalDurationSec = %d, want 7200", b.TotalDurationSec)
	}

	overall := []struct {
		zone    Zone
		seconds int
		percent float64
	}{
		{Z1, 1800, 25},
		{Z2, 3600, 50},
		{SS, 0, 0},
		{Z5, 1800, 25},
	}
	for _, o := range overall {
		s := b.Stat(o.zone)
		if s.DurationSec != o.seconds || math.Abs(s.Percent-o.percent) > 1e-9 {
			t.Errorf("overall %v = %ds %.2f%%, want %ds %.2f%%", o.zone, s.DurationSec, s.Percent, o.seconds, o.percent)
		}
	}

	// Only the two power activities feed the power histogram
	if math.Abs(b.Power[1].Percent-66.6667) > 0.001 {
		t.Errorf("power Z2 = %v%%, want ~66.67%%", b.Power[1].Percent)
	}
	if b.HeartRate[0].DurationSec != 1800 || b.HeartRate[0].Percent != 100 {
		t.Errorf("heart rate Z1 = %+v, want 1800s 100%%", b.HeartRate[0])
	}

	if b.Mix.LowPct != 75 || b.Mix.MidPct != 0 || b.Mix.HighPct != 25 {
		t.Errorf("Mix = %+v, want 75/0/25", b.Mix)
	}
}

func TestAggregateIntensityEmpty(t *testing.T) {
	b := AggregateIntensity(nil)

	if b.HasData() {
		t.Error("HasData() = true, want false")
	}
	for _, hist := range [][]ZoneDurationStat{b.Power, b.HeartRate, b.Overall} {
		for _, s := range hist {
			if s.DurationSec != 0 || s.Percent != 0 {
				t.Errorf("bucket %s = %+v, want zero", s.Name, s)
			}
		}
	}
	if b.Mix != (IntensityMix{}) {
		t.Errorf("Mix = %+v, want zero", b.Mix)
	}
}

func TestIntensityMixClosesToHundred(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	var activities []store.Activity
	for i, np := range []int{120, 170, 205, 228, 250, 290, 340, 420} {
		activities = append(activities, store.Activity{
			Date:            date.AddDate(0, 0, i),
			Sport:           store.SportCycling,
			DurationSec:     600 * (i + 1),
			TSS:             30,
			NormalizedPower: intPtr(np),
		})
	}
	activities = append(activities, store.Activity{Date: date, Sport: store.SportStrength, DurationSec: 2400, TSS: 25})

	b := AggregateIntensity(ClassifyAll(activities, testProfile()))
	if math.Abs(b.Mix.Total()-100) > 1e-9 {
		t.Errorf("Mix total = %v, want 100", b.Mix.Total())
	}

	var sum float64
	for _, s := range b.Overall {
		sum += s.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("overall percentages sum to %v, want 100", sum)
	}
}
