package analysis

import (
	"math"
	"testing"
	"time"
)

func TestCalculateFitnessTrend(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		dailyLoads []DailyLoad
		opts       LoadOptions
		checkFn    func(t *testing.T, metrics []DailyLoadPoint)
	}{
		{
			name:       "empty daily loads without range",
			dailyLoads: []DailyLoad{},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if metrics != nil {
					t.Errorf("expected nil, got %v", metrics)
				}
			},
		},
		{
			name: "single day load steps from the seeds",
			dailyLoads: []DailyLoad{
				{Date: baseDate, TSS: 100, DurationSec: 3600},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 1 {
					t.Fatalf("expected 1 metric, got %d", len(metrics))
				}
				// CTL = 45 + (100-45)/42, ATL = 50 + (100-50)/7
				if math.Abs(metrics[0].CTL-46.3095) > 0.001 {
					t.Errorf("CTL = %v, want ~46.3095", metrics[0].CTL)
				}
				if math.Abs(metrics[0].ATL-57.1429) > 0.001 {
					t.Errorf("ATL = %v, want ~57.1429", metrics[0].ATL)
				}
				if math.Abs(metrics[0].TSB-(-10.8333)) > 0.001 {
					t.Errorf("TSB = %v, want ~-10.8333", metrics[0].TSB)
				}
			},
		},
		{
			name: "explicit range without loads decays from the seeds",
			opts: LoadOptions{From: baseDate, To: baseDate.AddDate(0, 0, 2)},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 3 {
					t.Fatalf("expected 3 metrics, got %d", len(metrics))
				}
				if math.Abs(metrics[0].CTL-43.9286) > 0.001 {
					t.Errorf("day 0 CTL = %v, want ~43.9286", metrics[0].CTL)
				}
				if math.Abs(metrics[0].ATL-42.8571) > 0.001 {
					t.Errorf("day 0 ATL = %v, want ~42.8571", metrics[0].ATL)
				}
				for i := 1; i < len(metrics); i++ {
					if metrics[i].CTL >= metrics[i-1].CTL || metrics[i].ATL >= metrics[i-1].ATL {
						t.Errorf("day %d should decay: CTL %v -> %v, ATL %v -> %v", i,
							metrics[i-1].CTL, metrics[i].CTL, metrics[i-1].ATL, metrics[i].ATL)
					}
					if metrics[i].TSS != 0 || metrics[i].IntensityFactor != 0 {
						t.Errorf("day %d should be empty, got TSS=%v IF=%v", i, metrics[i].TSS, metrics[i].IntensityFactor)
					}
				}
			},
		},
		{
			name: "consecutive daily loads - builds fitness",
			dailyLoads: func() []DailyLoad {
				loads := make([]DailyLoad, 14)
				for i := range loads {
					loads[i] = DailyLoad{Date: baseDate.AddDate(0, 0, i), TSS: 100, DurationSec: 3600}
				}
				return loads
			}(),
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 14 {
					t.Fatalf("expected 14 metrics, got %d", len(metrics))
				}
				for i := 1; i < len(metrics); i++ {
					if metrics[i].CTL <= metrics[i-1].CTL {
						t.Errorf("CTL should increase: day %d CTL=%v, day %d CTL=%v",
							i-1, metrics[i-1].CTL, i, metrics[i].CTL)
					}
				}
				if metrics[6].ATL <= metrics[6].CTL {
					t.Errorf("After 7 days, ATL should be higher than CTL: ATL=%v, CTL=%v",
						metrics[6].ATL, metrics[6].CTL)
				}
			},
		},
		{
			name: "gap in training - fills missing days",
			dailyLoads: []DailyLoad{
				{Date: baseDate, TSS: 100},
				{Date: baseDate.AddDate(0, 0, 5), TSS: 100},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 6 {
					t.Fatalf("expected 6 metrics (filling gaps), got %d", len(metrics))
				}
				for i := range metrics {
					expected := baseDate.AddDate(0, 0, i)
					if !metrics[i].Date.Equal(expected) {
						t.Errorf("metric %d date = %v, want %v", i, metrics[i].Date, expected)
					}
				}
				if metrics[4].CTL >= metrics[0].CTL {
					t.Errorf("CTL should decay during rest: day 0 CTL=%v, day 4 CTL=%v",
						metrics[0].CTL, metrics[4].CTL)
				}
			},
		},
		{
			name: "multiple activities same day - sums TSS",
			dailyLoads: []DailyLoad{
				{Date: baseDate.Add(7 * time.Hour), TSS: 50},
				{Date: baseDate.Add(18 * time.Hour), TSS: 50},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 1 {
					t.Fatalf("expected 1 metric, got %d", len(metrics))
				}
				single := CalculateFitnessTrend([]DailyLoad{{Date: baseDate, TSS: 100}}, LoadOptions{})
				if math.Abs(metrics[0].CTL-single[0].CTL) > 1e-9 {
					t.Errorf("CTL with split loads = %v, want %v", metrics[0].CTL, single[0].CTL)
				}
				if metrics[0].TSS != 100 {
					t.Errorf("TSS = %v, want 100", metrics[0].TSS)
				}
			},
		},
		{
			name: "unsorted input - should still work",
			dailyLoads: []DailyLoad{
				{Date: baseDate.AddDate(0, 0, 2), TSS: 100},
				{Date: baseDate, TSS: 100},
				{Date: baseDate.AddDate(0, 0, 1), TSS: 100},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 3 {
					t.Fatalf("expected 3 metrics, got %d", len(metrics))
				}
				if !metrics[0].Date.Before(metrics[1].Date) {
					t.Error("metrics should be sorted by date")
				}
			},
		},
		{
			name: "intensity factor is duration weighted across power activities",
			dailyLoads: []DailyLoad{
				{Date: baseDate, TSS: 100, DurationSec: 3600, PowerIF: 1.0},
				{Date: baseDate, TSS: 25, DurationSec: 3600, PowerIF: 0.5},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if math.Abs(metrics[0].IntensityFactor-0.75) > 1e-9 {
					t.Errorf("IntensityFactor = %v, want 0.75", metrics[0].IntensityFactor)
				}
			},
		},
		{
			name: "intensity factor estimated from TSS without power",
			dailyLoads: []DailyLoad{
				{Date: baseDate, TSS: 100, DurationSec: 3600},
			},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if math.Abs(metrics[0].IntensityFactor-1.0) > 1e-9 {
					t.Errorf("IntensityFactor = %v, want 1.0", metrics[0].IntensityFactor)
				}
				// At IF 1.0 the default curve splits the day evenly
				if math.Abs(metrics[0].AerobicTISS-50) > 1e-9 || math.Abs(metrics[0].AnaerobicTISS-50) > 1e-9 {
					t.Errorf("TISS split = %v/%v, want 50/50", metrics[0].AerobicTISS, metrics[0].AnaerobicTISS)
				}
			},
		},
		{
			name: "days follow the configured time zone",
			dailyLoads: []DailyLoad{
				{Date: time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC), TSS: 80},
			},
			opts: LoadOptions{Location: time.FixedZone("UTC+2", 2*60*60)},
			checkFn: func(t *testing.T, metrics []DailyLoadPoint) {
				if len(metrics) != 1 {
					t.Fatalf("expected 1 metric, got %d", len(metrics))
				}
				y, m, d := metrics[0].Date.Date()
				if y != 2024 || m != time.January || d != 2 {
					t.Errorf("Date = %v, want 2024-01-02 local", metrics[0].Date)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateFitnessTrend(tt.dailyLoads, tt.opts)
			tt.checkFn(t, result)
		})
	}
}

func TestCalculateFitnessTrendSplitsSumToTotals(t *testing.T) {
	baseDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	loads := []DailyLoad{
		{Date: baseDate, TSS: 60, DurationSec: 5400, PowerIF: 0.65},
		{Date: baseDate.AddDate(0, 0, 1), TSS: 110, DurationSec: 3600, PowerIF: 1.05},
		{Date: baseDate.AddDate(0, 0, 4), TSS: 150, DurationSec: 4800},
		{Date: baseDate.AddDate(0, 0, 9), TSS: 40, DurationSec: 2700, PowerIF: 0.55},
	}

	for _, fraction := range []float64{0, 0.1, 0.5} {
		metrics := CalculateFitnessTrend(loads, LoadOptions{SeedAnaerobicFraction: fraction})
		for _, p := range metrics {
			if math.Abs(p.AerobicTISS+p.AnaerobicTISS-p.TSS) > 1e-9 {
				t.Errorf("%s: TISS %v + %v != TSS %v", p.Date.Format(dayKeyLayout), p.AerobicTISS, p.AnaerobicTISS, p.TSS)
			}
			if math.Abs(p.AerobicLongTermStress+p.AnaerobicLongTermStress-p.CTL) > 1e-9 {
				t.Errorf("%s: long-term split does not sum to CTL %v", p.Date.Format(dayKeyLayout), p.CTL)
			}
			if math.Abs(p.AerobicShortTermStress+p.AnaerobicShortTermStress-p.ATL) > 1e-9 {
				t.Errorf("%s: short-term split does not sum to ATL %v", p.Date.Format(dayKeyLayout), p.ATL)
			}
			if math.Abs(p.TSB-(p.CTL-p.ATL)) > 1e-9 {
				t.Errorf("%s: TSB = %v, want CTL-ATL", p.Date.Format(dayKeyLayout), p.TSB)
			}
		}
	}
}

func TestCalculateFitnessTrendMonotonicInLoad(t *testing.T) {
	baseDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	opts := LoadOptions{To: baseDate.AddDate(0, 0, 10)}

	lighter := CalculateFitnessTrend([]DailyLoad{
		{Date: baseDate, TSS: 50},
		{Date: baseDate.AddDate(0, 0, 3), TSS: 80},
	}, opts)
	heavier := CalculateFitnessTrend([]DailyLoad{
		{Date: baseDate, TSS: 50},
		{Date: baseDate.AddDate(0, 0, 3), TSS: 120},
	}, opts)

	if len(lighter) != len(heavier) {
		t.Fatalf("series lengths differ: %d vs %d", len(lighter), len(heavier))
	}
	for i := range lighter {
		if i < 3 {
			if lighter[i].CTL != heavier[i].CTL || lighter[i].ATL != heavier[i].ATL {
				t.Errorf("day %d should be unaffected by a later load", i)
			}
			continue
		}
		if heavier[i].CTL <= lighter[i].CTL {
			t.Errorf("day %d CTL = %v, want > %v", i, heavier[i].CTL, lighter[i].CTL)
		}
		if heavier[i].ATL <= lighter[i].ATL {
			t.Errorf("day %d ATL = %v, want > %v", i, heavier[i].ATL, lighter[i].ATL)
		}
	}
}

func TestCalculateFitnessTrendDoesNotModifyInput(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loads := []DailyLoad{
		{Date: baseDate.AddDate(0, 0, 2), TSS: 30},
		{Date: baseDate, TSS: 70},
	}
	CalculateFitnessTrend(loads, LoadOptions{})

	if !loads[0].Date.Equal(baseDate.AddDate(0, 0, 2)) || loads[1].TSS != 70 {
		t.Errorf("input was reordered: %v", loads)
	}
}

func TestGetCurrentFitness(t *testing.T) {
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := GetCurrentFitness(nil); got != (DailyLoadPoint{}) {
		t.Errorf("GetCurrentFitness(nil) = %+v, want zero", got)
	}

	metrics := CalculateFitnessTrend([]DailyLoad{
		{Date: baseDate, TSS: 100},
		{Date: baseDate.AddDate(0, 0, 1), TSS: 50},
		{Date: baseDate.AddDate(0, 0, 2), TSS: 200},
	}, LoadOptions{})
	current := GetCurrentFitness(metrics)

	if !current.Date.Equal(baseDate.AddDate(0, 0, 2)) {
		t.Errorf("Date = %v, want %v", current.Date, baseDate.AddDate(0, 0, 2))
	}
	if current.TSS != 200 {
		t.Errorf("TSS = %v, want 200", current.TSS)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	got := StartOfDay(time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC), loc)
	want := time.Date(2024, 6, 9, 0, 0, 0, 0, loc)

	if !got.Equal(want) {
		t.Errorf("StartOfDay() = %v, want %v", got, want)
	}
	if got := StartOfDay(time.Date(2024, 6, 10, 3, 0, 0, 0, time.UTC), nil); !got.Equal(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("StartOfDay(nil loc) = %v", got)
	}
}

func TestFormDescription(t *testing.T) {
	tests := []struct {
		tsb      float64
		expected string
	}{
		{30, "Very fresh (possibly detrained)"},
		{25.1, "Very fresh (possibly detrained)"},
		{25, "Fresh and ready to race"},
		{15, "Fresh and ready to race"},
		{10.1, "Fresh and ready to race"},
		{10, "Neutral - good for training"},
		{5, "Neutral - good for training"},
		{0.1, "Neutral - good for training"},
		{0, "Slightly fatigued"},
		{-5, "Slightly fatigued"},
		{-9.9, "Slightly fatigued"},
		{-10, "Tired but building fitness"},
		{-15, "Tired but building fitness"},
		{-24.9, "Tired but building fitness"},
		{-25, "Very fatigued - rest needed"},
		{-30, "Very fatigued - rest needed"},
		{-50, "Very fatigued - rest needed"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormDescription(tt.tsb)
			if result != tt.expected {
				t.Errorf("FormDescription(%v) = %q, want %q", tt.tsb, result, tt.expected)
			}
		})
	}
}
