package analysis

import (
	"testing"
	"time"

	"fricu/internal/store"
)

func intPtr(i int) *int {
	return &i
}

func testProfile() store.Profile {
	return store.Profile{DefaultFTPWatts: 250, DefaultThresholdHeartRate: 170, WeightKg: 70}
}

func TestPowerZone(t *testing.T) {
	tests := []struct {
		name     string
		np       int
		ftp      int
		expected Zone
	}{
		{"clamped low", 50, 250, Z1},
		{"recovery", 130, 250, Z1},
		{"endurance", 175, 250, Z2},
		{"tempo", 200, 250, Z3},
		{"sweet spot", 225, 250, SS},
		{"boundary belongs to upper zone", 235, 250, Z4},
		{"threshold", 250, 250, Z4},
		{"vo2max", 280, 250, Z5},
		{"anaerobic", 330, 250, Z6},
		{"neuromuscular", 400, 250, Z7},
		{"zero ftp treated as 1 W", 200, 0, Z7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PowerZone(tt.np, tt.ftp)
			if result != tt.expected {
				t.Errorf("PowerZone(%d, %d) = %v, want %v", tt.np, tt.ftp, result, tt.expected)
			}
		})
	}
}

func TestHeartRateZone(t *testing.T) {
	tests := []struct {
		hr       int
		lthr     int
		expected Zone
	}{
		{100, 170, Z1},
		{125, 170, Z2},
		{140, 170, Z3},
		{155, 170, Z4},
		{165, 170, Z5},
		{170, 170, Z6},
		{175, 170, Z6},
		{185, 170, Z7},
		{150, 0, Z7},
	}

	for _, tt := range tests {
		result := HeartRateZone(tt.hr, tt.lthr)
		if result != tt.expected {
			t.Errorf("HeartRateZone(%d, %d) = %v, want %v", tt.hr, tt.lthr, result, tt.expected)
		}
	}
}

func TestZonesNeverDecreaseWithEffort(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		zone     func(v int) Zone
	}{
		{"power at 250 W FTP", 1, 600, func(np int) Zone { return PowerZone(np, 250) }},
		{"power at 180 W FTP", 1, 600, func(np int) Zone { return PowerZone(np, 180) }},
		{"heart rate at 170 bpm LTHR", 40, 230, func(hr int) Zone { return HeartRateZone(hr, 170) }},
		{"heart rate at 150 bpm LTHR", 40, 230, func(hr int) Zone { return HeartRateZone(hr, 150) }},
		{"load density per hour", 0, 300, func(tss int) Zone { return DensityZone(tss, 3600) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := tt.zone(tt.from)
			if prev == ZoneUnknown {
				t.Fatalf("zone(%d) = unknown", tt.from)
			}
			for v := tt.from + 1; v <= tt.to; v++ {
				z := tt.zone(v)
				if z < prev {
					t.Fatalf("zone(%d) = %v is below zone(%d) = %v", v, z, v-1, prev)
				}
				prev = z
			}
			if prev != Z7 {
				t.Errorf("zone(%d) = %v, want Z7 at the top of the sweep", tt.to, prev)
			}
		})
	}
}

func TestDensityZone(t *testing.T) {
	tests := []struct {
		name     string
		tss      int
		sec      int
		expected Zone
	}{
		{"easy hour", 30, 3600, Z1},
		{"two steady hours", 100, 7200, Z2},
		{"tempo hour", 60, 3600, Z3},
		{"threshold hour", 80, 3600, Z4},
		{"hard hour", 90, 3600, Z5},
		{"very hard hour", 110, 3600, Z6},
		{"race hour", 150, 3600, Z7},
		{"zero duration floors at a minute", 1, 0, Z3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DensityZone(tt.tss, tt.sec)
			if result != tt.expected {
				t.Errorf("DensityZone(%d, %d) = %v, want %v", tt.tss, tt.sec, result, tt.expected)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	date := time.Date(2024, 4, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		activity store.Activity
		profile  store.Profile
		zone     Zone
		path     Path
		hrZone   Zone
	}{
		{
			name:     "power wins over heart rate",
			activity: store.Activity{Date: date, Sport: store.SportCycling, DurationSec: 3600, TSS: 60, NormalizedPower: intPtr(225), AvgHeartRate: intPtr(100)},
			profile:  testProfile(),
			zone:     SS,
			path:     PathPower,
			hrZone:   Z1,
		},
		{
			name:     "heart rate without power",
			activity: store.Activity{Date: date, Sport: store.SportRunning, DurationSec: 3600, TSS: 60, AvgHeartRate: intPtr(155)},
			profile:  testProfile(),
			zone:     Z4,
			path:     PathHeartRate,
			hrZone:   Z4,
		},
		{
			name:     "zero power is treated as missing",
			activity: store.Activity{Date: date, Sport: store.SportCycling, DurationSec: 3600, TSS: 60, NormalizedPower: intPtr(0), AvgHeartRate: intPtr(125)},
			profile:  testProfile(),
			zone:     Z2,
			path:     PathHeartRate,
			hrZone:   Z2,
		},
		{
			name:     "load density fallback",
			activity: store.Activity{Date: date, Sport: store.SportStrength, DurationSec: 3600, TSS: 30},
			profile:  testProfile(),
			zone:     Z1,
			path:     PathLoadDensity,
		},
		{
			name:     "uses the FTP in effect on the activity date",
			activity: store.Activity{Date: date, Sport: store.SportCycling, DurationSec: 3600, TSS: 60, NormalizedPower: intPtr(225)},
			profile: store.Profile{DefaultFTPWatts: 250, Thresholds: []store.ThresholdEntry{
				{Sport: store.SportCycling, EffectiveFrom: date.AddDate(0, -1, 0), FTPWatts: 300},
				{Sport: store.SportCycling, EffectiveFrom: date.AddDate(0, 1, 0), FTPWatts: 150},
			}},
			zone: Z2,
			path: PathPower,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.activity, tt.profile)
			if c.Zone != tt.zone {
				t.Errorf("Zone = %v, want %v", c.Zone, tt.zone)
			}
			if c.Path != tt.path {
				t.Errorf("Path = %v, want %v", c.Path, tt.path)
			}
			if c.HeartRateZone != tt.hrZone {
				t.Errorf("HeartRateZone = %v, want %v", c.HeartRateZone, tt.hrZone)
			}
		})
	}
}

func TestZoneString(t *testing.T) {
	names := make([]string, 0, len(PowerZones))
	for _, z := range PowerZones {
		names = append(names, z.String())
	}
	want := []string{"Z1", "Z2", "Z3", "SS", "Z4", "Z5", "Z6", "Z7"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("PowerZones[%d] = %q, want %q", i, names[i], want[i])
		}
	}
	if ZoneUnknown.String() != "-" {
		t.Errorf("ZoneUnknown.String() = %q", ZoneUnknown.String())
	}
}
