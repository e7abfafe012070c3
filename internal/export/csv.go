package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"fricu/internal/analysis"
)

var loadHeader = []string{
	"date", "tss", "ctl", "atl", "tsb", "intensity_factor",
	"aerobic_tiss", "anaerobic_tiss",
	"aerobic_long_term", "anaerobic_long_term",
	"aerobic_short_term", "anaerobic_short_term",
}

// ToCSV writes the report's daily load series to path
func ToCSV(report *analysis.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, report); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the daily load series, one row per day
func WriteCSV(out io.Writer, report *analysis.Report) error {
	w := csv.NewWriter(out)

	if err := w.Write(loadHeader); err != nil {
		return err
	}
	for _, p := range report.Load {
		row := []string{
			p.Date.Format("2006-01-02"),
			formatFloat(p.TSS),
			formatFloat(p.CTL),
			formatFloat(p.ATL),
			formatFloat(p.TSB),
			formatFloat(p.IntensityFactor),
			formatFloat(p.AerobicTISS),
			formatFloat(p.AnaerobicTISS),
			formatFloat(p.AerobicLongTermStress),
			formatFloat(p.AnaerobicLongTermStress),
			formatFloat(p.AerobicShortTermStress),
			formatFloat(p.AnaerobicShortTermStress),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteZonesCSV writes the overall zone histogram
func WriteZonesCSV(out io.Writer, report *analysis.Report) error {
	w := csv.NewWriter(out)

	if err := w.Write([]string{"zone", "description", "duration_sec", "percent"}); err != nil {
		return err
	}
	for _, s := range report.Intensity.Overall {
		row := []string{s.Name, s.Zone.Description(), strconv.Itoa(s.DurationSec), formatFloat(s.Percent)}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
