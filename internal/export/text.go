package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"fricu/internal/analysis"
)

// WriteText writes a plain-text report for terminals and pipes
func WriteText(out io.Writer, report *analysis.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	sport := "all sports"
	if report.Sport != "" {
		sport = string(report.Sport)
	}
	fmt.Fprintf(tw, "Window\t%s (%s)\n", report.Window, sport)
	if len(report.Load) > 0 {
		fmt.Fprintf(tw, "Range\t%s to %s\n", report.From.Format("2006-01-02"), report.To.Format("2006-01-02"))
	}

	cur := report.Current
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Fitness (CTL)\t%.1f\n", cur.CTL)
	fmt.Fprintf(tw, "Fatigue (ATL)\t%.1f\n", cur.ATL)
	fmt.Fprintf(tw, "Form (TSB)\t%.1f\t%s\n", cur.TSB, report.Form)
	fmt.Fprintf(tw, "Aerobic / anaerobic CTL\t%.1f / %.1f\n", cur.AerobicLongTermStress, cur.AnaerobicLongTermStress)

	s := report.Summary
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Sessions\t%s\t%d active days\n", humanize.Comma(int64(s.Count)), s.ActiveDays)
	fmt.Fprintf(tw, "Span\t%d days\n", s.SpanDays)
	fmt.Fprintf(tw, "Time\t%s h\n", humanize.CommafWithDigits(float64(s.DurationSec)/3600, 1))
	fmt.Fprintf(tw, "Distance\t%s km\n", humanize.CommafWithDigits(s.DistanceKm, 1))
	fmt.Fprintf(tw, "TSS\t%s\n", humanize.Comma(int64(s.TSS)))
	fmt.Fprintf(tw, "Energy\t%s kcal\t%s kJ\n", humanize.Comma(int64(s.Calories+0.5)), humanize.Comma(int64(s.WorkKJ+0.5)))
	for _, st := range s.BySport {
		fmt.Fprintf(tw, "  %s\t%d\t%s h\n", st.Sport, st.Count, humanize.CommafWithDigits(float64(st.DurationSec)/3600, 1))
	}

	if report.Intensity.HasData() {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Zone\tTime (min)\tShare")
		for _, z := range report.Intensity.Overall {
			fmt.Fprintf(tw, "%s\t%d\t%.1f%%\n", z.Name, z.DurationSec/60, z.Percent)
		}
		mix := report.Intensity.Mix
		fmt.Fprintf(tw, "Mix\t%.1f / %.1f / %.1f\n", mix.LowPct, mix.MidPct, mix.HighPct)
		if best, ok := report.BestTemplate(); ok {
			fmt.Fprintf(tw, "Distribution\t%s\t(score %.1f)\n", best.Template.Label, best.Score)
		}
	}

	return tw.Flush()
}
