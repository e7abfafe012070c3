package analysis

import (
	"math"
	"sort"
)

// Template is a reference intensity distribution
type Template struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	LowPct  float64 `json:"lowPct"`
	MidPct  float64 `json:"midPct"`
	HighPct float64 `json:"highPct"`
}

// Templates returns the reference distributions in tie-break order
func Templates() []Template {
	return []Template{
		{Name: "polarized", Label: "Polarized", LowPct: 75, MidPct: 5, HighPct: 20},
		{Name: "pyramidal", Label: "Pyramidal", LowPct: 70, MidPct: 22, HighPct: 8},
		{Name: "threshold", Label: "Threshold", LowPct: 45, MidPct: 45, HighPct: 10},
		{Name: "hiit", Label: "HIIT", LowPct: 50, MidPct: 10, HighPct: 40},
		{Name: "base", Label: "Base", LowPct: 90, MidPct: 8, HighPct: 2},
		{Name: "even", Label: "Even", LowPct: 34, MidPct: 33, HighPct: 33},
	}
}

// TemplateMatch is a template's fit against an observed mix. Lower scores fit better.
type TemplateMatch struct {
	Template Template `json:"template"`
	Score    float64  `json:"score"`
	Best     bool     `json:"best"`
}

// TemplateScore is the root-mean-square difference across the three bands
func TemplateScore(mix IntensityMix, t Template) float64 {
	dl := mix.LowPct - t.LowPct
	dm := mix.MidPct - t.MidPct
	dh := mix.HighPct - t.HighPct
	return math.Sqrt((dl*dl + dm*dm + dh*dh) / 3)
}

// MatchDistribution scores every template and returns them ranked ascending
// by score. Equal scores keep template order; the first entry is marked best.
func MatchDistribution(mix IntensityMix) []TemplateMatch {
	templates := Templates()
	matches := make([]TemplateMatch, len(templates))
	for i, t := range templates {
		matches[i] = TemplateMatch{Template: t, Score: TemplateScore(mix, t)}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})
	matches[0].Best = true
	return matches
}

// BestMatch returns the best-fitting template, if any were scored
func BestMatch(matches []TemplateMatch) (TemplateMatch, bool) {
	for _, m := range matches {
		if m.Best {
			return m, true
		}
	}
	return TemplateMatch{}, false
}
