package tui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"fricu/internal/config"
)

const kmPerMile = 1.609344

// Units provides unit conversion and formatting based on user preferences
type Units struct {
	cfg config.DisplayConfig
}

// NewUnits creates a new Units helper with the given display config
func NewUnits(cfg config.DisplayConfig) Units {
	return Units{cfg: cfg}
}

// FormatDistance formats a distance in kilometers in the user's preferred unit
func (u Units) FormatDistance(km float64) string {
	return humanize.CommafWithDigits(u.convert(km), 1) + " " + u.DistanceLabel()
}

// FormatDistanceValue returns just the numeric distance value (no unit label)
func (u Units) FormatDistanceValue(km float64) string {
	return fmt.Sprintf("%.1f", u.convert(km))
}

func (u Units) convert(km float64) float64 {
	if u.IsMiles() {
		return km / kmPerMile
	}
	return km
}

// DistanceLabel returns the short unit label ("mi" or "km")
func (u Units) DistanceLabel() string {
	if u.IsMiles() {
		return "mi"
	}
	return "km"
}

// IsMiles returns true if distance unit is miles
func (u Units) IsMiles() bool {
	return u.cfg.DistanceUnit == "mi"
}

// formatDuration renders seconds as "1h 05m" or "45m"
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %02dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatCount renders integers with thousands separators
func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatSigned renders a value with an explicit sign, as used for TSB
func formatSigned(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.0f", v)
	}
	return fmt.Sprintf("%.0f", v)
}

// truncateName shortens s to max display cells, counting wide runes
func truncateName(s string, max int) string {
	return runewidth.Truncate(s, max, "…")
}

// padRight pads s to width display cells
func padRight(s string, width int) string {
	return runewidth.FillRight(truncateName(s, width), width)
}
