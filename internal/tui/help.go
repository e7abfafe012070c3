package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"fricu/internal/analysis"
)

// HelpModel is the help screen model
type HelpModel struct {
	help help.Model
}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	h := help.New()
	h.ShowAll = true
	return HelpModel{help: h}
}

// SetWidth sizes the key table
func (m HelpModel) SetWidth(w int) HelpModel {
	m.help.Width = w
	return m
}

// View renders the help screen
func (m HelpModel) View() string {
	sections := []string{
		cardTitleStyle.Render("Keyboard Shortcuts"),
		m.help.View(keys),
		m.renderMetricsHelp(),
		m.renderZonesHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HelpModel) renderMetricsHelp() string {
	lines := []string{"", sectionStyle.Render("Metrics Explained"), ""}

	metrics := []struct {
		name string
		desc string
	}{
		{"TSS", "Training stress score of a session; 100 is one hour at threshold."},
		{"CTL (Fitness)", "Chronic training load, 42 day exponential average of daily TSS."},
		{"ATL (Fatigue)", "Acute training load, 7 day exponential average of daily TSS."},
		{"TSB (Form)", "Training stress balance = CTL - ATL. Positive = fresh."},
		{"Aerobic/Anaerobic", "Daily TSS split by intensity factor; high IF days load the anaerobic side."},
		{"Distribution", "Low/mid/high share of zone time compared with reference templates."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderZonesHelp() string {
	lines := []string{"", sectionStyle.Render("Zones"), ""}
	for _, z := range analysis.PowerZones {
		lines = append(lines, "  "+zoneStyle(z).Bold(true).Render(padRight(z.String(), 3))+" "+mutedStyle.Render(z.Description()))
	}
	lines = append(lines, "", mutedStyle.Render("  Classified by power, then heart rate, then TSS per hour."))
	return strings.Join(lines, "\n")
}
