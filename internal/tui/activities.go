package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fricu/internal/analysis"
)

// ActivitiesModel lists every classified activity of the current report
type ActivitiesModel struct {
	units      Units
	activities []analysis.ClassifiedActivity
	cursor     int
	offset     int
	pageSize   int
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(units Units) ActivitiesModel {
	return ActivitiesModel{
		units:    units,
		pageSize: 15,
	}
}

// SetActivities replaces the list, newest first, and resets the cursor
func (m ActivitiesModel) SetActivities(items []analysis.ClassifiedActivity) ActivitiesModel {
	sorted := append([]analysis.ClassifiedActivity(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Activity.Date.After(sorted[j].Activity.Date)
	})
	m.activities = sorted
	m.cursor = 0
	m.offset = 0
	return m
}

// Selected returns the activity under the cursor
func (m ActivitiesModel) Selected() (analysis.ClassifiedActivity, bool) {
	i := m.offset + m.cursor
	if i < 0 || i >= len(m.activities) {
		return analysis.ClassifiedActivity{}, false
	}
	return m.activities[i], true
}

func (m ActivitiesModel) page() []analysis.ClassifiedActivity {
	end := m.offset + m.pageSize
	if end > len(m.activities) {
		end = len(m.activities)
	}
	if m.offset >= end {
		return nil
	}
	return m.activities[m.offset:end]
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (ActivitiesModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	total := len(m.activities)
	switch {
	case key.Matches(km, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if m.offset > 0 {
			m.offset -= m.pageSize
			m.cursor = m.pageSize - 1
		}
	case key.Matches(km, keys.Down):
		if m.cursor < len(m.page())-1 {
			m.cursor++
		} else if m.offset+m.pageSize < total {
			m.offset += m.pageSize
			m.cursor = 0
		}
	case key.Matches(km, keys.PageUp):
		if m.offset > 0 {
			m.offset -= m.pageSize
			if m.offset < 0 {
				m.offset = 0
			}
			m.cursor = 0
		}
	case key.Matches(km, keys.PageDown):
		if m.offset+m.pageSize < total {
			m.offset += m.pageSize
			m.cursor = 0
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if len(m.activities) == 0 {
		return "\n  No activities in this window."
	}

	var sections []string

	page := m.page()
	title := cardTitleStyle.Render(fmt.Sprintf("Activities (%d-%d of %d)",
		m.offset+1, m.offset+len(page), len(m.activities)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("  %-10s  %-9s  %s  %8s  %10s  %4s  %5s  %4s  %-4s  %-12s",
		"Date", "Sport", padRight("Name", 24), "Time", "Distance", "TSS", "NP", "HR", "Zone", "Classified by"))
	sections = append(sections, header)

	for i, ca := range page {
		a := ca.Activity

		dist := "-"
		if a.Sport.IsDistanceSport() && a.DistanceKm > 0 {
			dist = m.units.FormatDistance(a.DistanceKm)
		}
		np := "-"
		if a.HasPower() {
			np = fmt.Sprintf("%dW", *a.NormalizedPower)
		}
		hr := "-"
		if a.HasHeartRate() {
			hr = fmt.Sprintf("%d", *a.AvgHeartRate)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-9s  %s  %8s  %10s  %4d  %5s  %4s  %-4s  %-12s",
			cursor,
			a.Date.Format("2006-01-02"),
			a.Sport,
			padRight(activityName(a), 24),
			formatDuration(a.DurationSec),
			dist,
			a.TSS,
			np,
			hr,
			ca.Classification.Zone,
			ca.Classification.Path,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	if sel, ok := m.Selected(); ok {
		sections = append(sections, statusStyle.Render("  "+m.describe(sel)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// describe explains how the selected activity was classified
func (m ActivitiesModel) describe(ca analysis.ClassifiedActivity) string {
	c := ca.Classification
	parts := fmt.Sprintf("%s: %s via %s", c.Zone, c.Zone.Description(), c.Path)
	if c.PowerZone != analysis.ZoneUnknown {
		parts += fmt.Sprintf(" · power %s", c.PowerZone)
	}
	if c.HeartRateZone != analysis.ZoneUnknown {
		parts += fmt.Sprintf(" · heart rate %s", c.HeartRateZone)
	}
	return parts
}
