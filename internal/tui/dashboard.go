package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"fricu/internal/analysis"
	"fricu/internal/service"
	"fricu/internal/store"
)

const (
	minChartWidth   = 30
	chartHeight     = 10
	zoneBarHeight   = 8
	weeklyBarHeight = 6
	mixBarWidth     = 24
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	queryService *service.QueryService
	units        Units
	query        analysis.Query
	data         *service.DashboardData
	loading      bool
	err          error
	width        int
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(qs *service.QueryService, units Units, query analysis.Query) DashboardModel {
	return DashboardModel{
		queryService: qs,
		units:        units,
		query:        query,
		loading:      true,
	}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData(context.Background(), m.query)
	return dashboardDataMsg{data: data, err: err}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

// Query returns the query the dashboard currently shows
func (m DashboardModel) Query() analysis.Query {
	return m.query
}

// Data returns the last loaded dashboard data, nil before the first load
func (m DashboardModel) Data() *service.DashboardData {
	return m.data
}

// WithQuery returns a model that reloads for a new query
func (m DashboardModel) WithQuery(q analysis.Query) (DashboardModel, tea.Cmd) {
	m.query = q
	m.loading = true
	return m, m.loadData
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.data == nil || m.data.Report.Summary.Count == 0 && len(m.data.Report.Load) == 0 {
		return "\n  No activities yet. Run 'fricu import <file>' or sync from the app."
	}

	r := m.data.Report
	var sections []string

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFitnessCard(r), " ", m.renderSummaryCard(r))
	sections = append(sections, topRow)

	if len(r.Load) > 1 {
		sections = append(sections, m.renderChart(r.Load))
	}

	if r.Intensity.HasData() {
		zoneRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderZones(r.Intensity), " ", m.renderDistribution(r))
		sections = append(sections, zoneRow)
	} else {
		sections = append(sections, mutedStyle.Render("  No classified training time in this window"))
	}

	if len(m.data.WeeklyTSS) > 0 {
		sections = append(sections, m.renderWeeklyLoad())
	}

	sections = append(sections, m.renderRecentActivities())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFitnessCard(r analysis.Report) string {
	title := cardTitleStyle.Render("Current Form")
	cur := r.Current

	trend := ""
	if n := len(r.Load); n > 7 {
		trend = formatSigned(cur.CTL-r.Load[n-8].CTL) + " 7d"
	}

	lines := []string{
		RenderMetric("Fitness (CTL)", fmt.Sprintf("%.1f", cur.CTL), trend),
		RenderMetric("Fatigue (ATL)", fmt.Sprintf("%.1f", cur.ATL), ""),
		lipgloss.JoinHorizontal(lipgloss.Left,
			metricLabelStyle.Render("Form (TSB)"),
			formStyle(cur.TSB).Bold(true).Render(formatSigned(cur.TSB))),
		RenderMetric("Aerobic CTL", fmt.Sprintf("%.1f", cur.AerobicLongTermStress), ""),
		RenderMetric("Anaerobic CTL", fmt.Sprintf("%.1f", cur.AnaerobicLongTermStress), ""),
		"",
		mutedStyle.Render(r.Form),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderSummaryCard(r analysis.Report) string {
	s := r.Summary
	title := cardTitleStyle.Render(fmt.Sprintf("%s → %s", r.From.Format("Jan 02"), r.To.Format("Jan 02 2006")))

	lines := []string{
		RenderMetric("Sessions", formatCount(s.Count), fmt.Sprintf("%d/%d days", s.ActiveDays, s.SpanDays)),
		RenderMetric("Time", formatDuration(s.DurationSec), ""),
		RenderMetric("Distance", m.units.FormatDistance(s.DistanceKm), ""),
		RenderMetric("TSS", formatCount(s.TSS), ""),
		RenderMetric("Energy", formatCount(int(s.Calories+0.5))+" kcal", formatCount(int(s.WorkKJ+0.5))+" kJ"),
		RenderMetric("Climbing", formatCount(int(s.ElevationGainM+0.5))+" m", ""),
	}
	for _, st := range s.BySport {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("  %-9s %3d  %s", st.Sport, st.Count, formatDuration(st.DurationSec))))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(40).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) chartWidth() int {
	w := m.width - 16
	if w < minChartWidth {
		w = 60
	}
	return w
}

func (m DashboardModel) renderChart(points []analysis.DailyLoadPoint) string {
	title := cardTitleStyle.Render("Performance Management")

	ctl := make([]float64, len(points))
	atl := make([]float64, len(points))
	tsb := make([]float64, len(points))
	for i, p := range points {
		ctl[i] = p.CTL
		atl[i] = p.ATL
		tsb[i] = p.TSB
	}

	width := m.chartWidth()
	if len(points) < width {
		width = len(points)
	}

	graph := asciigraph.PlotMany([][]float64{ctl, atl, tsb},
		asciigraph.Height(chartHeight),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
	)
	legend := lipgloss.NewStyle().Foreground(fitnessColor).Render("━ CTL") + "  " +
		errorStyle.Render("━ ATL") + "  " + successStyle.Render("━ TSB")

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph, legend))
}

func (m DashboardModel) renderZones(b analysis.IntensityBreakdown) string {
	title := cardTitleStyle.Render("Time in Zone")

	chart := barchart.New(m.chartWidth()/2, zoneBarHeight)
	bars := make([]barchart.BarData, 0, len(b.Overall))
	for _, s := range b.Overall {
		bars = append(bars, barchart.BarData{
			Label: s.Name,
			Values: []barchart.BarValue{{
				Name:  s.Name,
				Value: float64(s.DurationSec) / 3600,
				Style: zoneStyle(s.Zone),
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	var rows []string
	for _, s := range b.Overall {
		if s.DurationSec == 0 {
			continue
		}
		rows = append(rows, fmt.Sprintf("%s %5.1f%%  %s",
			zoneStyle(s.Zone).Render(fmt.Sprintf("%-2s", s.Name)), s.Percent, formatDuration(s.DurationSec)))
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, chart.View(), strings.Join(rows, "\n")))
}

func (m DashboardModel) renderDistribution(r analysis.Report) string {
	title := cardTitleStyle.Render("Intensity Distribution")
	mix := r.Intensity.Mix

	lines := []string{
		fmt.Sprintf("Low  %s %5.1f%%", RenderProgressBar(mix.LowPct/100, mixBarWidth, zoneColors[analysis.Z2]), mix.LowPct),
		fmt.Sprintf("Mid  %s %5.1f%%", RenderProgressBar(mix.MidPct/100, mixBarWidth, zoneColors[analysis.Z4]), mix.MidPct),
		fmt.Sprintf("High %s %5.1f%%", RenderProgressBar(mix.HighPct/100, mixBarWidth, zoneColors[analysis.Z6]), mix.HighPct),
		"",
	}

	for _, match := range r.Distribution {
		t := match.Template
		line := fmt.Sprintf("%-10s %2.0f/%2.0f/%2.0f  %5.1f", t.Label, t.LowPct, t.MidPct, t.HighPct, match.Score)
		if match.Best {
			line = successStyle.Bold(true).Render("★ " + line)
		} else {
			line = mutedStyle.Render("  " + line)
		}
		lines = append(lines, line)
	}

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, lines...)))
}

func (m DashboardModel) renderWeeklyLoad() string {
	title := cardTitleStyle.Render("Weekly TSS")

	chart := barchart.New(m.chartWidth(), weeklyBarHeight)
	bars := make([]barchart.BarData, 0, len(m.data.WeeklyTSS))
	for i, tss := range m.data.WeeklyTSS {
		bars = append(bars, barchart.BarData{
			Label: m.data.WeeklyLabels[i],
			Values: []barchart.BarValue{{
				Name:  m.data.WeeklyLabels[i],
				Value: tss,
				Style: lipgloss.NewStyle().Foreground(fitnessColor),
			}},
		})
	}
	chart.PushAll(bars)
	chart.Draw()

	last := m.data.WeeklyTSS[len(m.data.WeeklyTSS)-1]
	caption := mutedStyle.Render(fmt.Sprintf("This week %s TSS", formatCount(int(last+0.5))))
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, chart.View(), caption))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities in this window"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-6s  %-9s  %s  %8s  %10s  %4s  %-4s",
		"Date", "Sport", padRight("Name", 22), "Time", "Distance", "TSS", "Zone"))

	rows := []string{header}
	for _, ca := range m.data.RecentActivities {
		rows = append(rows, tableRowStyle.Render(m.activityRow(ca)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m DashboardModel) activityRow(ca analysis.ClassifiedActivity) string {
	a := ca.Activity
	dist := "-"
	if a.Sport.IsDistanceSport() && a.DistanceKm > 0 {
		dist = m.units.FormatDistance(a.DistanceKm)
	}
	return fmt.Sprintf("%-6s  %-9s  %s  %8s  %10s  %4d  %s",
		a.Date.Format("Jan 02"),
		a.Sport,
		padRight(activityName(a), 22),
		formatDuration(a.DurationSec),
		dist,
		a.TSS,
		zoneStyle(ca.Classification.Zone).Render(fmt.Sprintf("%-4s", ca.Classification.Zone)),
	)
}

func activityName(a store.Activity) string {
	if a.Name != "" {
		return a.Name
	}
	return string(a.Sport)
}
