package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"fricu/internal/analysis"
	"fricu/internal/service"
	"fricu/internal/store"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenHelp
	ScreenProfile
)

// profileSubject tags profile edits made from the terminal
const profileSubject = "tui"

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	activities ActivitiesModel
	help       HelpModel
	profile    *ProfileForm
	shortHelp  help.Model

	// Services
	queryService *service.QueryService
	syncService  *service.SyncService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App showing query
func NewApp(queryService *service.QueryService, syncService *service.SyncService, units Units, query analysis.Query) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		syncService:  syncService,
		dashboard:    NewDashboardModel(queryService, units, query),
		activities:   NewActivitiesModel(units),
		help:         NewHelpModel(),
		shortHelp:    help.New(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	return a.dashboard.Init()
}

type profileLoadedMsg struct {
	profile store.Profile
	err     error
}

type profileSavedMsg struct {
	err error
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help = a.help.SetWidth(msg.Width)
		a.shortHelp.Width = msg.Width
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(msg)
		if msg.data != nil {
			a.activities = a.activities.SetActivities(msg.data.Report.Activities)
		}
		return a, cmd

	case profileLoadedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Loading profile failed: %v", msg.err)
			return a, nil
		}
		a.profile = NewProfileForm(msg.profile)
		a.prevScreen = a.screen
		a.screen = ScreenProfile
		return a, a.profile.Form().Init()

	case profileSavedMsg:
		if msg.err != nil {
			a.status = fmt.Sprintf("Saving profile failed: %v", msg.err)
			return a, nil
		}
		a.status = "Profile saved"
		return a, a.reload(a.dashboard.Query())
	}

	if a.screen == ScreenProfile {
		return a.updateProfile(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch {
	case key.Matches(km, keys.Quit):
		return a, tea.Quit
	case key.Matches(km, keys.Help):
		if a.screen == ScreenHelp {
			a.screen = a.prevScreen
		} else {
			a.prevScreen = a.screen
			a.screen = ScreenHelp
		}
		return a, nil
	case key.Matches(km, keys.Back):
		if a.screen == ScreenHelp {
			a.screen = a.prevScreen
		}
		return a, nil
	case key.Matches(km, keys.Tab):
		if a.screen == ScreenDashboard {
			a.screen = ScreenActivities
		} else {
			a.screen = ScreenDashboard
		}
		return a, nil
	case key.Matches(km, keys.Refresh):
		a.status = ""
		return a, a.reload(a.dashboard.Query())
	case key.Matches(km, keys.Sport):
		q := a.dashboard.Query()
		q.Sport = nextSport(q.Sport)
		return a, a.reload(q)
	case key.Matches(km, keys.Profile):
		return a, a.loadProfile
	}

	if w, ok := windowFor(km.String()); ok {
		q := a.dashboard.Query()
		q.Window = w
		return a, a.reload(q)
	}

	if a.screen == ScreenActivities {
		var cmd tea.Cmd
		a.activities, cmd = a.activities.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) reload(q analysis.Query) tea.Cmd {
	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.WithQuery(q)
	return cmd
}

func (a *App) loadProfile() tea.Msg {
	p, err := a.queryService.Profile(context.Background())
	return profileLoadedMsg{profile: p, err: err}
}

func (a *App) updateProfile(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, keys.Back) {
		a.profile = nil
		a.screen = a.prevScreen
		return a, nil
	}

	form, cmd := a.profile.Form().Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.profile.form = f
	}

	switch a.profile.Form().State {
	case huh.StateCompleted:
		p, err := a.profile.Profile()
		a.profile = nil
		a.screen = a.prevScreen
		if err != nil {
			return a, func() tea.Msg { return profileSavedMsg{err: err} }
		}
		return a, func() tea.Msg {
			return profileSavedMsg{err: a.syncService.SaveProfile(context.Background(), p, profileSubject)}
		}
	case huh.StateAborted:
		a.profile = nil
		a.screen = a.prevScreen
		return a, nil
	}
	return a, cmd
}

// nextSport cycles all sports, then each known sport
func nextSport(s store.Sport) store.Sport {
	if s == "" {
		return store.Sports[0]
	}
	for i, sport := range store.Sports {
		if sport == s && i+1 < len(store.Sports) {
			return store.Sports[i+1]
		}
	}
	return ""
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenHelp:
		content = a.help.View()
	case ScreenProfile:
		if a.profile != nil {
			content = a.profile.Form().View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, a.renderFooter())
}

func (a *App) renderHeader() string {
	q := a.dashboard.Query()
	sport := "all sports"
	if q.Sport != "" {
		sport = string(q.Sport)
	}
	return headerStyle.Render("Fricu Training Load · " + sport)
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		window analysis.Window
	}{
		{"1", "30d", analysis.Window30},
		{"2", "90d", analysis.Window90},
		{"3", "180d", analysis.Window180},
		{"4", "365d", analysis.Window365},
		{"5", "All", analysis.WindowAll},
	}

	current := a.dashboard.Query().Window
	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}
		label := "[" + item.key + "] " + item.label
		if current == item.window {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	screen := "Dashboard"
	if a.screen == ScreenActivities {
		screen = "Activities"
	}
	nav += "   " + navActiveStyle.Render(screen) + navInactiveStyle.Render(" [tab]")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	var lines []string
	if a.status != "" {
		lines = append(lines, statusStyle.Render(a.status))
	}
	if a.screen != ScreenHelp && a.screen != ScreenProfile {
		lines = append(lines, statusStyle.Render(a.shortHelp.View(keys)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
