package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/ui/theme"
	"github.com/dori/taskdeck/internal/ui/views"
)

// RootModel is the main application model that manages screens
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	screen   Screen
	auth     views.AuthView
	projects views.ProjectsView
	tasks    views.TasksView

	statusMsg string
}

// NewRootModel creates a new root model. A restored session lands on the
// dashboard; otherwise the login screen is shown first.
func NewRootModel(application *app.App) RootModel {
	h := help.New()
	h.ShowAll = false

	screen := ScreenLogin
	if application.Session.IsAuthenticated() {
		screen = ScreenProjects
	}

	return RootModel{
		app:      application,
		keys:     DefaultKeyMap(),
		help:     h,
		screen:   screen,
		auth:     views.NewAuthView(application, views.AuthLogin),
		projects: views.NewProjectsView(application),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	if m.screen == ScreenProjects {
		return m.projects.Init()
	}
	return m.auth.Init()
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header and status line
		contentHeight := m.height - 3
		m.auth = m.auth.SetSize(m.width, contentHeight)
		m.projects = m.projects.SetSize(m.width, contentHeight)
		m.tasks = m.tasks.SetSize(m.width, contentHeight)
		return m, nil

	case views.AuthenticatedMsg:
		m.screen = ScreenProjects
		m.statusMsg = "Welcome, " + msg.User.Name + "!"
		m.projects = views.NewProjectsView(m.app).SetSize(m.width, m.height-3)
		return m, m.projects.Init()

	case views.OpenProjectMsg:
		m.screen = ScreenTasks
		m.tasks = views.NewTasksView(m.app, msg.Project).SetSize(m.width, m.height-3)
		return m, m.tasks.Init()

	case views.BackToProjectsMsg:
		// Reload on return; task mutations change the project counters.
		m.screen = ScreenProjects
		m.projects = views.NewProjectsView(m.app).SetSize(m.width, m.height-3)
		return m, m.projects.Init()

	case views.LogoutRequestMsg:
		m.app.Session.Logout()
		m.screen = ScreenLogin
		m.statusMsg = "Logged out"
		m.auth = views.NewAuthView(m.app, views.AuthLogin).SetSize(m.width, m.height-3)
		return m, m.auth.Init()

	case tea.KeyMsg:
		m.statusMsg = ""

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits; 'q' only outside text input
			if msg.String() == "ctrl+c" || !m.inputActive() {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeCycle):
			m.cycleTheme()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			if !m.inputActive() {
				m.help.ShowAll = !m.help.ShowAll
				return m, nil
			}
		}
	}

	cmd := m.updateScreen(msg)

	// A 401 on any non-auth screen tears the session down; land on login.
	if m.app.SessionExpired() && !m.screen.IsAuthScreen() {
		m.screen = ScreenLogin
		m.statusMsg = "Session expired. Please sign in again."
		m.auth = views.NewAuthView(m.app, views.AuthLogin).SetSize(m.width, m.height-3)
		return m, m.auth.Init()
	}

	return m, cmd
}

// updateScreen delegates a message to the active screen
func (m *RootModel) updateScreen(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.screen {
	case ScreenProjects:
		m.projects, cmd = m.projects.Update(msg)
	case ScreenTasks:
		m.tasks, cmd = m.tasks.Update(msg)
	default:
		m.auth, cmd = m.auth.Update(msg)
		// The form toggles between login and register internally; keep the
		// header in step.
		m.screen = screenForAuthMode(m.auth.Mode())
	}
	return cmd
}

func screenForAuthMode(mode views.AuthMode) Screen {
	if mode == views.AuthRegister {
		return ScreenRegister
	}
	return ScreenLogin
}

// inputActive reports whether the active screen is capturing text input
func (m RootModel) inputActive() bool {
	switch m.screen {
	case ScreenProjects:
		return m.projects.IsInputMode()
	case ScreenTasks:
		return m.tasks.IsInputMode()
	default:
		return true // auth forms are always text input
	}
}

// cycleTheme switches to the next available theme
func (m *RootModel) cycleTheme() {
	available := theme.Available()
	for i, t := range available {
		if t.Name == theme.Current.Theme.Name {
			theme.SetTheme(available[(i+1)%len(available)])
			return
		}
	}
	theme.SetTheme(available[0])
}

// View renders the application
func (m RootModel) View() string {
	styles := theme.Current.Styles

	var body string
	switch m.screen {
	case ScreenProjects:
		body = m.projects.View()
	case ScreenTasks:
		body = m.tasks.View()
	default:
		body = m.auth.View()
	}

	var b strings.Builder
	header := styles.Header.Render("taskdeck") +
		styles.Footer.Render(" · "+m.screen.String())
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(body)

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render(m.statusMsg))
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}
