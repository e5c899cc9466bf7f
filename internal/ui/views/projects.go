package views

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/list"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// ProjectsMode represents the current input mode of the projects view
type ProjectsMode int

const (
	ProjectsModeNormal ProjectsMode = iota
	ProjectsModeSearch
	ProjectsModeForm
	ProjectsModeConfirmDelete
)

// OpenProjectMsg asks the root model to open one project's task screen
type OpenProjectMsg struct {
	Project model.Project
}

// LogoutRequestMsg asks the root model to log out and show the login screen
type LogoutRequestMsg struct{}

// Messages private to the projects screen. Every message carries the screen
// generation it was issued under; stale responses (the user reloaded or the
// screen was rebuilt) are dropped instead of applied.
type projectsLoadedMsg struct {
	gen      int
	projects []model.Project
	err      error
}

type projectSavedMsg struct {
	gen     int
	project *model.Project
	created bool
	err     error
}

type projectDeletedMsg struct {
	gen int
	id  int64
	err error
}

// projectFilters is the filter cycle for projects; overdue is task-only.
var projectFilters = []list.StatusFilter{list.FilterAll, list.FilterActive, list.FilterCompleted}

// screenGen numbers view instances. Responses carry the generation of the
// view that issued them; a response for a replaced view is dropped instead
// of applied to a screen the user has left.
var screenGen atomic.Int64

func nextGen() int {
	return int(screenGen.Add(1))
}

// projectForm is the create/edit form state
type projectForm struct {
	title   textinput.Model
	desc    textinput.Model
	focus   int
	editing *model.Project // nil when creating
}

// ProjectsView is the dashboard: the project list with search, filter and
// pagination, plus the create/edit/delete flows.
type ProjectsView struct {
	app  *app.App
	ctrl *list.Controller[model.Project]

	mode    ProjectsMode
	cursor  int
	gen     int
	loading bool
	busy    bool // a mutation request is outstanding

	search  textinput.Model
	form    projectForm
	confirm *model.Project

	spinner spinner.Model
	errMsg  string
	status  string

	width  int
	height int
}

// NewProjectsView creates the dashboard view
func NewProjectsView(application *app.App) ProjectsView {
	search := textinput.New()
	search.Placeholder = "Search projects..."
	search.CharLimit = 100

	s := spinner.New()
	s.Spinner = spinner.Dot

	return ProjectsView{
		app:     application,
		ctrl:    list.NewController[model.Project](application.Config.ProjectsPageSize),
		gen:     nextGen(),
		loading: true,
		search:  search,
		spinner: s,
	}
}

// IsInputMode reports whether the view is capturing text input
func (v ProjectsView) IsInputMode() bool {
	return v.mode == ProjectsModeSearch || v.mode == ProjectsModeForm
}

// Init loads the project list
func (v ProjectsView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

// SetSize updates the view dimensions
func (v ProjectsView) SetSize(width, height int) ProjectsView {
	v.width = width
	v.height = height
	return v
}

// load fetches all projects.
func (v ProjectsView) load() tea.Cmd {
	gen := v.gen
	client := v.app.Client
	return func() tea.Msg {
		projects, err := client.ListProjects(context.Background())
		return projectsLoadedMsg{gen: gen, projects: projects, err: err}
	}
}

// Update handles messages
func (v ProjectsView) Update(msg tea.Msg) (ProjectsView, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading && !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case projectsLoadedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			// Previous items stand; only the error is surfaced.
			v.errMsg = "Failed to load projects"
			return v, nil
		}
		v.errMsg = ""
		v.ctrl.SetItems(msg.projects)
		v.cursor = 0
		return v, nil

	case projectSavedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = "Failed to save project"
			return v, nil
		}
		v.errMsg = ""
		if msg.created {
			v.ctrl.Prepend(*msg.project)
			v.status = "Project created"
		} else {
			v.ctrl.ReplaceItem(*msg.project)
			v.status = "Project updated"
		}
		v.mode = ProjectsModeNormal
		return v, nil

	case projectDeletedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = "Failed to delete project"
			return v, nil
		}
		v.errMsg = ""
		v.ctrl.Remove(msg.id)
		v.status = "Project deleted"
		if v.cursor > 0 {
			v.cursor--
		}
		return v, nil

	case tea.KeyMsg:
		v.status = ""
		switch v.mode {
		case ProjectsModeSearch:
			return v.updateSearch(msg)
		case ProjectsModeForm:
			return v.updateForm(msg)
		case ProjectsModeConfirmDelete:
			return v.updateConfirm(msg)
		default:
			return v.updateNormal(msg)
		}
	}

	return v, nil
}

func (v ProjectsView) updateNormal(msg tea.KeyMsg) (ProjectsView, tea.Cmd) {
	page := v.ctrl.View()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(page.Items)-1 {
			v.cursor++
		}
	case "left", "h", "pgup":
		v.ctrl.PrevPage()
		v.cursor = 0
	case "right", "l", "pgdown":
		v.ctrl.NextPage()
		v.cursor = 0
	case "/":
		v.mode = ProjectsModeSearch
		v.search.Focus()
		return v, textinput.Blink
	case "f":
		v.ctrl.SetFilter(nextFilter(projectFilters, v.ctrl.Filter()))
		v.cursor = 0
	case "r":
		v.loading = true
		return v, tea.Batch(v.spinner.Tick, v.load())
	case "a":
		if v.busy {
			return v, nil
		}
		v.form = newProjectForm(nil)
		v.mode = ProjectsModeForm
		return v, textinput.Blink
	case "e":
		if v.busy {
			return v, nil
		}
		if p, ok := v.selected(page); ok {
			v.form = newProjectForm(&p)
			v.mode = ProjectsModeForm
			return v, textinput.Blink
		}
	case "d":
		if v.busy {
			return v, nil
		}
		if p, ok := v.selected(page); ok {
			v.confirm = &p
			v.mode = ProjectsModeConfirmDelete
		}
	case "enter":
		if p, ok := v.selected(page); ok {
			return v, func() tea.Msg { return OpenProjectMsg{Project: p} }
		}
	case "ctrl+l":
		return v, func() tea.Msg { return LogoutRequestMsg{} }
	}
	return v, nil
}

func (v ProjectsView) selected(page list.Page[model.Project]) (model.Project, bool) {
	if v.cursor < 0 || v.cursor >= len(page.Items) {
		return model.Project{}, false
	}
	return page.Items[v.cursor], true
}

func (v ProjectsView) updateSearch(msg tea.KeyMsg) (ProjectsView, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		v.mode = ProjectsModeNormal
		v.search.Blur()
		if msg.String() == "esc" {
			v.search.SetValue("")
			v.ctrl.SetSearch("")
		}
		v.cursor = 0
		return v, nil
	}
	var cmd tea.Cmd
	v.search, cmd = v.search.Update(msg)
	v.ctrl.SetSearch(v.search.Value())
	v.cursor = 0
	return v, cmd
}

func (v ProjectsView) updateForm(msg tea.KeyMsg) (ProjectsView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = ProjectsModeNormal
		return v, nil
	case "tab", "shift+tab", "up", "down":
		if v.form.focus == 0 {
			v.form.title.Blur()
			v.form.desc.Focus()
			v.form.focus = 1
		} else {
			v.form.desc.Blur()
			v.form.title.Focus()
			v.form.focus = 0
		}
		return v, nil
	case "enter":
		return v.submitForm()
	}

	var cmd tea.Cmd
	if v.form.focus == 0 {
		v.form.title, cmd = v.form.title.Update(msg)
	} else {
		v.form.desc, cmd = v.form.desc.Update(msg)
	}
	return v, cmd
}

func (v ProjectsView) submitForm() (ProjectsView, tea.Cmd) {
	if v.busy {
		return v, nil
	}
	title := strings.TrimSpace(v.form.title.Value())
	description := strings.TrimSpace(v.form.desc.Value())
	if title == "" {
		v.errMsg = "Title is required"
		return v, nil
	}

	v.busy = true
	v.errMsg = ""
	gen := v.gen
	client := v.app.Client
	editing := v.form.editing

	request := func() tea.Msg {
		if editing != nil {
			p, err := client.UpdateProject(context.Background(), editing.ID, model.UpdateProjectRequest{
				Title:       &title,
				Description: &description,
			})
			return projectSavedMsg{gen: gen, project: p, err: err}
		}
		p, err := client.CreateProject(context.Background(), model.CreateProjectRequest{
			Title:       title,
			Description: description,
		})
		return projectSavedMsg{gen: gen, project: p, created: true, err: err}
	}
	return v, tea.Batch(v.spinner.Tick, request)
}

func (v ProjectsView) updateConfirm(msg tea.KeyMsg) (ProjectsView, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		if v.confirm == nil || v.busy {
			v.mode = ProjectsModeNormal
			return v, nil
		}
		v.busy = true
		v.mode = ProjectsModeNormal
		gen := v.gen
		id := v.confirm.ID
		client := v.app.Client
		v.confirm = nil
		return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
			err := client.DeleteProject(context.Background(), id)
			return projectDeletedMsg{gen: gen, id: id, err: err}
		})
	case "esc", "n":
		v.confirm = nil
		v.mode = ProjectsModeNormal
	}
	return v, nil
}

// nextFilter advances through the given filter cycle.
func nextFilter(cycle []list.StatusFilter, current list.StatusFilter) list.StatusFilter {
	for i, f := range cycle {
		if f == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// View renders the view
func (v ProjectsView) View() string {
	styles := theme.Current.Styles

	if v.mode == ProjectsModeForm {
		return v.renderForm()
	}

	var b strings.Builder

	header := "Projects"
	if user := v.app.Session.User(); user != nil {
		header = fmt.Sprintf("Projects · %s", user.Name)
	}
	b.WriteString(styles.Title.Render(header))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render(fmt.Sprintf("filter: %s", v.ctrl.Filter())))
	if v.mode == ProjectsModeSearch || v.search.Value() != "" {
		b.WriteString("  ")
		b.WriteString(styles.Input.Render(v.search.View()))
	}
	b.WriteString("\n\n")

	page := v.ctrl.View()

	if v.loading && v.ctrl.Len() == 0 {
		b.WriteString(v.spinner.View() + " " + styles.Label.Render("Loading projects..."))
	} else if len(page.Items) == 0 {
		b.WriteString(styles.Label.Render("No projects. Press 'a' to create one."))
	} else {
		for i, p := range page.Items {
			b.WriteString(v.renderProject(p, i == v.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(fmt.Sprintf("page %d/%d · %d project(s)",
		page.Number, max(1, page.TotalPages), page.TotalItems)))
	b.WriteString("\n")

	if v.mode == ProjectsModeConfirmDelete && v.confirm != nil {
		b.WriteString(styles.Error.Render(
			fmt.Sprintf("Delete %q and all its tasks? (y/n)", v.confirm.Title)))
		b.WriteString("\n")
	}
	if v.errMsg != "" {
		b.WriteString(styles.Error.Render(v.errMsg))
		b.WriteString("\n")
	} else if v.status != "" {
		b.WriteString(styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	return b.String()
}

func (v ProjectsView) renderProject(p model.Project, selected bool) string {
	styles := theme.Current.Styles

	style := styles.RowNormal
	if selected {
		style = styles.RowSelected
	} else if p.IsComplete() {
		style = styles.RowDone
	}

	line := fmt.Sprintf("%s  %d/%d tasks · %.0f%%",
		p.Title, p.CompletedTasks, p.TotalTasks, p.ProgressPercentage)
	if p.Description != "" {
		line += "  " + p.Description
	}
	return style.Render(truncate(line, v.width-4))
}

func (v ProjectsView) renderForm() string {
	styles := theme.Current.Styles

	title := "New project"
	if v.form.editing != nil {
		title = "Edit project"
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n\n")

	titleStyle, descStyle := styles.InputFocused, styles.Input
	if v.form.focus == 1 {
		titleStyle, descStyle = styles.Input, styles.InputFocused
	}
	b.WriteString(titleStyle.Render(v.form.title.View()))
	b.WriteString("\n")
	b.WriteString(descStyle.Render(v.form.desc.View()))
	b.WriteString("\n\n")

	if v.busy {
		b.WriteString(v.spinner.View() + " " + styles.Label.Render("Saving..."))
	} else if v.errMsg != "" {
		b.WriteString(styles.Error.Render(v.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Render("enter: save · tab: next field · esc: cancel"))

	return styles.Panel.Render(b.String())
}

func newProjectForm(editing *model.Project) projectForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000

	if editing != nil {
		title.SetValue(editing.Title)
		desc.SetValue(editing.Description)
	}

	return projectForm{title: title, desc: desc, editing: editing}
}

// truncate cuts a rendered line to fit the given width
func truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
