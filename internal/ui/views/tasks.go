package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/list"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// TasksMode represents the current input mode of the tasks view
type TasksMode int

const (
	TasksModeNormal TasksMode = iota
	TasksModeSearch
	TasksModeForm
	TasksModeConfirmDelete
)

// BackToProjectsMsg asks the root model to return to the dashboard
type BackToProjectsMsg struct{}

// Messages private to the tasks screen, generation-guarded like the
// project messages.
type tasksLoadedMsg struct {
	gen     int
	project *model.Project
	tasks   []model.Task
	err     error
}

type taskSavedMsg struct {
	gen     int
	task    *model.Task
	created bool
	err     error
}

type taskToggledMsg struct {
	gen       int
	task      *model.Task
	completed bool
	err       error
}

type taskDeletedMsg struct {
	gen int
	id  int64
	err error
}

// projectRefreshedMsg carries the re-fetched parent project after a task
// mutation; its progress counters are server-computed.
type projectRefreshedMsg struct {
	gen     int
	project *model.Project
	err     error
}

// taskFilters is the filter cycle for tasks.
var taskFilters = []list.StatusFilter{
	list.FilterAll, list.FilterActive, list.FilterCompleted, list.FilterOverdue,
}

// taskForm is the create/edit form state
type taskForm struct {
	title   textinput.Model
	desc    textinput.Model
	due     textinput.Model
	focus   int
	editing *model.Task // nil when creating
}

// TasksView shows one project's tasks with search, filter, pagination,
// completion toggling and the create/edit/delete flows.
type TasksView struct {
	app     *app.App
	project model.Project
	ctrl    *list.Controller[model.Task]

	mode    TasksMode
	cursor  int
	gen     int
	loading bool
	busy    bool

	search  textinput.Model
	form    taskForm
	confirm *model.Task

	spinner spinner.Model
	errMsg  string
	status  string

	width  int
	height int
}

// NewTasksView creates the task screen for one project
func NewTasksView(application *app.App, project model.Project) TasksView {
	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	s := spinner.New()
	s.Spinner = spinner.Dot

	v := TasksView{
		app:     application,
		project: project,
		ctrl:    list.NewController[model.Task](application.Config.TasksPageSize),
		gen:     nextGen(),
		loading: true,
		search:  search,
		spinner: s,
	}
	return v
}

// IsInputMode reports whether the view is capturing text input
func (v TasksView) IsInputMode() bool {
	return v.mode == TasksModeSearch || v.mode == TasksModeForm
}

// Init loads the project and its tasks
func (v TasksView) Init() tea.Cmd {
	return tea.Batch(v.spinner.Tick, v.load())
}

// SetSize updates the view dimensions
func (v TasksView) SetSize(width, height int) TasksView {
	v.width = width
	v.height = height
	return v
}

// load fetches the project and its full task collection.
func (v TasksView) load() tea.Cmd {
	gen := v.gen
	client := v.app.Client
	projectID := v.project.ID
	return func() tea.Msg {
		project, err := client.GetProject(context.Background(), projectID)
		if err != nil {
			return tasksLoadedMsg{gen: gen, err: err}
		}
		tasks, err := client.ListTasks(context.Background(), projectID)
		if err != nil {
			return tasksLoadedMsg{gen: gen, err: err}
		}
		return tasksLoadedMsg{gen: gen, project: project, tasks: tasks}
	}
}

// refreshProject re-fetches the parent project after a task mutation. The
// progress percentage is a server responsibility; it is never recomputed
// from the local task list.
func (v TasksView) refreshProject() tea.Cmd {
	gen := v.gen
	client := v.app.Client
	projectID := v.project.ID
	return func() tea.Msg {
		project, err := client.GetProject(context.Background(), projectID)
		return projectRefreshedMsg{gen: gen, project: project, err: err}
	}
}

// afterMutation drains the controller's mutation event into a re-fetch cmd.
func (v TasksView) afterMutation() tea.Cmd {
	if !v.ctrl.TakeMutation() {
		return nil
	}
	return v.refreshProject()
}

// Update handles messages
func (v TasksView) Update(msg tea.Msg) (TasksView, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading && !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tasksLoadedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.loading = false
		if msg.err != nil {
			v.errMsg = "Failed to load project details"
			return v, nil
		}
		v.errMsg = ""
		v.project = *msg.project
		v.ctrl.SetItems(msg.tasks)
		v.cursor = 0
		return v, nil

	case taskSavedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = "Failed to save task"
			return v, nil
		}
		v.errMsg = ""
		if msg.created {
			v.ctrl.Prepend(*msg.task)
			v.status = "Task created"
		} else {
			v.ctrl.ReplaceItem(*msg.task)
			v.status = "Task updated"
		}
		v.mode = TasksModeNormal
		return v, v.afterMutation()

	case taskToggledMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = "Failed to update task"
			return v, nil
		}
		v.errMsg = ""
		v.ctrl.ReplaceItem(*msg.task)
		if msg.completed {
			v.status = "Task marked as completed"
		} else {
			v.status = "Task marked as incomplete"
		}
		return v, v.afterMutation()

	case taskDeletedMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		v.busy = false
		if msg.err != nil {
			v.errMsg = "Failed to delete task"
			return v, nil
		}
		v.errMsg = ""
		v.ctrl.Remove(msg.id)
		v.status = "Task deleted"
		if v.cursor > 0 {
			v.cursor--
		}
		return v, v.afterMutation()

	case projectRefreshedMsg:
		if msg.gen != v.gen || msg.err != nil {
			// A failed refresh keeps the stale counters; the next load
			// corrects them.
			return v, nil
		}
		v.project = *msg.project
		return v, nil

	case tea.KeyMsg:
		v.status = ""
		switch v.mode {
		case TasksModeSearch:
			return v.updateSearch(msg)
		case TasksModeForm:
			return v.updateForm(msg)
		case TasksModeConfirmDelete:
			return v.updateConfirm(msg)
		default:
			return v.updateNormal(msg)
		}
	}

	return v, nil
}

func (v TasksView) updateNormal(msg tea.KeyMsg) (TasksView, tea.Cmd) {
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
		v.mode = TasksModeSearch
		v.search.Focus()
		return v, textinput.Blink
	case "f":
		v.ctrl.SetFilter(nextFilter(taskFilters, v.ctrl.Filter()))
		v.cursor = 0
	case "r":
		v.loading = true
		return v, tea.Batch(v.spinner.Tick, v.load())
	case "a":
		if v.busy {
			return v, nil
		}
		v.form = newTaskForm(nil)
		v.mode = TasksModeForm
		return v, textinput.Blink
	case "e":
		if v.busy {
			return v, nil
		}
		if t, ok := v.selected(page); ok {
			v.form = newTaskForm(&t)
			v.mode = TasksModeForm
			return v, textinput.Blink
		}
	case "d":
		if v.busy {
			return v, nil
		}
		if t, ok := v.selected(page); ok {
			v.confirm = &t
			v.mode = TasksModeConfirmDelete
		}
	case "tab", " ":
		if v.busy {
			return v, nil
		}
		if t, ok := v.selected(page); ok {
			return v.toggle(t)
		}
	case "esc":
		return v, func() tea.Msg { return BackToProjectsMsg{} }
	case "ctrl+l":
		return v, func() tea.Msg { return LogoutRequestMsg{} }
	}
	return v, nil
}

func (v TasksView) selected(page list.Page[model.Task]) (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(page.Items) {
		return model.Task{}, false
	}
	return page.Items[v.cursor], true
}

// toggle flips a task's completion. Completing uses the dedicated endpoint;
// uncompleting resends the full record through the generic update because
// the backend has no uncomplete endpoint (an API gap: a partial resend
// would drop fields).
func (v TasksView) toggle(t model.Task) (TasksView, tea.Cmd) {
	v.busy = true
	gen := v.gen
	client := v.app.Client
	projectID := v.project.ID
	completing := !t.Completed

	request := func() tea.Msg {
		var (
			updated *model.Task
			err     error
		)
		if completing {
			updated, err = client.CompleteTask(context.Background(), projectID, t.ID)
		} else {
			updated, err = client.UpdateTask(context.Background(), projectID, t.ID, t.UncompleteRequest())
		}
		return taskToggledMsg{gen: gen, task: updated, completed: completing, err: err}
	}
	return v, tea.Batch(v.spinner.Tick, request)
}

func (v TasksView) updateSearch(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		v.mode = TasksModeNormal
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

func (v TasksView) updateForm(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = TasksModeNormal
		return v, nil
	case "tab", "down":
		v.form = v.form.moveFocus(1)
		return v, nil
	case "shift+tab", "up":
		v.form = v.form.moveFocus(-1)
		return v, nil
	case "enter":
		return v.submitForm()
	}

	var cmd tea.Cmd
	switch v.form.focus {
	case 0:
		v.form.title, cmd = v.form.title.Update(msg)
	case 1:
		v.form.desc, cmd = v.form.desc.Update(msg)
	default:
		v.form.due, cmd = v.form.due.Update(msg)
	}
	return v, cmd
}

func (v TasksView) submitForm() (TasksView, tea.Cmd) {
	if v.busy {
		return v, nil
	}
	title := strings.TrimSpace(v.form.title.Value())
	description := strings.TrimSpace(v.form.desc.Value())
	due := strings.TrimSpace(v.form.due.Value())

	if title == "" {
		v.errMsg = "Title is required"
		return v, nil
	}
	if due != "" {
		if _, err := time.Parse("2006-01-02", due); err != nil {
			v.errMsg = "Due date must be YYYY-MM-DD"
			return v, nil
		}
	}

	v.busy = true
	v.errMsg = ""
	gen := v.gen
	client := v.app.Client
	projectID := v.project.ID
	editing := v.form.editing

	request := func() tea.Msg {
		if editing != nil {
			// Edits keep the current completion status.
			completed := editing.Completed
			req := model.UpdateTaskRequest{
				Title:       &title,
				Description: &description,
				Completed:   &completed,
			}
			if due != "" {
				req.DueDate = &due
			}
			t, err := client.UpdateTask(context.Background(), projectID, editing.ID, req)
			return taskSavedMsg{gen: gen, task: t, err: err}
		}
		t, err := client.CreateTask(context.Background(), projectID, model.CreateTaskRequest{
			Title:       title,
			Description: description,
			DueDate:     due,
		})
		return taskSavedMsg{gen: gen, task: t, created: true, err: err}
	}
	return v, tea.Batch(v.spinner.Tick, request)
}

func (v TasksView) updateConfirm(msg tea.KeyMsg) (TasksView, tea.Cmd) {
	switch msg.String() {
	case "enter", "y":
		if v.confirm == nil || v.busy {
			v.mode = TasksModeNormal
			return v, nil
		}
		v.busy = true
		v.mode = TasksModeNormal
		gen := v.gen
		id := v.confirm.ID
		projectID := v.project.ID
		client := v.app.Client
		v.confirm = nil
		return v, tea.Batch(v.spinner.Tick, func() tea.Msg {
			err := client.DeleteTask(context.Background(), projectID, id)
			return taskDeletedMsg{gen: gen, id: id, err: err}
		})
	case "esc", "n":
		v.confirm = nil
		v.mode = TasksModeNormal
	}
	return v, nil
}

// View renders the view
func (v TasksView) View() string {
	styles := theme.Current.Styles

	if v.mode == TasksModeForm {
		return v.renderForm()
	}

	var b strings.Builder

	b.WriteString(styles.Title.Render(v.project.Title))
	b.WriteString("\n")
	if v.project.Description != "" {
		b.WriteString(styles.Subtitle.Render(v.project.Description))
		b.WriteString("\n")
	}
	b.WriteString(styles.Progress.Render(fmt.Sprintf("%d/%d tasks done · %.0f%%",
		v.project.CompletedTasks, v.project.TotalTasks, v.project.ProgressPercentage)))
	b.WriteString("\n")

	b.WriteString(styles.Label.Render(fmt.Sprintf("filter: %s", v.ctrl.Filter())))
	if v.mode == TasksModeSearch || v.search.Value() != "" {
		b.WriteString("  ")
		b.WriteString(styles.Input.Render(v.search.View()))
	}
	b.WriteString("\n\n")

	page := v.ctrl.View()

	if v.loading && v.ctrl.Len() == 0 {
		b.WriteString(v.spinner.View() + " " + styles.Label.Render("Loading tasks..."))
	} else if len(page.Items) == 0 {
		b.WriteString(styles.Label.Render("No tasks. Press 'a' to create one."))
	} else {
		for i, t := range page.Items {
			b.WriteString(v.renderTask(t, i == v.cursor))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(styles.Footer.Render(fmt.Sprintf("page %d/%d · %d task(s)",
		page.Number, max(1, page.TotalPages), page.TotalItems)))
	b.WriteString("\n")

	if v.mode == TasksModeConfirmDelete && v.confirm != nil {
		b.WriteString(styles.Error.Render(
			fmt.Sprintf("Delete task %q? (y/n)", v.confirm.Title)))
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

func (v TasksView) renderTask(t model.Task, selected bool) string {
	styles := theme.Current.Styles

	check := "[ ]"
	style := styles.RowNormal
	if t.Completed {
		check = "[x]"
		style = styles.RowDone
	} else if t.IsOverdue() {
		style = styles.RowOverdue
	}
	if selected {
		style = styles.RowSelected
	}

	line := fmt.Sprintf("%s %s", check, t.Title)
	if due := t.DueLabel(); due != "" {
		line += "  due " + due
		if t.IsOverdue() {
			line += " (overdue)"
		}
	}
	if t.Description != "" {
		line += "  " + t.Description
	}
	return style.Render(truncate(line, v.width-4))
}

func (v TasksView) renderForm() string {
	styles := theme.Current.Styles

	title := "New task"
	if v.form.editing != nil {
		title = "Edit task"
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n\n")

	for i, input := range []textinput.Model{v.form.title, v.form.desc, v.form.due} {
		style := styles.Input
		if i == v.form.focus {
			style = styles.InputFocused
		}
		b.WriteString(style.Render(input.View()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.busy {
		b.WriteString(v.spinner.View() + " " + styles.Label.Render("Saving..."))
	} else if v.errMsg != "" {
		b.WriteString(styles.Error.Render(v.errMsg))
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Render("enter: save · tab: next field · esc: cancel"))

	return styles.Panel.Render(b.String())
}

func (f taskForm) moveFocus(delta int) taskForm {
	inputs := []*textinput.Model{&f.title, &f.desc, &f.due}
	inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(inputs)) % len(inputs)
	inputs[f.focus].Focus()
	return f
}

func newTaskForm(editing *model.Task) taskForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Focus()

	desc := textinput.New()
	desc.Placeholder = "Description"
	desc.CharLimit = 1000

	due := textinput.New()
	due.Placeholder = "Due date (YYYY-MM-DD, optional)"
	due.CharLimit = 10

	if editing != nil {
		title.SetValue(editing.Title)
		desc.SetValue(editing.Description)
		due.SetValue(editing.DueLabel())
	}

	return taskForm{title: title, desc: desc, due: due, editing: editing}
}
