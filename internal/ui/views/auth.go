package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dori/taskdeck/internal/api"
	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/session"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// AuthMode selects between the login and register forms
type AuthMode int

const (
	AuthLogin AuthMode = iota
	AuthRegister
)

// AuthenticatedMsg tells the root model a session is active
type AuthenticatedMsg struct {
	User *model.User
}

// authResultMsg carries the outcome of a login/register request
type authResultMsg struct {
	mode AuthMode
	user *model.User
	err  error
}

// Input indexes for the auth form. Name only exists in register mode.
const (
	authFieldName = iota
	authFieldEmail
	authFieldPassword
	authFieldCount
)

// AuthView renders the login and registration forms
type AuthView struct {
	app    *app.App
	mode   AuthMode
	inputs []textinput.Model
	focus  int

	// submitting debounces the form: no second request may start while one
	// is outstanding.
	submitting bool
	spinner    spinner.Model
	errMsg     string

	width  int
	height int
}

// NewAuthView creates the auth view in the given starting mode
func NewAuthView(application *app.App, mode AuthMode) AuthView {
	inputs := make([]textinput.Model, authFieldCount)

	name := textinput.New()
	name.Placeholder = "Name"
	name.CharLimit = 100
	inputs[authFieldName] = name

	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 200
	inputs[authFieldEmail] = email

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 200
	inputs[authFieldPassword] = password

	s := spinner.New()
	s.Spinner = spinner.Dot

	v := AuthView{
		app:     application,
		mode:    mode,
		inputs:  inputs,
		spinner: s,
	}
	v.focus = v.firstField()
	v.inputs[v.focus].Focus()
	return v
}

// Mode returns the current form mode
func (v AuthView) Mode() AuthMode { return v.mode }

func (v AuthView) firstField() int {
	if v.mode == AuthRegister {
		return authFieldName
	}
	return authFieldEmail
}

// Init starts cursor blinking
func (v AuthView) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize updates the view dimensions
func (v AuthView) SetSize(width, height int) AuthView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v AuthView) Update(msg tea.Msg) (AuthView, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.submitting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case authResultMsg:
		v.submitting = false
		if msg.err != nil {
			v.errMsg = authErrorMessage(msg.mode, msg.err)
			return v, nil
		}
		user := msg.user
		return v, func() tea.Msg { return AuthenticatedMsg{User: user} }

	case tea.KeyMsg:
		if v.submitting {
			// One request at a time; drop input until it settles.
			return v, nil
		}
		switch msg.String() {
		case "tab", "down":
			v = v.moveFocus(1)
			return v, nil
		case "shift+tab", "up":
			v = v.moveFocus(-1)
			return v, nil
		case "ctrl+r":
			return v.toggleMode(), nil
		case "enter":
			if v.focus == authFieldPassword {
				return v.submit()
			}
			v = v.moveFocus(1)
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.inputs[v.focus], cmd = v.inputs[v.focus].Update(msg)
	return v, cmd
}

func (v AuthView) toggleMode() AuthView {
	if v.mode == AuthLogin {
		v.mode = AuthRegister
	} else {
		v.mode = AuthLogin
	}
	v.errMsg = ""
	v.inputs[v.focus].Blur()
	v.focus = v.firstField()
	v.inputs[v.focus].Focus()
	return v
}

func (v AuthView) moveFocus(delta int) AuthView {
	first := v.firstField()
	v.inputs[v.focus].Blur()
	v.focus += delta
	if v.focus < first {
		v.focus = authFieldPassword
	}
	if v.focus > authFieldPassword {
		v.focus = first
	}
	v.inputs[v.focus].Focus()
	return v
}

func (v AuthView) submit() (AuthView, tea.Cmd) {
	name := strings.TrimSpace(v.inputs[authFieldName].Value())
	email := strings.TrimSpace(v.inputs[authFieldEmail].Value())
	password := v.inputs[authFieldPassword].Value()

	if email == "" || password == "" || (v.mode == AuthRegister && name == "") {
		v.errMsg = "All fields are required"
		return v, nil
	}

	v.submitting = true
	v.errMsg = ""
	mode := v.mode

	request := func() tea.Msg {
		var (
			user *model.User
			err  error
		)
		if mode == AuthRegister {
			user, err = v.app.Session.Register(context.Background(), model.RegisterRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
		} else {
			user, err = v.app.Session.Login(context.Background(), model.LoginRequest{
				Email:    email,
				Password: password,
			})
		}
		return authResultMsg{mode: mode, user: user, err: err}
	}

	return v, tea.Batch(v.spinner.Tick, request)
}

// authErrorMessage maps a classified failure to the user-facing text.
func authErrorMessage(mode AuthMode, err error) string {
	if err == session.ErrInvalidResponse {
		return "Invalid response from server"
	}
	switch api.KindOf(err) {
	case api.KindUnauthorized:
		if mode == AuthLogin {
			return "Invalid email or password"
		}
		return "Registration failed. Please try again."
	case api.KindConflict:
		return "Email already in use. Please login instead."
	case api.KindValidation:
		return "Please check your information and try again."
	default:
		if mode == AuthRegister {
			return "Registration failed. Please try again."
		}
		return "Login failed. Please try again."
	}
}

// View renders the view
func (v AuthView) View() string {
	styles := theme.Current.Styles

	title := "taskdeck · Sign in"
	action := "login"
	other := "register"
	if v.mode == AuthRegister {
		title = "taskdeck · Create account"
		action = "register"
		other = "login"
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	for i := v.firstField(); i <= authFieldPassword; i++ {
		style := styles.Input
		if i == v.focus {
			style = styles.InputFocused
		}
		b.WriteString(style.Render(v.inputs[i].View()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.submitting {
		b.WriteString(v.spinner.View() + " " + styles.Label.Render("Signing in..."))
	} else if v.errMsg != "" {
		b.WriteString(styles.Error.Render(v.errMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.Footer.Render(
		"enter: " + action + " · ctrl+r: switch to " + other + " · ctrl+c: quit"))

	panel := styles.Panel.Render(b.String())
	if v.width == 0 {
		return panel
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, panel)
}
