package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dori/taskdeck/internal/ui/views"
)

func TestScreenForAuthMode(t *testing.T) {
	if got := screenForAuthMode(views.AuthLogin); got != ScreenLogin {
		t.Errorf("login mode maps to %v", got)
	}
	if got := screenForAuthMode(views.AuthRegister); got != ScreenRegister {
		t.Errorf("register mode maps to %v", got)
	}
}

// The auth form switches modes on ctrl+r; the header must follow.
func TestScreenFollowsAuthModeToggle(t *testing.T) {
	v := views.NewAuthView(nil, views.AuthLogin)
	if got := screenForAuthMode(v.Mode()); got.String() != "Login" {
		t.Fatalf("initial screen = %v", got)
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if got := screenForAuthMode(v.Mode()); got.String() != "Register" {
		t.Errorf("screen after toggle = %v", got)
	}

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if got := screenForAuthMode(v.Mode()); got.String() != "Login" {
		t.Errorf("screen after second toggle = %v", got)
	}
}
