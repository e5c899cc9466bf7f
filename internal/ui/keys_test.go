package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/help"
)

var _ help.KeyMap = KeyMap{}

func TestShortHelpRendersFooterLine(t *testing.T) {
	h := help.New()
	line := h.View(DefaultKeyMap())
	for _, want := range []string{"up", "down", "open", "add", "search", "help", "quit"} {
		if !strings.Contains(line, want) {
			t.Errorf("short help line missing %q: %q", want, line)
		}
	}
}

func TestFullHelpListsEveryGroup(t *testing.T) {
	h := help.New()
	h.ShowAll = true
	out := h.View(DefaultKeyMap())
	for _, want := range []string{"prev page", "next page", "edit", "delete", "toggle done", "refresh", "cycle filter", "theme", "logout", "back"} {
		if !strings.Contains(out, want) {
			t.Errorf("full help missing %q", want)
		}
	}
}
