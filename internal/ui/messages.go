package ui

// Screen represents the current active screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenProjects
	ScreenTasks
)

// String returns the display name for a screen
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "Login"
	case ScreenRegister:
		return "Register"
	case ScreenProjects:
		return "Projects"
	case ScreenTasks:
		return "Tasks"
	default:
		return "Unknown"
	}
}

// IsAuthScreen reports whether the screen is part of the auth flow. The
// session-expiry redirect never fires while one of these is active.
func (s Screen) IsAuthScreen() bool {
	return s == ScreenLogin || s == ScreenRegister
}
