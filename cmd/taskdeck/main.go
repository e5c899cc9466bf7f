package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/notify"
	"github.com/dori/taskdeck/internal/ui"
	"github.com/dori/taskdeck/internal/ui/theme"
)

var version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "taskdeck",
		Short: "Terminal client for the task-management backend",
		Long:  "taskdeck manages your projects and tasks against a remote task-management API from the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			themeName, _ := cmd.Flags().GetString("theme")
			return runTUI(themeName)
		},
	}
	root.Flags().String("theme", "", "Theme name (nord, dracula)")

	loginCmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in and persist the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(args[0])
		},
	}

	registerCmd := &cobra.Command{
		Use:   "register <name> <email>",
		Short: "Create an account and persist the session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(args[0], args[1])
		},
	}

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout()
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami()
		},
	}

	remindCmd := &cobra.Command{
		Use:   "remind",
		Short: "Send desktop notifications for overdue and due-today tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemind()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taskdeck v%s\n", version)
		},
	}

	root.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, remindCmd, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(themeName string) error {
	if themeName != "" {
		if t, ok := theme.ByName(themeName); ok {
			theme.SetTheme(t)
		} else {
			fmt.Fprintf(os.Stderr, "Unknown theme %q, using default\n", themeName)
		}
	}

	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	p := tea.NewProgram(ui.NewRootModel(application), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runLogin(email string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	user, err := application.Session.Login(context.Background(), model.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runRegister(name, email string) error {
	password, err := readPassword()
	if err != nil {
		return err
	}

	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	user, err := application.Session.Register(context.Background(), model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Registered and logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func runLogout() error {
	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	application.Session.Logout()
	fmt.Println("Logged out")
	return nil
}

func runWhoami() error {
	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	user := application.Session.User()
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}

// runRemind walks every project's tasks and raises a desktop notification
// per project that has overdue or due-today tasks.
func runRemind() error {
	application, err := app.New(nil)
	if err != nil {
		return err
	}
	defer application.Close()

	if !application.Session.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'taskdeck login' first")
	}

	ctx := context.Background()
	projects, err := application.Client.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	notifier := notify.NewNotifier()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, p := range projects {
		tasks, err := application.Client.ListTasks(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to list tasks of %q: %w", p.Title, err)
		}

		overdue, dueToday := 0, 0
		for _, t := range tasks {
			switch {
			case t.IsOverdue():
				overdue++
			case t.IsDueToday():
				dueToday++
			}
		}

		if overdue > 0 {
			notifier.SendOverdue(p.Title, overdue)
			fmt.Fprintf(w, "%s\t%d overdue\n", p.Title, overdue)
		}
		if dueToday > 0 {
			notifier.SendDueToday(p.Title, dueToday)
			fmt.Fprintf(w, "%s\t%d due today\n", p.Title, dueToday)
		}
	}

	return nil
}

// readPassword prompts for a password without echoing it.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("password must not be empty")
	}
	return string(raw), nil
}
