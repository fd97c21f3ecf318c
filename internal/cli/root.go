package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"dayplan-cli/internal/format"
	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"
	"dayplan-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	PrettyJSON bool
	Format     string

	// Plans is the strategy registry for this invocation. Owned by the App
	// (not the package) so parallel sessions and tests never share selection
	// state.
	Plans *plan.Registry
}

func NewRootCmd() *cobra.Command {
	app := &App{Plans: plan.NewRegistry()}

	cmd := &cobra.Command{
		Use:          "dayplan",
		Short:        "Day planner (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive day view
  dayplan

  # Scriptable commands
  dayplan tasks list

  # Auto-schedule unplanned tasks into this morning
  dayplan plan --date 2026-03-02 --from 08:00 --to 12:00 --apply

  # Direct day lookup (shortcut for: dayplan agenda --date <date>)
  dayplan 2026-03-02
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("DAYPLAN_DIR", ""), "Path to store dir (advanced: overrides workspace resolution; use only for fixtures/tests)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("DAYPLAN_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DAYPLAN_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newAgendaCmd(app))
	cmd.AddCommand(newPlanCmd(app))
	cmd.AddCommand(newStrategiesCmd(app))
	cmd.AddCommand(newWorkspaceCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db, app.Plans)
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}

	// Workspace-first:
	// 1) --workspace
	// 2) ~/.dayplan/config.json currentWorkspace
	// 3) default workspace ("default")
	if app.Workspace != "" {
		d, err := store.WorkspaceDir(app.Workspace)
		if err != nil {
			return "", err
		}
		app.Dir = d
		return d, nil
	}
	if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
		d, err := store.WorkspaceDir(cfg.CurrentWorkspace)
		if err != nil {
			return "", err
		}
		app.Workspace = cfg.CurrentWorkspace
		app.Dir = d
		return d, nil
	}
	app.Workspace = "default"
	d, err := store.WorkspaceDir(app.Workspace)
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	s := store.Store{Dir: dir}
	db, err := s.Load(context.Background())
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
