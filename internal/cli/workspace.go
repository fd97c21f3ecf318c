package cli

import (
	"strings"

	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Workspace commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := store.ListWorkspaces()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"current":    cfg.CurrentWorkspace,
				"workspaces": names,
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Select the current workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, err := store.WorkspaceDir(name); err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentWorkspace = name
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"current": name})
		},
	})

	return cmd
}
