package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"

	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var date string
	var from string
	var to string
	var strategy string
	var clarity string
	var apply bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Auto-schedule open tasks into a day window",
		Long: strings.TrimSpace(`
Pick a time window on a day and bin-pack open tasks into its free gaps.

Tasks due or dated on the planned day go first, then shorter tasks, then
higher priority. A task that does not fit the remaining space of the current
gap is skipped (never retried in a later gap); the summary reports how many
of the eligible tasks were scheduled.

Without --apply this is a dry run: placements are printed but nothing is
written.
`),
		Example: strings.TrimSpace(`
# Dry-run a morning plan
dayplan plan --date 2026-03-02 --from 08:00 --to 12:00

# Persist the placements, low-effort tasks only
dayplan plan --date 2026-03-02 --from 16:00 --to 18:00 --clarity low-effort --apply
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, err := parseDate(date)
			if err != nil {
				return writeErr(cmd, err)
			}
			start, err := interval.ParseClock(from)
			if err != nil {
				return writeErr(cmd, err)
			}
			end, err := interval.ParseClock(to)
			if err != nil {
				return writeErr(cmd, err)
			}
			// The engine tolerates any window; the minimum selection size is
			// a UI rule, enforced here at the boundary.
			if end-start < interval.SlotMinutes {
				return writeErr(cmd, fmt.Errorf("window must be at least %d minutes", interval.SlotMinutes))
			}

			var cl model.Clarity
			if strings.TrimSpace(clarity) != "" {
				cl = model.Clarity(strings.TrimSpace(clarity))
				if !model.ValidClarity(cl) {
					return writeErr(cmd, errors.New("invalid --clarity (expected low-effort|normal|deep-focus)"))
				}
			}
			if strings.TrimSpace(strategy) != "" {
				if err := app.Plans.Use(strings.TrimSpace(strategy)); err != nil {
					return writeErr(cmd, err)
				}
			}

			res, err := agenda.RunPlan(context.Background(), s, db, app.Plans, d, interval.New(start, end), cl, apply)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := writeOut(cmd, app, res); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "scheduled %d of %d tasks\n", len(res.Placements), res.Candidates)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", todayDate(), "Day to plan (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "", "Window start (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (HH:MM)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Scheduling strategy (default: greedy)")
	cmd.Flags().StringVar(&clarity, "clarity", "", "Only tasks with this clarity level")
	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the placements (default: dry run)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newStrategiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List scheduling strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeOut(cmd, app, map[string]any{
				"active":     app.Plans.ActiveName(),
				"strategies": app.Plans.Names(),
			})
		},
	}
	return cmd
}
