package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Calendar event commands",
	}

	cmd.AddCommand(newEventsAddCmd(app))
	cmd.AddCommand(newEventsListCmd(app))
	cmd.AddCommand(newEventsRmCmd(app))

	return cmd
}

func newEventsAddCmd(app *App) *cobra.Command {
	var date string
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar event",
		Example: strings.TrimSpace(`
dayplan events add "Standup" --date 2026-03-02 --from 09:00 --to 09:15
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			title := strings.TrimSpace(args[0])
			if title == "" {
				return writeErr(cmd, errors.New("missing title"))
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
			if start >= end {
				return writeErr(cmd, errors.New("--from must be before --to"))
			}

			id, err := store.NewEventID(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			e := model.Event{
				ID:           id,
				Title:        title,
				Date:         d,
				StartMinutes: start,
				EndMinutes:   end,
				CreatedAt:    time.Now().UTC(),
			}
			db.UpsertEvent(e)
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, e)
		},
	}

	cmd.Flags().StringVar(&date, "date", todayDate(), "Event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "End time (HH:MM)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newEventsListCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if date != "" {
				return writeOut(cmd, app, db.EventsOn(date))
			}
			out := db.Events
			if out == nil {
				out = []model.Event{}
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only events on this date (YYYY-MM-DD)")
	return cmd
}

func newEventsRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !db.RemoveEvent(id) {
				return writeErr(cmd, errNotFound("event", id))
			}
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}
	return cmd
}
