package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"dayplan-cli/internal/model"
	"dayplan-cli/internal/store"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Task commands",
	}

	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksSetCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksRmCmd(app))

	return cmd
}

func newTasksAddCmd(app *App) *cobra.Command {
	var duration int
	var priority int
	var clarity string
	var when string
	var description string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			title := strings.TrimSpace(args[0])
			if title == "" {
				return writeErr(cmd, errors.New("missing title"))
			}

			t := model.Task{
				Title:           title,
				Description:     strings.TrimSpace(description),
				DurationMinutes: duration,
				Priority:        priority,
			}
			if clarity != "" {
				c := model.Clarity(strings.TrimSpace(clarity))
				if !model.ValidClarity(c) {
					return writeErr(cmd, errors.New("invalid --clarity (expected low-effort|normal|deep-focus)"))
				}
				t.Clarity = c
			}
			if strings.TrimSpace(when) != "" {
				dt, err := parseWhen(when)
				if err != nil {
					return writeErr(cmd, err)
				}
				t.When = dt
			}

			id, err := store.NewTaskID(db)
			if err != nil {
				return writeErr(cmd, err)
			}
			now := time.Now().UTC()
			t.ID = id
			t.CreatedAt = now
			t.UpdatedAt = now

			db.UpsertTask(t)
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "Estimated duration in minutes (default 30 when unset)")
	cmd.Flags().IntVar(&priority, "priority", model.PriorityMax, "Priority 1..4 (4 = highest)")
	cmd.Flags().StringVar(&clarity, "clarity", "", "Mental effort (low-effort|normal|deep-focus)")
	cmd.Flags().StringVar(&when, "when", "", "Due/scheduled date (YYYY-MM-DD or 'YYYY-MM-DD HH:MM')")
	cmd.Flags().StringVar(&description, "description", "", "Task description (markdown)")
	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var unscheduled bool
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}

			out := make([]model.Task, 0, len(db.Tasks))
			for _, t := range db.Tasks {
				if unscheduled && (t.Scheduled() || t.Done) {
					continue
				}
				if date != "" && (t.When == nil || t.When.Date != date) {
					continue
				}
				out = append(out, t)
			}
			return writeOut(cmd, app, out)
		},
	}

	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "Only open tasks without a concrete start time")
	cmd.Flags().StringVar(&date, "date", "", "Only tasks with this due/scheduled date (YYYY-MM-DD)")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			return writeOut(cmd, app, t)
		},
	}
	return cmd
}

func newTasksSetCmd(app *App) *cobra.Command {
	var duration int
	var priority int
	var clarity string
	var when string
	var clearWhen bool
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "set <task-id>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}

			if cmd.Flags().Changed("duration") {
				t.DurationMinutes = duration
			}
			if cmd.Flags().Changed("priority") {
				t.Priority = priority
			}
			if cmd.Flags().Changed("clarity") {
				c := model.Clarity(strings.TrimSpace(clarity))
				if !model.ValidClarity(c) {
					return writeErr(cmd, errors.New("invalid --clarity (expected low-effort|normal|deep-focus)"))
				}
				t.Clarity = c
			}
			if cmd.Flags().Changed("title") {
				if strings.TrimSpace(title) == "" {
					return writeErr(cmd, errors.New("empty --title"))
				}
				t.Title = strings.TrimSpace(title)
			}
			if cmd.Flags().Changed("description") {
				t.Description = strings.TrimSpace(description)
			}
			if clearWhen {
				t.When = nil
			} else if cmd.Flags().Changed("when") {
				dt, err := parseWhen(when)
				if err != nil {
					return writeErr(cmd, err)
				}
				t.When = dt
			}
			t.UpdatedAt = time.Now().UTC()

			db.UpsertTask(t)
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 0, "Estimated duration in minutes")
	cmd.Flags().IntVar(&priority, "priority", model.PriorityMax, "Priority 1..4 (4 = highest)")
	cmd.Flags().StringVar(&clarity, "clarity", "", "Mental effort (low-effort|normal|deep-focus)")
	cmd.Flags().StringVar(&when, "when", "", "Due/scheduled date (YYYY-MM-DD or 'YYYY-MM-DD HH:MM')")
	cmd.Flags().BoolVar(&clearWhen, "clear-when", false, "Remove the due/scheduled date")
	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&description, "description", "", "Task description (markdown)")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := db.FindTask(strings.TrimSpace(args[0]))
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			t.Done = true
			t.UpdatedAt = time.Now().UTC()
			db.UpsertTask(t)
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, t)
		},
	}
	return cmd
}

func newTasksRmCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !db.RemoveTask(id) {
				return writeErr(cmd, errNotFound("task", id))
			}
			if err := s.Save(context.Background(), db); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"deleted": id})
		},
	}
	return cmd
}
