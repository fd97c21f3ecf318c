package cli

import (
	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/interval"

	"github.com/spf13/cobra"
)

type agendaVM struct {
	Date      string              `json:"date"`
	Items     []agenda.Item       `json:"items"`
	FreeSlots []agendaFreeSlotsVM `json:"freeSlots"`
}

type agendaFreeSlotsVM struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Minutes int    `json:"minutes"`
}

func buildAgendaVM(items []agenda.Item, date string, dayWindow interval.Interval) agendaVM {
	vm := agendaVM{Date: date, Items: items, FreeSlots: []agendaFreeSlotsVM{}}
	if vm.Items == nil {
		vm.Items = []agenda.Item{}
	}
	occupied := make([]interval.Interval, 0, len(items))
	for _, it := range items {
		occupied = append(occupied, it.Interval())
	}
	for _, slot := range interval.FreeSlots(occupied, dayWindow) {
		vm.FreeSlots = append(vm.FreeSlots, agendaFreeSlotsVM{
			From:    interval.FormatClock(slot.Start),
			To:      interval.FormatClock(slot.End),
			Minutes: slot.Duration(),
		})
	}
	return vm
}

func newAgendaCmd(app *App) *cobra.Command {
	var date string
	var from string
	var to string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show one day's agenda with overlap columns and free slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
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

			items := agenda.BuildDay(db, d)
			return writeOut(cmd, app, buildAgendaVM(items, d, interval.New(start, end)))
		},
	}

	cmd.Flags().StringVar(&date, "date", todayDate(), "Day to show (YYYY-MM-DD)")
	cmd.Flags().StringVar(&from, "from", "08:00", "Day window start (HH:MM)")
	cmd.Flags().StringVar(&to, "to", "18:00", "Day window end (HH:MM)")
	return cmd
}
