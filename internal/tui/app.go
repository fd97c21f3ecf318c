package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dayplan-cli/internal/agenda"
	"dayplan-cli/internal/interval"
	"dayplan-cli/internal/model"
	"dayplan-cli/internal/plan"
	"dayplan-cli/internal/store"
)

type mode int

const (
	modeDay mode = iota
	modePlan
	modeDetail
)

// Default display window for the day grid.
const (
	dayStartMinutes = 6 * 60
	dayEndMinutes   = 22 * 60
)

type reloadTickMsg struct{}

type appModel struct {
	store store.Store
	db    *store.DB
	plans *plan.Registry

	width  int
	height int

	mode mode
	date string

	items       []agenda.Item
	selectedIdx int

	planWin interval.Interval

	keys     keyMap
	help     help.Model
	showHelp bool

	status string
}

func newAppModel(s store.Store, db *store.DB, plans *plan.Registry) appModel {
	m := appModel{
		store: s,
		db:    db,
		plans: plans,
		mode:  modeDay,
		date:  time.Now().Format("2006-01-02"),
		keys:  newKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

func (m *appModel) refresh() {
	m.items = agenda.BuildDay(m.db, m.date)
	if m.selectedIdx >= len(m.items) {
		m.selectedIdx = len(m.items) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

func (m *appModel) reloadFromDisk() {
	db, err := m.store.Load(context.Background())
	if err != nil {
		m.status = "reload failed: " + err.Error()
		return
	}
	m.db = db
	m.refresh()
}

func (m *appModel) shiftDay(days int) {
	d, err := time.Parse("2006-01-02", m.date)
	if err != nil {
		return
	}
	m.date = d.AddDate(0, 0, days).Format("2006-01-02")
	m.selectedIdx = 0
	m.refresh()
}

func (m appModel) selected() (agenda.Item, bool) {
	if len(m.items) == 0 {
		return agenda.Item{}, false
	}
	return m.items[m.selectedIdx], true
}

func tickReload() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return reloadTickMsg{} })
}

func (m appModel) Init() tea.Cmd { return tickReload() }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case reloadTickMsg:
		m.reloadFromDisk()
		return m, tickReload()

	case tea.KeyMsg:
		switch m.mode {
		case modePlan:
			return m.updatePlan(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateDay(msg)
		}
	}
	return m, nil
}

func (m appModel) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.items)-1 {
			m.selectedIdx++
		}

	case key.Matches(msg, m.keys.PrevDay):
		m.shiftDay(-1)

	case key.Matches(msg, m.keys.NextDay):
		m.shiftDay(1)

	case key.Matches(msg, m.keys.Today):
		m.date = time.Now().Format("2006-01-02")
		m.selectedIdx = 0
		m.refresh()

	case key.Matches(msg, m.keys.Plan):
		m.mode = modePlan
		m.planWin = interval.Interval{
			Start: interval.SnapDown(8*60, interval.SlotMinutes),
			End:   interval.SnapUp(18*60, interval.SlotMinutes),
		}
		m.status = "select planning window, enter to schedule"

	case key.Matches(msg, m.keys.ToggleDone):
		if it, ok := m.selected(); ok && it.Kind == agenda.KindTask {
			m.toggleDone(it.ID)
		}

	case key.Matches(msg, m.keys.Detail):
		if _, ok := m.selected(); ok {
			m.mode = modeDetail
		}
	}
	return m, nil
}

func (m appModel) updatePlan(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		m.mode = modeDay
		m.status = ""

	case key.Matches(msg, m.keys.Up):
		if m.planWin.Start-interval.SlotMinutes >= 0 {
			m.planWin.Start -= interval.SlotMinutes
			m.planWin.End -= interval.SlotMinutes
		}

	case key.Matches(msg, m.keys.Down):
		if m.planWin.End+interval.SlotMinutes <= 24*60 {
			m.planWin.Start += interval.SlotMinutes
			m.planWin.End += interval.SlotMinutes
		}

	case key.Matches(msg, m.keys.GrowWin):
		if m.planWin.End+interval.SlotMinutes <= 24*60 {
			m.planWin.End += interval.SlotMinutes
		}

	case key.Matches(msg, m.keys.ShrinkWin):
		if m.planWin.End-m.planWin.Start > interval.SlotMinutes {
			m.planWin.End -= interval.SlotMinutes
		}

	case key.Matches(msg, m.keys.Confirm):
		res, err := agenda.RunPlan(context.Background(), m.store, m.db, m.plans,
			m.date, m.planWin, "", true)
		if err != nil {
			m.status = "plan failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("scheduled %d of %d tasks", len(res.Placements), res.Candidates)
			if len(res.Failures) > 0 {
				m.status += fmt.Sprintf(" (%d failed to save)", len(res.Failures))
			}
		}
		m.mode = modeDay
		m.refresh()
	}
	return m, nil
}

func (m appModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Cancel):
		m.mode = modeDay
	}
	return m, nil
}

func (m *appModel) toggleDone(id string) {
	t, ok := m.db.FindTask(id)
	if !ok {
		return
	}
	t.Done = !t.Done
	t.UpdatedAt = time.Now()
	m.db.UpsertTask(t)
	if err := m.store.SaveTask(context.Background(), t); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.refresh()
}

func (m appModel) View() string {
	if m.width == 0 {
		return "loading…"
	}

	header := styleHeading.Render(" " + m.date + " ")
	if m.mode == modePlan {
		header += "  " + stylePlanWin.Render(
			fmt.Sprintf(" plan %s–%s (%s) ",
				interval.FormatClock(m.planWin.Start),
				interval.FormatClock(m.planWin.End),
				m.plans.ActiveName()))
	}

	var planWin *interval.Interval
	if m.mode == modePlan {
		planWin = &m.planWin
	}
	sel := ""
	if it, ok := m.selected(); ok {
		sel = it.ID
	}

	gridHeight := m.height - 4
	if gridHeight < 4 {
		gridHeight = 4
	}

	grid := renderDayGrid(m.items, gridOptions{
		From:       dayStartMinutes,
		To:         dayEndMinutes,
		SelectedID: sel,
		PlanWindow: planWin,
		Width:      m.width,
	})

	body := normalizePane(grid, m.width, gridHeight)
	if m.mode == modeDetail {
		body = m.detailView(gridHeight)
	}

	status := styleStatus.Render(m.status)
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		helpView = m.help.FullHelpView(m.keys.FullHelp())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, helpView)
}

func (m appModel) detailView(height int) string {
	it, ok := m.selected()
	if !ok {
		return normalizePane("", m.width, height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", it.Title)
	fmt.Fprintf(&b, "%s – %s\n\n",
		interval.FormatClock(it.Start), interval.FormatClock(it.End))

	if it.Kind == agenda.KindTask {
		if t, found := m.db.FindTask(it.ID); found {
			fmt.Fprintf(&b, "- priority: %d\n- focus: %s\n",
				t.EffectivePriority(), clarityLabel(t.Clarity))
			if t.Done {
				b.WriteString("- done\n")
			}
			if t.Description != "" {
				b.WriteString("\n" + t.Description + "\n")
			}
		}
	}

	rendered := renderMarkdown(b.String(), m.width-2)
	return normalizePane(rendered, m.width, height)
}

func clarityLabel(c model.Clarity) string {
	if c == "" {
		return "unset"
	}
	return string(c)
}
