package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rnwolfe/grind/internal/chart"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
)

// DashAction indicates what ended the dashboard.
type DashAction int

const (
	// DashActionQuit means the user pressed q or ctrl+c.
	DashActionQuit DashAction = iota
	// DashActionStartSession means the user pressed s to start a workout.
	DashActionStartSession
)

// DashData holds everything the dashboard panels draw.
type DashData struct {
	Overview          *tracker.Overview
	Weeks             []tracker.WeekBucket
	AchievementsTotal int
}

// DashLoader fetches fresh dashboard data.
type DashLoader func(ctx context.Context) (DashData, error)

type dashKeyMap struct {
	Start   key.Binding
	Volume  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k dashKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Volume, k.Refresh, k.Quit}
}

func (k dashKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var dashKeys = dashKeyMap{
	Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start workout")),
	Volume:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "volume/count")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

type dashDataMsg DashData
type dashErrMsg struct{ err error }

// DashModel is the bubbletea model for `grind progress`.
type DashModel struct {
	data       DashData
	load       DashLoader
	width      int
	height     int
	loading    bool
	showVolume bool
	err        error
	action     DashAction
	help       help.Model
}

// NewDashModel creates a DashModel that pulls data through load.
func NewDashModel(load DashLoader) *DashModel {
	return &DashModel{load: load, width: 80, height: 24, loading: true, help: help.New()}
}

// RunDash runs the dashboard until the user leaves and returns the exit action.
func RunDash(load DashLoader) (DashAction, error) {
	res, err := tea.NewProgram(NewDashModel(load), tea.WithAltScreen()).Run()
	if err != nil {
		return DashActionQuit, fmt.Errorf("dashboard: %w", err)
	}
	return res.(*DashModel).action, nil
}

func (m *DashModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *DashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case dashDataMsg:
		m.data = DashData(msg)
		m.loading = false
		m.err = nil
	case dashErrMsg:
		m.err = msg.err
		m.loading = false
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *DashModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, dashKeys.Quit):
		m.action = DashActionQuit
		return m, tea.Quit
	case key.Matches(msg, dashKeys.Start):
		if !m.loading {
			m.action = DashActionStartSession
			return m, tea.Quit
		}
	case key.Matches(msg, dashKeys.Volume):
		m.showVolume = !m.showVolume
	case key.Matches(msg, dashKeys.Refresh):
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

func (m *DashModel) fetch() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		if load == nil {
			return dashErrMsg{fmt.Errorf("no data source")}
		}
		d, err := load(context.Background())
		if err != nil {
			return dashErrMsg{err}
		}
		return dashDataMsg(d)
	}
}

func (m *DashModel) View() string {
	if m.loading {
		return "\n  " + ui.Muted.Render("Loading…") + "\n"
	}
	if m.err != nil {
		return "\n  " + ui.Error.Render("Error: "+m.err.Error()) + "\n"
	}
	if m.data.Overview == nil {
		return "\n  " + ui.Muted.Render("Nothing logged yet.") + "\n"
	}
	switch {
	case m.width < 60:
		return m.renderMinimal()
	case m.width >= 120:
		return m.renderTwoColumn()
	default:
		return m.renderStacked()
	}
}

func (m *DashModel) renderTwoColumn() string {
	leftW := m.width/2 - 2
	rightW := m.width - leftW - 4
	left := lipgloss.NewStyle().Width(leftW).Render(lipgloss.JoinVertical(lipgloss.Left,
		renderTrainingPanel(m.data),
		"",
		renderWeeksPanel(m.data.Weeks, m.showVolume, leftW),
	))
	right := lipgloss.NewStyle().Width(rightW).Render(lipgloss.JoinVertical(lipgloss.Left,
		renderHabitsPanel(m.data.Overview.Habits, rightW),
		"",
		renderRecentPanel(m.data.Overview),
	))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n\n" + m.renderHelpBar() + "\n"
}

func (m *DashModel) renderStacked() string {
	w := m.width - 4
	return lipgloss.JoinVertical(lipgloss.Left,
		renderTrainingPanel(m.data),
		"",
		renderHabitsPanel(m.data.Overview.Habits, w),
		"",
		renderWeeksPanel(m.data.Weeks, m.showVolume, w),
	) + "\n\n" + m.renderHelpBar() + "\n"
}

func (m *DashModel) renderMinimal() string {
	o := m.data.Overview
	var b strings.Builder
	b.WriteString("\n  " + ui.Title.Render(ui.IconLift+"grind") + "\n\n")
	fmt.Fprintf(&b, "  %s %s\n", ui.IconFire, ui.Plural(o.WorkoutStreak.Current, "day"))
	fmt.Fprintf(&b, "  this week: %d\n", o.WorkoutsWeek)
	met := 0
	for _, h := range o.Habits {
		if h.Week.Met() {
			met++
		}
	}
	if len(o.Habits) > 0 {
		fmt.Fprintf(&b, "  %s %d/%d goals met\n", ui.IconHabit, met, len(o.Habits))
	}
	b.WriteString("\n  " + ui.Muted.Render("q quit · s start · r refresh") + "\n")
	return b.String()
}

// renderTrainingPanel shows streaks, weekly totals and badge count.
func renderTrainingPanel(d DashData) string {
	o := d.Overview
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconLift+"Training") + ui.Muted.Render(" "+o.Today.String()) + "\n\n")

	if o.WorkoutStreak.Current > 0 {
		fmt.Fprintf(&b, "  %s %d-day streak", ui.IconFire, o.WorkoutStreak.Current)
	} else {
		b.WriteString("  " + ui.Muted.Render("No active streak"))
	}
	if o.WorkoutStreak.Longest > 0 {
		b.WriteString(ui.Muted.Render(fmt.Sprintf(" (best %d)", o.WorkoutStreak.Longest)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  This week: %s %s %s\n",
		ui.Plural(o.WorkoutsWeek, "workout"), ui.IconDot, ui.Volume(o.VolumeWeek))
	fmt.Fprintf(&b, "  All time:  %s\n", ui.Plural(o.WorkoutsTotal, "workout"))
	if d.AchievementsTotal > 0 {
		fmt.Fprintf(&b, "  %s %d/%d achievements\n", ui.IconTrophy, len(o.Unlocked), d.AchievementsTotal)
	}
	return b.String()
}

// renderHabitsPanel draws one weekly meter per habit.
func renderHabitsPanel(habits []tracker.HabitStatus, width int) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconHabit+" Habits") + "\n\n")
	if len(habits) == 0 {
		b.WriteString("  " + ui.Muted.Render("No habits yet. Try `grind habit add`.") + "\n")
		return b.String()
	}
	nameW := 0
	for _, h := range habits {
		if n := lipgloss.Width(h.Habit.Name); n > nameW {
			nameW = n
		}
	}
	if nameW > 20 {
		nameW = 20
	}
	meterW := width - nameW - 16
	if meterW > 21 {
		meterW = 21
	}
	if meterW < 7 {
		meterW = 7
	}
	for _, h := range habits {
		name := truncate(h.Habit.Name, nameW)
		mark := ui.Muted.Render("·")
		if h.DoneNow {
			mark = ui.Success.Render("✓")
		}
		meter := chart.Meter(h.Week.Percent(), meterW)
		if h.Week.Met() {
			meter = ui.Success.Render(meter)
		} else {
			meter = ui.Subtitle.Render(meter)
		}
		fmt.Fprintf(&b, "  %s %-*s %s %d/%d", mark, nameW, name, meter, h.Week.Completed, h.Week.Target)
		if h.Streak.Current > 1 {
			b.WriteString(ui.Muted.Render(fmt.Sprintf(" %s%d", ui.IconFire, h.Streak.Current)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderWeeksPanel charts recent weeks by workout count or volume.
func renderWeeksPanel(weeks []tracker.WeekBucket, volume bool, width int) string {
	var b strings.Builder
	label := "Workouts per week"
	if volume {
		label = "Volume per week"
	}
	b.WriteString("  " + ui.Title.Render(label) + "\n\n")
	if len(weeks) == 0 {
		b.WriteString("  " + ui.Muted.Render("No history yet.") + "\n")
		return b.String()
	}
	rows := make([]chart.Row, len(weeks))
	for i, w := range weeks {
		rows[i] = chart.Row{Label: w.Window.Start.Time().Format("Jan 02"), Value: float64(w.Workouts)}
		if volume {
			rows[i].Value = w.Volume
			rows[i].Note = ui.Volume(w.Volume)
		}
	}
	for _, line := range strings.Split(strings.TrimRight(chart.Bars(rows, width-2), "\n"), "\n") {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

// renderRecentPanel lists the latest workouts.
func renderRecentPanel(o *tracker.Overview) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render("Recent") + "\n\n")
	if len(o.Recent) == 0 {
		b.WriteString("  " + ui.Muted.Render("Nothing logged yet.") + "\n")
		return b.String()
	}
	for _, w := range o.Recent {
		fmt.Fprintf(&b, "  %s %s %s\n",
			ui.Muted.Render(w.Date.Format("Jan 02")), w.Title(),
			ui.Muted.Render(fmt.Sprintf("%s %s", ui.Plural(w.SetCount(), "set"), ui.Volume(w.Volume()))))
	}
	return b.String()
}

func (m *DashModel) renderHelpBar() string {
	m.help.Width = m.width - 2
	return "  " + m.help.View(dashKeys)
}

func truncate(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)+"…") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
