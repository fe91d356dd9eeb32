package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/chart"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/goal"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/tui"
	"github.com/rnwolfe/grind/internal/ui"
)

var (
	habitTarget int
	habitDate   string
	habitWeeks  int
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"h"},
	Short:   "Track weekly habits",
	RunE:    hook.Wrap("habit.list", runHabitList),
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a habit with a weekly target",
	Args:  cobra.MinimumNArgs(1),
	RunE:  hook.Wrap("habit.add", runHabitAdd),
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show habits and this week's progress",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("habit.list", runHabitList),
}

var habitToggleCmd = &cobra.Command{
	Use:     "toggle [habit]",
	Aliases: []string{"done", "t"},
	Short:   "Mark a habit done (or undone) for today or --date",
	RunE:    hook.Wrap("habit.toggle", runHabitToggle),
}

var habitHistoryCmd = &cobra.Command{
	Use:   "history <habit>",
	Short: "Show weekly progress over recent weeks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  hook.Wrap("habit.history", runHabitHistory),
}

var habitDeleteCmd = &cobra.Command{
	Use:     "delete <habit>",
	Aliases: []string{"rm"},
	Short:   "Delete a habit and its history",
	Args:    cobra.MinimumNArgs(1),
	RunE:    hook.Wrap("habit.delete", runHabitDelete),
}

func init() {
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitToggleCmd)
	habitCmd.AddCommand(habitHistoryCmd)
	habitCmd.AddCommand(habitDeleteCmd)

	habitAddCmd.Flags().IntVarP(&habitTarget, "target", "t", 0, "Days per week (1-7, default from config)")
	habitToggleCmd.Flags().StringVarP(&habitDate, "date", "d", "", "Day to toggle (YYYY-MM-DD, default today)")
	habitHistoryCmd.Flags().IntVarP(&habitWeeks, "weeks", "w", 8, "Number of weeks")
}

func runHabitAdd(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	target := habitTarget
	if target == 0 {
		target = a.cfg.Tracking.DefaultHabitTarget
	}
	h, err := a.svc.AddHabit(ctx, a.userID(), strings.Join(args, " "), target)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Added %s %s %d×/week", ui.Accent.Render(h.Name), ui.IconDot, h.TargetPerWeek))
	ui.Tip(fmt.Sprintf("`grind habit toggle %q` when you've done it.", h.Name))
	return nil
}

func runHabitList(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	o, err := a.svc.Overview(ctx, a.userID())
	if err != nil {
		return err
	}
	if len(o.Habits) == 0 {
		ui.Puts(ui.Muted.Render("  No habits yet."))
		ui.Tip("`grind habit add Stretch --target 4` to add one.")
		return nil
	}
	week := day.WeekOf(o.Today, a.settings.WeekStart)
	ui.Header(fmt.Sprintf("Habits %s %s – %s", ui.IconDot,
		week.Start.Time().Format("Jan 2"), week.End.Time().Format("Jan 2")))
	for _, h := range o.Habits {
		printHabitStatus(h)
	}
	fmt.Println()
	return nil
}

func printHabitStatus(h tracker.HabitStatus) {
	mark := ui.Muted.Render("○")
	if h.DoneNow {
		mark = ui.Success.Render("●")
	}
	meter := chart.Meter(h.Week.Percent(), 14)
	if h.Week.Met() {
		meter = ui.Success.Render(meter)
	}
	line := fmt.Sprintf("  %s %-20s %s %d/%d", mark, truncateName(h.Habit.Name, 20), meter, h.Week.Completed, h.Week.Target)
	if h.Streak.Current > 0 {
		line += ui.Muted.Render(fmt.Sprintf("  %s %d", ui.IconFire, h.Streak.Current))
	}
	if h.Streak.Longest > h.Streak.Current {
		line += ui.Muted.Render(fmt.Sprintf(" (best %d)", h.Streak.Longest))
	}
	fmt.Println(line)
}

// resolveHabitRef returns args joined, or lets the user pick a habit when
// no reference was given in a terminal.
func resolveHabitRef(cmd *cobra.Command, a *app, args []string) (string, bool, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), true, nil
	}
	if !tui.Interactive() {
		return "", false, fmt.Errorf("habit name or id required")
	}
	o, err := a.svc.Overview(cmdContext(cmd), a.userID())
	if err != nil {
		return "", false, err
	}
	if len(o.Habits) == 0 {
		return "", false, fmt.Errorf("no habits yet (add one with `grind habit add`)")
	}
	choices := make([]tui.Choice, len(o.Habits))
	for i, h := range o.Habits {
		detail := fmt.Sprintf("%d/%d this week", h.Week.Completed, h.Week.Target)
		if h.DoneNow {
			detail += " · done today"
		}
		choices[i] = tui.Choice{Value: h.Habit.ID, Label: h.Habit.Name, Detail: detail}
	}
	c, ok, err := tui.Pick("Toggle habit", choices, false)
	return c.Value, ok, err
}

func runHabitToggle(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var k day.Key
	if strings.TrimSpace(habitDate) != "" {
		if k, err = day.Parse(habitDate); err != nil {
			return err
		}
	}
	ref, ok, err := resolveHabitRef(cmd, a, args)
	if err != nil || !ok {
		return err
	}
	st, err := a.svc.ToggleHabit(ctx, a.userID(), ref, k)
	if err != nil {
		return err
	}
	if k == "" {
		k = a.svc.Today()
	}
	if st.Habit.Done(k) {
		ui.Ok(fmt.Sprintf("%s done for %s", ui.Accent.Render(st.Habit.Name), k))
	} else {
		ui.Warn(fmt.Sprintf("%s unmarked for %s", st.Habit.Name, k))
	}
	printHabitStatus(st)
	if st.Habit.Done(k) && st.Week.Window.Contains(k) && st.Week.Completed == st.Week.Target {
		ui.Puts("  " + ui.Success.Render("Weekly goal reached!"))
	}
	hook.Emit(ctx, hook.NewEvent(hook.HabitToggled, a.userID(), map[string]any{
		"id": st.Habit.ID, "name": st.Habit.Name, "day": k.String(), "done": st.Habit.Done(k),
		"week_completed": st.Week.Completed, "week_target": st.Week.Target,
	}))
	return nil
}

func runHabitHistory(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	h, hist, err := a.svc.HabitHistory(ctx, a.userID(), strings.Join(args, " "), habitWeeks)
	if err != nil {
		return err
	}
	ui.Header(fmt.Sprintf("%s %s %d×/week", h.Name, ui.IconDot, h.TargetPerWeek))
	met := 0
	for _, p := range hist {
		meter := chart.Meter(p.Percent(), 14)
		if p.Met() {
			met++
			meter = ui.Success.Render(meter)
		}
		fmt.Printf("  %s  %s %d/%d\n", ui.Muted.Render(p.Window.Start.Time().Format("Jan 02")), meter, p.Completed, p.Target)
	}
	fmt.Println()
	ui.Kv("Weeks met", fmt.Sprintf("%d of %d", met, len(hist)))
	ui.Kv("Week streak", ui.Plural(goal.WeeksMet(hist), "week"))
	fmt.Println()
	return nil
}

func runHabitDelete(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	h, err := a.svc.DeleteHabit(ctx, a.userID(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	ui.Ok("Deleted " + ui.Accent.Render(h.Name))
	return nil
}
