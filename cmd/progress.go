package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/chart"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/tui"
	"github.com/rnwolfe/grind/internal/ui"
)

var (
	progressPlain bool
	progressWeeks int
)

var progressCmd = &cobra.Command{
	Use:     "progress",
	Aliases: []string{"dash"},
	Short:   "Dashboard of streaks, habits and weekly training",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("progress", runProgress),
}

func init() {
	progressCmd.Flags().BoolVar(&progressPlain, "plain", false, "Print a text summary instead of the dashboard")
	progressCmd.Flags().IntVarP(&progressWeeks, "weeks", "w", 8, "Weeks of history to chart")
}

func dashLoader(a *app, weeks int) tui.DashLoader {
	return func(ctx context.Context) (tui.DashData, error) {
		o, err := a.svc.Overview(ctx, a.userID())
		if err != nil {
			return tui.DashData{}, err
		}
		buckets, err := a.svc.WeeklyActivity(ctx, a.userID(), weeks)
		if err != nil {
			return tui.DashData{}, err
		}
		return tui.DashData{Overview: o, Weeks: buckets, AchievementsTotal: a.svc.Catalog().Len()}, nil
	}
}

func runProgress(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	load := dashLoader(a, progressWeeks)
	if progressPlain || !tui.Interactive() {
		d, err := load(ctx)
		if err != nil {
			return err
		}
		printProgress(d, chart.TermWidth())
		return nil
	}

	action, err := tui.RunDash(load)
	if err != nil {
		return err
	}
	if action == tui.DashActionStartSession {
		return runSessionStart(cmd, nil)
	}
	return nil
}

// printProgress is the non-interactive rendition of the dashboard.
func printProgress(d tui.DashData, width int) {
	o := d.Overview
	ui.Header(ui.IconLift + "Progress")
	ui.Kv("Streak", fmt.Sprintf("%s (best %d)", ui.Plural(o.WorkoutStreak.Current, "day"), o.WorkoutStreak.Longest))
	ui.Kv("This week", fmt.Sprintf("%s %s %s", ui.Plural(o.WorkoutsWeek, "workout"), ui.IconDot, ui.Volume(o.VolumeWeek)))
	ui.Kv("All time", ui.Plural(o.WorkoutsTotal, "workout"))
	ui.Kv("Achievements", fmt.Sprintf("%d/%d", len(o.Unlocked), d.AchievementsTotal))

	if len(o.Habits) > 0 {
		fmt.Println()
		fmt.Println("  " + ui.Subtitle.Render("Habits this week"))
		for _, h := range o.Habits {
			printHabitStatus(h)
		}
	}

	if len(d.Weeks) > 0 {
		fmt.Println()
		fmt.Println("  " + ui.Subtitle.Render("Workouts per week") + " " + ui.Muted.Render(chart.Spark(weeklyVolumes(d.Weeks))))
		fmt.Print(indent(chart.Bars(weekRows(d.Weeks), width-2)))
	}
	fmt.Println()
}

func weekRows(weeks []tracker.WeekBucket) []chart.Row {
	rows := make([]chart.Row, len(weeks))
	for i, w := range weeks {
		rows[i] = chart.Row{
			Label: w.Window.Start.Time().Format("Jan 02"),
			Value: float64(w.Workouts),
			Note:  fmt.Sprintf("%d %s %s", w.Workouts, ui.IconDot, ui.Volume(w.Volume)),
		}
	}
	return rows
}

func weeklyVolumes(weeks []tracker.WeekBucket) []float64 {
	out := make([]float64, len(weeks))
	for i, w := range weeks {
		out[i] = w.Volume
	}
	return out
}

func indent(s string) string {
	if s == "" {
		return s
	}
	return "  " + strings.ReplaceAll(strings.TrimSuffix(s, "\n"), "\n", "\n  ") + "\n"
}
