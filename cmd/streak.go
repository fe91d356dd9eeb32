package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/ui"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show workout and habit streaks",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("streak", runStreak),
}

func runStreak(cmd *cobra.Command, _ []string) error {
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

	ui.Header(ui.IconFire + " Streaks")
	ws := o.WorkoutStreak
	cur := ui.Muted.Render("0 days")
	if ws.Current > 0 {
		cur = ui.Accent.Render(ui.Plural(ws.Current, "day"))
	}
	ui.Kv("Workouts", fmt.Sprintf("%s %s", cur, ui.Muted.Render(fmt.Sprintf("(best %s)", ui.Plural(ws.Longest, "day")))))
	for _, h := range o.Habits {
		ui.Kv(truncateName(h.Habit.Name, 14), fmt.Sprintf("%s %s",
			ui.Plural(h.Streak.Current, "day"), ui.Muted.Render(fmt.Sprintf("(best %d)", h.Streak.Longest))))
	}
	if ws.Current == 0 && ws.Longest > 0 {
		ui.Tip("one workout today restarts the streak.")
	}
	ui.Puts(ui.Muted.Render(fmt.Sprintf("\n  streaks count from %s (tracking.streak_anchor)", a.settings.Anchor)))
	fmt.Println()
	return nil
}
