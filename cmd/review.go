package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/achievement"
	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
	"github.com/rnwolfe/grind/internal/workout"
)

var (
	reviewRaw      bool
	reviewWeeksAgo int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Weekly training review",
	Long:  `Summarise a week of workouts, habits and achievements as markdown.`,
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("review", runReview),
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewRaw, "raw", false, "Print plain markdown")
	reviewCmd.Flags().IntVar(&reviewWeeksAgo, "weeks-ago", 0, "Review an earlier week (1 = last week)")
}

// reviewInput is what a weekly review is built from.
type reviewInput struct {
	Week     day.Window
	Previous tracker.WeekBucket
	Current  tracker.WeekBucket
	Workouts []workout.Record
	Habits   []tracker.HabitStatus
	Streak   tracker.Overview
	Unlocked achievement.Snapshot
	Catalog  *achievement.Catalog
	Location *time.Location
}

func runReview(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if reviewWeeksAgo < 0 {
		return fmt.Errorf("--weeks-ago must not be negative")
	}
	o, err := a.svc.Overview(ctx, a.userID())
	if err != nil {
		return err
	}
	buckets, err := a.svc.WeeklyActivity(ctx, a.userID(), reviewWeeksAgo+2)
	if err != nil {
		return err
	}
	all, err := a.svc.Workouts(ctx, a.userID())
	if err != nil {
		return err
	}

	cur := buckets[len(buckets)-1-reviewWeeksAgo]
	in := reviewInput{
		Week:     cur.Window,
		Current:  cur,
		Previous: buckets[len(buckets)-2-reviewWeeksAgo],
		Streak:   *o,
		Unlocked: o.Unlocked,
		Catalog:  a.svc.Catalog(),
		Location: a.settings.Location,
	}
	for _, w := range all {
		if cur.Window.Contains(w.Day(a.settings.Location)) {
			in.Workouts = append(in.Workouts, w)
		}
	}
	if reviewWeeksAgo == 0 {
		in.Habits = o.Habits
	} else {
		for _, h := range o.Habits {
			_, hist, err := a.svc.HabitHistory(ctx, a.userID(), h.Habit.ID, reviewWeeksAgo+1)
			if err != nil {
				return err
			}
			h.Week = hist[0]
			in.Habits = append(in.Habits, h)
		}
	}

	fmt.Print(ui.RenderMarkdown(buildReview(in), reviewRaw))
	return nil
}

// buildReview renders the weekly review as markdown.
func buildReview(in reviewInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Week of %s to %s\n\n",
		in.Week.Start.Time().Format("Jan 2"), in.Week.End.Time().Format("Jan 2, 2006"))

	b.WriteString("## Training\n\n")
	if len(in.Workouts) == 0 {
		b.WriteString("No workouts this week.\n\n")
	} else {
		var dur time.Duration
		for _, w := range in.Workouts {
			dur += w.Duration()
		}
		fmt.Fprintf(&b, "- **%s**, %s total volume", ui.Plural(in.Current.Workouts, "workout"), ui.Volume(in.Current.Volume))
		if dur > 0 {
			fmt.Fprintf(&b, ", %s training", dur.Round(time.Minute))
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- %s compared with the week before\n", compare(in.Current.Workouts, in.Previous.Workouts, "workout"))
		fmt.Fprintf(&b, "- Current streak %s, best %s\n\n",
			ui.Plural(in.Streak.WorkoutStreak.Current, "day"), ui.Plural(in.Streak.WorkoutStreak.Longest, "day"))

		b.WriteString("| Day | Workout | Sets | Volume |\n|---|---|---:|---:|\n")
		for _, w := range in.Workouts {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n",
				w.Date.In(in.Location).Format("Mon"), escapeCell(w.Title()), w.SetCount(), ui.Volume(w.Volume()))
		}
		b.WriteString("\n")
		if top := topExercises(in.Workouts, 3); len(top) > 0 {
			b.WriteString("Most trained: " + strings.Join(top, ", ") + "\n\n")
		}
	}

	if len(in.Habits) > 0 {
		b.WriteString("## Habits\n\n| Habit | Done | Target | Met |\n|---|---:|---:|:-:|\n")
		for _, h := range in.Habits {
			met := "no"
			if h.Week.Met() {
				met = "yes"
			}
			fmt.Fprintf(&b, "| %s | %d | %d | %s |\n", escapeCell(h.Habit.Name), h.Week.Completed, h.Week.Target, met)
		}
		b.WriteString("\n")
	}

	var newly []string
	for _, id := range in.Unlocked.IDs() {
		at := in.Unlocked[id]
		if !in.Week.Contains(day.FromInstant(at, in.Location)) {
			continue
		}
		if r, ok := in.Catalog.Get(id); ok {
			newly = append(newly, fmt.Sprintf("- **%s**: %s", r.Name, r.Description))
		}
	}
	if len(newly) > 0 {
		b.WriteString("## Achievements unlocked\n\n" + strings.Join(newly, "\n") + "\n")
	}
	return b.String()
}

func compare(cur, prev int, unit string) string {
	switch d := cur - prev; {
	case d > 0:
		return fmt.Sprintf("%s more", ui.Plural(d, unit))
	case d < 0:
		return fmt.Sprintf("%s fewer", ui.Plural(-d, unit))
	}
	return "Same number of " + unit + "s"
}

// topExercises returns the n exercise names with the most sets.
func topExercises(ws []workout.Record, n int) []string {
	sets := map[string]int{}
	for _, w := range ws {
		for _, ex := range w.Exercises {
			sets[ex.Name] += len(ex.Sets)
		}
	}
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if sets[names[i]] != sets[names[j]] {
			return sets[names[i]] > sets[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
