package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/day"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
	"github.com/rnwolfe/grind/internal/workout"
)

var (
	workoutName     string
	workoutDate     string
	workoutDuration time.Duration
	workoutLimit    int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Log and manage workouts",
	RunE:    hook.Wrap("workout.list", runWorkoutList),
}

var workoutLogCmd = &cobra.Command{
	Use:   "log <exercise>...",
	Short: "Log a finished workout",
	Long: `Log a workout in one go. Each argument is one exercise:

  grind workout log "Bench Press 3x10x60" "Pull Up 4x8" --name Push

Formats: "3x10x60", "5x5@100", "5/3 140" (sets x reps x kg). Leave the
weight off for bodyweight work.`,
	Args: cobra.MinimumNArgs(1),
	RunE: hook.Wrap("workout.log", runWorkoutLog),
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recent workouts",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("workout.list", runWorkoutList),
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a workout's exercises and sets",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("workout.show", runWorkoutShow),
}

var workoutRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a workout",
	Args:  cobra.MinimumNArgs(2),
	RunE:  hook.Wrap("workout.rename", runWorkoutRename),
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout (achievements stay unlocked)",
	Args:    cobra.ExactArgs(1),
	RunE:    hook.Wrap("workout.delete", runWorkoutDelete),
}

func init() {
	workoutCmd.AddCommand(workoutLogCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutRenameCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)

	workoutLogCmd.Flags().StringVarP(&workoutName, "name", "n", "", "Workout name")
	workoutLogCmd.Flags().StringVarP(&workoutDate, "date", "d", "", "Day it happened (YYYY-MM-DD, default today)")
	workoutLogCmd.Flags().DurationVar(&workoutDuration, "duration", 0, "How long it took, e.g. 45m")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "l", 10, "How many to show (0 for all)")
}

// workoutTime resolves --date to an instant in loc. Past days are pinned to
// noon local time; today keeps the current time.
func workoutTime(date string, loc *time.Location, now time.Time) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return now, nil
	}
	k, err := day.Parse(date)
	if err != nil {
		return time.Time{}, err
	}
	if k == day.FromInstant(now, loc) {
		return now, nil
	}
	if k.After(day.FromInstant(now, loc)) {
		return time.Time{}, fmt.Errorf("%w: %s is in the future", day.ErrInvalidInput, k)
	}
	t := k.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc), nil
}

func runWorkoutLog(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w := workout.Record{
		UserID:          a.userID(),
		Name:            strings.TrimSpace(workoutName),
		DurationSeconds: int(workoutDuration / time.Second),
		Source:          workout.SourceManual,
	}
	if w.Date, err = workoutTime(workoutDate, a.settings.Location, time.Now()); err != nil {
		return err
	}
	for _, line := range args {
		ex, err := workout.ParseExercise(line)
		if err != nil {
			return err
		}
		w.Exercises = append(w.Exercises, ex)
	}

	res, err := a.svc.LogWorkout(ctx, w)
	if err != nil {
		return err
	}
	printLogResult(ctx, a, res)
	return nil
}

// printLogResult reports a saved workout and fires its hooks.
func printLogResult(ctx context.Context, a *app, res *tracker.LogResult) {
	w := res.Workout
	ui.Ok(fmt.Sprintf("Logged %s %s %s %s %s",
		ui.Accent.Render(w.Title()), ui.IconDot,
		ui.Plural(w.SetCount(), "set"), ui.IconDot, ui.Volume(w.Volume())))
	ui.Puts(ui.Muted.Render("  id " + shortID(w.ID)))
	if res.Streak.Current > 1 {
		ui.Puts(fmt.Sprintf("  %s %d-day streak", ui.IconFire, res.Streak.Current))
	}
	for _, r := range res.Newly {
		ui.Puts(fmt.Sprintf("  %s %s %s", ui.IconTrophy, ui.Badge.Render(r.Name), ui.Muted.Render(r.Description)))
	}

	hook.Emit(ctx, hook.NewEvent(hook.WorkoutLogged, a.userID(), w))
	for _, r := range res.Newly {
		hook.Emit(ctx, hook.NewEvent(hook.AchievementUnlocked, a.userID(), map[string]string{
			"id": r.ID, "name": r.Name, "description": r.Description,
		}))
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runWorkoutList(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.svc.Workouts(ctx, a.userID())
	if err != nil {
		return err
	}
	if len(all) == 0 {
		ui.Puts(ui.Muted.Render("  No workouts yet."))
		ui.Tip("`grind workout log \"Squat 3x5@100\"` to log one.")
		return nil
	}

	shown := all
	if workoutLimit > 0 && len(shown) > workoutLimit {
		shown = shown[len(shown)-workoutLimit:]
	}
	ui.Header(fmt.Sprintf("Workouts (%d of %d)", len(shown), len(all)))
	for i := len(shown) - 1; i >= 0; i-- {
		w := shown[i]
		fmt.Printf("  %s  %s  %-24s %s\n",
			ui.Muted.Render(shortID(w.ID)),
			w.Date.In(a.settings.Location).Format("Mon Jan 02"),
			truncateName(w.Title(), 24),
			ui.Muted.Render(fmt.Sprintf("%s %s %s", ui.Plural(w.SetCount(), "set"), ui.IconDot, ui.Volume(w.Volume()))))
	}
	fmt.Println()
	return nil
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func runWorkoutShow(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.svc.FindWorkout(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	ui.Header(w.Title())
	ui.Kv("Date", w.Date.In(a.settings.Location).Format("Monday, January 2 2006 15:04"))
	if d := w.Duration(); d > 0 {
		ui.Kv("Duration", d.Round(time.Minute).String())
	}
	ui.Kv("Volume", ui.Volume(w.Volume()))
	ui.Kv("Reps", fmt.Sprintf("%d", w.Reps()))
	if w.Source != "" && w.Source != workout.SourceManual {
		ui.Kv("Source", w.Source)
	}
	ui.Kv("ID", w.ID)
	fmt.Println()
	for i, ex := range w.Exercises {
		fmt.Printf("  %d. %s %s\n", i+1, ui.Accent.Render(ex.Name), ui.Muted.Render(strings.Join(workout.MuscleGroups(ex.Name), ", ")))
		for j, s := range ex.Sets {
			fmt.Printf("     %s %s\n", ui.Muted.Render(fmt.Sprintf("set %d", j+1)), formatSet(s))
		}
	}
	fmt.Println()
	return nil
}

func formatSet(s workout.Set) string {
	if s.Weight == 0 {
		return fmt.Sprintf("%d reps", s.Reps)
	}
	return fmt.Sprintf("%d × %s", s.Reps, ui.Weight(s.Weight))
}

func runWorkoutRename(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.svc.FindWorkout(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	name := strings.Join(args[1:], " ")
	if err := a.svc.RenameWorkout(ctx, a.userID(), w.ID, name); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Renamed %s to %s", ui.Muted.Render(shortID(w.ID)), ui.Accent.Render(strings.TrimSpace(name))))
	return nil
}

func runWorkoutDelete(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	w, err := a.svc.FindWorkout(ctx, a.userID(), args[0])
	if err != nil {
		return err
	}
	if err := a.svc.DeleteWorkout(ctx, a.userID(), w.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s from %s", ui.Accent.Render(w.Title()), w.Date.In(a.settings.Location).Format("Jan 2")))
	hook.Emit(ctx, hook.NewEvent(hook.WorkoutDeleted, a.userID(), map[string]string{"id": w.ID}))
	return nil
}
