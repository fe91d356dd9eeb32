package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/session"
	"github.com/rnwolfe/grind/internal/tui"
	"github.com/rnwolfe/grind/internal/ui"
	"github.com/rnwolfe/grind/internal/workout"
)

var (
	sessionForce    bool
	sessionExercise string
)

var sessionCmd = &cobra.Command{
	Use:     "session",
	Aliases: []string{"s"},
	Short:   "Record a workout as you train",
	Long: `Start a session, add exercises and sets between lifts, and finish
when you're done. Progress is saved after every step.

  grind session start Legs
  grind session add Squat 5x100 5x100 5x100
  grind session set 3x100
  grind session finish`,
	RunE: hook.Wrap("session.status", runSessionStatus),
}

var sessionStartCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Start a workout session",
	RunE:  hook.Wrap("session.start", runSessionStart),
}

var sessionAddCmd = &cobra.Command{
	Use:   "add [exercise] [set]...",
	Short: "Add an exercise, optionally with sets (e.g. 10x60)",
	Long: `Add an exercise to the current session. Sets may follow the name:

  grind session add "Bench Press" 10x60 8x70

With no arguments in a terminal, pick from the exercise catalog.`,
	RunE: hook.Wrap("session.add", runSessionAdd),
}

var sessionSetCmd = &cobra.Command{
	Use:   "set <reps[xkg]>...",
	Short: "Record sets for the latest (or --exercise) exercise",
	Args:  cobra.MinimumNArgs(1),
	RunE:  hook.Wrap("session.set", runSessionSet),
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session in progress",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("session.status", runSessionStatus),
}

var sessionFinishCmd = &cobra.Command{
	Use:   "finish",
	Short: "Save the session as a workout",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("session.finish", runSessionFinish),
}

var sessionDiscardCmd = &cobra.Command{
	Use:   "discard",
	Short: "Throw away the session in progress",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("session.discard", runSessionDiscard),
}

func init() {
	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionAddCmd)
	sessionCmd.AddCommand(sessionSetCmd)
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionFinishCmd)
	sessionCmd.AddCommand(sessionDiscardCmd)

	sessionStartCmd.Flags().BoolVarP(&sessionForce, "force", "f", false, "Replace a session already in progress")
	sessionSetCmd.Flags().StringVarP(&sessionExercise, "exercise", "e", "", "Exercise number or name (default: latest)")
}

func runSessionStart(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if cur, err := a.sessions.Load(ctx, a.userID()); err == nil && !sessionForce {
		return fmt.Errorf("%s is already in progress (finish it, discard it, or use --force)", sessionTitle(cur))
	} else if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}

	s, err := session.Start(a.userID(), strings.Join(args, " "), time.Now())
	if err != nil {
		return err
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	ui.Ok("Started " + ui.Accent.Render(sessionTitle(s)))
	ui.Tip("`grind session add \"Bench Press\" 10x60` after each exercise.")
	return nil
}

func sessionTitle(s *session.Session) string {
	if s.Name != "" {
		return s.Name
	}
	return "workout started " + s.StartedAt.Local().Format("15:04")
}

// splitExerciseArgs separates a multi-word exercise name from trailing sets.
func splitExerciseArgs(args []string) (string, []workout.Set, error) {
	cut := len(args)
	for cut > 1 {
		if _, err := workout.ParseSet(args[cut-1]); err != nil {
			break
		}
		cut--
	}
	var sets []workout.Set
	for _, a := range args[cut:] {
		s, err := workout.ParseSet(a)
		if err != nil {
			return "", nil, err
		}
		sets = append(sets, s)
	}
	return strings.Join(args[:cut], " "), sets, nil
}

func catalogChoices() []tui.Choice {
	out := make([]tui.Choice, len(workout.Catalog))
	for i, e := range workout.Catalog {
		out[i] = tui.Choice{Value: e.Name, Label: e.Name, Detail: strings.Join(e.Muscles, ", ")}
	}
	return out
}

func runSessionAdd(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.sessions.Load(ctx, a.userID())
	if err != nil {
		return err
	}

	var name string
	var sets []workout.Set
	if len(args) == 0 {
		if !tui.Interactive() {
			return fmt.Errorf("exercise name required")
		}
		c, ok, err := tui.Pick("Add exercise", catalogChoices(), true)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		name = c.Value
	} else if name, sets, err = splitExerciseArgs(args); err != nil {
		return err
	}

	n, err := s.AddExercise(name)
	if err != nil {
		return err
	}
	for _, set := range sets {
		if err := s.AddSet("", set); err != nil {
			return err
		}
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	ex := s.Exercises[n-1]
	msg := fmt.Sprintf("#%d %s", n, ui.Accent.Render(ex.Name))
	if len(ex.Sets) > 0 {
		msg += " " + ui.Muted.Render(ui.Plural(len(ex.Sets), "set"))
	}
	ui.Ok(msg)
	return nil
}

func runSessionSet(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.sessions.Load(ctx, a.userID())
	if err != nil {
		return err
	}
	i, err := s.Resolve(sessionExercise)
	if err != nil {
		return err
	}
	for _, arg := range args {
		set, err := workout.ParseSet(arg)
		if err != nil {
			return err
		}
		if err := s.AddSet(fmt.Sprint(i+1), set); err != nil {
			return err
		}
	}
	if err := a.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	ex := s.Exercises[i]
	ui.Ok(fmt.Sprintf("%s %s %s", ui.Accent.Render(ex.Name), ui.IconDot, ui.Plural(len(ex.Sets), "set")))
	return nil
}

func runSessionStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.sessions.Load(ctx, a.userID())
	if errors.Is(err, session.ErrNoSession) {
		ui.Puts(ui.Muted.Render("  No workout in progress."))
		ui.Tip("`grind session start` to begin one.")
		return nil
	}
	if err != nil {
		return err
	}

	ui.Header(sessionTitle(s))
	ui.Kv("Elapsed", s.Elapsed(time.Now()).Round(time.Second).String())
	if len(s.Exercises) == 0 {
		ui.Puts(ui.Muted.Render("  No exercises yet."))
		return nil
	}
	var vol float64
	for i, ex := range s.Exercises {
		vol += ex.Volume()
		sets := make([]string, len(ex.Sets))
		for j, set := range ex.Sets {
			sets[j] = formatSet(set)
		}
		fmt.Printf("  %d. %s  %s\n", i+1, ui.Accent.Render(ex.Name), ui.Muted.Render(strings.Join(sets, ", ")))
	}
	ui.Kv("Volume", ui.Volume(vol))
	fmt.Println()
	return nil
}

func runSessionFinish(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.sessions.Load(ctx, a.userID())
	if err != nil {
		return err
	}
	w, err := s.Finish(time.Now())
	if err != nil {
		return err
	}
	res, err := a.svc.LogWorkout(ctx, w)
	if err != nil {
		return err
	}
	if err := a.sessions.Clear(ctx, a.userID()); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	printLogResult(ctx, a, res)
	hook.Emit(ctx, hook.NewEvent(hook.SessionFinished, a.userID(), map[string]any{
		"id": w.ID, "duration_seconds": w.DurationSeconds,
	}))
	return nil
}

func runSessionDiscard(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.sessions.Load(ctx, a.userID())
	if err != nil {
		return err
	}
	if err := a.sessions.Clear(ctx, a.userID()); err != nil {
		return err
	}
	ui.Ok("Discarded " + sessionTitle(s))
	return nil
}
