package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/config"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
	"github.com/rnwolfe/grind/internal/version"
)

var (
	statusJSON   bool
	statusPrompt bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where you stand (also for prompt integration)",
	Long:  `Print today's overview, or emit it as JSON or a compact prompt segment.`,
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("status", runStatus),
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	statusCmd.Flags().BoolVar(&statusPrompt, "prompt", false, "Output compact prompt segment")
}

// StatusData is the machine-readable overview.
type StatusData struct {
	Today         string  `json:"today"`
	Streak        int     `json:"streak"`
	LongestStreak int     `json:"longest_streak"`
	WorkoutsWeek  int     `json:"workouts_week"`
	VolumeWeek    float64 `json:"volume_week"`
	WorkoutsTotal int     `json:"workouts_total"`
	HabitsMet     int     `json:"habits_met"`
	HabitsTotal   int     `json:"habits_total"`
	HabitsDueNow  int     `json:"habits_due_today"`
	Achievements  int     `json:"achievements"`
	InProgress    bool    `json:"in_progress"`
	Version       string  `json:"version"`
}

func statusData(o *tracker.Overview, inProgress bool) StatusData {
	d := StatusData{
		Today:         o.Today.String(),
		Streak:        o.WorkoutStreak.Current,
		LongestStreak: o.WorkoutStreak.Longest,
		WorkoutsWeek:  o.WorkoutsWeek,
		VolumeWeek:    o.VolumeWeek,
		WorkoutsTotal: o.WorkoutsTotal,
		HabitsTotal:   len(o.Habits),
		Achievements:  len(o.Unlocked),
		InProgress:    inProgress,
		Version:       version.Short(),
	}
	for _, h := range o.Habits {
		if h.Week.Met() {
			d.HabitsMet++
		} else if !h.DoneNow {
			d.HabitsDueNow++
		}
	}
	return d
}

// formatPromptSegment renders e.g. "[5d|1/3h|●]". Empty when nothing is
// worth showing.
func formatPromptSegment(d StatusData) string {
	seg := ""
	add := func(s string) {
		if seg != "" {
			seg += "|"
		}
		seg += s
	}
	if d.Streak > 0 {
		add(fmt.Sprintf("%dd", d.Streak))
	}
	if d.HabitsTotal > 0 {
		add(fmt.Sprintf("%d/%dh", d.HabitsMet, d.HabitsTotal))
	}
	if d.InProgress {
		add("●")
	}
	if seg == "" {
		return ""
	}
	return "[" + seg + "]"
}

// runStatus prints a short overview. It is also what grind runs without a
// subcommand.
func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	first := !config.Initialized()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	o, err := a.svc.Overview(ctx, a.userID())
	if err != nil {
		return err
	}
	sess, sessErr := a.sessions.Load(ctx, a.userID())
	data := statusData(o, sessErr == nil)

	if statusPrompt {
		if seg := formatPromptSegment(data); seg != "" {
			fmt.Print(seg)
		}
		return nil
	}
	if statusJSON {
		return json.NewEncoder(os.Stdout).Encode(data)
	}

	fmt.Println(ui.Title.Render(ui.IconLift + "grind"))
	if first {
		fmt.Println()
		fmt.Println("  Welcome! Your data lives in " + ui.Muted.Render(config.GetPaths().DBFile))
	}
	fmt.Println()

	streakStr := ui.Muted.Render("none yet")
	if o.WorkoutStreak.Current > 0 {
		streakStr = fmt.Sprintf("%s %s", ui.IconFire, ui.Plural(o.WorkoutStreak.Current, "day"))
	}
	ui.Kv("Streak", streakStr)
	ui.Kv("This week", fmt.Sprintf("%s %s %s", ui.Plural(o.WorkoutsWeek, "workout"), ui.IconDot, ui.Volume(o.VolumeWeek)))
	if data.HabitsTotal > 0 {
		ui.Kv("Habits", fmt.Sprintf("%d/%d weekly goals met", data.HabitsMet, data.HabitsTotal))
	}
	ui.Kv("Achievements", fmt.Sprintf("%d/%d", data.Achievements, a.svc.Catalog().Len()))
	ui.Kv("Today", o.Today.Time().Format("Monday, January 2"))
	if sessErr == nil {
		ui.Kv("In progress", fmt.Sprintf("%s (%s)", sessionTitle(sess), sess.Elapsed(time.Now()).Round(time.Minute)))
	}

	switch {
	case o.WorkoutsTotal == 0:
		ui.Tip("`grind workout log \"Squat 3x5@100\"` to log your first workout.")
	case o.WorkoutsWeek == 0:
		ui.Tip("`grind session start` to get this week going.")
	default:
		ui.Tip("`grind progress` for the full dashboard.")
	}
	fmt.Println()
	return nil
}
