package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/backup"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/session"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
)

var (
	flagVerbose bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "grind",
	Short: "Track workouts, habits and streaks from your terminal",
	Long: `grind logs workouts and habits, keeps your streaks honest and
unlocks achievements as you go.`,
	RunE: hook.Wrap("grind", runStatus),
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		ui.SetupColor(flagNoColor)
		ui.SetupLogging(flagVerbose)
		if n, err := hook.RegisterScripts(hook.DefaultRegistry, hook.Dir()); err != nil {
			slog.Warn("loading hooks", "err", err)
		} else if n > 0 {
			slog.Debug("hooks registered", "count", n)
		}
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Err(friendlyError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(workoutCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// friendlyError adds a hint to the errors users can act on.
func friendlyError(err error) string {
	msg := err.Error()
	switch {
	case errors.Is(err, session.ErrNoSession):
		return msg + " (start one with `grind session start`)"
	case errors.Is(err, backup.ErrWrongPassphrase):
		return msg + " (check GRIND_BACKUP_PASSPHRASE)"
	case errors.Is(err, tracker.ErrNotOwner):
		return msg + " (records can only be changed by their owner)"
	case errors.Is(err, tracker.ErrExists):
		return msg + " (already logged; see `grind workout list`)"
	}
	return msg
}
