package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rnwolfe/grind/internal/backup"
	"github.com/rnwolfe/grind/internal/fitfile"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/ui"
	"github.com/rnwolfe/grind/internal/workout"
)

const passphraseEnv = "GRIND_BACKUP_PASSPHRASE"

var (
	exportFit string
	importFit bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write an encrypted backup",
	Long: `Write every workout, habit and achievement you own to an encrypted backup file.

With --fit, export a single workout as a FIT activity instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("export", runExport),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore a backup or import a FIT activity",
	Long: `Restore an encrypted backup written by grind export. Records with the same id
are replaced and achievement unlocks are merged.

Files ending in .fit, or any file with --fit, are imported as a single workout.`,
	Args: cobra.ExactArgs(1),
	RunE: hook.Wrap("import", runImport),
}

func init() {
	exportCmd.Flags().StringVar(&exportFit, "fit", "", "Export this workout as a FIT file")
	importCmd.Flags().BoolVar(&importFit, "fit", false, "Treat the file as a FIT activity")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if exportFit != "" {
		w, err := a.svc.FindWorkout(ctx, a.userID(), exportFit)
		if err != nil {
			return err
		}
		data, err := fitfile.Encode(w)
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s-%s.fit", slugify(w.Title()), w.Date.In(a.settings.Location).Format("20060102"))
		if len(args) == 1 {
			path = args[0]
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		ui.Ok(fmt.Sprintf("Exported %s to %s", ui.Accent.Render(w.Title()), path))
		return nil
	}

	now := time.Now()
	path := "grind-backup-" + now.Format("20060102") + ".age"
	if len(args) == 1 {
		path = args[0]
	}
	b, err := backup.Collect(ctx, a.repo, a.userID(), now)
	if err != nil {
		return err
	}
	pass, err := readPassphrase(true)
	if err != nil {
		return err
	}
	if err := backup.WriteFile(path, b, pass); err != nil {
		return err
	}

	ui.Ok("Backup written to " + path)
	ui.Kv("Workouts", fmt.Sprintf("%d", len(b.Workouts)))
	ui.Kv("Habits", fmt.Sprintf("%d", len(b.Habits)))
	ui.Kv("Achievements", fmt.Sprintf("%d", len(b.Achievements)))

	hook.Emit(ctx, hook.NewEvent(hook.BackupExported, a.userID(), map[string]any{
		"path":     path,
		"workouts": len(b.Workouts),
		"habits":   len(b.Habits),
	}))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmdContext(cmd)
	path := args[0]
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if importFit || strings.EqualFold(filepath.Ext(path), ".fit") {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		w, err := fitfile.Decode(bytes.NewReader(data), a.userID())
		if err != nil {
			return err
		}
		w.ID = workout.NewID()
		if w.Name == "" {
			w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		res, err := a.svc.LogWorkout(ctx, w)
		if err != nil {
			return err
		}
		printLogResult(ctx, a, res)
		return nil
	}

	pass, err := readPassphrase(false)
	if err != nil {
		return err
	}
	b, err := backup.ReadFile(path, pass)
	if err != nil {
		return err
	}
	if b.UserID != "" && b.UserID != a.userID() {
		ui.Warn(fmt.Sprintf("Backup belongs to user %s; records are re-owned by you", b.UserID))
	}
	st, err := backup.Restore(ctx, a.repo, b, a.userID())
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Restored %s and %s from %s",
		ui.Plural(st.Workouts, "workout"), ui.Plural(st.Habits, "habit"), path))
	if st.Unlocks > 0 {
		ui.Inf(fmt.Sprintf("%s %s newly unlocked", ui.IconTrophy, ui.Plural(st.Unlocks, "achievement")))
	}
	return nil
}

// readPassphrase takes the backup passphrase from the environment or a
// terminal prompt. confirm asks twice.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("backup passphrase required: set %s or run interactively", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Backup passphrase: "))
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	passphrase := strings.TrimSpace(string(pass))
	if passphrase == "" {
		return "", fmt.Errorf("passphrase can't be empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirm passphrase: "))
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if strings.TrimSpace(string(again)) != passphrase {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return passphrase, nil
}

// slugify lowercases s and replaces runs of non-alphanumerics with '-'.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "workout"
	}
	return out
}
