package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/cloud"
	"github.com/rnwolfe/grind/internal/config"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/store"
	"github.com/rnwolfe/grind/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check your grind setup for problems",
	Long:  `Run a suite of health checks and report what's working (and what isn't).`,
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("doctor", runDoctor),
}

// checkResult holds the outcome of a single health check.
type checkResult struct {
	name    string
	ok      bool
	detail  string
	fixHint string
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = nil
	}

	results := []checkResult{
		checkConfig(),
		checkTracking(cfg),
		checkStore(),
		checkBackend(cmd, cfg),
		checkHooks(hook.Dir()),
	}

	fmt.Println()
	allPassed := true
	for _, r := range results {
		printCheck(r)
		if !r.ok {
			allPassed = false
		}
	}
	fmt.Println()

	if !allPassed {
		return fmt.Errorf("one or more checks failed, see suggestions above")
	}
	return nil
}

func printCheck(r checkResult) {
	label := fmt.Sprintf("%-16s", r.name)
	if r.ok {
		icon := ui.Success.Render(ui.IconOk)
		fmt.Printf("  %s %s %s\n", icon, ui.KeyStyle.Render(label), ui.Muted.Render(r.detail))
		return
	}
	icon := ui.Error.Render(ui.IconError)
	fmt.Printf("  %s %s %s\n", icon, ui.KeyStyle.Render(label), r.detail)
	if r.fixHint != "" {
		fmt.Printf("  %s %s %s\n", "  ", "                ", ui.Muted.Render(ui.IconArrow+" "+r.fixHint))
	}
}

func checkConfig() checkResult {
	paths := config.GetPaths()
	if !config.Initialized() {
		return checkResult{
			name:   "Config",
			ok:     true,
			detail: "no config file yet, using defaults",
		}
	}
	if _, err := config.Load(); err != nil {
		return checkResult{
			name:    "Config",
			detail:  fmt.Sprintf("parse error: %v", err),
			fixHint: fmt.Sprintf("Check %s for syntax errors", paths.ConfigFile),
		}
	}
	return checkResult{
		name:   "Config",
		ok:     true,
		detail: paths.ConfigFile + " found and valid",
	}
}

func checkTracking(cfg *config.Config) checkResult {
	if cfg == nil {
		return checkResult{name: "Tracking", detail: "config could not be loaded"}
	}
	st, err := cfg.Settings()
	if err != nil {
		return checkResult{
			name:    "Tracking",
			detail:  err.Error(),
			fixHint: fmt.Sprintf("Run %s to see valid values", ui.Accent.Render("grind config set --help")),
		}
	}
	return checkResult{
		name:   "Tracking",
		ok:     true,
		detail: fmt.Sprintf("%s, weeks start %s, streaks anchored %s", st.Location, st.WeekStart, st.Anchor),
	}
}

func checkStore() checkResult {
	db, err := store.Open()
	if err != nil {
		return checkResult{
			name:    "Store",
			detail:  fmt.Sprintf("cannot open database: %v", err),
			fixHint: "Check permissions and free space in " + config.GetPaths().DataDir,
		}
	}
	db.Close()
	return checkResult{
		name:   "Store",
		ok:     true,
		detail: "SQLite database opens and responds",
	}
}

func checkBackend(cmd *cobra.Command, cfg *config.Config) checkResult {
	if cfg == nil || cfg.Store.Backend != config.BackendFirestore {
		return checkResult{name: "Backend", ok: true, detail: "local SQLite"}
	}
	client, err := cloud.NewClient(cmdContext(cmd), cfg.Store.FirestoreProject)
	if err != nil {
		return checkResult{
			name:    "Backend",
			detail:  err.Error(),
			fixHint: fmt.Sprintf("Run %s and check application default credentials", ui.Accent.Render("grind config set store.firestore_project <id>")),
		}
	}
	client.Close()
	detail := "Firestore project " + cfg.Store.FirestoreProject
	if host := os.Getenv("FIRESTORE_EMULATOR_HOST"); host != "" {
		detail += " via emulator at " + host
	}
	return checkResult{name: "Backend", ok: true, detail: detail}
}

func checkHooks(dir string) checkResult {
	scripts, err := hook.Discover(dir)
	if err != nil {
		return checkResult{name: "Hooks", detail: err.Error()}
	}
	if len(scripts) == 0 {
		return checkResult{name: "Hooks", ok: true, detail: "none installed"}
	}
	return checkResult{name: "Hooks", ok: true, detail: fmt.Sprintf("%s in %s", ui.Plural(len(scripts), "script"), dir)}
}
