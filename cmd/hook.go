package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/ui"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run your own scripts when things happen",
	Long: `Hooks are executables in the hooks directory named after the event they
handle, for example workout.logged.sh or achievement.*.py. Each receives the
event as JSON on stdin.`,
	RunE: hook.Wrap("hook", runHookList),
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List hook scripts and the events they handle",
	RunE:  hook.Wrap("hook.list", runHookList),
}

var hookCreateCmd = &cobra.Command{
	Use:   "create <event-pattern>",
	Short: "Scaffold a new hook script",
	Long: `Create a starter hook script.

Examples:
  grind hook create workout.logged
  grind hook create "achievement.*"
  grind hook create "*"`,
	Args: cobra.ExactArgs(1),
	RunE: hook.Wrap("hook.create", runHookCreate),
}

var hookTestCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "Send a sample event to a hook script",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("hook.test", runHookTest),
}

func init() {
	hookCmd.AddCommand(hookListCmd)
	hookCmd.AddCommand(hookCreateCmd)
	hookCmd.AddCommand(hookTestCmd)
}

func runHookList(_ *cobra.Command, _ []string) error {
	dir := hook.Dir()
	scripts, err := hook.Discover(dir)
	if err != nil {
		return err
	}

	if len(scripts) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No hooks found."))
		fmt.Println()
		fmt.Printf("  Hooks directory: %s\n", ui.Accent.Render(dir))
		fmt.Printf("  Events:          %s\n", ui.Muted.Render(strings.Join(hook.Events, ", ")))
		fmt.Println()
		fmt.Printf("  Create one: %s\n", ui.Accent.Render("grind hook create workout.logged"))
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println(ui.Title.Render("  Hooks"))
	fmt.Println()
	for _, s := range scripts {
		fmt.Printf("  %s %-24s %s\n",
			ui.Success.Render("●"),
			ui.Accent.Render(s.Pattern),
			ui.Muted.Render(s.Name),
		)
	}
	fmt.Println()
	fmt.Printf("  %s\n", ui.Muted.Render(fmt.Sprintf("%s in %s", ui.Plural(len(scripts), "hook"), dir)))
	fmt.Println()
	return nil
}

func runHookCreate(_ *cobra.Command, args []string) error {
	pattern := args[0]
	path, err := hook.CreateScript(hook.Dir(), pattern)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Created hook: %s", path))
	fmt.Println()
	fmt.Printf("  Pattern: %s\n", ui.Accent.Render(pattern))
	fmt.Printf("  Edit:    %s\n", ui.Accent.Render("$EDITOR "+path))
	fmt.Printf("  Test:    %s\n", ui.Accent.Render("grind hook test "+path))
	fmt.Println()
	return nil
}

func runHookTest(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Println()
	fmt.Printf("  Testing: %s\n", ui.Accent.Render(path))
	fmt.Println()

	ev, err := hook.RunScript(cmdContext(cmd), path)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Hook handled a sample %s event", ev.Name))
	fmt.Println()
	return nil
}
