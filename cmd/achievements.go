package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/tracker"
	"github.com/rnwolfe/grind/internal/ui"
)

var achievementsUnlockedOnly bool

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"ach", "badges"},
	Short:   "List achievements and what you've unlocked",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("achievements", runAchievements),
}

func init() {
	achievementsCmd.Flags().BoolVarP(&achievementsUnlockedOnly, "unlocked", "u", false, "Only show unlocked achievements")
}

func runAchievements(cmd *cobra.Command, _ []string) error {
	ctx := cmdContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.svc.Achievements(ctx, a.userID())
	if err != nil {
		return err
	}
	unlocked := 0
	for _, s := range list {
		if s.Unlocked {
			unlocked++
		}
	}
	ui.Header(fmt.Sprintf("%s Achievements %d/%d", ui.IconTrophy, unlocked, len(list)))

	var category string
	for _, s := range list {
		if achievementsUnlockedOnly && !s.Unlocked {
			continue
		}
		if s.Rule.Category != category {
			category = s.Rule.Category
			fmt.Println()
			fmt.Println("  " + ui.Subtitle.Render(category))
		}
		fmt.Println(formatAchievement(s, a))
	}
	fmt.Println()
	return nil
}

func formatAchievement(s tracker.AchievementStatus, a *app) string {
	if !s.Unlocked {
		return fmt.Sprintf("  %s %s %s", ui.IconLock, ui.Muted.Render(s.Rule.Name), ui.Muted.Render(s.Rule.Description))
	}
	return fmt.Sprintf("  %s %s %s %s", ui.IconTrophy, ui.Accent.Render(s.Rule.Name), s.Rule.Description,
		ui.Muted.Render(s.UnlockedAt.In(a.settings.Location).Format("Jan 2 2006")))
}
