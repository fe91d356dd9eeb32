package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/config"
	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and manage configuration",
	RunE:  hook.Wrap("config", runConfigShow),
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configUnsetCmd)
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every setting and its value",
	RunE:  hook.Wrap("config.show", runConfigShow),
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print configuration file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.GetPaths().ConfigFile)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Supported keys:\n" + keyHelp(),
	Args:  cobra.ExactArgs(2),
	RunE:  hook.Wrap("config.set", runConfigSet),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.get", runConfigGet),
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.unset", runConfigUnset),
}

func keyHelp() string {
	var b strings.Builder
	for _, name := range config.ValidKeyNames() {
		fmt.Fprintf(&b, "  %-28s %s\n", name, config.SchemaKeys[name].Desc)
	}
	return b.String()
}

func lookupKey(key string) (*config.KeyEntry, error) {
	entry, ok := config.LookupKey(key)
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (valid keys: %s)",
			key, strings.Join(config.ValidKeyNames(), ", "))
	}
	return entry, nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	entry, err := lookupKey(key)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := entry.Set(cfg, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s = %s", key, entry.Get(cfg)))
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	entry, err := lookupKey(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fmt.Println(entry.Get(cfg))
	return nil
}

func runConfigUnset(_ *cobra.Command, args []string) error {
	key := args[0]
	entry, err := lookupKey(key)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	entry.Unset(cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	ui.Ok(fmt.Sprintf("%s reset to %q", key, entry.Get(cfg)))
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ui.Header("Configuration")
	fmt.Println()
	for _, name := range config.ValidKeyNames() {
		entry := config.SchemaKeys[name]
		val := entry.Get(cfg)
		if val == "" {
			val = ui.Muted.Render("(unset)")
		} else if entry.DefaultStr != "" && val != entry.DefaultStr {
			val += ui.Muted.Render("  (default " + entry.DefaultStr + ")")
		}
		ui.Kv(name, val)
	}
	fmt.Println()
	fmt.Printf("  %s\n", ui.Muted.Render("Config: "+config.GetPaths().ConfigFile))
	fmt.Printf("  %s\n", ui.Muted.Render("Data:   "+config.GetPaths().DBFile))
	fmt.Println()
	return nil
}
