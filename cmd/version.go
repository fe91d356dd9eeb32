package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/grind/internal/hook"
	"github.com/rnwolfe/grind/internal/version"
)

var (
	versionShort bool
	versionJSON  bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print grind version",
	RunE:  hook.Wrap("version", runVersion),
}

func runVersion(_ *cobra.Command, _ []string) error {
	switch {
	case versionJSON:
		out, err := json.MarshalIndent(version.Get(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case versionShort:
		fmt.Println(version.Short())
	default:
		fmt.Printf("grind %s\n", version.Full())
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
}
