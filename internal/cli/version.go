package cli

import (
	"fmt"

	"github.com/linkbundle/linkbundle/internal/branding"
	"github.com/linkbundle/linkbundle/internal/ui"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

// buildInfo is the --json shape of the version command.
type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build info as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the " + branding.CLIName() + " version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch {
		case versionShort:
			_, err := fmt.Fprintln(out, buildVersion)
			return err
		case versionJSON:
			return ui.New(out, false).JSON(buildInfo{Version: buildVersion, Commit: buildCommit, Date: buildDate})
		}
		_, err := fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n",
			branding.CLIName(), buildVersion, buildCommit, buildDate)
		return err
	},
}
