package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check stored bundles for problems",
	Long: `Validate every stored document against its schema and format version,
and report bundles whose links are missing or records no bundle refers to.
Nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		e.out.Info("Store: %s (%s)", e.settings.Backend, e.location.Path(e.settings.Backend))

		issues, err := e.store.Verify(cmd.Context())
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			e.out.Success("No problems found.")
			return nil
		}
		for _, issue := range issues {
			e.out.Error("%s", issue)
		}
		return fmt.Errorf("found %s", e.out.Plural(len(issues), "problem", "problems"))
	},
}
