package cli

import (
	"github.com/spf13/cobra"
)

var bundlesJSON bool

func init() {
	bundlesCmd.Flags().BoolVar(&bundlesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(bundlesCmd)
}

var bundlesCmd = &cobra.Command{
	Use:     "bundles",
	Aliases: []string{"ls"},
	Short:   "Fetch a list of bundles",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		names, err := e.svc.Bundles(cmd.Context())
		if err != nil {
			return err
		}
		if bundlesJSON {
			return e.out.JSON(names)
		}
		e.out.List(names)
		return nil
	},
}
