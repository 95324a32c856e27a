package cli

import (
	"errors"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

var bundleJSON bool

func init() {
	bundleCmd.Flags().BoolVar(&bundleJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(bundleCmd)
}

var bundleCmd = &cobra.Command{
	Use:   "bundle <name>",
	Short: "Get all links in a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := args[0]
		links, err := e.svc.Bundle(cmd.Context(), name)
		switch {
		case errors.Is(err, bundle.ErrNotFound):
			e.out.Error("%s does not exist", name)
			return nil
		case err != nil:
			return err
		}

		if bundleJSON {
			return e.out.JSON(links)
		}
		e.out.List(links)
		return nil
	},
}
