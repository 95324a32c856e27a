package cli

import (
	"errors"
	"fmt"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <bundle...>",
	Short: "Delete a bundle",
	Long: `Delete one or more bundles. Each name is handled on its own: a missing
bundle is reported and the remaining names are still deleted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		failed := 0
		for _, r := range e.svc.DeleteBundles(cmd.Context(), args) {
			switch {
			case r.OK():
				e.out.Success("%s was deleted", r.Item)
			case errors.Is(r.Err, bundle.ErrNotFound):
				e.out.Error("%s does not exist", r.Item)
			default:
				failed++
				e.out.Error("%s could not be deleted: %v", r.Item, r.Err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%s could not be deleted", e.out.Plural(failed, "bundle", "bundles"))
		}
		return nil
	},
}
