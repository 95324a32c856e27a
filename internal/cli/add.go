package cli

import (
	"errors"
	"fmt"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <bundle> <link...>",
	Short: "Add a link to a bundle",
	Long: `Append links to a bundle. Each link must be an absolute URL; invalid
links are reported and skipped while the others are still added.

Example:
  linkbundle add work https://mail.example.com https://calendar.example.com`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := args[0]
		results, err := e.svc.AddToBundle(cmd.Context(), name, args[1:])
		switch {
		case errors.Is(err, bundle.ErrNotFound):
			e.out.Error("%s does not exist", name)
			return nil
		case err != nil:
			return err
		}

		failed := 0
		for _, r := range results {
			switch {
			case r.OK():
				e.out.Success("%s was added", r.Item)
			case errors.Is(r.Err, bundle.ErrInvalidURL):
				e.out.Error("%s is not a valid url", r.Item)
			default:
				failed++
				e.out.Error("%s could not be added: %v", r.Item, r.Err)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%s could not be saved", e.out.Plural(failed, "link", "links"))
		}
		return nil
	},
}
