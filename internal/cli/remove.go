package cli

import (
	"errors"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <bundle> <index...>",
	Aliases: []string{"rm"},
	Short:   "Remove links from a bundle",
	Long: `Remove links by their position as shown by 'bundle <name>' (starting at 1).
All positions refer to the list before removal. Positions that do not match
a link are ignored.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := args[0]
		removed, err := e.svc.RemoveBundleLinks(cmd.Context(), name, args[1:])
		switch {
		case errors.Is(err, bundle.ErrNotFound):
			e.out.Error("%s does not exist", name)
			return nil
		case err != nil:
			return err
		}
		e.out.Success("%s was updated (%s removed)", name, e.out.Plural(removed, "link", "links"))
		return nil
	},
}
