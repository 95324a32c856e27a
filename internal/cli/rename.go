package cli

import (
	"errors"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renameCmd)
}

var renameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a bundle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		oldName, newName := args[0], args[1]
		err = e.svc.RenameBundle(cmd.Context(), oldName, newName)
		switch {
		case errors.Is(err, bundle.ErrNotFound):
			e.out.Error("%s does not exist", oldName)
			return nil
		case errors.Is(err, bundle.ErrAlreadyExists):
			e.out.Error("%s already exists", newName)
			return nil
		case err != nil:
			return err
		}
		e.out.Success("%s was renamed to %s", oldName, newName)
		return nil
	},
}
