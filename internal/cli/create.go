package cli

import (
	"errors"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <bundle>",
	Short: "Create a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := args[0]
		err = e.svc.CreateBundle(cmd.Context(), name)
		switch {
		case errors.Is(err, bundle.ErrAlreadyExists):
			e.out.Error("A bundle with this name already exists")
			return nil
		case err != nil:
			return err
		}
		e.out.Success("The bundle %s was successfully created", name)
		return nil
	},
}
