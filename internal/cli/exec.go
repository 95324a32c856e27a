package cli

import (
	"errors"

	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec <bundle>",
	Short: "Open bundle links",
	Long: `Open every link of a bundle with the system's default handler. At most
exec.concurrency links (default 5) are opened at the same time; set
exec.opener to use a specific program instead of the platform default.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		name := args[0]
		started := false
		_, err = e.svc.ExecBundleLinks(cmd.Context(), name, func(r bundle.Result) {
			if !started {
				e.out.Success("Opening links...")
				started = true
			}
			if r.OK() {
				e.out.Success("%s opened", r.Item)
				return
			}
			e.log.Debug("open failed", "link", r.Item, "error", r.Err)
			e.out.Error("%s did not open", r.Item)
		})
		switch {
		case errors.Is(err, bundle.ErrNotFound):
			e.out.Error("%s does not exist", name)
			return nil
		case errors.Is(err, bundle.ErrEmptyBundle):
			e.out.Info("%s is empty", name)
			return nil
		}
		return err
	},
}
