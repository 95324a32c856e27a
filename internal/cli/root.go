package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/linkbundle/linkbundle/internal/branding"
	"github.com/linkbundle/linkbundle/internal/bundle"
	"github.com/linkbundle/linkbundle/internal/config"
	"github.com/linkbundle/linkbundle/internal/kvstore"
	"github.com/linkbundle/linkbundle/internal/logging"
	"github.com/linkbundle/linkbundle/internal/opener"
	"github.com/linkbundle/linkbundle/internal/ui"
	"github.com/linkbundle/linkbundle/internal/userdata"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

// newOpener builds the link opener for exec. Tests replace it.
var newOpener = func(command string) bundle.Opener {
	return opener.New(command)
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` keeps named bundles of links on disk and opens every link
of a bundle in your browser with one command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// env holds what a bundle command needs for one invocation.
type env struct {
	svc   *bundle.Service
	store *bundle.Store
	out   *ui.Printer
	log   *slog.Logger

	settings config.Settings
	location kvstore.Location
	kv       kvstore.Store
}

func (e *env) Close() {
	if err := e.kv.Close(); err != nil {
		e.log.Warn("closing store", "error", err)
	}
}

// setup loads configuration and wires the store, opener, and service.
func setup(cmd *cobra.Command) (*env, error) {
	config.Load()
	settings := config.Current()

	level := logging.ParseLevel(settings.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	log := logging.New(cmd.ErrOrStderr(), level, "cli")

	loc, err := userdata.GetStoreLocation()
	if err != nil {
		return nil, fmt.Errorf("resolving store location: %w", err)
	}
	kv, err := kvstore.Open(cmd.Context(), settings.Backend, loc)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", settings.Backend, err)
	}
	log.Debug("store opened", "backend", settings.Backend)

	store := bundle.NewStore(kv, log)
	svc := bundle.NewService(store, newOpener(settings.Opener),
		bundle.WithConcurrency(settings.Concurrency),
		bundle.WithLogger(log),
	)

	return &env{
		svc:      svc,
		store:    store,
		out:      ui.New(cmd.OutOrStdout(), settings.Color),
		log:      log,
		settings: settings,
		location: loc,
		kv:       kv,
	}, nil
}
