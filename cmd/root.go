// Package cmd defines the birdseye command-line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/birdseye/internal/checklist"
	"github.com/JakeFAU/birdseye/internal/config"
	"github.com/JakeFAU/birdseye/internal/logging"
)

// errUsage marks a run that already printed usage and only needs a non-zero exit.
var errUsage = errors.New("usage")

type runtimeKey struct{}

// runtime is built once per invocation in PersistentPreRunE.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

type rootOptions struct {
	configFile  string
	envFile     string
	outputDir   string
	noPhotos    bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "birdseye [CHECKLIST_URL]",
		Short: "Turn an eBird checklist into a photo gallery page",
		Long: `birdseye fetches an eBird checklist, resolves species names from the
eBird taxonomy, looks up a Wikipedia photo for each species and writes a
static HTML page (docs/index.html by default).

Set your API key in .env (EBIRD_API_KEY=xxx) or as an environment variable.
Get an API key at: https://ebird.org/api/keygen`,
		Example:       "  birdseye https://ebird.org/checklist/S12345678",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configFile, opts.envFile, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging, logging.WithWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			cmd.SetContext(context.WithValue(cmd.Context(), runtimeKey{}, &runtime{cfg: cfg, logger: logger}))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtime); ok {
				_ = rt.logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd)
			}
			return runGenerate(cmd, args[0])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "KEY=VALUE file holding EBIRD_API_KEY")
	flags.StringVar(&opts.outputDir, "output-dir", "", "directory the page is written into (default docs)")
	flags.BoolVar(&opts.noPhotos, "no-photos", false, "skip the Wikipedia photo lookup")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")

	cmd.AddCommand(newGenerateCmd(), newServeCmd())
	return cmd
}

func usage(cmd *cobra.Command) error {
	if err := cmd.Usage(); err != nil {
		return err
	}
	return errUsage
}

func runtimeFrom(ctx context.Context) (*runtime, error) {
	rt, ok := ctx.Value(runtimeKey{}).(*runtime)
	if !ok || rt == nil {
		return nil, errors.New("configuration not loaded")
	}
	return rt, nil
}

// Execute runs the CLI with the process arguments and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	reportError(stderr, err)
	return 1
}

func reportError(w io.Writer, err error) {
	switch {
	case errors.Is(err, errUsage):
	case errors.Is(err, config.ErrMissingAPIKey):
		fmt.Fprintln(w, "Error: No API key found.")
		fmt.Fprintln(w, "Create a .env file with: EBIRD_API_KEY=your_key_here")
		fmt.Fprintln(w, "Or set the EBIRD_API_KEY environment variable.")
	case errors.Is(err, checklist.ErrUpstream):
		fmt.Fprintf(w, "API error: %v\n", err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
