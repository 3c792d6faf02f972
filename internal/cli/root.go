// Package cli implements the ntpc command line: one cobra command per agent
// tool, grouped by domain.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ntpc-opendata/ntpc-opendata/internal/config"
	"github.com/ntpc-opendata/ntpc-opendata/internal/logging"
	"github.com/ntpc-opendata/ntpc-opendata/internal/opendata"
	"github.com/ntpc-opendata/ntpc-opendata/internal/tools"
)

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Options configures the command tree.
type Options struct {
	Version   string
	BuildTime string

	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer

	// Fetcher replaces the portal client built from configuration.
	Fetcher opendata.RowFetcher
}

type app struct {
	opts Options

	format     string
	verbose    bool
	configPath string

	logger   zerolog.Logger
	registry *tools.Registry
}

// NewRootCommand builds the ntpc command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	a := &app{opts: opts, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:               "ntpc",
		Short:             "Query New Taipei City transportation open data",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.format, "format", FormatTable, "Output format: table or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default $"+config.EnvConfigPath+")")

	// Descriptions only; the registry that runs tools is built in setup.
	catalog := tools.NewRegistry(tools.Services{}, zerolog.Nop())

	root.AddCommand(
		a.busCommand(catalog),
		a.bikeCommand(catalog),
		a.parkingCommand(catalog),
		a.trafficCommand(catalog),
		a.miscCommand(catalog),
		a.versionCommand(),
	)
	return root
}

// setup loads configuration and wires the tool registry before any tool runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.format != FormatTable && a.format != FormatJSON {
		return fmt.Errorf("unknown format %q: use %s or %s", a.format, FormatTable, FormatJSON)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.logger = logging.New(logging.Options{
		Level:   level,
		Console: true,
		Output:  a.opts.Stderr,
	})

	fetcher := a.opts.Fetcher
	if fetcher == nil {
		fetcher = opendata.NewClient(opendata.ClientConfig{
			BaseURL:   cfg.OpenData.BaseURL,
			APIKey:    cfg.OpenData.APIKey,
			Timeout:   cfg.OpenData.Timeout,
			Retries:   cfg.OpenData.Retries,
			Resources: cfg.OpenData.Resources,
			Logger:    a.logger,
		})
	}

	a.registry = tools.NewRegistry(tools.NewServices(fetcher, a.logger), a.logger)
	a.logger.Debug().
		Str("command", cmd.CommandPath()).
		Str("base_url", cfg.OpenData.BaseURL).
		Msg("cli configured")
	return nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ntpc %s (built %s)\n", a.opts.Version, a.opts.BuildTime)
		},
	}
}
