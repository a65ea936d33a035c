package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"returnpulse/internal/config"
	"returnpulse/internal/infrastructure"
	"returnpulse/pkg/contracts"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "returnpulse",
		Short:         "Unify marketplace return reports and explore them",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newReportCmd(opts),
		newServeCmd(opts),
		newPlatformsCmd(),
	)
	return cmd
}

// load reads the configuration named by the persistent flags.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// cliLogger writes JSON logs to w so stdout stays reserved for the report.
func cliLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return infrastructure.WithComponent(infrastructure.NewLogger(cfg.Logging, w), "cli")
}
