package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"returnpulse/internal/app"
	"returnpulse/internal/infrastructure"
	"returnpulse/pkg/contracts"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			logger, err := infrastructure.InitializeLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			ctx := infrastructure.EnsureTraceID(cmd.Context())
			infrastructure.LoggerFromContext(ctx).Info("Starting returnpulse",
				slog.String("version", contracts.Version),
				slog.String("addr", cfg.Server.Addr()))

			application, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			return application.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}
