// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package internal // import "go.opentelemetry.io/telemetrycore/cmd/otelbasic/internal"

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go.opentelemetry.io/telemetrycore/config"
	"go.opentelemetry.io/telemetrycore/internal/version"
	"go.opentelemetry.io/telemetrycore/service"
)

// Command is the main entrypoint for this application
func Command() (*cobra.Command, error) {
	var cfgFile string

	cmd := &cobra.Command{
		SilenceUsage:  true, // Don't print usage on Run error.
		SilenceErrors: true, // Don't print errors; main does it.
		Use:           "otelbasic",
		Long: fmt.Sprintf("otelbasic (%s)", version.Version) + `

otelbasic starts the trace and metric pipelines described by the
configuration given by the "--config" argument, records a traced
operation with a few measurements and shuts everything down.

Every setting can also be given as an environment variable prefixed
with ` + config.EnvPrefix + `, or with the flags below.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "configuration file")
	config.Flags(cmd.Flags())

	cmd.AddCommand(versionCommand(), validateCommand())
	return cmd, nil
}

func run(ctx context.Context, cfg *config.Config) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	srv, err := service.New(cfg, service.Settings{Version: version.Version})
	if err != nil {
		return err
	}
	defer func() {
		// Sending remaining spans and records.
		err = multierr.Append(err, srv.Shutdown(context.Background()))
	}()

	srv.Logger().Info("Running demo", zap.String("service.name", cfg.ServiceName))
	return runDemo(ctx, srv)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Version of otelbasic",
		Long:  "Prints the version and build information of the otelbasic binary",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s version %s\n", cmd.Parent().Name(), version.Version)
			cmd.Print(version.Current().String())
		},
	}
}

func validateCommand() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validates the configuration",
		Long:  "Loads and validates the configuration without starting any pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			names := cfg.Exporters.Names()
			if len(names) == 0 {
				names = []string{"none"}
			}
			cmd.Printf("configuration is valid, exporters: %s\n", strings.Join(names, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "configuration file")
	config.Flags(cmd.Flags())
	return cmd
}
