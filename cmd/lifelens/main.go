// Package main is the lifelens command line tool. It generates reports
// without the HTTP service and renders stored report records.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lifelens/internal/config"
	"lifelens/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

type rootOptions struct {
	envFile  string
	logLevel string
	log      *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:     "lifelens",
		Short:   "Generate and render LifeLens reports",
		Version: version,
		Long: `lifelens runs the report pipeline locally. generate turns a questionnaire
JSON file into a report record using the configured text provider, and render
lays a stored record out as a PDF or as draw instructions.

Configuration is read from the environment and an optional .env file, the same
way the server reads it.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(logger.Config{
				Level:      opts.logLevel,
				Encoding:   "console",
				OutputPath: "stderr",
				Service:    "lifelens-cli",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			zap.ReplaceGlobals(log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "path to an optional .env file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	return cmd
}

func (o *rootOptions) loadConfig(offline bool) (*config.Config, error) {
	if offline {
		// Set before loading so the .env file cannot override it.
		if err := os.Setenv("AI_PROVIDER", config.ProviderNone); err != nil {
			return nil, err
		}
	}
	return config.LoadConfig(o.envFile)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
