package main

import (
	"io"

	"mission-control/internal/config"
	"mission-control/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "mission-control",
		Short:         "Mission Control budget and data tools",
		Long:          "Run budget scenarios, seed the dashboard database and print the daily briefing.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Optional path to YAML config")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level to stderr")

	root.AddCommand(newScenarioCmd(opts))
	root.AddCommand(newSeedCmd(opts))
	root.AddCommand(newBriefingCmd(opts))
	return root
}

// load reads the configuration and builds a logger for a command run.
func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Server.LogLevel
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, true)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
