package main

import (
	"github.com/spf13/cobra"

	"umbrella-customizer/config"
	"umbrella-customizer/logger"
)

type rootFlags struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "umbrella",
		Short:         "Preview umbrellas in a color theme with your logo and export them as PNG",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand starts the server
			return runServe(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Environment file loaded outside production")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// setup loads the environment and configuration and builds the logger
func setup(flags *rootFlags) (*config.Config, *logger.Logger, error) {
	loaded, envErr := config.LoadEnv(flags.envFile)

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, HumanReadable: cfg.HumanLogs})
	if err != nil {
		return nil, nil, err
	}

	switch {
	case envErr != nil:
		log.Warn("⚠️  could not load env file, using system environment variables", "path", flags.envFile, "error", envErr.Error())
	case loaded:
		log.Info("✓ loaded environment variables", "path", flags.envFile)
	}
	return cfg, log, nil
}
