package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/srg/blimp/pkg/config"
)

// loadConfig reads --config and applies --log-level on top of it.
// Flags take precedence over file values.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if logLevelStr, _ := cmd.Flags().GetString("log-level"); logLevelStr != "" {
		switch logLevelStr {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = logLevelStr
		default:
			return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logLevelStr)
		}
	}
	return cfg, nil
}

// configureLogger builds the logger from cfg. --log-level wins over
// --verbose; --verbose only raises the level to debug.
func configureLogger(cmd *cobra.Command, cfg *config.Config, verboseFlagName string) *logrus.Logger {
	logger := cfg.NewLogger()

	if logLevelStr, _ := cmd.Flags().GetString("log-level"); logLevelStr == "" && verboseFlagName != "" {
		if verbose, _ := cmd.Flags().GetBool(verboseFlagName); verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	}
	logger.SetOutput(cmd.ErrOrStderr())
	return logger
}
