package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// formatVersion adds 'v' prefix if version starts with a digit
func formatVersion(ver string) string {
	if len(ver) > 0 && unicode.IsDigit(rune(ver[0])) {
		return "v" + ver
	}
	return ver
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blimp",
	Short: "Bluetooth Low Energy notifying peripheral",
	Long: `Bluetooth Low Energy (BLE) peripheral that exposes one readable and
notifiable characteristic:

- Advertises a configurable device name and service
- Pushes a fresh random value in [0, 100) to every subscribed central each period
- Answers reads with a freshly drawn value
- Reports central subscriptions and departures as they happen

Useful as a known-good peer when developing and testing BLE centrals.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", formatVersion(version), commit, date),
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Ctrl+C is a normal exit, not an error - exit silently
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", FormatUserError(err))
		os.Exit(1)
	}
}

func init() {
	// Silence Cobra's "Error:" prefix - main() prints clean errors
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(sampleCmd)

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")
}
