// Tapolight is a command line utility for Tapo color smart bulbs.
//
// It provides device discovery, an interactive control wizard, and direct
// commands for switching power, brightness, color temperature, and preset
// colors. The tool speaks the bulb's local HTTP API and needs only the
// Tapo account credentials used during device setup.
//
// Usage:
//
//	tapolight [command] [flags]
//
// Running without arguments launches the interactive wizard.
// See 'tapolight --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tapolight/internal/logging"
	"tapolight/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tapolight",
	Short: "Tapo Smart Bulb Control Utility",
	Long: `A standalone utility for controlling Tapo color smart bulbs.

Provides device discovery, an interactive control wizard, and direct
commands for power, brightness, color temperature, and preset colors.

If no command is specified, the interactive wizard will launch automatically.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run wizard when no subcommand provided
		return runWizard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tapolight %s\n", version.Full())
	},
}
