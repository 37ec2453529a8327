// Package app contains the Cobra command tree for cursorwatch.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/cursorwatch/internal/logger"
	"github.com/blackwell-systems/cursorwatch/internal/output"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "cursorwatch",
	Short: "Team usage analytics for the Cursor Admin API",
	Long: `cursorwatch aggregates per-user productivity metrics from the Cursor
Admin API: request volumes, tab acceptance, line counts, activity windows,
and spending. It is the command-line core of the internal usage dashboard.

Run 'cursorwatch' with no arguments to see the available subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetVerbose()
		}
		if flagNoColor {
			output.SetNoColor(true)
		} else {
			output.AutoColor()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("cursorwatch", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  usage     Per-user usage aggregates and team summary")
		fmt.Println("  inactive  Licensed users with no recent activity")
		fmt.Println("  members   Team roster")
		fmt.Println("  events    Individual model-request events")
		fmt.Println("  spend     Team spending summary")
		fmt.Println("  check     Verify API connectivity and credentials")
		return nil
	},
}

// Execute is the entry point called from main. The full error always
// goes to the log; the message printed to the user carries upstream
// response bodies only when debug logging is on (--verbose or
// LOG_LEVEL=debug).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		msg := err.Error()
		if !logger.IsDebug() {
			msg = userMessage(err)
		}
		fmt.Fprintln(os.Stderr, "error:", msg)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/cursorwatch/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
