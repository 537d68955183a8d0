// Command lanes builds the lane frequency report for a spreadsheet from the
// command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Shared flags
	profilesFile string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "lanes",
	Short: "Origin, destination and lane frequencies for shipment spreadsheets",
	Long: `lanes reads a shipment spreadsheet (.xlsx or .csv), drops rows without a
delivery time and prints the most frequent origins, destinations and lanes.

Available subcommands:
  report   - Build and print a report for one file
  profiles - List the known column profiles`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilesFile, "profiles-file", "", "YAML file with column profiles (built-in profiles if empty)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(profilesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}
