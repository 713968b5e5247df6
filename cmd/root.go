// =============================================================================
// Docflow - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'check', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (docflow)
//   ├── checkCmd (docflow check)
//   ├── validateCmd (docflow validate)
//   └── versionCmd (docflow version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "docflow",

	Short: "Docflow - reconcile partner spreadsheet documents against orders",

	Long: `Docflow processes spreadsheet documents exchanged with trading partners:
order confirmations, price lists and delivery documents dropped into per-partner
inbox directories.

Key Features:
  - Per-partner template configuration (field mappings, header labels)
  - Cell-level validation with contiguous error-range aggregation
  - Order reconciliation: CONFIRMED / CANCELED / CHANGED verdicts
  - XLSX error reports for documents that fail validation
  - Outcome-based routing of processed documents into archive folders
  - Concurrent processing across partner inboxes

Example Usage:
  docflow check                     # Process all pending partner documents
  docflow check --partner acme      # Process a single partner's inbox
  docflow validate                  # Validate configuration without processing`,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
