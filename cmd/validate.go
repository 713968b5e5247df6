// =============================================================================
// Docflow - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// without processing any documents: the main config loads, every partner
// config parses, every template builds a usable field map, and the order
// book is readable.
//
// COMMAND USAGE:
//   docflow validate
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/partnerdesk/docflow/internal/config"
	"github.com/partnerdesk/docflow/internal/order"
	"github.com/partnerdesk/docflow/internal/template"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration without processing documents",
	Long: `The validate command loads the main configuration, every partner
configuration and the order book, and reports problems without touching any
inbox. Run it after editing configuration files.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate()
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate loads every configuration source and reports what it found.
func runValidate() error {
	fmt.Println("=== Docflow Configuration Check ===")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("main config: %w", err)
	}
	fmt.Printf("Main config OK (%s)\n", cfgFile)
	fmt.Printf("  Inbox:    %s\n", mainConfig.InboxDir)
	fmt.Printf("  Archive:  %s\n", mainConfig.ArchiveDir)
	fmt.Printf("  Reports:  %s\n", mainConfig.ReportsDir)

	partnerConfigs, err := config.LoadPartnerConfigs(mainConfig.PartnersDir)
	if err != nil {
		return fmt.Errorf("partner configs: %w", err)
	}

	problems := 0
	for code, pc := range partnerConfigs {
		fmt.Printf("Partner %s (%s): %d template(s)\n", code, pc.PartnerName, len(pc.Templates))

		for _, tc := range pc.Templates {
			fm, err := pc.FieldMap(template.Code(tc.Code))
			if err != nil {
				fmt.Printf("  ✗ template %s: %v\n", tc.Code, err)
				problems++
				continue
			}
			fmt.Printf("  ✓ template %s: %d field mapping(s)\n", tc.Code, len(fm.Mappings()))
		}
	}

	store, err := order.LoadStore(mainConfig.OrdersFile)
	if err != nil {
		return fmt.Errorf("order book: %w", err)
	}
	fmt.Printf("Order book OK (%s): %d open order(s)\n", mainConfig.OrdersFile, store.Len())

	if problems > 0 {
		return fmt.Errorf("%d configuration problem(s) found", problems)
	}

	fmt.Println("Configuration is valid.")
	return nil
}
