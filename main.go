// =============================================================================
// Docflow - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Docflow CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   docflow check          - Process all pending partner documents
//   docflow validate       - Validate configuration files without processing
//   docflow version        - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//   - partners/      : Contains per-partner YAML template configurations
//
// =============================================================================

package main

import (
	"github.com/partnerdesk/docflow/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
