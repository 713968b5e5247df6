// =============================================================================
// Docflow - Check Command
// =============================================================================
//
// This file defines the 'check' command, which processes every pending
// partner document: validates it against the partner's template, reconciles
// order confirmations against the order book, exports error reports, and
// routes each document into the archive folder matching its verdict.
//
// COMMAND USAGE:
//   docflow check [flags]
//
// FLAGS:
//   --partner  : Process only a single partner's inbox
//   --template : Process only documents of one template kind
//   --dry-run  : Parse and classify without moving files or writing reports
//
// PROCESSING PIPELINE:
//   1. Load configuration files and the order book
//   2. Discover spreadsheets in each partner's inbox
//   3. For each partner (concurrently):
//      a. Match each file to a template by name
//      b. Gate the file on its header labels
//      c. Run the template strategy (reconcile or row walk)
//      d. Export an error report if cells failed validation
//      e. Route the file into the archive folder for its verdict
//   4. Generate a summary report
//
// ROUTING POLICY:
//   - Reconciliation failures (unknown order, misaligned item) -> rejected
//   - Configuration or structural failures -> file stays in the inbox
//   - Cell errors -> validation_error, except price lists, whose cell
//     errors do not block approval
//   - Clean order documents -> confirmed / canceled / changed
//   - Clean price lists and delivery documents -> approved
//
// Documents within one partner inbox are processed sequentially, which
// serializes item updates for any one order.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/partnerdesk/docflow/internal/config"
	"github.com/partnerdesk/docflow/internal/order"
	"github.com/partnerdesk/docflow/internal/parsing"
	"github.com/partnerdesk/docflow/internal/report"
	"github.com/partnerdesk/docflow/internal/template"
	"github.com/partnerdesk/docflow/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// partnerFilter restricts the run to a single partner code.
var partnerFilter string

// templateFilter restricts the run to a single template kind.
var templateFilter string

// dryRun parses and classifies without moving files or writing reports.
var dryRun bool

// =============================================================================
// CHECK COMMAND DEFINITION
// =============================================================================

// checkCmd represents the 'check' command.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Process pending partner documents and reconcile them against orders",
	Long: `The check command scans each partner's inbox for spreadsheet documents,
matches them to the partner's template configuration, validates their cells,
and reconciles order confirmations against the open-order book.

Each partner inbox is processed in its own goroutine; documents within one
inbox are handled sequentially so that updates to any one order are serialized.

After processing:
  - Each document is moved into the archive folder matching its verdict
  - Documents with cell errors get an XLSX error report in the reports directory
  - A summary report is generated`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(
		&partnerFilter,
		"partner",
		"",
		"Process only a single partner's inbox (partner code)",
	)

	checkCmd.Flags().StringVar(
		&templateFilter,
		"template",
		"",
		"Process only documents of one template kind (order, price, upd)",
	)

	checkCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Parse and classify without moving files or writing reports",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// partnerResult aggregates one partner's run for the summary.
type partnerResult struct {
	partner  string
	handled  []utils.HandledFileInfo
	rejected []utils.RejectedFileInfo
	total    int
	errors   int
}

// runCheck orchestrates the full processing pipeline.
func runCheck() error {
	startTime := time.Now()

	// =========================================================================
	// STEP 1: LOAD CONFIGURATION AND THE ORDER BOOK
	// =========================================================================

	fmt.Println("=== Docflow ===")
	fmt.Println("Loading configuration...")

	mainConfig, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}

	partnerConfigs, err := config.LoadPartnerConfigs(mainConfig.PartnersDir)
	if err != nil {
		return fmt.Errorf("failed to load partner configs: %w", err)
	}
	if partnerFilter != "" {
		pc, ok := partnerConfigs[partnerFilter]
		if !ok {
			return fmt.Errorf("unknown partner %q", partnerFilter)
		}
		partnerConfigs = map[string]*config.PartnerConfig{partnerFilter: pc}
	}
	if templateFilter != "" && !template.Known(template.Code(templateFilter)) {
		return fmt.Errorf("unknown template %q", templateFilter)
	}

	fmt.Printf("Loaded %d partner configuration(s)\n", len(partnerConfigs))

	store, err := order.LoadStore(mainConfig.OrdersFile)
	if err != nil {
		return fmt.Errorf("failed to load order book: %w", err)
	}

	fileManager := utils.NewFileManager(mainConfig.InboxDir, mainConfig.ArchiveDir)
	if err := fileManager.EnsureDirectories(); err != nil {
		return err
	}

	reportWriter := report.New(mainConfig.ReportsDir)
	recorder := parsing.NewMemoryRecorder()

	// =========================================================================
	// STEP 2: PROCESS PARTNERS CONCURRENTLY
	// =========================================================================
	// Each partner runs in its own goroutine, bounded by MaxConcurrency.
	// Results flow through a buffered channel.

	fmt.Println("Processing partner inboxes...")

	var wg sync.WaitGroup
	results := make(chan partnerResult, len(partnerConfigs))
	sem := make(chan struct{}, mainConfig.MaxConcurrency)

	for code, pc := range partnerConfigs {
		wg.Add(1)

		go func(code string, pc *config.PartnerConfig) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results <- processPartner(code, pc, mainConfig, store, fileManager, reportWriter, recorder)
		}(code, pc)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// =========================================================================
	// STEP 3: COLLECT RESULTS AND GENERATE SUMMARY
	// =========================================================================

	summary := utils.ProcessingSummary{StartTime: startTime}

	for pr := range results {
		summary.TotalFiles += pr.total
		summary.HandledFiles += len(pr.handled)
		summary.RejectedFiles += len(pr.rejected)
		summary.CellErrors += pr.errors
		summary.HandledList = append(summary.HandledList, pr.handled...)
		summary.RejectedList = append(summary.RejectedList, pr.rejected...)

		for _, hf := range pr.handled {
			fmt.Printf("  ✓ %s [%s] -> %s\n", filepath.Base(hf.InputFile), hf.Partner, hf.Outcome)
		}
		for _, rf := range pr.rejected {
			fmt.Printf("  ✗ %s [%s]: %s\n", filepath.Base(rf.InputFile), rf.Partner, rf.ErrorMessage)
		}
	}

	summary.EndTime = time.Now()

	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Total files:     %d\n", summary.TotalFiles)
	fmt.Printf("Handled:         %d\n", summary.HandledFiles)
	fmt.Printf("Rejected:        %d\n", summary.RejectedFiles)
	fmt.Printf("Cell errors:     %d\n", summary.CellErrors)
	fmt.Printf("Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if !dryRun {
		if path, err := utils.WriteSummaryLog(summary, mainConfig.ReportsDir); err == nil {
			fmt.Printf("Summary written: %s\n", path)
		}
	}

	return nil
}

// =============================================================================
// PER-PARTNER PROCESSING
// =============================================================================

// processPartner handles one partner's inbox sequentially.
func processPartner(code string, pc *config.PartnerConfig, mainConfig *config.MainConfig,
	store order.Store, fileManager *utils.FileManager, reportWriter *report.Writer,
	recorder parsing.FileRecorder) partnerResult {

	pr := partnerResult{partner: code}

	files, err := fileManager.DiscoverPartnerFiles(code)
	if err != nil {
		pr.rejected = append(pr.rejected, utils.RejectedFileInfo{
			Partner:      code,
			ErrorMessage: err.Error(),
		})
		return pr
	}
	pr.total = len(files)

	for _, file := range files {
		pr = processFile(file, pc, mainConfig, store, fileManager, reportWriter, recorder, pr)
	}

	return pr
}

// processFile handles one document end to end and folds it into the partner
// result.
func processFile(file string, pc *config.PartnerConfig, mainConfig *config.MainConfig,
	store order.Store, fileManager *utils.FileManager, reportWriter *report.Writer,
	recorder parsing.FileRecorder, pr partnerResult) partnerResult {

	reject := func(msg string) partnerResult {
		pr.rejected = append(pr.rejected, utils.RejectedFileInfo{
			InputFile:    file,
			Partner:      pr.partner,
			ErrorMessage: msg,
		})
		return pr
	}

	code, ok := matchTemplate(file, pc, store)
	if !ok {
		// Unmatched files stay in the inbox for manual review.
		return reject("no template matches the file name")
	}
	if templateFilter != "" && code != template.Code(templateFilter) {
		// Out-of-scope kinds stay in the inbox for a later run.
		pr.total--
		return pr
	}

	fm, err := pc.FieldMap(code)
	if err != nil {
		return reject(err.Error())
	}

	strategy, ok := parsing.StrategyFor(code, store)
	if !ok {
		return reject(fmt.Sprintf("no strategy for template %q", code))
	}

	parser := parsing.NewParser(fm, strategy, parsing.WithRecorder(recorder))

	workbook, err := parser.LoadFile(file)
	if err != nil {
		return reject(err.Error())
	}

	res, parseErr := parser.Parse(file, nil, workbook)
	workbook.Close()

	cellErrors := parser.Errors()
	pr.errors += cellErrors.Len()

	if parseErr != nil {
		kind, _ := parsing.KindOf(parseErr)
		if kind == parsing.FailureReconciliation {
			// Unknown or misaligned order: file the document away.
			route(file, "rejected", mainConfig, fileManager)
		}
		// Configuration and structural failures leave the file in place
		// so the inbox shows what needs operator attention.
		return reject(parseErr.Error())
	}

	if !cellErrors.Empty() {
		if !dryRun {
			if path, err := reportWriter.Write(file, cellErrors.Ranges()); err == nil {
				fmt.Printf("  report: %s\n", path)
			}
		}
		// Price-list cell errors do not block approval; the errors still
		// surface through the report.
		if code != template.CodePrice {
			return handled(file, "validation_error", cellErrors.Len(), mainConfig, fileManager, pr)
		}
	}

	outcome := "approved"
	if code == template.CodeOrder {
		outcome = strings.ToLower(res.Outcome.String())
	}
	return handled(file, outcome, cellErrors.Len(), mainConfig, fileManager, pr)
}

// handled routes a finished document and records it in the summary.
func handled(file, outcome string, cellErrors int, mainConfig *config.MainConfig,
	fileManager *utils.FileManager, pr partnerResult) partnerResult {

	archivePath := file
	if !dryRun {
		if moved, err := fileManager.RouteFile(file, mainConfig.Outcomes[outcome]); err == nil {
			archivePath = moved
		}
	}

	pr.handled = append(pr.handled, utils.HandledFileInfo{
		InputFile:   file,
		Partner:     pr.partner,
		Outcome:     outcome,
		ArchivePath: archivePath,
		CellErrors:  cellErrors,
	})
	return pr
}

// route moves a document without recording a handled entry.
func route(file, outcome string, mainConfig *config.MainConfig, fileManager *utils.FileManager) {
	if dryRun {
		return
	}
	fileManager.RouteFile(file, mainConfig.Outcomes[outcome])
}

// matchTemplate picks the template for a file: the partner's configured file
// patterns first, then each strategy's cheap name check.
func matchTemplate(file string, pc *config.PartnerConfig, store order.Store) (template.Code, bool) {
	name := filepath.Base(file)

	if code, ok := pc.MatchTemplate(name); ok {
		return code, true
	}

	for _, code := range template.Codes {
		if _, ok := pc.Template(code); !ok {
			continue
		}
		strategy, ok := parsing.StrategyFor(code, store)
		if !ok {
			continue
		}
		if strategy.MatchesFileName(name) {
			return code, true
		}
	}

	return "", false
}
