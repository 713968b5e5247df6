// =============================================================================
// Docflow - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for the document pipeline:
//   - Inbox discovery (per-partner subdirectories of spreadsheets)
//   - Outcome routing (moving handled documents into archive folders)
//   - Processing summary generation
//
// ROUTING STRATEGY:
//   - Handled documents move from the partner inbox into the archive folder
//     matching their verdict (confirmed, canceled, changed, rejected)
//   - Documents that fail before a verdict route to the rejected folder
//   - Unmatched files stay in the inbox for manual review
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles inbox and archive operations for the pipeline.
type FileManager struct {
	// InboxDir is the root inbox; each partner has a subdirectory named by
	// its partner code.
	InboxDir string

	// ArchiveDir is the root of the outcome folders.
	ArchiveDir string

	// UseTimestampSubdirs creates date-based subdirectories in the archive.
	// Example: archive/confirmed/2026/08/31/file.xlsx
	UseTimestampSubdirs bool
}

// NewFileManager creates a FileManager over the given directories.
func NewFileManager(inboxDir, archiveDir string) *FileManager {
	return &FileManager{
		InboxDir:   inboxDir,
		ArchiveDir: archiveDir,
	}
}

// EnsureDirectories creates the inbox and archive roots if absent.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InboxDir, fm.ArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// INBOX DISCOVERY
// =============================================================================

// DiscoverPartnerFiles scans one partner's inbox subdirectory for
// spreadsheets. A missing subdirectory yields an empty list, not an error; a
// partner with no pending documents is normal.
func (fm *FileManager) DiscoverPartnerFiles(partnerCode string) ([]string, error) {
	dir := filepath.Join(fm.InboxDir, partnerCode)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inbox for %s: %w", partnerCode, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~$") {
			// Office lock files appear while a document is open.
			continue
		}
		switch strings.ToLower(filepath.Ext(name)) {
		case ".xlsx", ".xlsm":
			files = append(files, filepath.Join(dir, name))
		}
	}

	return files, nil
}

// =============================================================================
// OUTCOME ROUTING
// =============================================================================

// RouteFile moves a handled document into the archive folder for its
// verdict. outcomeDir is the folder name relative to ArchiveDir.
func (fm *FileManager) RouteFile(filePath, outcomeDir string) (string, error) {
	target := fm.archivePath(outcomeDir, filePath)

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, target); err != nil {
		// Rename fails across devices; fall back to copy and delete.
		if err := copyFile(filePath, target); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return target, nil
}

// archivePath constructs the archive path for a file.
func (fm *FileManager) archivePath(outcomeDir, filePath string) string {
	fileName := filepath.Base(filePath)
	dir := filepath.Join(fm.ArchiveDir, outcomeDir)

	if fm.UseTimestampSubdirs {
		now := time.Now()
		dir = filepath.Join(
			dir,
			fmt.Sprintf("%d", now.Year()),
			fmt.Sprintf("%02d", now.Month()),
			fmt.Sprintf("%02d", now.Day()),
		)
	}

	return filepath.Join(dir, fileName)
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about one run.
type ProcessingSummary struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalFiles     int
	HandledFiles   int
	RejectedFiles  int
	CellErrors     int
	HandledList    []HandledFileInfo
	RejectedList   []RejectedFileInfo
}

// HandledFileInfo describes a document that reached a verdict.
type HandledFileInfo struct {
	InputFile   string
	Partner     string
	Outcome     string
	ArchivePath string
	CellErrors  int
}

// RejectedFileInfo describes a document that failed before a verdict.
type RejectedFileInfo struct {
	InputFile    string
	Partner      string
	ErrorMessage string
}

// WriteSummaryLog writes a processing summary next to the archive.
func WriteSummaryLog(summary ProcessingSummary, outputDir string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	summaryPath := filepath.Join(outputDir, fmt.Sprintf("run_summary_%s.txt", timestamp))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)

	duration := summary.EndTime.Sub(summary.StartTime)
	header := fmt.Sprintf("Docflow - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Start Time:   %s\n"+
		"  End Time:     %s\n"+
		"  Duration:     %s\n\n"+
		"Statistics:\n"+
		"  Total Files:  %d\n"+
		"  Handled:      %d\n"+
		"  Rejected:     %d\n"+
		"  Cell Errors:  %d\n\n",
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		duration.String(),
		summary.TotalFiles,
		summary.HandledFiles,
		summary.RejectedFiles,
		summary.CellErrors)
	writer.WriteString(header)

	if len(summary.HandledList) > 0 {
		writer.WriteString("Handled Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, hf := range summary.HandledList {
			writer.WriteString(fmt.Sprintf("  File:        %s\n", hf.InputFile))
			writer.WriteString(fmt.Sprintf("  Partner:     %s\n", hf.Partner))
			writer.WriteString(fmt.Sprintf("  Outcome:     %s\n", hf.Outcome))
			writer.WriteString(fmt.Sprintf("  Archived As: %s\n", hf.ArchivePath))
			if hf.CellErrors > 0 {
				writer.WriteString(fmt.Sprintf("  Cell Errors: %d\n", hf.CellErrors))
			}
			writer.WriteString("\n")
		}
	}

	if len(summary.RejectedList) > 0 {
		writer.WriteString("Rejected Files:\n")
		writer.WriteString("--------------------------------------------------------------------------------\n")
		for _, rf := range summary.RejectedList {
			writer.WriteString(fmt.Sprintf("  File:    %s\n", rf.InputFile))
			writer.WriteString(fmt.Sprintf("  Partner: %s\n", rf.Partner))
			writer.WriteString(fmt.Sprintf("  Error:   %s\n\n", rf.ErrorMessage))
		}
	}

	writer.WriteString("================================================================================\n" +
		"End of Summary\n")

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// CleanOldArchives removes archive files older than maxAge and returns how
// many were removed.
func CleanOldArchives(archiveDir string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.Walk(archiveDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})

	if err != nil {
		return removed, fmt.Errorf("failed to clean archives: %w", err)
	}

	return removed, nil
}
