// =============================================================================
// Docflow - Error Report Writer
// =============================================================================
//
// This module exports the cell errors of a failed document into an XLSX
// report the partner desk sends back to the counterpart. One report covers
// one document; each row is one error range.
//
// REPORT STRUCTURE:
//   | Cells  | Kind        | Message                         |
//   | C5     | empty_field | empty field: value is required  |
//   | D5-9   | fill_error  | fill error: value must not ...  |
//
// Ranges appear in the order the error map yields them: by last row, then
// column.
//
// =============================================================================

package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/partnerdesk/docflow/internal/parsing"
)

// sheetName is the single worksheet every report carries.
const sheetName = "Errors"

// header labels, in column order.
var header = []string{"Cells", "Kind", "Message"}

// Writer renders error reports into a target directory.
type Writer struct {
	// Dir is the directory reports are written into.
	Dir string
}

// New creates a Writer for dir.
func New(dir string) *Writer {
	return &Writer{Dir: dir}
}

// FileName builds the report name for a source document: the document's base
// name, a short unique suffix, and the .xlsx extension.
func (w *Writer) FileName(sourcePath string) string {
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	stamp := time.Now().Format("20060102_150405")
	short := uuid.New().String()[:8]
	return fmt.Sprintf("%s_errors_%s_%s.xlsx", base, stamp, short)
}

// Write renders the error ranges of one document into a new XLSX file and
// returns its path. Writing an empty range list is allowed and produces a
// header-only report.
func (w *Writer) Write(sourcePath string, ranges []parsing.CellError) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, label := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, label); err != nil {
			return "", fmt.Errorf("failed to write report header: %w", err)
		}
	}

	for i, r := range ranges {
		row := i + 2
		values := []interface{}{r.Cells(), string(r.Kind), r.Text}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("failed to write report row %d: %w", row, err)
			}
		}
	}

	path := filepath.Join(w.Dir, w.FileName(sourcePath))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save report %s: %w", path, err)
	}
	return path, nil
}
