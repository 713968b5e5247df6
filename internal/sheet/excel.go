package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Excel is a Reader backed by an xlsx workbook. It reads from one sheet,
// by default the workbook's active sheet.
type Excel struct {
	file  *excelize.File
	sheet string
}

// OpenExcel opens the workbook at path and binds the reader to its active
// sheet. The caller owns the returned Excel and must Close it.
func OpenExcel(path string) (*Excel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		f.Close()
		return nil, fmt.Errorf("workbook %s has no active sheet", path)
	}

	return &Excel{file: f, sheet: name}, nil
}

// Sheet returns the bound sheet name.
func (e *Excel) Sheet() string { return e.sheet }

// Cell implements Reader. Read errors (malformed references, missing sheet)
// report an absent cell; the header gate catches structurally broken files
// before row parsing relies on this.
func (e *Excel) Cell(column string, row int) (string, bool) {
	raw, err := e.file.GetCellValue(e.sheet, Axis(column, row))
	if err != nil {
		return "", false
	}
	value := Normalize(raw)
	if value == "" {
		return "", false
	}
	return value, true
}

// Close releases the underlying workbook.
func (e *Excel) Close() error {
	return e.file.Close()
}
