// =============================================================================
// Docflow - Tabular Reader
// =============================================================================
//
// This package abstracts cell-addressed access to a spreadsheet. The parsing
// core never touches a workbook format directly: it asks a Reader for the
// value at (column letter, row number) on the active sheet.
//
// Two implementations are provided:
//   - Excel: backed by an xlsx workbook via excelize.
//   - Memory: an in-memory sheet for tests and fixtures.
//
// Cell values are normalized on read: embedded newlines collapse to spaces
// and surrounding whitespace is trimmed. A cell that holds nothing after
// normalization reports absent (ok == false); the parsing core treats absent
// and present-but-invalid cells differently.
//
// =============================================================================

package sheet

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Reader provides cell-addressed access to one sheet.
type Reader interface {
	// Cell returns the normalized value at (column letter, 1-based row) and
	// whether the cell holds a value at all.
	Cell(column string, row int) (string, bool)
}

// Axis joins a column letter and a 1-based row into an A1-style reference.
func Axis(column string, row int) string {
	return strings.ToUpper(column) + strconv.Itoa(row)
}

// Normalize collapses embedded newlines to spaces and trims surrounding
// whitespace.
func Normalize(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

// =============================================================================
// MEMORY SHEET
// =============================================================================

// Memory is an in-memory Reader used by tests and fixtures.
type Memory struct {
	cells map[string]string
}

// NewMemory returns an empty in-memory sheet.
func NewMemory() *Memory {
	return &Memory{cells: make(map[string]string)}
}

// Set stores a cell value. An empty string clears the cell.
func (m *Memory) Set(column string, row int, value string) *Memory {
	axis := Axis(column, row)
	if value == "" {
		delete(m.cells, axis)
		return m
	}
	m.cells[axis] = value
	return m
}

// Cell implements Reader.
func (m *Memory) Cell(column string, row int) (string, bool) {
	raw, ok := m.cells[Axis(column, row)]
	if !ok {
		return "", false
	}
	value := Normalize(raw)
	if value == "" {
		return "", false
	}
	return value, true
}

// =============================================================================
// EXCEL SERIAL DATES
// =============================================================================

// SerialToTime converts an Excel serial date (1900 date system, day 1 is
// 1900-01-01) to a time.Time in UTC. The integer part counts days and the
// fraction counts time of day.
func SerialToTime(serial float64) time.Time {
	serial -= 2.0
	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400.0)

	base := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second)
}
