// =============================================================================
// Docflow - Cell Error Accumulation
// =============================================================================
//
// Cell-level findings are collected, not thrown. One parse invocation owns
// one ErrorMap; the map is mutated while rows are validated and handed to the
// caller as an immutable snapshot afterwards.
//
// Consecutive invalid cells in the same column collapse into a single range
// record {column, firstRow, lastRow}, keyed by the range's last row. Error
// export and notification text rely on this representation. The merge is
// order-dependent: rows must be validated in increasing row order.
//
// =============================================================================

package parsing

import (
	"fmt"
	"sort"
)

// ErrorKind is the machine-readable classification of a cell error.
type ErrorKind string

const (
	// ErrorEmptyField marks a cell that holds no value at all.
	ErrorEmptyField ErrorKind = "empty_field"

	// ErrorFill marks a cell whose value failed its rule chain.
	ErrorFill ErrorKind = "fill_error"
)

// CellError is a single bad cell or a contiguous vertical run of bad cells in
// one column. FirstRow <= LastRow always holds; a singleton has FirstRow ==
// LastRow.
type CellError struct {
	Column   string
	FirstRow int
	LastRow  int
	Kind     ErrorKind
	Text     string
}

// Cells renders the A1-style span this error covers, e.g. "C5" or "C5-9".
func (e CellError) Cells() string {
	if e.FirstRow == e.LastRow {
		return fmt.Sprintf("%s%d", e.Column, e.FirstRow)
	}
	return fmt.Sprintf("%s%d-%d", e.Column, e.FirstRow, e.LastRow)
}

// ErrorMap accumulates cell errors for one parse invocation, keyed by row
// then column. Ranges live only at their last row: extending a range deletes
// the entry at the previous row.
type ErrorMap struct {
	rows map[int]map[string]CellError
}

// newErrorMap returns an empty accumulator.
func newErrorMap() *ErrorMap {
	return &ErrorMap{rows: make(map[int]map[string]CellError)}
}

// put stores an error at (row, column), creating the row bucket on demand.
func (m *ErrorMap) put(row int, column string, e CellError) {
	bucket, ok := m.rows[row]
	if !ok {
		bucket = make(map[string]CellError)
		m.rows[row] = bucket
	}
	bucket[column] = e
}

// recordSingleton stores a fresh single-cell error at (row, column),
// regardless of any neighboring errors. Empty-field errors always take this
// path: an absent cell never joins a range from the prior row.
func (m *ErrorMap) recordSingleton(row int, column string, kind ErrorKind, text string) {
	m.put(row, column, CellError{
		Column:   column,
		FirstRow: row,
		LastRow:  row,
		Kind:     kind,
		Text:     text,
	})
}

// recordMerged stores a fill error at (row, column), merging with the fill
// range that ends at row-1 in the same column when one exists. A range whose
// rows failed for different reasons carries the generic fill text instead of
// one row's message. Empty-field singletons never extend: a fill error below
// one starts a fresh range. Rows must arrive in increasing order for the
// merge to see the prior range.
func (m *ErrorMap) recordMerged(row int, column string, text string) {
	if prev, ok := m.rows[row-1][column]; ok && prev.Kind == ErrorFill {
		if prev.Text != text {
			text = genericFillText
		}
		m.put(row, column, CellError{
			Column:   column,
			FirstRow: prev.FirstRow,
			LastRow:  row,
			Kind:     ErrorFill,
			Text:     text,
		})
		delete(m.rows[row-1], column)
		if len(m.rows[row-1]) == 0 {
			delete(m.rows, row-1)
		}
		return
	}

	m.recordSingleton(row, column, ErrorFill, text)
}

// Len returns the number of recorded error ranges.
func (m *ErrorMap) Len() int {
	n := 0
	for _, bucket := range m.rows {
		n += len(bucket)
	}
	return n
}

// Empty reports whether no errors were recorded.
func (m *ErrorMap) Empty() bool { return m.Len() == 0 }

// At returns the error recorded at (row, column), if any. Ranges are keyed
// by their last row.
func (m *ErrorMap) At(row int, column string) (CellError, bool) {
	e, ok := m.rows[row][column]
	return e, ok
}

// Snapshot returns a deep copy of the accumulated errors keyed by row then
// column. Mutating the copy does not affect the accumulator.
func (m *ErrorMap) Snapshot() map[int]map[string]CellError {
	out := make(map[int]map[string]CellError, len(m.rows))
	for row, bucket := range m.rows {
		cp := make(map[string]CellError, len(bucket))
		for col, e := range bucket {
			cp[col] = e
		}
		out[row] = cp
	}
	return out
}

// clone returns an independent ErrorMap holding a copy of the accumulated
// errors.
func (m *ErrorMap) clone() *ErrorMap {
	return &ErrorMap{rows: m.Snapshot()}
}

// Ranges returns all recorded errors ordered by last row, then column. This
// is the order the error report presents.
func (m *ErrorMap) Ranges() []CellError {
	out := make([]CellError, 0, m.Len())
	for _, bucket := range m.rows {
		for _, e := range bucket {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastRow != out[j].LastRow {
			return out[i].LastRow < out[j].LastRow
		}
		return out[i].Column < out[j].Column
	})
	return out
}
