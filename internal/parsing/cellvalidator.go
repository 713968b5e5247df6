// =============================================================================
// Docflow - Cell Validation
// =============================================================================
//
// CellValidator applies per-field rule chains to cell values and records
// findings into an ErrorMap. Fields without a registered chain are unchecked
// on purpose; absent cells are always an "empty field" singleton error and
// never join a range from the prior row.
//
// Observations form an ordered sequence: rows must arrive ascending, since
// the range merge only looks one row back. A descending row is refused with
// ErrRowOrder rather than silently producing broken ranges.
//
// =============================================================================

package parsing

import (
	"errors"
	"fmt"

	"github.com/partnerdesk/docflow/internal/rules"
	"github.com/partnerdesk/docflow/internal/template"
)

// ErrRowOrder reports a cell observation arriving below the last observed
// row.
var ErrRowOrder = errors.New("cell observed out of row order")

// emptyFieldText is recorded when a mapped cell holds no value.
const emptyFieldText = "empty field: value is required"

// genericFillText is recorded when a chain fails without supplying its own
// message.
const genericFillText = "fill error"

// CellValidator validates one cell at a time against the rule chain
// registered for its field code. Rows must be fed in increasing row order so
// that consecutive invalid cells in a column collapse into ranges; lastRow
// tracks the sequence position to enforce that.
type CellValidator struct {
	chains  map[template.FieldCode]rules.Chain
	errors  *ErrorMap
	lastRow int
}

// NewCellValidator builds a validator over the given chains with a fresh
// ErrorMap. The chains map is used as-is; callers must not mutate it after
// handing it over.
func NewCellValidator(chains map[template.FieldCode]rules.Chain) *CellValidator {
	return &CellValidator{
		chains: chains,
		errors: newErrorMap(),
	}
}

// ValidateCell checks the next cell observation and updates the error map in
// place. Observations must arrive in ascending row order; a row below the
// last observed one returns ErrRowOrder and records nothing. present reports
// whether the sheet held any value at (row, column); when false the value
// argument is ignored. The returned string is the chain's normalized value,
// which callers feed into reconciliation.
//
// A field with no registered chain passes through untouched.
func (v *CellValidator) ValidateCell(field template.FieldCode, row int, column string, value string, present bool) (string, error) {
	if row < v.lastRow {
		return "", fmt.Errorf("%w: row %d after row %d", ErrRowOrder, row, v.lastRow)
	}
	v.lastRow = row

	chain, ok := v.chains[field]
	if !ok {
		return value, nil
	}

	if !present {
		v.errors.recordSingleton(row, column, ErrorEmptyField, emptyFieldText)
		return "", nil
	}

	res := chain.Run(value)
	if res.Invalid {
		text := res.Message
		if text == "" {
			text = genericFillText
		}
		v.errors.recordMerged(row, column, text)
	}
	return res.Normalized, nil
}

// NormalizeValue runs value through the chain registered for field without
// recording findings or consuming a sequence position. Origin-side values
// use this; their document was already validated when it was sent.
func (v *CellValidator) NormalizeValue(field template.FieldCode, value string) string {
	chain, ok := v.chains[field]
	if !ok {
		return value
	}
	return chain.Run(value).Normalized
}

// Errors exposes the accumulated error map.
func (v *CellValidator) Errors() *ErrorMap { return v.errors }
