// =============================================================================
// Docflow - Parse Result
// =============================================================================

package parsing

import "github.com/partnerdesk/docflow/internal/order"

// Outcome is the reconciliation verdict for one parsed document.
type Outcome int

const (
	// OutcomeUnresolved is the zero state before classification runs, and
	// the final state when a failure aborts the parse.
	OutcomeUnresolved Outcome = iota

	// OutcomeConfirmed means the received row matches the origin row.
	OutcomeConfirmed

	// OutcomeCanceled means the counterpart zeroed the row out.
	OutcomeCanceled

	// OutcomeChanged means the counterpart altered the row.
	OutcomeChanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "CONFIRMED"
	case OutcomeCanceled:
		return "CANCELED"
	case OutcomeChanged:
		return "CHANGED"
	default:
		return "UNRESOLVED"
	}
}

// Result is the read-only record of one parse. It is created empty when a
// parse starts and populated exactly once by reconciliation.
type Result struct {
	// Order is the order the document was reconciled against.
	Order *order.Order

	// RowsProcessed counts the item rows reconciliation handled.
	RowsProcessed int

	// Outcome is the verdict; OutcomeUnresolved when the parse failed
	// before classification.
	Outcome Outcome
}
