// =============================================================================
// Docflow - Failure Taxonomy
// =============================================================================
//
// Fatal parse failures carry a kind the orchestration layer routes on:
// configuration trouble (missing field mappings) and structural trouble
// (header labels don't match) abort before row parsing; reconciliation
// trouble aborts the current row before classification. Cell-level findings
// are never failures; they live in the ErrorMap.
//
// =============================================================================

package parsing

import (
	"errors"
	"fmt"
)

// FailureKind classifies a fatal parse failure.
type FailureKind string

const (
	// FailureConfiguration covers missing template setup, such as a field
	// code with no mapping for the partner.
	FailureConfiguration FailureKind = "configuration"

	// FailureStructural covers documents whose header labels do not match
	// the template.
	FailureStructural FailureKind = "structural"

	// FailureReconciliation covers row-level reconciliation aborts, such as
	// an item that cannot be resolved.
	FailureReconciliation FailureKind = "reconciliation"
)

// Failure is a fatal, kind-tagged parse error.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s failure: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Sentinel causes wrapped into Failure values.
var (
	// ErrFileTypeMismatch marks a document whose headers do not match the
	// expected template.
	ErrFileTypeMismatch = errors.New("file does not match template")

	// ErrItemNotFound marks a row whose item could not be resolved against
	// the order, including row/column misalignment on the item number.
	ErrItemNotFound = errors.New("order item not found")
)

// configurationFailure wraps err as a configuration failure.
func configurationFailure(err error) error {
	return &Failure{Kind: FailureConfiguration, Err: err}
}

// structuralFailure wraps err as a structural failure.
func structuralFailure(err error) error {
	return &Failure{Kind: FailureStructural, Err: err}
}

// reconciliationFailure wraps err as a reconciliation failure.
func reconciliationFailure(err error) error {
	return &Failure{Kind: FailureReconciliation, Err: err}
}

// KindOf extracts the failure kind from err. ok is false for plain errors
// that carry no kind.
func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}
