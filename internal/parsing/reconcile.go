// =============================================================================
// Docflow - Reconciliation Engine
// =============================================================================
//
// Given an order, the origin sheet (the document as sent) and the received
// sheet (the counterpart's response), decide what happened to the item row:
// CONFIRMED, CANCELED or CHANGED. The engine handles exactly one item row
// per document.
//
// The item's count, price and sum are rewritten from the received values
// before classification, whatever the verdict turns out to be. Callers must
// serialize reconciliation per order; two documents for the same order
// racing through here would lose updates.
//
// =============================================================================

package parsing

import (
	"fmt"

	"github.com/partnerdesk/docflow/internal/order"
	"github.com/partnerdesk/docflow/internal/rules"
	"github.com/partnerdesk/docflow/internal/sheet"
	"github.com/partnerdesk/docflow/internal/template"
)

// Engine reconciles one item row between an origin and a received sheet.
type Engine struct {
	store order.Store
}

// NewEngine returns an engine persisting changed items through store.
func NewEngine(store order.Store) *Engine {
	return &Engine{store: store}
}

// rowValues is one sheet's item row, read through the field map.
type rowValues struct {
	itemNumber string
	count      string
	countOK    bool
	price      string
	date       string
}

// readRow resolves the item fields of one sheet. Missing mappings surface as
// configuration failures.
func readRow(s sheet.Reader, fm *template.FieldMap) (rowValues, error) {
	var rv rowValues

	read := func(field template.FieldCode) (string, bool, error) {
		value, ok, err := fm.ResolveValue(s, field)
		if err != nil {
			return "", false, configurationFailure(err)
		}
		return value, ok, nil
	}

	var err error
	if rv.itemNumber, _, err = read(template.FieldItemNumber); err != nil {
		return rv, err
	}
	if rv.count, rv.countOK, err = read(template.FieldItemCount); err != nil {
		return rv, err
	}
	if rv.price, _, err = read(template.FieldItemPrice); err != nil {
		return rv, err
	}
	if rv.date, _, err = read(template.FieldItemDeliveryDate); err != nil {
		return rv, err
	}
	return rv, nil
}

// normalizeRow runs a row's values through the same chains the received row
// gets, recording nothing. The origin document was validated when it was
// sent; normalizing it again keeps the confirmed comparison like-for-like
// when a value differs only in form ("10`s" against "10").
func normalizeRow(rv rowValues, v *CellValidator) rowValues {
	rv.count = v.NormalizeValue(template.FieldItemCount, rv.count)
	rv.price = v.NormalizeValue(template.FieldItemPrice, rv.price)
	rv.date = v.NormalizeValue(template.FieldItemDeliveryDate, rv.date)
	return rv
}

// validateRow runs the received row's cells through the validator and
// returns the normalized values. Row and column come from the field map's
// value coordinates.
func validateRow(rv rowValues, fm *template.FieldMap, v *CellValidator) (rowValues, error) {
	check := func(field template.FieldCode, value string, present bool) (string, error) {
		m, err := fm.Resolve(field)
		if err != nil {
			return "", configurationFailure(err)
		}
		return v.ValidateCell(field, m.ValueRow, m.ValueColumn, value, present)
	}

	var err error
	if rv.count, err = check(template.FieldItemCount, rv.count, rv.countOK); err != nil {
		return rv, err
	}
	if rv.price, err = check(template.FieldItemPrice, rv.price, rv.price != ""); err != nil {
		return rv, err
	}
	if rv.date, err = check(template.FieldItemDeliveryDate, rv.date, rv.date != ""); err != nil {
		return rv, err
	}
	return rv, nil
}

// ReconcileRow reconciles the single item row of a document and populates
// res exactly once. Reconciliation failures leave res.Outcome unresolved.
func (e *Engine) ReconcileRow(o *order.Order, origin, received sheet.Reader, fm *template.FieldMap, v *CellValidator, res *Result) error {
	it := o.Item
	if it == nil {
		return reconciliationFailure(fmt.Errorf("%w: order %q has no item", ErrItemNotFound, o.Number))
	}

	originRow, err := readRow(origin, fm)
	if err != nil {
		return err
	}
	originRow = normalizeRow(originRow, v)

	receivedRow, err := readRow(received, fm)
	if err != nil {
		return err
	}
	receivedRow, err = validateRow(receivedRow, fm, v)
	if err != nil {
		return err
	}

	// Misalignment guard: the received row must still point at the item we
	// resolved for this order.
	if receivedRow.itemNumber != it.Number {
		return reconciliationFailure(fmt.Errorf("%w: item number %q does not match %q",
			ErrItemNotFound, receivedRow.itemNumber, it.Number))
	}
	if !receivedRow.countOK {
		return reconciliationFailure(fmt.Errorf("%w: received count is empty for item %q",
			ErrItemNotFound, it.Number))
	}

	count := numeric(receivedRow.count)
	price := numeric(receivedRow.price)
	date := numeric(receivedRow.date)

	// The item is rewritten from the received values no matter how the row
	// classifies.
	it.Count = count
	it.Price = price
	it.Sum = count * price

	res.Order = o
	res.RowsProcessed = 1

	switch {
	case originRow.count == receivedRow.count &&
		numeric(originRow.price) == price &&
		numeric(originRow.date) == date:
		res.Outcome = OutcomeConfirmed

	case count == 0 && price == 0 && date == 0:
		it.PlannedDeliveryDate = sheet.SerialToTime(0)
		res.Outcome = OutcomeCanceled

	default:
		res.Outcome = OutcomeChanged
		if err := e.store.SaveItem(o, it); err != nil {
			return reconciliationFailure(err)
		}
	}

	return nil
}

// numeric parses a cell value as a number, treating unparseable values as
// zero. Validation has already flagged them by the time this runs.
func numeric(value string) float64 {
	n, err := rules.ParseNumber(value)
	if err != nil {
		return 0
	}
	return n
}
