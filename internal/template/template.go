// =============================================================================
// Docflow - Template Definitions
// =============================================================================
//
// This package defines the document templates the mail-parsing pipeline
// understands and the field-mapping layer that binds logical field codes to
// physical spreadsheet coordinates.
//
// A template is a named document kind (order confirmation, price list, tax
// document). Every partner configures, per template, where each logical field
// lives in their spreadsheet layout: a column letter and a header row. The
// FieldMap resolves field codes to those coordinates at parse time.
//
// Mappings are configuration, created outside the parsing core (see
// internal/config). The parsing core only reads them.
//
// =============================================================================

package template

import (
	"fmt"
	"strings"
)

// =============================================================================
// TEMPLATE CODES
// =============================================================================

// Code identifies a document template kind.
type Code string

const (
	// CodeOrder is the order-confirmation template: a previously sent order
	// returned by a partner with confirmed/changed values.
	CodeOrder Code = "order"

	// CodePrice is the price-list template.
	CodePrice Code = "price"

	// CodeUpd is the tax-equivalent document template.
	CodeUpd Code = "upd"
)

// Codes lists all known template codes.
var Codes = []Code{CodeOrder, CodePrice, CodeUpd}

// Known reports whether code is a recognized template code.
func Known(code Code) bool {
	for _, c := range Codes {
		if c == code {
			return true
		}
	}
	return false
}

// =============================================================================
// FIELD CODES
// =============================================================================

// FieldCode is the stable logical identifier for a piece of data, independent
// of its physical spreadsheet position.
type FieldCode string

const (
	FieldOrderNumber      FieldCode = "ORDER_NUMBER"
	FieldItemNumber       FieldCode = "ITEM_NUMBER"
	FieldItemCount        FieldCode = "ITEM_COUNT"
	FieldItemPrice        FieldCode = "ITEM_PRICE"
	FieldItemDeliveryDate FieldCode = "ITEM_DELIVERY_DATE"
	FieldMultiplicity     FieldCode = "MULTIPLICITY"
)

// =============================================================================
// FIELD MAPPINGS
// =============================================================================

// FieldMapping binds one field code to a spreadsheet coordinate for one
// partner+template scope. Column is a letter ("C"), Row is the 1-based row of
// the field's header cell. Label is the header text expected at that cell.
//
// ValueColumn/ValueRow locate the field's value cell. When unset they default
// to the header column and the row below the header, which covers the common
// tabular layout; single-value fields such as ORDER_NUMBER configure them
// explicitly.
type FieldMapping struct {
	Field       FieldCode
	Column      string
	Row         int
	Label       string
	ValueColumn string
	ValueRow    int
}

// NotMappedError reports a field code with no mapping in the active
// partner+template scope. This is a configuration error: the document cannot
// be parsed at all, and the condition is never recorded as a cell error.
type NotMappedError struct {
	Field FieldCode
}

func (e *NotMappedError) Error() string {
	return fmt.Sprintf("field %s is not mapped for this template", e.Field)
}

// FieldMap resolves field codes to coordinates within one partner+template
// scope. At most one mapping exists per field code; NewFieldMap enforces this.
type FieldMap struct {
	partner  string
	code     Code
	mappings []FieldMapping
	byField  map[FieldCode]int
}

// NewFieldMap builds a FieldMap from the configured mappings. The slice order
// is preserved as the map's natural field order (header validation scans in
// this order). Returns an error on duplicate field codes, empty columns, or
// non-positive rows.
func NewFieldMap(partner string, code Code, mappings []FieldMapping) (*FieldMap, error) {
	fm := &FieldMap{
		partner:  partner,
		code:     code,
		mappings: make([]FieldMapping, len(mappings)),
		byField:  make(map[FieldCode]int, len(mappings)),
	}

	for i, m := range mappings {
		if m.Field == "" {
			return nil, fmt.Errorf("mapping %d for %s/%s has no field code", i, partner, code)
		}
		if strings.TrimSpace(m.Column) == "" {
			return nil, fmt.Errorf("field %s for %s/%s has no column", m.Field, partner, code)
		}
		if m.Row <= 0 {
			return nil, fmt.Errorf("field %s for %s/%s has row %d, want >= 1", m.Field, partner, code, m.Row)
		}
		if _, dup := fm.byField[m.Field]; dup {
			return nil, fmt.Errorf("field %s is mapped twice for %s/%s", m.Field, partner, code)
		}
		m.Column = strings.ToUpper(strings.TrimSpace(m.Column))
		if strings.TrimSpace(m.ValueColumn) == "" {
			m.ValueColumn = m.Column
		} else {
			m.ValueColumn = strings.ToUpper(strings.TrimSpace(m.ValueColumn))
		}
		if m.ValueRow <= 0 {
			m.ValueRow = m.Row + 1
		}
		fm.mappings[i] = m
		fm.byField[m.Field] = i
	}

	return fm, nil
}

// Partner returns the partner this map belongs to.
func (fm *FieldMap) Partner() string { return fm.partner }

// Code returns the template code this map belongs to.
func (fm *FieldMap) Code() Code { return fm.code }

// Mappings returns all mappings in their natural field order.
func (fm *FieldMap) Mappings() []FieldMapping {
	out := make([]FieldMapping, len(fm.mappings))
	copy(out, fm.mappings)
	return out
}

// Resolve returns the mapping for a field code, or a NotMappedError when the
// code has no mapping in this scope.
func (fm *FieldMap) Resolve(field FieldCode) (FieldMapping, error) {
	i, ok := fm.byField[field]
	if !ok {
		return FieldMapping{}, &NotMappedError{Field: field}
	}
	return fm.mappings[i], nil
}

// CellReader is the minimal sheet-access capability Resolve/ResolveValue
// need. Satisfied by sheet.Reader.
type CellReader interface {
	Cell(column string, row int) (string, bool)
}

// ResolveValue reads the raw cell value at the value coordinate mapped for
// field. The returned bool is false when the cell holds no value. Returns a
// NotMappedError when the field has no mapping.
func (fm *FieldMap) ResolveValue(s CellReader, field FieldCode) (string, bool, error) {
	m, err := fm.Resolve(field)
	if err != nil {
		return "", false, err
	}
	value, ok := s.Cell(m.ValueColumn, m.ValueRow)
	return value, ok, nil
}
