package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partnerdesk/docflow/internal/rules"
	"github.com/partnerdesk/docflow/internal/template"
)

func countChains() map[template.FieldCode]rules.Chain {
	return map[template.FieldCode]rules.Chain{
		template.FieldItemCount: {rules.NewCustomSymbols('`', 's'), rules.Numeric{}},
	}
}

func TestValidateCellUncheckedFieldPassesThrough(t *testing.T) {
	v := NewCellValidator(countChains())

	got, err := v.ValidateCell(template.FieldItemPrice, 2, "D", "whatever", true)
	require.NoError(t, err)
	assert.Equal(t, "whatever", got)
	assert.True(t, v.Errors().Empty())
}

func TestValidateCellAbsentValueIsSingleton(t *testing.T) {
	v := NewCellValidator(countChains())

	v.ValidateCell(template.FieldItemCount, 2, "C", "bad", true)
	v.ValidateCell(template.FieldItemCount, 3, "C", "", false)

	// The empty-field error never joins the fill range above it.
	require.Equal(t, 2, v.Errors().Len())

	e, ok := v.Errors().At(3, "C")
	require.True(t, ok)
	assert.Equal(t, ErrorEmptyField, e.Kind)
	assert.Equal(t, 3, e.FirstRow)
	assert.Equal(t, 3, e.LastRow)
}

func TestValidateCellMergesConsecutiveRows(t *testing.T) {
	v := NewCellValidator(countChains())

	v.ValidateCell(template.FieldItemCount, 2, "C", "x1", true)
	v.ValidateCell(template.FieldItemCount, 3, "C", "x2", true)
	v.ValidateCell(template.FieldItemCount, 4, "C", "10", true)

	require.Equal(t, 1, v.Errors().Len())

	e, ok := v.Errors().At(3, "C")
	require.True(t, ok)
	assert.Equal(t, 2, e.FirstRow)
	assert.Equal(t, 3, e.LastRow)
}

func TestValidateCellGenericFillMessage(t *testing.T) {
	v := NewCellValidator(countChains())

	// The count chain fails "abc" without a rule message.
	v.ValidateCell(template.FieldItemCount, 2, "C", "abc", true)

	e, ok := v.Errors().At(2, "C")
	require.True(t, ok)
	assert.Equal(t, ErrorFill, e.Kind)
	assert.Equal(t, genericFillText, e.Text)
}

func TestValidateCellKeyedQuantityIsClean(t *testing.T) {
	v := NewCellValidator(countChains())

	got, err := v.ValidateCell(template.FieldItemCount, 2, "C", "10`s", true)
	require.NoError(t, err)
	assert.Equal(t, "10", got)
	assert.True(t, v.Errors().Empty())
}

func TestValidateCellRejectsDescendingRows(t *testing.T) {
	v := NewCellValidator(countChains())

	_, err := v.ValidateCell(template.FieldItemCount, 3, "C", "bad", true)
	require.NoError(t, err)

	// The same row again is fine; several columns share one row.
	_, err = v.ValidateCell(template.FieldItemCount, 3, "D", "bad", true)
	require.NoError(t, err)

	_, err = v.ValidateCell(template.FieldItemCount, 2, "C", "bad", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRowOrder)

	// The refused observation recorded nothing.
	require.Equal(t, 2, v.Errors().Len())
}

func TestNormalizeValueRecordsNothing(t *testing.T) {
	v := NewCellValidator(countChains())

	assert.Equal(t, "10", v.NormalizeValue(template.FieldItemCount, "10`s"))
	assert.Equal(t, "raw", v.NormalizeValue(template.FieldItemPrice, "raw"))
	assert.True(t, v.Errors().Empty())
}
