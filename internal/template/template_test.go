package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known(CodeOrder))
	assert.True(t, Known(CodePrice))
	assert.True(t, Known(CodeUpd))
	assert.False(t, Known(Code("invoice")))
}

func TestNewFieldMapDefaultsValueCoordinates(t *testing.T) {
	fm, err := NewFieldMap("acme", CodeOrder, []FieldMapping{
		{Field: FieldItemCount, Column: "c", Row: 4, Label: "Count"},
	})
	require.NoError(t, err)

	m, err := fm.Resolve(FieldItemCount)
	require.NoError(t, err)

	// Column letters are upper-cased; the value cell defaults to the row
	// below the header.
	assert.Equal(t, "C", m.Column)
	assert.Equal(t, "C", m.ValueColumn)
	assert.Equal(t, 5, m.ValueRow)
}

func TestNewFieldMapExplicitValueCoordinates(t *testing.T) {
	fm, err := NewFieldMap("acme", CodeOrder, []FieldMapping{
		{Field: FieldOrderNumber, Column: "B", Row: 2, Label: "Order No.", ValueColumn: "d", ValueRow: 2},
	})
	require.NoError(t, err)

	m, err := fm.Resolve(FieldOrderNumber)
	require.NoError(t, err)
	assert.Equal(t, "D", m.ValueColumn)
	assert.Equal(t, 2, m.ValueRow)
}

func TestNewFieldMapRejectsBadMappings(t *testing.T) {
	tests := []struct {
		name     string
		mappings []FieldMapping
	}{
		{
			name: "duplicate field",
			mappings: []FieldMapping{
				{Field: FieldItemCount, Column: "C", Row: 4, Label: "Count"},
				{Field: FieldItemCount, Column: "D", Row: 4, Label: "Count"},
			},
		},
		{
			name:     "missing column",
			mappings: []FieldMapping{{Field: FieldItemCount, Row: 4, Label: "Count"}},
		},
		{
			name:     "zero row",
			mappings: []FieldMapping{{Field: FieldItemCount, Column: "C", Label: "Count"}},
		},
		{
			name:     "missing field code",
			mappings: []FieldMapping{{Column: "C", Row: 4, Label: "Count"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFieldMap("acme", CodeOrder, tt.mappings)
			assert.Error(t, err)
		})
	}
}

func TestResolveUnmappedField(t *testing.T) {
	fm, err := NewFieldMap("acme", CodeOrder, nil)
	require.NoError(t, err)

	_, err = fm.Resolve(FieldItemCount)
	require.Error(t, err)

	var notMapped *NotMappedError
	require.ErrorAs(t, err, &notMapped)
	assert.Equal(t, FieldItemCount, notMapped.Field)
}

func TestMappingsReturnsCopyInNaturalOrder(t *testing.T) {
	fm, err := NewFieldMap("acme", CodeOrder, []FieldMapping{
		{Field: FieldItemNumber, Column: "B", Row: 4, Label: "Item"},
		{Field: FieldItemCount, Column: "C", Row: 4, Label: "Count"},
	})
	require.NoError(t, err)

	mappings := fm.Mappings()
	require.Len(t, mappings, 2)
	assert.Equal(t, FieldItemNumber, mappings[0].Field)
	assert.Equal(t, FieldItemCount, mappings[1].Field)

	mappings[0].Column = "Z"
	assert.Equal(t, "B", fm.Mappings()[0].Column)
}

type staticSheet map[string]string

func (s staticSheet) Cell(column string, row int) (string, bool) {
	v, ok := s[column+string(rune('0'+row))]
	return v, ok
}

func TestResolveValue(t *testing.T) {
	fm, err := NewFieldMap("acme", CodeOrder, []FieldMapping{
		{Field: FieldItemCount, Column: "C", Row: 4, Label: "Count"},
	})
	require.NoError(t, err)

	s := staticSheet{"C5": "10"}

	value, ok, err := fm.ResolveValue(s, FieldItemCount)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10", value)

	_, ok, err = fm.ResolveValue(staticSheet{}, FieldItemCount)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = fm.ResolveValue(s, FieldItemPrice)
	assert.Error(t, err)
}
