package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMergedExtendsContiguousRun(t *testing.T) {
	m := newErrorMap()

	m.recordMerged(5, "C", "bad")
	m.recordMerged(6, "C", "bad")
	m.recordMerged(7, "C", "bad")

	// Three consecutive invalid cells collapse into one range keyed by the
	// last row; the earlier entries are gone.
	require.Equal(t, 1, m.Len())

	e, ok := m.At(7, "C")
	require.True(t, ok)
	assert.Equal(t, 5, e.FirstRow)
	assert.Equal(t, 7, e.LastRow)
	assert.Equal(t, "C5-7", e.Cells())

	_, ok = m.At(5, "C")
	assert.False(t, ok)
	_, ok = m.At(6, "C")
	assert.False(t, ok)
}

func TestRecordMergedSingletonWithValidNeighbors(t *testing.T) {
	m := newErrorMap()

	m.recordMerged(5, "C", "bad")
	// Row 6 is clean; row 7 starts a fresh range.
	m.recordMerged(7, "C", "bad")

	require.Equal(t, 2, m.Len())

	e, ok := m.At(5, "C")
	require.True(t, ok)
	assert.Equal(t, e.FirstRow, e.LastRow)

	e, ok = m.At(7, "C")
	require.True(t, ok)
	assert.Equal(t, 7, e.FirstRow)
	assert.Equal(t, 7, e.LastRow)
}

func TestRecordMergedHeterogeneousMessages(t *testing.T) {
	m := newErrorMap()

	// Rows failing for different reasons give the range the generic text.
	m.recordMerged(5, "C", "fill error: value contains invalid characters")
	m.recordMerged(6, "C", "fill error: value must not be negative")

	e, ok := m.At(6, "C")
	require.True(t, ok)
	assert.Equal(t, genericFillText, e.Text)

	// A homogeneous run keeps its message.
	m2 := newErrorMap()
	m2.recordMerged(5, "C", "fill error: value must not be negative")
	m2.recordMerged(6, "C", "fill error: value must not be negative")

	e, ok = m2.At(6, "C")
	require.True(t, ok)
	assert.Equal(t, "fill error: value must not be negative", e.Text)
}

func TestRecordMergedTracksColumnsIndependently(t *testing.T) {
	m := newErrorMap()

	// Column B errors on row 6 only; column C runs from 5 to 6. Each column
	// keeps its own range.
	m.recordMerged(5, "C", "bad")
	m.recordMerged(6, "B", "bad")
	m.recordMerged(6, "C", "bad")

	e, ok := m.At(6, "C")
	require.True(t, ok)
	assert.Equal(t, 5, e.FirstRow)
	assert.Equal(t, 6, e.LastRow)

	e, ok = m.At(6, "B")
	require.True(t, ok)
	assert.Equal(t, 6, e.FirstRow)
	assert.Equal(t, 6, e.LastRow)

	// A gap above breaks the run: row 8 starts a fresh range.
	m2 := newErrorMap()
	m2.recordMerged(5, "C", "bad")
	m2.recordMerged(6, "C", "bad")
	m2.recordMerged(8, "C", "bad")

	e, ok = m2.At(8, "C")
	require.True(t, ok)
	assert.Equal(t, 8, e.FirstRow)
}

func TestRecordSingletonNeverMerges(t *testing.T) {
	m := newErrorMap()

	m.recordMerged(5, "C", "bad")
	m.recordSingleton(6, "C", ErrorEmptyField, "empty")

	// The empty-field error stays its own range next to the fill range.
	require.Equal(t, 2, m.Len())

	e, ok := m.At(6, "C")
	require.True(t, ok)
	assert.Equal(t, ErrorEmptyField, e.Kind)
	assert.Equal(t, 6, e.FirstRow)
	assert.Equal(t, 6, e.LastRow)

	// And a fill error below an empty-field error starts a fresh range
	// instead of absorbing it.
	m.recordMerged(7, "C", "bad")
	require.Equal(t, 3, m.Len())

	e, ok = m.At(7, "C")
	require.True(t, ok)
	assert.Equal(t, ErrorFill, e.Kind)
	assert.Equal(t, 7, e.FirstRow)
}

func TestRangesSorted(t *testing.T) {
	m := newErrorMap()
	m.recordSingleton(9, "B", ErrorFill, "bad")
	m.recordSingleton(3, "D", ErrorFill, "bad")
	m.recordSingleton(3, "A", ErrorFill, "bad")

	ranges := m.Ranges()
	require.Len(t, ranges, 3)
	assert.Equal(t, "A3", ranges[0].Cells())
	assert.Equal(t, "D3", ranges[1].Cells())
	assert.Equal(t, "B9", ranges[2].Cells())
}

func TestSnapshotIsACopy(t *testing.T) {
	m := newErrorMap()
	m.recordSingleton(2, "A", ErrorFill, "bad")

	snap := m.Snapshot()
	delete(snap[2], "A")

	_, ok := m.At(2, "A")
	assert.True(t, ok)
}
