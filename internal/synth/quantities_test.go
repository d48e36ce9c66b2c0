package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
	"github.com/librocco/demo-data/internal/testutil"
)

func TestDrawQuantities_SumsToTarget(t *testing.T) {
	notes := testutil.NewNoteBuilder().Inbound(1, 300).Outbound(1).Outbound(7).Draft(2, 42).Notes()
	weights := []float64{0.5, 0.25, 0, 0.25}

	counts, err := DrawQuantities(sampling.New(1), notes, weights)
	require.NoError(t, err)
	require.Len(t, counts, len(notes))

	for i, row := range counts {
		var total int64
		prev := -1
		for _, sc := range row {
			assert.Greater(t, sc.Slot, prev, "slots ordered")
			assert.NotEqual(t, 2, sc.Slot, "zero-weight slot drawn")
			assert.Greater(t, int64(sc.Qty), int64(0))
			prev = sc.Slot
			total += int64(sc.Qty)
		}
		assert.Equal(t, notes[i].NBooks, total)
	}
}

func TestDrawQuantities_Deterministic(t *testing.T) {
	notes := testutil.NewNoteBuilder().Inbound(1, 30).Outbound(3).Notes()
	weights := []float64{0.1, 0.2, 0.3, 0.4}
	a, err := DrawQuantities(sampling.New(9), notes, weights)
	require.NoError(t, err)
	b, err := DrawQuantities(sampling.New(9), notes, weights)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDrawQuantities_RejectsOverflow(t *testing.T) {
	notes := []model.Note{{ID: 9, WarehouseID: 1, NBooks: MaxQuantity + 1}}
	_, err := DrawQuantities(sampling.New(1), notes, []float64{1})
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeQuantityOverflow))
}

func TestDrawQuantities_RejectsEmptyNote(t *testing.T) {
	notes := []model.Note{{ID: 3, NBooks: 0}}
	_, err := DrawQuantities(sampling.New(1), notes, []float64{1})
	assert.True(t, HasCode(err, ErrCodeInvalidInput))
}

func TestAssignWarehouses(t *testing.T) {
	notes := testutil.NewNoteBuilder().Inbound(3, 4).Outbound(4).Notes()
	counts := [][]SlotCount{
		{{Slot: 0, Qty: 1}, {Slot: 5, Qty: 3}},
		{{Slot: 1, Qty: 2}, {Slot: 2, Qty: 1}, {Slot: 4, Qty: 1}},
	}
	warehouses := testutil.Warehouses(3)

	rows, err := AssignWarehouses(sampling.New(4), notes, counts, warehouses)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Inbound cells all go to warehouse id 3, index 2.
	assert.Equal(t, Row{{Warehouse: 2, Slot: 0, Qty: 1}, {Warehouse: 2, Slot: 5, Qty: 3}}, rows[0])

	// Outbound cells each get a warehouse and stay ordered by (warehouse, slot).
	require.Len(t, rows[1], 3)
	assert.Equal(t, int64(4), rows[1].Total())
	for i, c := range rows[1] {
		assert.GreaterOrEqual(t, c.Warehouse, 0)
		assert.Less(t, c.Warehouse, 3)
		if i > 0 {
			prev := rows[1][i-1]
			assert.True(t, prev.Warehouse < c.Warehouse || (prev.Warehouse == c.Warehouse && prev.Slot < c.Slot))
		}
	}
}

func TestAssignWarehouses_SpreadsOutboundCells(t *testing.T) {
	notes := []model.Note{{ID: 1, NBooks: 200}}
	counts := make([][]SlotCount, 1)
	for slot := range 200 {
		counts[0] = append(counts[0], SlotCount{Slot: slot, Qty: 1})
	}
	rows, err := AssignWarehouses(sampling.New(8), notes, counts, testutil.Warehouses(4))
	require.NoError(t, err)

	used := make(map[int]bool)
	for _, c := range rows[0] {
		used[c.Warehouse] = true
	}
	assert.Len(t, used, 4)
}

func TestAssignWarehouses_UnknownWarehouse(t *testing.T) {
	notes := testutil.NewNoteBuilder().Inbound(7, 1).Notes()
	_, err := AssignWarehouses(sampling.New(1), notes, [][]SlotCount{{{Slot: 0, Qty: 1}}}, testutil.Warehouses(2))
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeUnknownWarehouse))
	assert.Contains(t, err.Error(), "note=1")
}

func TestAssignWarehouses_ShapeMismatch(t *testing.T) {
	notes := testutil.NewNoteBuilder().Inbound(1, 1).Notes()
	_, err := AssignWarehouses(sampling.New(1), notes, nil, testutil.Warehouses(1))
	assert.True(t, HasCode(err, ErrCodeInvalidInput))

	_, err = AssignWarehouses(sampling.New(1), notes, [][]SlotCount{{}}, nil)
	assert.True(t, HasCode(err, ErrCodeInvalidInput))
}
