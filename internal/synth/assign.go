package synth

import (
	"math/rand/v2"
	"strconv"

	"github.com/librocco/demo-data/internal/model"
)

// AssignWarehouses attributes every non-zero cell to a warehouse index.
// Inbound notes use their own warehouse for every cell. Outbound notes draw
// an independent uniform warehouse per cell, so two books of the same sale
// may leave from different warehouses.
func AssignWarehouses(rng *rand.Rand, notes []model.Note, counts [][]SlotCount, warehouses []model.Warehouse) ([]Row, error) {
	if len(notes) != len(counts) {
		return nil, newValidationError(ErrCodeInvalidInput, "%d notes but %d quantity rows", len(notes), len(counts))
	}
	if len(warehouses) == 0 {
		return nil, newValidationError(ErrCodeInvalidInput, "warehouse table is empty")
	}

	index := make(map[int64]int, len(warehouses))
	for i, w := range warehouses {
		index[w.ID] = i
	}

	rows := make([]Row, len(notes))
	for m := range notes {
		row := make(Row, len(counts[m]))
		if notes[m].WarehouseID != model.NoWarehouse {
			w, ok := index[notes[m].WarehouseID]
			if !ok {
				return nil, &ValidationError{
					Code:    ErrCodeUnknownWarehouse,
					Message: "inbound note references an unknown warehouse",
					NoteID:  notes[m].ID,
					Details: map[string]string{"warehouse_id": strconv.FormatInt(notes[m].WarehouseID, 10)},
				}
			}
			for j, sc := range counts[m] {
				row[j] = Cell{Warehouse: w, Slot: sc.Slot, Qty: sc.Qty}
			}
		} else {
			for j, sc := range counts[m] {
				row[j] = Cell{Warehouse: rng.IntN(len(warehouses)), Slot: sc.Slot, Qty: sc.Qty}
			}
			row.sort()
		}
		rows[m] = row
	}
	return rows, nil
}
