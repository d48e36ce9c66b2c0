package synth

import (
	"cmp"
	"math"
	"slices"
)

// QuantityBits is the width of a single tensor cell. A cell never exceeds
// the n_books target of its note, so notes are checked against MaxQuantity
// before drawing instead of clipping cells after the fact.
const QuantityBits = 32

// MaxQuantity is the largest value a Quantity cell can hold.
const MaxQuantity = math.MaxInt32

// Quantity is the count of one book in one note at one warehouse.
type Quantity int32

// Cell is a non-zero quantity of a catalogue slot attributed to a warehouse.
// Warehouse is an index into the warehouse table, not a warehouse id.
type Cell struct {
	Warehouse int
	Slot      int
	Qty       Quantity
}

// Row holds the non-zero cells of one note ordered by (Warehouse, Slot).
type Row []Cell

// Total sums the row's quantities.
func (r Row) Total() int64 {
	var total int64
	for _, c := range r {
		total += int64(c.Qty)
	}
	return total
}

func (r Row) sort() {
	slices.SortFunc(r, func(a, b Cell) int {
		if c := cmp.Compare(a.Warehouse, b.Warehouse); c != 0 {
			return c
		}
		return cmp.Compare(a.Slot, b.Slot)
	})
}

// SlotCount is a non-zero quantity of a catalogue slot before warehouse assignment.
type SlotCount struct {
	Slot int
	Qty  Quantity
}
