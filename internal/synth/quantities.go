package synth

import (
	"math/rand/v2"
	"slices"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
)

// DrawQuantities splits every note's n_books over the catalogue slots with
// a multinomial draw parameterized by weights. The returned slice is
// parallel to notes; each entry lists the non-zero slots in slot order.
func DrawQuantities(rng *rand.Rand, notes []model.Note, weights []float64) ([][]SlotCount, error) {
	for i := range notes {
		if notes[i].NBooks < 1 {
			return nil, &ValidationError{
				Code:    ErrCodeInvalidInput,
				Message: "note n_books must be >= 1",
				NoteID:  notes[i].ID,
			}
		}
		if notes[i].NBooks > MaxQuantity {
			return nil, &ValidationError{
				Code:    ErrCodeQuantityOverflow,
				Message: "note n_books does not fit a quantity cell",
				NoteID:  notes[i].ID,
				Details: map[string]string{"quantity_bits": "32"},
			}
		}
	}

	dist, err := sampling.NewCategorical(weights)
	if err != nil {
		return nil, newValidationError(ErrCodeInvalidInput, "catalogue weights: %v", err)
	}

	out := make([][]SlotCount, len(notes))
	for i := range notes {
		counts := dist.Multinomial(rng, notes[i].NBooks)
		slots := make([]int, 0, len(counts))
		for slot := range counts {
			slots = append(slots, slot)
		}
		slices.Sort(slots)

		row := make([]SlotCount, len(slots))
		for j, slot := range slots {
			row[j] = SlotCount{Slot: slot, Qty: Quantity(counts[slot])}
		}
		out[i] = row
	}
	return out, nil
}
