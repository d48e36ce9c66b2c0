package synth

import (
	"strconv"

	"github.com/librocco/demo-data/internal/model"
)

// Flow describes how a note moves stock: only committed notes count, and
// the sign is +1 for inbound and -1 for outbound.
type Flow struct {
	Committed bool
	Sign      int64
}

// FlowOf derives the stock flow of a note.
func FlowOf(n model.Note) Flow {
	return Flow{Committed: n.Committed, Sign: n.Sign()}
}

// Flows derives the stock flow of every note.
func Flows(notes []model.Note) []Flow {
	flows := make([]Flow, len(notes))
	for i := range notes {
		flows[i] = FlowOf(notes[i])
	}
	return flows
}

// delta is the signed stock change of a cell: zero unless committed.
func (f Flow) delta(q Quantity) int64 {
	if !f.Committed {
		return 0
	}
	return f.Sign * int64(q)
}

// Reconciliation is the outcome of a reconciliation scan.
type Reconciliation struct {
	// Corrections is parallel to the scanned rows: Corrections[m] is the
	// stock that must be booked immediately before note m. Empty rows mean
	// no correction is needed.
	Corrections []Row

	// Offset is the total correction required by the end of the sequence,
	// i.e. the sum over (warehouse, slot) of the deepest stock deficit.
	Offset int64
}

// Total sums every correction.
func (r *Reconciliation) Total() int64 {
	var total int64
	for _, c := range r.Corrections {
		total += c.Total()
	}
	return total
}

// Count is the number of notes that need a correction.
func (r *Reconciliation) Count() int {
	n := 0
	for _, c := range r.Corrections {
		if len(c) > 0 {
			n++
		}
	}
	return n
}

// Reconcile computes the minimal stock corrections for a chronological
// sequence of notes.
//
// For every (warehouse, slot) pair, with D the signed deltas of committed
// notes and S their prefix sums, the required cumulative correction after
// note m is
//
//	R[m] = max(0, -min(0, min_{m'<=m} S[m']))
//
// and the amount booked before note m is R[m] - R[m-1]. The scan keeps
// the running stock and running minimum per pair; a correction is emitted
// exactly when a note drives the stock below its previous minimum. Booking
// earlier would over-correct a prefix, booking later would expose one.
func Reconcile(rows []Row, flows []Flow, warehouses, slots int) (*Reconciliation, error) {
	if len(rows) != len(flows) {
		return nil, newValidationError(ErrCodeInvalidInput, "%d rows but %d flows", len(rows), len(flows))
	}
	if warehouses < 1 || slots < 1 {
		return nil, newValidationError(ErrCodeInvalidInput, "empty tensor shape %dx%d", warehouses, slots)
	}

	stock := make([]int64, warehouses*slots)
	low := make([]int64, warehouses*slots) // running min(0, S), i.e. -R

	rec := &Reconciliation{Corrections: make([]Row, len(rows))}
	for m, row := range rows {
		var correction Row
		for _, c := range row {
			if c.Warehouse < 0 || c.Warehouse >= warehouses || c.Slot < 0 || c.Slot >= slots {
				return nil, &ValidationError{
					Code:    ErrCodeInvalidInput,
					Message: "cell outside tensor shape",
					Details: map[string]string{
						"note_index": strconv.Itoa(m),
						"warehouse":  strconv.Itoa(c.Warehouse),
						"slot":       strconv.Itoa(c.Slot),
					},
				}
			}
			d := flows[m].delta(c.Qty)
			if d == 0 {
				continue
			}
			k := c.Warehouse*slots + c.Slot
			stock[k] += d
			if stock[k] < low[k] {
				// |d| >= low-stock, so the correction fits a Quantity.
				correction = append(correction, Cell{Warehouse: c.Warehouse, Slot: c.Slot, Qty: Quantity(low[k] - stock[k])})
				low[k] = stock[k]
			}
		}
		rec.Corrections[m] = correction
	}

	for _, l := range low {
		rec.Offset -= l
	}
	if total := rec.Total(); total != rec.Offset {
		return nil, &ValidationError{
			Code:    ErrCodeReconciliationMismatch,
			Message: "reconciliation quantities do not match the required offset",
			Details: map[string]string{
				"total":  strconv.FormatInt(total, 10),
				"offset": strconv.FormatInt(rec.Offset, 10),
			},
		}
	}
	return rec, nil
}
