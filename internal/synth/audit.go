package synth

import (
	"strconv"

	"github.com/librocco/demo-data/internal/model"
)

// stockKey identifies one (warehouse, book) stock position.
type stockKey struct {
	warehouse int64
	isbn      string
}

// Audit re-checks a finished ledger from its tables alone:
//
//   - note ids are 1..n in table order
//   - every transaction references an existing note and a real warehouse
//   - every note's transactions sum to its n_books (so no empty notes,
//     including zero-quantity reconciliation notes)
//   - walking committed notes in id order, no (warehouse, isbn) stock
//     ever drops below zero
//
// It is used on tables read back from disk, where the in-memory
// guarantees of Assemble no longer hold.
func Audit(notes []model.Note, txns []model.Transaction) error {
	for i := range notes {
		if notes[i].ID != int64(i+1) {
			return &ValidationError{
				Code:    ErrCodeNoteOrder,
				Message: "note ids are not a contiguous 1-based sequence",
				NoteID:  notes[i].ID,
				Details: map[string]string{"position": strconv.Itoa(i + 1)},
			}
		}
	}

	byNote := make([][]model.Transaction, len(notes))
	for _, tx := range txns {
		if tx.NoteID < 1 || tx.NoteID > int64(len(notes)) {
			return &ValidationError{
				Code:    ErrCodeInvalidInput,
				Message: "transaction references an unknown note",
				NoteID:  tx.NoteID,
			}
		}
		if tx.WarehouseID == model.NoWarehouse {
			return &ValidationError{
				Code:    ErrCodeInvalidInput,
				Message: "transaction without warehouse",
				NoteID:  tx.NoteID,
				Details: map[string]string{"isbn": tx.ISBN},
			}
		}
		byNote[tx.NoteID-1] = append(byNote[tx.NoteID-1], tx)
	}

	stock := make(map[stockKey]int64)
	for i, note := range notes {
		var total int64
		for _, tx := range byNote[i] {
			total += tx.Quantity
		}
		if total != note.NBooks {
			code := ErrCodeNoteTotalMismatch
			if len(byNote[i]) == 0 {
				code = ErrCodeNoteCountMismatch
			}
			return &ValidationError{
				Code:    code,
				Message: "transaction quantities do not sum to the note's n_books",
				NoteID:  note.ID,
				Details: map[string]string{
					"n_books": strconv.FormatInt(note.NBooks, 10),
					"total":   strconv.FormatInt(total, 10),
				},
			}
		}

		if !note.Committed {
			continue
		}
		for _, tx := range byNote[i] {
			k := stockKey{warehouse: tx.WarehouseID, isbn: tx.ISBN}
			stock[k] += note.Sign() * tx.Quantity
			if stock[k] < 0 {
				return &ValidationError{
					Code:    ErrCodeNegativeStock,
					Message: "stock drops below zero",
					NoteID:  note.ID,
					Details: map[string]string{
						"warehouse_id": strconv.FormatInt(tx.WarehouseID, 10),
						"isbn":         tx.ISBN,
						"stock":        strconv.FormatInt(stock[k], 10),
					},
				}
			}
		}
	}
	return nil
}
