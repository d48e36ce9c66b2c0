package synth

import (
	"strconv"
	"time"

	"github.com/librocco/demo-data/internal/model"
)

// reconciliationNameLayout formats the trigger timestamp in reconciliation note names.
const reconciliationNameLayout = "2006-01-02 15:04:05"

// Ledger is the final note table and the transaction rows that reference it.
type Ledger struct {
	Notes        []model.Note
	Transactions []model.Transaction
}

// ReconciliationNote builds the synthetic note booked right before a
// committed trigger note. It takes the trigger's commit time as both its
// update and commit time.
func ReconciliationNote(trigger model.Note, total int64) model.Note {
	ts := *trigger.CommittedAt
	return model.Note{
		DisplayName:          "Reconciliation note: " + time.UnixMilli(ts).UTC().Format(reconciliationNameLayout),
		WarehouseID:          model.NoWarehouse,
		IsReconciliationNote: true,
		DefaultWarehouse:     model.NoWarehouse,
		UpdatedAt:            ts,
		Committed:            true,
		CommittedAt:          model.Ptr(ts),
		NBooks:               total,
	}
}

// Assemble interleaves the corrections with the notes and flattens the
// result into a ledger.
//
// A reconciliation slot precedes every note; slots with no correction are
// dropped. Notes are renumbered 1..n in their final order. Each cell
// becomes one transaction carrying the isbn of its slot, the id of its
// warehouse and the timestamps of its note.
//
// Assemble fails if any note ends up without transactions or with
// transactions that do not sum to its n_books.
func Assemble(notes []model.Note, rows []Row, rec *Reconciliation, warehouses []model.Warehouse, isbns []string) (*Ledger, error) {
	if len(rows) != len(notes) || len(rec.Corrections) != len(notes) {
		return nil, newValidationError(ErrCodeInvalidInput,
			"%d notes, %d rows, %d correction rows", len(notes), len(rows), len(rec.Corrections))
	}

	finalNotes := make([]model.Note, 0, len(notes)+rec.Count())
	finalRows := make([]Row, 0, cap(finalNotes))
	for m := range notes {
		if corr := rec.Corrections[m]; len(corr) > 0 {
			if notes[m].CommittedAt == nil {
				return nil, &ValidationError{
					Code:    ErrCodeInvalidInput,
					Message: "correction requested before a note without commit time",
					NoteID:  notes[m].ID,
				}
			}
			finalNotes = append(finalNotes, ReconciliationNote(notes[m], corr.Total()))
			finalRows = append(finalRows, corr)
		}
		finalNotes = append(finalNotes, notes[m])
		finalRows = append(finalRows, rows[m])
	}

	ledger := &Ledger{Notes: finalNotes}
	nonEmpty := 0
	for i := range finalNotes {
		note := &finalNotes[i]
		note.ID = int64(i + 1)

		row := finalRows[i]
		if len(row) > 0 {
			nonEmpty++
		}
		if total := row.Total(); total != note.NBooks {
			return nil, &ValidationError{
				Code:    ErrCodeNoteTotalMismatch,
				Message: "transaction quantities do not sum to the note's n_books",
				NoteID:  note.ID,
				Details: map[string]string{
					"n_books": strconv.FormatInt(note.NBooks, 10),
					"total":   strconv.FormatInt(total, 10),
				},
			}
		}

		for _, c := range row {
			ledger.Transactions = append(ledger.Transactions, model.Transaction{
				ISBN:        isbns[c.Slot],
				Quantity:    int64(c.Qty),
				NoteID:      note.ID,
				WarehouseID: warehouses[c.Warehouse].ID,
				UpdatedAt:   note.UpdatedAt,
				CommittedAt: note.CommittedAt,
			})
		}
	}

	if nonEmpty != len(finalNotes) {
		return nil, &ValidationError{
			Code:    ErrCodeNoteCountMismatch,
			Message: "number of notes and number of notes with transactions do not match",
			Details: map[string]string{
				"notes":          strconv.Itoa(len(finalNotes)),
				"notes_with_txn": strconv.Itoa(nonEmpty),
			},
		}
	}
	return ledger, nil
}
