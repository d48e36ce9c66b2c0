package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/testutil"
)

func auditFixture() ([]model.Note, []model.Transaction) {
	notes := testutil.NewNoteBuilder().Inbound(1, 3).Outbound(2).Notes()
	txns := []model.Transaction{
		{ISBN: "a", Quantity: 3, NoteID: 1, WarehouseID: 1},
		{ISBN: "a", Quantity: 2, NoteID: 2, WarehouseID: 1},
	}
	return notes, txns
}

func TestAudit_Valid(t *testing.T) {
	notes, txns := auditFixture()
	require.NoError(t, Audit(notes, txns))
}

func TestAudit_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]model.Note, []model.Transaction) ([]model.Note, []model.Transaction)
		code   ValidationCode
	}{
		{
			name: "gap in note ids",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				n[1].ID = 3
				return n, tx
			},
			code: ErrCodeNoteOrder,
		},
		{
			name: "unknown note",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				tx[1].NoteID = 5
				return n, tx
			},
			code: ErrCodeInvalidInput,
		},
		{
			name: "missing warehouse",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				tx[0].WarehouseID = 0
				return n, tx
			},
			code: ErrCodeInvalidInput,
		},
		{
			name: "total mismatch",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				tx[0].Quantity = 4
				return n, tx
			},
			code: ErrCodeNoteTotalMismatch,
		},
		{
			name: "note without transactions",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				return n, tx[:1]
			},
			code: ErrCodeNoteCountMismatch,
		},
		{
			name: "negative stock",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				n[1].NBooks = 4
				tx[1].Quantity = 4
				return n, tx
			},
			code: ErrCodeNegativeStock,
		},
		{
			name: "different warehouse",
			mutate: func(n []model.Note, tx []model.Transaction) ([]model.Note, []model.Transaction) {
				tx[1].WarehouseID = 2
				return n, tx
			},
			code: ErrCodeNegativeStock,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, txns := tt.mutate(auditFixture())
			err := Audit(notes, txns)
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestAudit_UncommittedNotesDoNotMoveStock(t *testing.T) {
	notes := testutil.NewNoteBuilder().Draft(0, 2).Inbound(1, 1).Notes()
	txns := []model.Transaction{
		{ISBN: "a", Quantity: 2, NoteID: 1, WarehouseID: 1},
		{ISBN: "a", Quantity: 1, NoteID: 2, WarehouseID: 1},
	}
	require.NoError(t, Audit(notes, txns))
}
