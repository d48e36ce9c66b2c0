// Package testutil provides deterministic fixtures shared by package tests.
package testutil

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/librocco/demo-data/internal/model"
)

// FixtureEpoch is 2025-01-01T00:00:00Z in epoch milliseconds.
const FixtureEpoch int64 = 1735689600000

// Books returns n books with ISBNs 0000000001, 0000000002, ...
func Books(n int) []model.Book {
	books := make([]model.Book, n)
	for i := range books {
		books[i] = model.Book{
			ISBN:      fmt.Sprintf("%010d", i+1),
			Title:     fmt.Sprintf("Book %d", i+1),
			Authors:   "Jane Doe,John Roe",
			Publisher: "Fixture Press",
			Year:      2000 + int32(i%25),
			Category:  "Fiction",
			Price:     decimal.New(int64(1000+i), -2),
			UpdatedAt: FixtureEpoch,
		}
	}
	return books
}

// Warehouses returns k warehouses with ids 1..k.
func Warehouses(k int) []model.Warehouse {
	ws := make([]model.Warehouse, k)
	for i := range ws {
		ws[i] = model.Warehouse{
			ID:          int64(i + 1),
			DisplayName: fmt.Sprintf("Warehouse %d", i+1),
			Discount:    decimal.NewFromInt(int64(5 * (i % 3))),
		}
	}
	return ws
}

// NoteBuilder appends chronologically ordered notes with ids 1, 2, ...
type NoteBuilder struct {
	clock *DeterministicClock
	notes []model.Note
}

// NewNoteBuilder starts a note sequence at FixtureEpoch, one minute apart.
func NewNoteBuilder() *NoteBuilder {
	return &NoteBuilder{clock: NewDeterministicClock(FixtureEpoch, 60_000)}
}

// Inbound appends a committed purchase into warehouse.
func (b *NoteBuilder) Inbound(warehouse, nBooks int64) *NoteBuilder {
	return b.add(warehouse, nBooks, true)
}

// Outbound appends a committed sale.
func (b *NoteBuilder) Outbound(nBooks int64) *NoteBuilder {
	return b.add(model.NoWarehouse, nBooks, true)
}

// Draft appends an uncommitted note; warehouse 0 makes it a sale.
func (b *NoteBuilder) Draft(warehouse, nBooks int64) *NoteBuilder {
	return b.add(warehouse, nBooks, false)
}

func (b *NoteBuilder) add(warehouse, nBooks int64, committed bool) *NoteBuilder {
	id := int64(len(b.notes) + 1)
	ts := b.clock.Next()
	kind := "Sale"
	if warehouse != model.NoWarehouse {
		kind = "Purchase"
	}
	note := model.Note{
		ID:          id,
		DisplayName: fmt.Sprintf("%s (%d)", kind, id),
		WarehouseID: warehouse,
		UpdatedAt:   ts,
		Committed:   committed,
		NBooks:      nBooks,
	}
	if committed {
		note.CommittedAt = model.Ptr(ts + 10*60_000)
	}
	b.notes = append(b.notes, note)
	return b
}

// Notes returns a copy of the built notes.
func (b *NoteBuilder) Notes() []model.Note {
	return append([]model.Note(nil), b.notes...)
}
