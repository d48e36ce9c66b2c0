package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoWarehouse is the sentinel warehouse id carried by outbound notes
// before per-transaction warehouse assignment.
const NoWarehouse int64 = 0

// Book is a catalog record fetched from the external books API.
type Book struct {
	ISBN       string          `json:"isbn" validate:"required"`
	Title      string          `json:"title"`
	Authors    string          `json:"authors"` // comma-joined
	Publisher  string          `json:"publisher"`
	Year       int32           `json:"year"` // 0 when unknown
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	OutOfPrint bool            `json:"out_of_print"`
	UpdatedAt  int64           `json:"updated_at"`
}

// Warehouse is a stock location.
type Warehouse struct {
	ID          int64           `json:"id" validate:"required"`
	DisplayName string          `json:"display_name"`
	Discount    decimal.Decimal `json:"discount"` // percentage
}

// Note is an inventory movement document.
type Note struct {
	ID                   int64  `json:"id"`
	DisplayName          string `json:"display_name"`
	WarehouseID          int64  `json:"warehouse_id" validate:"gte=0"`
	IsReconciliationNote bool   `json:"is_reconciliation_note"`
	DefaultWarehouse     int64  `json:"default_warehouse"`
	UpdatedAt            int64  `json:"updated_at"`
	Committed            bool   `json:"committed"`
	CommittedAt          *int64 `json:"committed_at"`
	NBooks               int64  `json:"n_books" validate:"gte=1"`
}

// Inbound reports whether the note increases stock.
// Reconciliation notes always increase stock.
func (n Note) Inbound() bool {
	return n.WarehouseID > 0 || n.IsReconciliationNote
}

// Sign is +1 for inbound notes and -1 for outbound notes.
func (n Note) Sign() int64 {
	if n.Inbound() {
		return 1
	}
	return -1
}

// Transaction is a single ledger row: one book, one note, one warehouse.
type Transaction struct {
	ISBN        string `json:"isbn" validate:"required"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	NoteID      int64  `json:"note_id" validate:"gt=0"`
	WarehouseID int64  `json:"warehouse_id" validate:"required"`
	UpdatedAt   int64  `json:"updated_at"`
	CommittedAt *int64 `json:"committed_at"`
}

// Dataset bundles the four tables produced by a generation run.
type Dataset struct {
	Books        []Book
	Warehouses   []Warehouse
	Notes        []Note
	Transactions []Transaction
}

// Millis converts t to epoch milliseconds.
func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
