package tables

import (
	"github.com/librocco/demo-data/internal/model"
)

// File names inside a data directory.
const (
	BooksFile        = "books.csv"
	WarehousesFile   = "warehouses.csv"
	NotesPrelimFile  = "notes_prelim.csv"
	NotesFile        = "notes.csv"
	TransactionsFile = "book_transactions.csv"
)

var (
	bookHeader = []string{
		"isbn", "title", "authors", "publisher", "year", "category",
		"price", "out_of_print", "updated_at",
	}
	warehouseHeader = []string{"id", "display_name", "discount"}
	noteHeader      = []string{
		"id", "display_name", "warehouse_id", "is_reconciliation_note",
		"default_warehouse", "updated_at", "committed", "committed_at", "n_books",
	}
	transactionHeader = []string{
		"isbn", "quantity", "note_id", "warehouse_id", "updated_at", "committed_at",
	}
)

// table is a header plus a row accessor. Cell values are string, int32,
// int64, bool, *int64 or decimal.Decimal.
type table struct {
	name   string
	header []string
	len    int
	row    func(i int) []any
}

func bookTable(books []model.Book) table {
	return table{
		name:   "book",
		header: bookHeader,
		len:    len(books),
		row: func(i int) []any {
			b := books[i]
			return []any{
				b.ISBN, b.Title, b.Authors, b.Publisher, b.Year, b.Category,
				b.Price, b.OutOfPrint, b.UpdatedAt,
			}
		},
	}
}

func warehouseTable(warehouses []model.Warehouse) table {
	return table{
		name:   "warehouse",
		header: warehouseHeader,
		len:    len(warehouses),
		row: func(i int) []any {
			w := warehouses[i]
			return []any{w.ID, w.DisplayName, w.Discount}
		},
	}
}

func noteTable(notes []model.Note) table {
	return table{
		name:   "note",
		header: noteHeader,
		len:    len(notes),
		row: func(i int) []any {
			n := notes[i]
			return []any{
				n.ID, n.DisplayName, n.WarehouseID, n.IsReconciliationNote,
				n.DefaultWarehouse, n.UpdatedAt, n.Committed, n.CommittedAt, n.NBooks,
			}
		},
	}
}

func transactionTable(txns []model.Transaction) table {
	return table{
		name:   "book_transaction",
		header: transactionHeader,
		len:    len(txns),
		row: func(i int) []any {
			tx := txns[i]
			return []any{
				tx.ISBN, tx.Quantity, tx.NoteID, tx.WarehouseID, tx.UpdatedAt, tx.CommittedAt,
			}
		},
	}
}
