package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/librocco/demo-data/internal/model"
)

// Load inserts ds and its run record in a single transaction using
// prepared statements. Loading the same rows twice fails on the primary
// keys and rolls back.
func (s *Store) Load(ctx context.Context, ds *model.Dataset, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("load: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO generation_run
		(id, seed, digest, created_at, books, warehouses, notes, transactions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.seedText(), run.Digest, run.CreatedAt,
		run.Counts.Books, run.Counts.Warehouses, run.Counts.Notes, run.Counts.Transactions,
	)
	if err != nil {
		return fmt.Errorf("load: insert run: %w", err)
	}

	if err := insertAll(ctx, tx, "book", `
		INSERT INTO book
		(isbn, title, authors, publisher, year, out_of_print, category, price, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, ds.Books, func(b model.Book) []any {
		return []any{
			b.ISBN, b.Title, b.Authors, b.Publisher, nullIfZero(int64(b.Year)),
			b.OutOfPrint, b.Category, b.Price.String(), b.UpdatedAt,
		}
	}); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "warehouse", `
		INSERT INTO warehouse (id, display_name, discount) VALUES (?, ?, ?)
	`, ds.Warehouses, func(w model.Warehouse) []any {
		return []any{w.ID, w.DisplayName, w.Discount.String()}
	}); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "note", `
		INSERT INTO note
		(id, display_name, warehouse_id, is_reconciliation_note, default_warehouse, updated_at, committed, committed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ds.Notes, func(n model.Note) []any {
		return []any{
			n.ID, n.DisplayName, nullIfZero(n.WarehouseID), n.IsReconciliationNote,
			n.DefaultWarehouse, n.UpdatedAt, n.Committed, nullable(n.CommittedAt),
		}
	}); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "book_transaction", `
		INSERT INTO book_transaction
		(isbn, quantity, note_id, warehouse_id, updated_at, committed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, ds.Transactions, func(t model.Transaction) []any {
		return []any{t.ISBN, t.Quantity, t.NoteID, t.WarehouseID, t.UpdatedAt, nullable(t.CommittedAt)}
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("load: commit: %w", err)
	}
	return nil
}

func insertAll[T any](ctx context.Context, tx *sql.Tx, table, query string, rows []T, args func(T) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("load %s: prepare: %w", table, err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, args(row)...); err != nil {
			return fmt.Errorf("load %s: row %d: %w", table, i, err)
		}
	}
	return nil
}

func nullIfZero(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}

func nullable(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
