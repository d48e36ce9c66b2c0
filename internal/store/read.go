package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrRunNotFound is returned by ReadRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// Counts returns the row count of each application table.
func (s *Store) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM book),
			(SELECT COUNT(*) FROM warehouse),
			(SELECT COUNT(*) FROM note),
			(SELECT COUNT(*) FROM book_transaction)
	`).Scan(&c.Books, &c.Warehouses, &c.Notes, &c.Transactions)
	if err != nil {
		return Counts{}, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}

// ReadRun returns the run record with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var (
		r    Run
		seed string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seed, digest, created_at, books, warehouses, notes, transactions
		FROM generation_run
		WHERE id = ?
	`, id).Scan(&r.ID, &seed, &r.Digest, &r.CreatedAt,
		&r.Counts.Books, &r.Counts.Warehouses, &r.Counts.Notes, &r.Counts.Transactions)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	if r.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return Run{}, fmt.Errorf("read run: seed: %w", err)
	}
	return r, nil
}

// StockLevel is the committed on-hand quantity of one book in one
// warehouse.
type StockLevel struct {
	WarehouseID int64
	ISBN        string
	Quantity    int64
}

// Stock returns the final committed stock per (warehouse, book), ordered by
// warehouse then isbn. Notes with a warehouse and reconciliation notes add
// stock; all other notes remove it.
func (s *Store) Stock(ctx context.Context) ([]StockLevel, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.warehouse_id, t.isbn,
			SUM(CASE
				WHEN n.warehouse_id IS NOT NULL OR n.is_reconciliation_note = 1 THEN t.quantity
				ELSE -t.quantity
			END)
		FROM book_transaction t
		JOIN note n ON n.id = t.note_id
		WHERE n.committed = 1
		GROUP BY t.warehouse_id, t.isbn
		ORDER BY t.warehouse_id ASC, t.isbn COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query stock: %w", err)
	}
	defer rows.Close()

	levels := []StockLevel{}
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.WarehouseID, &l.ISBN, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		levels = append(levels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}
	return levels, nil
}
