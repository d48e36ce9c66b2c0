// Package store loads generated datasets into a relational database.
//
// Two backends share the Loader interface:
//   - Store: SQLite through database/sql and mattn/go-sqlite3
//   - GormStore: MySQL through gorm
//
// Both write the application tables (book, warehouse, note,
// book_transaction) plus a generation_run row recording the run id, seed,
// dataset digest and row counts. Loading is append-only and happens in a
// single transaction, so a failed load leaves the database untouched.
//
// A note's warehouse id 0 is written as NULL. The n_books column of the
// generated note table is a generation target only and is not persisted.
//
// # SQLite configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: every transaction must reference a known book,
//     note and warehouse
package store
