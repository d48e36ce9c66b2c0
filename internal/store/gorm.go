package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/librocco/demo-data/internal/model"
)

// batchSize bounds the rows per INSERT statement.
const batchSize = 1000

// BookRow through RunRow mirror schema.sql for gorm.
type BookRow struct {
	ISBN       string          `gorm:"column:isbn;primaryKey;size:13"`
	Title      string          `gorm:"column:title"`
	Authors    string          `gorm:"column:authors"`
	Publisher  string          `gorm:"column:publisher"`
	Year       *int32          `gorm:"column:year"`
	EditedBy   *string         `gorm:"column:edited_by"`
	OutOfPrint bool            `gorm:"column:out_of_print;default:false"`
	Category   string          `gorm:"column:category"`
	Price      decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	UpdatedAt  int64           `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (BookRow) TableName() string { return "book" }

type WarehouseRow struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement:false"`
	DisplayName string          `gorm:"column:display_name"`
	Discount    decimal.Decimal `gorm:"column:discount;type:decimal(5,2);default:0"`
}

func (WarehouseRow) TableName() string { return "warehouse" }

type NoteRow struct {
	ID                   int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	DisplayName          string `gorm:"column:display_name"`
	WarehouseID          *int64 `gorm:"column:warehouse_id"`
	IsReconciliationNote bool   `gorm:"column:is_reconciliation_note;default:false"`
	DefaultWarehouse     int64  `gorm:"column:default_warehouse"`
	UpdatedAt            int64  `gorm:"column:updated_at;autoUpdateTime:false"`
	Committed            bool   `gorm:"column:committed;not null;default:false"`
	CommittedAt          *int64 `gorm:"column:committed_at"`
}

func (NoteRow) TableName() string { return "note" }

type TransactionRow struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	ISBN        string `gorm:"column:isbn;size:13;not null;index:idx_book_transaction_stock,priority:2"`
	Quantity    int64  `gorm:"column:quantity;not null"`
	NoteID      int64  `gorm:"column:note_id;not null;index:idx_book_transaction_note"`
	WarehouseID int64  `gorm:"column:warehouse_id;not null;index:idx_book_transaction_stock,priority:1"`
	UpdatedAt   int64  `gorm:"column:updated_at;autoUpdateTime:false"`
	CommittedAt *int64 `gorm:"column:committed_at"`
}

func (TransactionRow) TableName() string { return "book_transaction" }

type RunRow struct {
	ID           string `gorm:"column:id;primaryKey;size:36"`
	Seed         string `gorm:"column:seed;not null"`
	Digest       string `gorm:"column:digest;size:64;not null"`
	CreatedAt    int64  `gorm:"column:created_at;autoCreateTime:false"`
	Books        int64  `gorm:"column:books"`
	Warehouses   int64  `gorm:"column:warehouses"`
	Notes        int64  `gorm:"column:notes"`
	Transactions int64  `gorm:"column:transactions"`
}

func (RunRow) TableName() string { return "generation_run" }

// GormStore is the MySQL backend.
type GormStore struct {
	db *gorm.DB
}

// OpenMySQL connects to dsn and migrates the tables.
func OpenMySQL(dsn string) (*GormStore, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}
	return NewGormStore(db)
}

// NewGormStore wraps an open gorm connection and migrates the tables.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(
		&BookRow{},
		&WarehouseRow{},
		&NoteRow{},
		&TransactionRow{},
		&RunRow{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// Load inserts ds and its run record in one transaction with batched
// inserts.
func (g *GormStore) Load(ctx context.Context, ds *model.Dataset, run Run) error {
	rows := toRows(ds)
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(toRunRow(run)).Error; err != nil {
			return fmt.Errorf("load: insert run: %w", err)
		}
		if err := createInBatches(tx, "book", rows.books); err != nil {
			return err
		}
		if err := createInBatches(tx, "warehouse", rows.warehouses); err != nil {
			return err
		}
		if err := createInBatches(tx, "note", rows.notes); err != nil {
			return err
		}
		return createInBatches(tx, "book_transaction", rows.transactions)
	})
}

func createInBatches[T any](tx *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(rows, batchSize).Error; err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}

// Counts returns the row count of each application table.
func (g *GormStore) Counts(ctx context.Context) (Counts, error) {
	db := g.db.WithContext(ctx)
	var c Counts
	for _, q := range []struct {
		model any
		dst   *int64
	}{
		{&BookRow{}, &c.Books},
		{&WarehouseRow{}, &c.Warehouses},
		{&NoteRow{}, &c.Notes},
		{&TransactionRow{}, &c.Transactions},
	} {
		if err := db.Model(q.model).Count(q.dst).Error; err != nil {
			return Counts{}, fmt.Errorf("count rows: %w", err)
		}
	}
	return c, nil
}

// Close closes the underlying connection pool.
func (g *GormStore) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type datasetRows struct {
	books        []BookRow
	warehouses   []WarehouseRow
	notes        []NoteRow
	transactions []TransactionRow
}

func toRows(ds *model.Dataset) datasetRows {
	var out datasetRows

	out.books = make([]BookRow, len(ds.Books))
	for i, b := range ds.Books {
		row := BookRow{
			ISBN:       b.ISBN,
			Title:      b.Title,
			Authors:    b.Authors,
			Publisher:  b.Publisher,
			OutOfPrint: b.OutOfPrint,
			Category:   b.Category,
			Price:      b.Price,
			UpdatedAt:  b.UpdatedAt,
		}
		if b.Year != 0 {
			row.Year = model.Ptr(b.Year)
		}
		out.books[i] = row
	}

	out.warehouses = make([]WarehouseRow, len(ds.Warehouses))
	for i, w := range ds.Warehouses {
		out.warehouses[i] = WarehouseRow{ID: w.ID, DisplayName: w.DisplayName, Discount: w.Discount}
	}

	out.notes = make([]NoteRow, len(ds.Notes))
	for i, n := range ds.Notes {
		row := NoteRow{
			ID:                   n.ID,
			DisplayName:          n.DisplayName,
			IsReconciliationNote: n.IsReconciliationNote,
			DefaultWarehouse:     n.DefaultWarehouse,
			UpdatedAt:            n.UpdatedAt,
			Committed:            n.Committed,
			CommittedAt:          n.CommittedAt,
		}
		if n.WarehouseID != model.NoWarehouse {
			row.WarehouseID = model.Ptr(n.WarehouseID)
		}
		out.notes[i] = row
	}

	out.transactions = make([]TransactionRow, len(ds.Transactions))
	for i, t := range ds.Transactions {
		out.transactions[i] = TransactionRow{
			ISBN:        t.ISBN,
			Quantity:    t.Quantity,
			NoteID:      t.NoteID,
			WarehouseID: t.WarehouseID,
			UpdatedAt:   t.UpdatedAt,
			CommittedAt: t.CommittedAt,
		}
	}
	return out
}

func toRunRow(r Run) *RunRow {
	return &RunRow{
		ID:           r.ID,
		Seed:         r.seedText(),
		Digest:       r.Digest,
		CreatedAt:    r.CreatedAt,
		Books:        r.Counts.Books,
		Warehouses:   r.Counts.Warehouses,
		Notes:        r.Counts.Notes,
		Transactions: r.Counts.Transactions,
	}
}
