package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// smallDataset has one warehouse-less sale preceded by its reconciliation
// note, a purchase into warehouse 2 and an uncommitted sale.
//
// Final committed stock: (1, isbn 1) = 2-2 = 0, (2, isbn 2) = 5.
func smallDataset() *model.Dataset {
	committed := model.Ptr(testutil.FixtureEpoch + 600_000)
	return &model.Dataset{
		Books:      testutil.Books(2),
		Warehouses: testutil.Warehouses(2),
		Notes: []model.Note{
			{ID: 1, DisplayName: "Reconciliation note: 2025-01-01 00:10:00", IsReconciliationNote: true,
				UpdatedAt: *committed, Committed: true, CommittedAt: committed, NBooks: 2},
			{ID: 2, DisplayName: "Sale (1)", UpdatedAt: testutil.FixtureEpoch, Committed: true, CommittedAt: committed, NBooks: 2},
			{ID: 3, DisplayName: "Purchase (1)", WarehouseID: 2, DefaultWarehouse: 2,
				UpdatedAt: testutil.FixtureEpoch + 60_000, Committed: true, CommittedAt: model.Ptr(testutil.FixtureEpoch + 660_000), NBooks: 5},
			{ID: 4, DisplayName: "Sale (2)", UpdatedAt: testutil.FixtureEpoch + 120_000, NBooks: 1},
		},
		Transactions: []model.Transaction{
			{ISBN: "0000000001", Quantity: 2, NoteID: 1, WarehouseID: 1, UpdatedAt: *committed, CommittedAt: committed},
			{ISBN: "0000000001", Quantity: 2, NoteID: 2, WarehouseID: 1, UpdatedAt: testutil.FixtureEpoch, CommittedAt: committed},
			{ISBN: "0000000002", Quantity: 5, NoteID: 3, WarehouseID: 2, UpdatedAt: testutil.FixtureEpoch + 60_000, CommittedAt: model.Ptr(testutil.FixtureEpoch + 660_000)},
			{ISBN: "0000000002", Quantity: 1, NoteID: 4, WarehouseID: 2, UpdatedAt: testutil.FixtureEpoch + 120_000},
		},
	}
}

func testRun(id string, ds *model.Dataset) Run {
	return NewRun(testutil.NewFixedRunIDGenerator(id), 42, "deadbeef", time.UnixMilli(testutil.FixtureEpoch), ds)
}
