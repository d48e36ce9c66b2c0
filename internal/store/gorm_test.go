package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// dryRunDB builds statements without a server.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "demo:demo@tcp(127.0.0.1:3306)/demo",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestToRows(t *testing.T) {
	ds := smallDataset()
	rows := toRows(ds)

	require.Len(t, rows.notes, 4)
	assert.Nil(t, rows.notes[0].WarehouseID)
	assert.Nil(t, rows.notes[1].WarehouseID)
	require.NotNil(t, rows.notes[2].WarehouseID)
	assert.Equal(t, int64(2), *rows.notes[2].WarehouseID)
	assert.Nil(t, rows.notes[3].CommittedAt)

	require.Len(t, rows.books, 2)
	require.NotNil(t, rows.books[0].Year)
	assert.Equal(t, ds.Books[0].Year, *rows.books[0].Year)
	assert.True(t, ds.Books[1].Price.Equal(rows.books[1].Price))

	require.Len(t, rows.transactions, 4)
	assert.Zero(t, rows.transactions[0].ID, "left to auto increment")
	assert.Equal(t, ds.Transactions[2].WarehouseID, rows.transactions[2].WarehouseID)
}

func TestToRunRow(t *testing.T) {
	ds := smallDataset()
	row := toRunRow(testRun("run-1", ds))
	assert.Equal(t, "run-1", row.ID)
	assert.Equal(t, "42", row.Seed)
	assert.Equal(t, int64(4), row.Transactions)
}

func TestGormStatements(t *testing.T) {
	db := dryRunDB(t)
	rows := toRows(smallDataset())

	stmt := db.Create(&rows.notes).Statement
	sqlText := stmt.SQL.String()
	assert.Contains(t, sqlText, "INSERT INTO `note`")
	assert.Contains(t, sqlText, "`warehouse_id`")
	assert.NotContains(t, sqlText, "n_books")

	stmt = db.Create(toRunRow(testRun("run-1", smallDataset()))).Statement
	assert.Contains(t, stmt.SQL.String(), "INSERT INTO `generation_run`")
}
