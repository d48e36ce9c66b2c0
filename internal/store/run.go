package store

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/librocco/demo-data/internal/model"
)

// Run records one generation run alongside the data it produced.
type Run struct {
	ID        string
	Seed      uint64
	Digest    string
	CreatedAt int64 // epoch ms
	Counts    Counts
}

// Counts holds per-table row counts.
type Counts struct {
	Books        int64 `json:"books"`
	Warehouses   int64 `json:"warehouses"`
	Notes        int64 `json:"notes"`
	Transactions int64 `json:"transactions"`
}

// CountsOf counts the rows of ds.
func CountsOf(ds *model.Dataset) Counts {
	return Counts{
		Books:        int64(len(ds.Books)),
		Warehouses:   int64(len(ds.Warehouses)),
		Notes:        int64(len(ds.Notes)),
		Transactions: int64(len(ds.Transactions)),
	}
}

// NewRun builds a run record for ds with an id from gen.
func NewRun(gen RunIDGenerator, seed uint64, digest string, now time.Time, ds *model.Dataset) Run {
	return Run{
		ID:        gen.Generate(),
		Seed:      seed,
		Digest:    digest,
		CreatedAt: model.Millis(now),
		Counts:    CountsOf(ds),
	}
}

// seedText keeps the full uint64 range; SQLite integers are signed.
func (r Run) seedText() string {
	return strconv.FormatUint(r.Seed, 10)
}

// RunIDGenerator produces run ids.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run ids, so runs listed
// by id come out in creation order.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7. Panics if the system random
// source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
