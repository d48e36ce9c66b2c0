package config

import (
	"github.com/librocco/demo-data/internal/catalog"
	"github.com/librocco/demo-data/internal/generate"
	"github.com/librocco/demo-data/internal/synth"
)

// Default returns the settings used when no file is given.
func Default() *Config {
	notes := generate.DefaultNoteOptions()
	weights := synth.DefaultOptions().Weights

	warehouses := make([]Warehouse, len(generate.DefaultWarehouses))
	for i, w := range generate.DefaultWarehouses {
		warehouses[i] = Warehouse{Name: w.DisplayName, Discount: w.Discount.InexactFloat64()}
	}

	return &Config{
		Seed:    0,
		DataDir: "./data",
		Catalog: Catalog{
			BaseURL:           catalog.DefaultBaseURL,
			Queries:           append([]string(nil), catalog.DefaultQueries...),
			PagesPerQuery:     10,
			RequestsPerSecond: 10,
			MaxAttempts:       3,
			RetryBaseDelay:    "1s",
			Concurrency:       4,
			OutOfPrintRate:    1.0 / 21,
		},
		Warehouses: warehouses,
		Notes: Notes{
			Total:            notes.Total,
			InboundRate:      notes.InboundRate,
			MaxInboundBooks:  notes.MaxInboundBooks,
			InboundBookRate:  notes.InboundBookRate,
			OutboundBookRate: notes.OutboundBookRate,
			Start:            notes.Start.Format(dateLayout),
			End:              notes.End.Format(dateLayout),
			CommitDelay:      notes.CommitDelay.String(),
		},
		Synth: Synth{
			Alpha:        weights.Alpha,
			Length:       weights.Length,
			MinRemaining: weights.MinRemaining,
		},
		Store: Store{
			SQLitePath: "data/demo_db.sqlite3",
		},
	}
}
