package synth

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/sampling"
)

// Options configures a synthesis run.
type Options struct {
	// Weights configures the catalogue popularity draw.
	Weights sampling.GEMOptions

	// Logger receives progress records. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions draws roughly 160 catalogue slots.
func DefaultOptions() Options {
	return Options{
		Weights: sampling.GEMOptions{Alpha: 30, Length: 300, MinRemaining: 1.0 / 200},
	}
}

// Result is the outcome of Synthesize.
type Result struct {
	*Ledger

	// Weights is the popularity of each catalogue slot.
	Weights []float64

	// Catalogue maps each slot to an index into the book table.
	Catalogue []int

	// Reconciliation holds the injected corrections per original note.
	Reconciliation *Reconciliation
}

// Synthesize runs the whole pipeline over already-validated tables. Notes
// must be in chronological order. Inputs are not modified.
func Synthesize(rng *rand.Rand, books []model.Book, warehouses []model.Warehouse, notes []model.Note, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if len(books) == 0 {
		return nil, newValidationError(ErrCodeInvalidInput, "book table is empty")
	}
	if len(warehouses) == 0 {
		return nil, newValidationError(ErrCodeInvalidInput, "warehouse table is empty")
	}

	weights, err := sampling.GEM(rng, opts.Weights)
	if err != nil {
		return nil, fmt.Errorf("draw catalogue weights: %w", err)
	}
	catalogue, err := sampling.SelectCatalogue(rng, len(weights), len(books))
	if err != nil {
		return nil, fmt.Errorf("select catalogue: %w", err)
	}
	isbns := make([]string, len(catalogue))
	for slot, b := range catalogue {
		isbns[slot] = books[b].ISBN
	}
	log.Debug("catalogue drawn", "slots", len(weights), "books", len(books))

	counts, err := DrawQuantities(rng, notes, weights)
	if err != nil {
		return nil, err
	}
	rows, err := AssignWarehouses(rng, notes, counts, warehouses)
	if err != nil {
		return nil, err
	}

	rec, err := Reconcile(rows, Flows(notes), len(warehouses), len(weights))
	if err != nil {
		return nil, err
	}
	log.Debug("stock reconciled", "reconciliation_notes", rec.Count(), "offset", rec.Offset)

	ledger, err := Assemble(notes, rows, rec, warehouses, isbns)
	if err != nil {
		return nil, err
	}
	log.Info("ledger assembled",
		"notes", len(ledger.Notes),
		"transactions", len(ledger.Transactions),
		"reconciliation_notes", rec.Count(),
	)

	return &Result{
		Ledger:         ledger,
		Weights:        weights,
		Catalogue:      catalogue,
		Reconciliation: rec,
	}, nil
}
