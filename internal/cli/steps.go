package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/librocco/demo-data/internal/catalog"
	"github.com/librocco/demo-data/internal/digest"
	"github.com/librocco/demo-data/internal/generate"
	"github.com/librocco/demo-data/internal/model"
	"github.com/librocco/demo-data/internal/store"
	"github.com/librocco/demo-data/internal/synth"
	"github.com/librocco/demo-data/internal/tables"
)

// stepError carries the CLI error code of a failed pipeline step.
type stepError struct {
	code    string
	message string
	err     error
}

func (e *stepError) Error() string { return e.message + ": " + e.err.Error() }

func (e *stepError) Unwrap() error { return e.err }

func stepErr(code, message string, err error) error {
	return &stepError{code: code, message: message, err: err}
}

// report hands a step failure to the formatter.
func report(f *OutputFormatter, err error) error {
	var se *stepError
	if errors.As(err, &se) {
		return fail(f, se.code, se.message, se.err)
	}
	return fail(f, ErrCodeGeneric, "command failed", err)
}

// FetchResult summarizes fetch-books.
type FetchResult struct {
	Books      int    `json:"books"`
	OutOfPrint int    `json:"out_of_print"`
	Path       string `json:"path"`
}

func (r *FetchResult) String() string {
	return fmt.Sprintf("Fetched %d books (%d out of print) -> %s", r.Books, r.OutOfPrint, r.Path)
}

func fetchBooks(ctx context.Context, opts *RootOptions) (*FetchResult, error) {
	client := catalog.New(opts.Config.CatalogOptions(opts.Logger, opts.HTTPClient))
	books, err := client.FetchAll(ctx, opts.rng(streamCatalog))
	if err != nil {
		return nil, stepErr(ErrCodeFetch, "fetch books", err)
	}
	if err := model.ValidateBooks(books); err != nil {
		return nil, stepErr(ErrCodeFetch, "fetched books", err)
	}

	path := opts.path(tables.BooksFile)
	if err := writeTable(path, books, tables.WriteBooks); err != nil {
		return nil, err
	}

	res := &FetchResult{Books: len(books), Path: path}
	for _, b := range books {
		if b.OutOfPrint {
			res.OutOfPrint++
		}
	}
	return res, nil
}

// WarehousesResult summarizes gen-warehouses.
type WarehousesResult struct {
	Warehouses int    `json:"warehouses"`
	Path       string `json:"path"`
}

func (r *WarehousesResult) String() string {
	return fmt.Sprintf("Generated %d warehouses -> %s", r.Warehouses, r.Path)
}

func genWarehouses(opts *RootOptions) (*WarehousesResult, error) {
	warehouses, err := generate.Warehouses(opts.Config.WarehouseSpecs())
	if err != nil {
		return nil, stepErr(ErrCodeConfig, "generate warehouses", err)
	}
	path := opts.path(tables.WarehousesFile)
	if err := writeTable(path, warehouses, tables.WriteWarehouses); err != nil {
		return nil, err
	}
	return &WarehousesResult{Warehouses: len(warehouses), Path: path}, nil
}

// NotesResult summarizes gen-notes.
type NotesResult struct {
	Notes     int    `json:"notes"`
	Inbound   int    `json:"inbound"`
	Committed int    `json:"committed"`
	Path      string `json:"path"`
}

func (r *NotesResult) String() string {
	return fmt.Sprintf("Generated %d notes (%d inbound, %d committed) -> %s",
		r.Notes, r.Inbound, r.Committed, r.Path)
}

func genNotes(opts *RootOptions) (*NotesResult, error) {
	warehouses, err := readTable(opts.path(tables.WarehousesFile), tables.ReadWarehouses)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateWarehouses(warehouses); err != nil {
		return nil, stepErr(ErrCodeRead, "warehouses", err)
	}
	noteOpts, err := opts.Config.NoteOptions()
	if err != nil {
		return nil, stepErr(ErrCodeConfig, "note options", err)
	}
	notes, err := generate.Notes(opts.rng(streamNotes), warehouses, noteOpts)
	if err != nil {
		return nil, stepErr(ErrCodeGeneric, "generate notes", err)
	}

	path := opts.path(tables.NotesPrelimFile)
	if err := writeTable(path, notes, tables.WriteNotes); err != nil {
		return nil, err
	}

	res := &NotesResult{Notes: len(notes), Path: path}
	for _, n := range notes {
		if n.Inbound() {
			res.Inbound++
		}
		if n.Committed {
			res.Committed++
		}
	}
	return res, nil
}

// SynthResult summarizes synth.
type SynthResult struct {
	Notes               int      `json:"notes"`
	Transactions        int      `json:"transactions"`
	Slots               int      `json:"slots"`
	ReconciliationNotes int      `json:"reconciliation_notes"`
	ReconciledBooks     int64    `json:"reconciled_books"`
	Digest              string   `json:"digest"`
	Files               []string `json:"files"`
}

func (r *SynthResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Synthesized %d notes and %d transactions over %d catalogue slots\n",
		r.Notes, r.Transactions, r.Slots)
	fmt.Fprintf(&b, "Reconciliation notes: %d (%d books)\n", r.ReconciliationNotes, r.ReconciledBooks)
	fmt.Fprintf(&b, "Digest: %s\n", r.Digest)
	for _, f := range r.Files {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func synthesize(opts *RootOptions, workbook string) (*SynthResult, error) {
	books, err := readTable(opts.path(tables.BooksFile), tables.ReadBooks)
	if err != nil {
		return nil, err
	}
	warehouses, err := readTable(opts.path(tables.WarehousesFile), tables.ReadWarehouses)
	if err != nil {
		return nil, err
	}
	notes, err := readTable(opts.path(tables.NotesPrelimFile), tables.ReadNotes)
	if err != nil {
		return nil, err
	}
	for _, validate := range []func() error{
		func() error { return model.ValidateBooks(books) },
		func() error { return model.ValidateWarehouses(warehouses) },
		func() error { return model.ValidateNotes(notes) },
	} {
		if err := validate(); err != nil {
			return nil, stepErr(ErrCodeRead, "input tables", err)
		}
	}

	res, err := synth.Synthesize(opts.rng(streamSynth), books, warehouses, notes, opts.Config.SynthOptions(opts.Logger))
	if err != nil {
		return nil, stepErr(ErrCodeGeneric, "synthesize ledger", err)
	}

	ds := &model.Dataset{
		Books:        books,
		Warehouses:   warehouses,
		Notes:        res.Notes,
		Transactions: res.Transactions,
	}
	sum, err := digest.Dataset(ds)
	if err != nil {
		return nil, stepErr(ErrCodeGeneric, "digest dataset", err)
	}

	notesPath := opts.path(tables.NotesFile)
	if err := writeTable(notesPath, res.Notes, tables.WriteNotes); err != nil {
		return nil, err
	}
	txPath := opts.path(tables.TransactionsFile)
	if err := writeTable(txPath, res.Transactions, tables.WriteTransactions); err != nil {
		return nil, err
	}
	files := []string{notesPath, txPath}
	if workbook != "" {
		if err := tables.WriteWorkbook(workbook, ds); err != nil {
			return nil, stepErr(ErrCodeWrite, "write workbook", err)
		}
		files = append(files, workbook)
	}

	return &SynthResult{
		Notes:               len(res.Notes),
		Transactions:        len(res.Transactions),
		Slots:               len(res.Weights),
		ReconciliationNotes: res.Reconciliation.Count(),
		ReconciledBooks:     res.Reconciliation.Total(),
		Digest:              sum,
		Files:               files,
	}, nil
}

// CheckResult summarizes check.
type CheckResult struct {
	Notes        int  `json:"notes"`
	Transactions int  `json:"transactions"`
	Valid        bool `json:"valid"`
}

func (r *CheckResult) String() string {
	return fmt.Sprintf("Ledger valid: %d notes, %d transactions, no negative stock", r.Notes, r.Transactions)
}

func checkLedger(opts *RootOptions) (*CheckResult, error) {
	notes, err := readTable(opts.path(tables.NotesFile), tables.ReadNotes)
	if err != nil {
		return nil, err
	}
	txns, err := readTable(opts.path(tables.TransactionsFile), tables.ReadTransactions)
	if err != nil {
		return nil, err
	}
	if err := model.ValidateNotes(notes); err != nil {
		return nil, stepErr(ErrCodeRead, "notes", err)
	}
	if err := model.ValidateTransactions(txns); err != nil {
		return nil, stepErr(ErrCodeRead, "transactions", err)
	}
	if err := synth.Audit(notes, txns); err != nil {
		return nil, stepErr(ErrCodeGeneric, "ledger audit", err)
	}
	return &CheckResult{Notes: len(notes), Transactions: len(txns), Valid: true}, nil
}

// LoadResult summarizes load.
type LoadResult struct {
	RunID   string       `json:"run_id"`
	Backend string       `json:"backend"`
	Target  string       `json:"target,omitempty"`
	Digest  string       `json:"digest"`
	Counts  store.Counts `json:"counts"`
}

func (r *LoadResult) String() string {
	target := r.Backend
	if r.Target != "" {
		target += " " + r.Target
	}
	return fmt.Sprintf("Loaded run %s into %s: %d books, %d warehouses, %d notes, %d transactions\nDigest: %s",
		r.RunID, target, r.Counts.Books, r.Counts.Warehouses, r.Counts.Notes, r.Counts.Transactions, r.Digest)
}

// loadTarget selects the database. A MySQL DSN wins over the SQLite path.
type loadTarget struct {
	sqlitePath string
	mysqlDSN   string
}

func (t loadTarget) open() (store.Loader, string, string, error) {
	if t.mysqlDSN != "" {
		s, err := store.OpenMySQL(t.mysqlDSN)
		return s, "mysql", "", err
	}
	if dir := filepath.Dir(t.sqlitePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, "sqlite", t.sqlitePath, err
		}
	}
	s, err := store.Open(t.sqlitePath)
	return s, "sqlite", t.sqlitePath, err
}

func loadDataset(ctx context.Context, opts *RootOptions, target loadTarget) (*LoadResult, error) {
	ds, err := readDataset(opts)
	if err != nil {
		return nil, err
	}
	sum, err := digest.Dataset(ds)
	if err != nil {
		return nil, stepErr(ErrCodeGeneric, "digest dataset", err)
	}
	run := store.NewRun(opts.RunIDGenerator, opts.Config.Seed, sum, opts.Now(), ds)

	db, backend, where, err := target.open()
	if err != nil {
		return nil, stepErr(ErrCodeDatabase, "open database", err)
	}
	defer db.Close()

	if err := db.Load(ctx, ds, run); err != nil {
		return nil, stepErr(ErrCodeDatabase, "load dataset", err)
	}
	opts.Logger.Info("dataset loaded", "run_id", run.ID, "backend", backend)
	return &LoadResult{RunID: run.ID, Backend: backend, Target: where, Digest: sum, Counts: run.Counts}, nil
}

// readDataset reads and validates the four final tables.
func readDataset(opts *RootOptions) (*model.Dataset, error) {
	var ds model.Dataset
	var err error
	if ds.Books, err = readTable(opts.path(tables.BooksFile), tables.ReadBooks); err != nil {
		return nil, err
	}
	if ds.Warehouses, err = readTable(opts.path(tables.WarehousesFile), tables.ReadWarehouses); err != nil {
		return nil, err
	}
	if ds.Notes, err = readTable(opts.path(tables.NotesFile), tables.ReadNotes); err != nil {
		return nil, err
	}
	if ds.Transactions, err = readTable(opts.path(tables.TransactionsFile), tables.ReadTransactions); err != nil {
		return nil, err
	}
	for _, validate := range []func() error{
		func() error { return model.ValidateBooks(ds.Books) },
		func() error { return model.ValidateWarehouses(ds.Warehouses) },
		func() error { return model.ValidateNotes(ds.Notes) },
		func() error { return model.ValidateTransactions(ds.Transactions) },
	} {
		if err := validate(); err != nil {
			return nil, stepErr(ErrCodeRead, "input tables", err)
		}
	}
	return &ds, nil
}

func readTable[T any](path string, read func(r io.Reader) ([]T, error)) ([]T, error) {
	rows, err := tables.ReadFile(path, read)
	if err != nil {
		return nil, stepErr(ErrCodeRead, "read table", err)
	}
	return rows, nil
}

func writeTable[T any](path string, rows []T, write func(w io.Writer, rows []T) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return stepErr(ErrCodeWrite, "create data directory", err)
	}
	if err := tables.WriteFile(path, rows, write); err != nil {
		return stepErr(ErrCodeWrite, "write table", err)
	}
	return nil
}
