package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// commandContext cancels on interrupt so long fetches and loads stop cleanly.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

// NewFetchBooksCommand creates the fetch-books command.
func NewFetchBooksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-books",
		Short: "Fetch the book catalog from the Google Books API",
		Long: `Query the Google Books API and write books.csv.

The API key is read from GOOGLE_BOOKS_API_KEY (a .env file in the working
directory is honoured). Requests are rate limited and retried on 429/503.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := fetchBooks(ctx, rootOpts)
			if err != nil {
				return report(f, err)
			}
			return f.Success(res)
		},
	}
}

// NewGenWarehousesCommand creates the gen-warehouses command.
func NewGenWarehousesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gen-warehouses",
		Short: "Write warehouses.csv from the configured warehouse list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			res, err := genWarehouses(rootOpts)
			if err != nil {
				return report(f, err)
			}
			return f.Success(res)
		},
	}
}

// NewGenNotesCommand creates the gen-notes command.
func NewGenNotesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "gen-notes",
		Short: "Generate the preliminary note table",
		Long: `Read warehouses.csv and write notes_prelim.csv: one opening purchase
per warehouse followed by a random mix of purchases and sales over the
configured date window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			res, err := genNotes(rootOpts)
			if err != nil {
				return report(f, err)
			}
			return f.Success(res)
		},
	}
}

// SynthOptions holds flags for the synth command.
type SynthOptions struct {
	Workbook string
}

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{}

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the transaction ledger",
		Long: `Read books.csv, warehouses.csv and notes_prelim.csv, draw book
popularity and per-note quantities, assign warehouses, inject
reconciliation notes wherever committed stock would go negative, and write
notes.csv and book_transactions.csv.

Examples:
  demodata synth
  demodata synth --seed 7 --xlsx data/demo.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			res, err := synthesize(rootOpts, opts.Workbook)
			if err != nil {
				return report(f, err)
			}
			return f.Success(res)
		},
	}

	cmd.Flags().StringVar(&opts.Workbook, "xlsx", "", "also write all four tables to this workbook")
	return cmd
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify notes.csv and book_transactions.csv",
		Long: `Re-check a synthesized ledger from its files: note ids are contiguous,
every note's transactions sum to its n_books, and committed stock never
goes negative in any warehouse.

Exits 1 when the ledger is inconsistent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			res, err := checkLedger(rootOpts)
			if err != nil {
				return report(f, err)
			}
			return f.Success(res)
		},
	}
}

// LoadOptions holds flags for the load and all commands.
type LoadOptions struct {
	DBPath   string
	MySQLDSN string
}

func (o *LoadOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.DBPath, "db", "", "SQLite database path (default from config)")
	cmd.Flags().StringVar(&o.MySQLDSN, "mysql-dsn", "", "load into MySQL instead (default $DEMODATA_MYSQL_DSN)")
}

func (o *LoadOptions) target(rootOpts *RootOptions) loadTarget {
	t := loadTarget{sqlitePath: o.DBPath, mysqlDSN: o.MySQLDSN}
	if t.sqlitePath == "" {
		t.sqlitePath = rootOpts.Config.Store.SQLitePath
	}
	if t.mysqlDSN == "" {
		t.mysqlDSN = rootOpts.Config.Store.MySQLDSN
	}
	return t
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the dataset into a database",
		Long: `Read the four final tables and insert them, with a generation_run
record, into SQLite (default) or MySQL in a single transaction.

Examples:
  demodata load --db data/demo_db.sqlite3
  DEMODATA_MYSQL_DSN='user:pass@tcp(localhost:3306)/demo?parseTime=true' demodata load`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			if err := rootOpts.prepare(cmd); err != nil {
				return fail(f, ErrCodeConfig, "load config", err)
			}
			ctx, cancel := commandContext(cmd)
			defer cancel()

			res, err := loadDataset(ctx, rootOpts, opts.target(rootOpts))
			if err != nil {
				return report(f, err)
			}
			return f.SuccessWithRunID(res.RunID, res)
		},
	}

	opts.addFlags(cmd)
	return cmd
}
