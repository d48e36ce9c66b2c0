package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/librocco/demo-data/internal/config"
	"github.com/librocco/demo-data/internal/sampling"
	"github.com/librocco/demo-data/internal/store"
)

// RootOptions holds global flags for all commands, plus the state they
// share once prepared.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DataDir    string
	Seed       uint64

	// Config is loaded on first use. Tests may set it directly.
	Config *config.Config

	// Logger defaults to a text handler on the command's stderr.
	Logger *slog.Logger

	// Overridable for tests.
	RunIDGenerator store.RunIDGenerator // UUIDv7Generator
	HTTPClient     *http.Client         // catalog default
	Now            func() time.Time     // time.Now
	Getenv         func(string) string  // os.Getenv
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// RNG stream ids. Each seeded stage draws from its own stream.
const (
	streamCatalog uint64 = iota + 1
	streamNotes
	streamSynth
)

// NewRootCommand creates the root command for the demodata CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demodata",
		Short: "demodata - bookstore demo dataset generator",
		Long: `Generate a consistent bookstore inventory dataset: books from the
Google Books API, warehouses, purchase and sale notes, and a transaction
ledger in which no warehouse ever holds negative stock.

Each step reads and writes CSV tables in the data directory:

  fetch-books     -> books.csv
  gen-warehouses  -> warehouses.csv
  gen-notes       -> notes_prelim.csv
  synth           -> notes.csv, book_transactions.csv
  check           verifies notes.csv and book_transactions.csv
  load            writes all tables to SQLite or MySQL
  all             runs the steps in order`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		// Commands report their own errors through the formatter.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory (default from config: ./data)")
	cmd.PersistentFlags().Uint64Var(&opts.Seed, "seed", 0, "random seed (default from config)")

	cmd.AddCommand(NewFetchBooksCommand(opts))
	cmd.AddCommand(NewGenWarehousesCommand(opts))
	cmd.AddCommand(NewGenNotesCommand(opts))
	cmd.AddCommand(NewSynthCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewAllCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// prepare configures logging and loads the configuration once. The seed
// and data dir flags override the file when set.
func (o *RootOptions) prepare(cmd *cobra.Command) error {
	if o.Format == "" {
		o.Format = "text"
	}
	if o.Logger == nil {
		logLevel := slog.LevelInfo
		if o.Verbose {
			logLevel = slog.LevelDebug
		}
		handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: logLevel,
		})
		o.Logger = slog.New(handler)
		slog.SetDefault(o.Logger)
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Getenv == nil {
		o.Getenv = os.Getenv
	}
	if o.RunIDGenerator == nil {
		o.RunIDGenerator = store.UUIDv7Generator{}
	}

	if o.Config == nil {
		if err := loadDotEnv(); err != nil {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg.FromEnv(o.Getenv)
		o.Config = cfg
	}

	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		o.Config.Seed = o.Seed
	}
	if o.DataDir != "" {
		o.Config.DataDir = o.DataDir
	}
	o.Logger.Debug("configuration ready", "data_dir", o.Config.DataDir, "seed", o.Config.Seed)
	return nil
}

// loadDotEnv reads ./.env when present. Variables already set win.
func loadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// path resolves a table file inside the data directory.
func (o *RootOptions) path(name string) string {
	return filepath.Join(o.Config.DataDir, name)
}

// rng returns the generator for one seeded stage.
func (o *RootOptions) rng(stream uint64) *rand.Rand {
	return sampling.Stream(o.Config.Seed, stream)
}
