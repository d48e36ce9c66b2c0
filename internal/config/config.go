package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Environment variables read by FromEnv.
const (
	EnvAPIKey   = "GOOGLE_BOOKS_API_KEY"
	EnvMySQLDSN = "DEMODATA_MYSQL_DSN"
)

// ErrInvalid is returned when a configuration fails schema validation.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full generator configuration. YAML keys and CUE field
// names match the json tags.
type Config struct {
	Seed       uint64      `yaml:"seed" json:"seed"`
	DataDir    string      `yaml:"data_dir" json:"data_dir"`
	Catalog    Catalog     `yaml:"catalog" json:"catalog"`
	Warehouses []Warehouse `yaml:"warehouses" json:"warehouses"`
	Notes      Notes       `yaml:"notes" json:"notes"`
	Synth      Synth       `yaml:"synth" json:"synth"`
	Store      Store       `yaml:"store" json:"store"`
}

type Catalog struct {
	APIKey            string   `yaml:"-" json:"-"`
	BaseURL           string   `yaml:"base_url" json:"base_url"`
	Queries           []string `yaml:"queries" json:"queries"`
	PagesPerQuery     int      `yaml:"pages_per_query" json:"pages_per_query"`
	RequestsPerSecond float64  `yaml:"requests_per_second" json:"requests_per_second"`
	MaxAttempts       int      `yaml:"max_attempts" json:"max_attempts"`
	RetryBaseDelay    string   `yaml:"retry_base_delay" json:"retry_base_delay"`
	Concurrency       int      `yaml:"concurrency" json:"concurrency"`
	OutOfPrintRate    float64  `yaml:"out_of_print_rate" json:"out_of_print_rate"`
}

type Warehouse struct {
	Name     string  `yaml:"name" json:"name"`
	Discount float64 `yaml:"discount" json:"discount"`
}

type Notes struct {
	Total            int     `yaml:"total" json:"total"`
	InboundRate      float64 `yaml:"inbound_rate" json:"inbound_rate"`
	MaxInboundBooks  int64   `yaml:"max_inbound_books" json:"max_inbound_books"`
	InboundBookRate  float64 `yaml:"inbound_book_rate" json:"inbound_book_rate"`
	OutboundBookRate float64 `yaml:"outbound_book_rate" json:"outbound_book_rate"`
	Start            string  `yaml:"start" json:"start"`
	End              string  `yaml:"end" json:"end"`
	CommitDelay      string  `yaml:"commit_delay" json:"commit_delay"`
}

type Synth struct {
	Alpha        float64 `yaml:"alpha" json:"alpha"`
	Length       int     `yaml:"length" json:"length"`
	MinRemaining float64 `yaml:"min_remaining" json:"min_remaining"`
}

type Store struct {
	SQLitePath string `yaml:"sqlite_path" json:"sqlite_path"`
	MySQLDSN   string `yaml:"-" json:"-"`
}

// Load returns Default overlaid with the YAML file at path. An empty path
// skips the file. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := decode(data, cfg); err != nil {
			return nil, err
		}
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode overlays YAML onto cfg, rejecting unknown keys. An empty document
// leaves cfg unchanged.
func decode(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// FromEnv fills the secret fields from getenv, usually os.Getenv.
func (c *Config) FromEnv(getenv func(string) string) {
	if v := getenv(EnvAPIKey); v != "" {
		c.Catalog.APIKey = v
	}
	if v := getenv(EnvMySQLDSN); v != "" {
		c.Store.MySQLDSN = v
	}
}

// Validate checks cfg against the embedded CUE schema, then parses the
// duration and date strings the schema can only shape-check.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(cfg)
	if err := value.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}

	if _, err := cfg.noteWindow(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := time.ParseDuration(cfg.Catalog.RetryBaseDelay); err != nil {
		return fmt.Errorf("%w: catalog.retry_base_delay: %v", ErrInvalid, err)
	}
	if _, err := time.ParseDuration(cfg.Notes.CommitDelay); err != nil {
		return fmt.Errorf("%w: notes.commit_delay: %v", ErrInvalid, err)
	}
	return nil
}
