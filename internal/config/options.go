package config

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/librocco/demo-data/internal/catalog"
	"github.com/librocco/demo-data/internal/generate"
	"github.com/librocco/demo-data/internal/sampling"
	"github.com/librocco/demo-data/internal/synth"
)

const dateLayout = "2006-01-02"

type window struct {
	start, end time.Time
}

func (c *Config) noteWindow() (window, error) {
	start, err := time.Parse(dateLayout, c.Notes.Start)
	if err != nil {
		return window{}, fmt.Errorf("notes.start: %w", err)
	}
	end, err := time.Parse(dateLayout, c.Notes.End)
	if err != nil {
		return window{}, fmt.Errorf("notes.end: %w", err)
	}
	if !end.After(start) {
		return window{}, fmt.Errorf("notes.end %s must be after notes.start %s", c.Notes.End, c.Notes.Start)
	}
	return window{start: start, end: end}, nil
}

// CatalogOptions maps the catalog section onto client options. Call on a
// validated Config.
func (c *Config) CatalogOptions(logger *slog.Logger, client *http.Client) catalog.Options {
	delay, _ := time.ParseDuration(c.Catalog.RetryBaseDelay)
	return catalog.Options{
		BaseURL:           c.Catalog.BaseURL,
		APIKey:            c.Catalog.APIKey,
		Queries:           c.Catalog.Queries,
		PagesPerQuery:     c.Catalog.PagesPerQuery,
		RequestsPerSecond: c.Catalog.RequestsPerSecond,
		MaxAttempts:       c.Catalog.MaxAttempts,
		RetryBaseDelay:    delay,
		Concurrency:       c.Catalog.Concurrency,
		OutOfPrintRate:    c.Catalog.OutOfPrintRate,
		HTTPClient:        client,
		Logger:            logger,
	}
}

// WarehouseSpecs maps the warehouse list. Discounts are rounded to two
// decimal places.
func (c *Config) WarehouseSpecs() []generate.WarehouseSpec {
	specs := make([]generate.WarehouseSpec, len(c.Warehouses))
	for i, w := range c.Warehouses {
		specs[i] = generate.WarehouseSpec{
			DisplayName: w.Name,
			Discount:    decimal.NewFromFloat(w.Discount).Round(2),
		}
	}
	return specs
}

// NoteOptions maps the notes section. Call on a validated Config.
func (c *Config) NoteOptions() (generate.NoteOptions, error) {
	w, err := c.noteWindow()
	if err != nil {
		return generate.NoteOptions{}, err
	}
	delay, err := time.ParseDuration(c.Notes.CommitDelay)
	if err != nil {
		return generate.NoteOptions{}, fmt.Errorf("notes.commit_delay: %w", err)
	}
	return generate.NoteOptions{
		Total:            c.Notes.Total,
		InboundRate:      c.Notes.InboundRate,
		MaxInboundBooks:  c.Notes.MaxInboundBooks,
		InboundBookRate:  c.Notes.InboundBookRate,
		OutboundBookRate: c.Notes.OutboundBookRate,
		Start:            w.start,
		End:              w.end,
		CommitDelay:      delay,
	}, nil
}

// SynthOptions maps the synth section.
func (c *Config) SynthOptions(logger *slog.Logger) synth.Options {
	return synth.Options{
		Weights: sampling.GEMOptions{
			Alpha:        c.Synth.Alpha,
			Length:       c.Synth.Length,
			MinRemaining: c.Synth.MinRemaining,
		},
		Logger: logger,
	}
}
