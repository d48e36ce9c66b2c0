package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/librocco/demo-data/internal/model"
)

// ParseError reports a malformed cell. Line is 1-based and counts the
// header.
type ParseError struct {
	Table  string
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s line %d: %v", e.Table, e.Line, e.Err)
	}
	return fmt.Sprintf("%s line %d column %s: %v", e.Table, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrHeader is returned when a file's header row does not match its table.
var ErrHeader = errors.New("unexpected header")

func WriteBooks(w io.Writer, books []model.Book) error {
	return writeCSV(w, bookTable(books))
}

func WriteWarehouses(w io.Writer, warehouses []model.Warehouse) error {
	return writeCSV(w, warehouseTable(warehouses))
}

func WriteNotes(w io.Writer, notes []model.Note) error {
	return writeCSV(w, noteTable(notes))
}

func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	return writeCSV(w, transactionTable(txns))
}

func writeCSV(w io.Writer, t table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return fmt.Errorf("write %s header: %w", t.name, err)
	}
	record := make([]string, len(t.header))
	for i := 0; i < t.len; i++ {
		for j, v := range t.row(i) {
			record[j] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write %s row %d: %w", t.name, i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case *int64:
		if val == nil {
			return ""
		}
		return strconv.FormatInt(*val, 10)
	case decimal.Decimal:
		return val.String()
	default:
		panic(fmt.Sprintf("tables: unsupported cell type %T", v))
	}
}

func ReadBooks(r io.Reader) ([]model.Book, error) {
	return readCSV(r, "book", bookHeader, func(c *cursor) model.Book {
		return model.Book{
			ISBN:       c.str(),
			Title:      c.str(),
			Authors:    c.str(),
			Publisher:  c.str(),
			Year:       c.int32(),
			Category:   c.str(),
			Price:      c.decimal(),
			OutOfPrint: c.bool(),
			UpdatedAt:  c.int64(),
		}
	})
}

func ReadWarehouses(r io.Reader) ([]model.Warehouse, error) {
	return readCSV(r, "warehouse", warehouseHeader, func(c *cursor) model.Warehouse {
		return model.Warehouse{
			ID:          c.int64(),
			DisplayName: c.str(),
			Discount:    c.decimal(),
		}
	})
}

func ReadNotes(r io.Reader) ([]model.Note, error) {
	return readCSV(r, "note", noteHeader, func(c *cursor) model.Note {
		return model.Note{
			ID:                   c.int64(),
			DisplayName:          c.str(),
			WarehouseID:          c.int64(),
			IsReconciliationNote: c.bool(),
			DefaultWarehouse:     c.int64(),
			UpdatedAt:            c.int64(),
			Committed:            c.bool(),
			CommittedAt:          c.optInt64(),
			NBooks:               c.int64(),
		}
	})
}

func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	return readCSV(r, "book_transaction", transactionHeader, func(c *cursor) model.Transaction {
		return model.Transaction{
			ISBN:        c.str(),
			Quantity:    c.int64(),
			NoteID:      c.int64(),
			WarehouseID: c.int64(),
			UpdatedAt:   c.int64(),
			CommittedAt: c.optInt64(),
		}
	})
}

func readCSV[T any](r io.Reader, name string, header []string, decode func(*cursor) T) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	cr.ReuseRecord = true

	got, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Table: name, Line: 1, Err: ErrHeader}
	}
	if err != nil {
		return nil, &ParseError{Table: name, Line: 1, Err: err}
	}
	if !slices.Equal(got, header) {
		return nil, &ParseError{Table: name, Line: 1, Err: fmt.Errorf("%w: %v", ErrHeader, got)}
	}

	var out []T
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, &ParseError{Table: name, Line: line, Err: err}
		}
		c := &cursor{record: rec, header: header}
		v := decode(c)
		if c.err != nil {
			return nil, &ParseError{Table: name, Line: line, Column: header[c.failed], Err: c.err}
		}
		out = append(out, v)
	}
}

// cursor walks one record left to right and keeps the first parse error.
type cursor struct {
	record []string
	header []string
	col    int
	failed int
	err    error
}

func (c *cursor) next() string {
	s := c.record[c.col]
	c.col++
	return s
}

func (c *cursor) fail(err error) {
	if c.err == nil {
		c.err = err
		c.failed = c.col - 1
	}
}

func (c *cursor) str() string { return c.next() }

func (c *cursor) int64() int64 {
	v, err := strconv.ParseInt(c.next(), 10, 64)
	if err != nil {
		c.fail(err)
	}
	return v
}

func (c *cursor) int32() int32 {
	v, err := strconv.ParseInt(c.next(), 10, 32)
	if err != nil {
		c.fail(err)
	}
	return int32(v)
}

func (c *cursor) bool() bool {
	switch s := c.next(); s {
	case "1":
		return true
	case "0":
		return false
	default:
		c.fail(fmt.Errorf("invalid boolean %q", s))
		return false
	}
}

func (c *cursor) optInt64() *int64 {
	s := c.next()
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		c.fail(err)
		return nil
	}
	return &v
}

func (c *cursor) decimal() decimal.Decimal {
	d, err := decimal.NewFromString(c.next())
	if err != nil {
		c.fail(err)
	}
	return d
}

// WriteFile creates path and streams rows into it through write.
func WriteFile[T any](path string, rows []T, write func(io.Writer, []T) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadFile opens path and decodes it with read.
func ReadFile[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}
