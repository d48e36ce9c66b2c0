package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RowError describes an invalid table row.
type RowError struct {
	Table  string
	Row    int // 1-based data row (header excluded)
	Fields map[string]string
}

func (e *RowError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, tag := range e.Fields {
		parts = append(parts, field+"="+tag)
	}
	slices.Sort(parts)
	return fmt.Sprintf("%s row %d: invalid fields: %s", e.Table, e.Row, strings.Join(parts, ", "))
}

// validateRow runs struct-tag validation and converts validator errors
// into a RowError keyed by field name.
func validateRow(table string, row int, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%s row %d: %w", table, row, err)
	}
	fields := make(map[string]string, len(verrs))
	for _, ve := range verrs {
		fields[ve.Field()] = ve.Tag()
	}
	return &RowError{Table: table, Row: row, Fields: fields}
}

// ValidateBooks checks required fields and ISBN uniqueness.
func ValidateBooks(books []Book) error {
	seen := make(map[string]int, len(books))
	for i := range books {
		if err := validateRow("book", i+1, &books[i]); err != nil {
			return err
		}
		if prev, ok := seen[books[i].ISBN]; ok {
			return &RowError{Table: "book", Row: i + 1, Fields: map[string]string{
				"ISBN": fmt.Sprintf("duplicate of row %d", prev),
			}}
		}
		seen[books[i].ISBN] = i + 1
	}
	return nil
}

// ValidateWarehouses checks that ids are nonzero and unique.
func ValidateWarehouses(warehouses []Warehouse) error {
	seen := make(map[int64]int, len(warehouses))
	for i := range warehouses {
		if err := validateRow("warehouse", i+1, &warehouses[i]); err != nil {
			return err
		}
		if prev, ok := seen[warehouses[i].ID]; ok {
			return &RowError{Table: "warehouse", Row: i + 1, Fields: map[string]string{
				"ID": fmt.Sprintf("duplicate of row %d", prev),
			}}
		}
		seen[warehouses[i].ID] = i + 1
	}
	return nil
}

// ValidateNotes checks per-row constraints of a preliminary note table.
func ValidateNotes(notes []Note) error {
	for i := range notes {
		if err := validateRow("note", i+1, &notes[i]); err != nil {
			return err
		}
		if notes[i].Committed && notes[i].CommittedAt == nil {
			return &RowError{Table: "note", Row: i + 1, Fields: map[string]string{
				"CommittedAt": "required_with_committed",
			}}
		}
	}
	return nil
}

// ValidateTransactions checks per-row constraints of a transaction table.
func ValidateTransactions(txns []Transaction) error {
	for i := range txns {
		if err := validateRow("book_transaction", i+1, &txns[i]); err != nil {
			return err
		}
	}
	return nil
}
