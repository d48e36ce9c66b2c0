package synth

import (
	"errors"
	"fmt"
)

// ValidationCode categorizes a consistency failure.
type ValidationCode string

const (
	// ErrCodeInvalidInput indicates malformed input (empty tables, shape mismatch).
	ErrCodeInvalidInput ValidationCode = "INVALID_INPUT"

	// ErrCodeUnknownWarehouse indicates an inbound note referencing a warehouse
	// id that is not in the warehouse table.
	ErrCodeUnknownWarehouse ValidationCode = "UNKNOWN_WAREHOUSE"

	// ErrCodeQuantityOverflow indicates a note total that does not fit a Quantity cell.
	ErrCodeQuantityOverflow ValidationCode = "QUANTITY_OVERFLOW"

	// ErrCodeReconciliationMismatch indicates the injected corrections do not
	// add up to the required offset.
	ErrCodeReconciliationMismatch ValidationCode = "RECONCILIATION_MISMATCH"

	// ErrCodeNoteCountMismatch indicates the note table and the notes that
	// carry transactions differ in size.
	ErrCodeNoteCountMismatch ValidationCode = "NOTE_COUNT_MISMATCH"

	// ErrCodeNoteTotalMismatch indicates a note whose transactions do not sum to n_books.
	ErrCodeNoteTotalMismatch ValidationCode = "NOTE_TOTAL_MISMATCH"

	// ErrCodeNegativeStock indicates a ledger prefix with negative on-hand stock.
	ErrCodeNegativeStock ValidationCode = "NEGATIVE_STOCK"

	// ErrCodeNoteOrder indicates note ids that are not a contiguous 1-based sequence.
	ErrCodeNoteOrder ValidationCode = "NOTE_ORDER"
)

// ValidationError aborts a synthesis run. The ledger is never emitted in an
// inconsistent state.
type ValidationError struct {
	Code    ValidationCode
	Message string

	// NoteID identifies the offending note when one is known.
	NoteID int64

	// Details contains additional context.
	Details map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.NoteID != 0 {
		return fmt.Sprintf("%s: %s (note=%d)", e.Code, e.Message, e.NoteID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newValidationError(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HasCode reports whether err wraps a *ValidationError with the given code.
func HasCode(err error, code ValidationCode) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Code == code
	}
	return false
}
