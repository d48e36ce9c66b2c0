package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/librocco/demo-data/internal/model"
)

// DomainDataset prefixes dataset digests. The version suffix changes
// whenever the canonical row encoding does.
const DomainDataset = "demodata/dataset/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Dataset returns the hex digest of all four tables of ds.
func Dataset(ds *model.Dataset) (string, error) {
	canonical, err := MarshalCanonical(datasetObject(ds))
	if err != nil {
		return "", fmt.Errorf("digest dataset: %w", err)
	}
	return hashWithDomain(DomainDataset, canonical), nil
}

func datasetObject(ds *model.Dataset) map[string]any {
	books := make([]any, len(ds.Books))
	for i, b := range ds.Books {
		books[i] = map[string]any{
			"isbn":         b.ISBN,
			"title":        b.Title,
			"authors":      b.Authors,
			"publisher":    b.Publisher,
			"year":         b.Year,
			"category":     b.Category,
			"price":        b.Price.String(),
			"out_of_print": b.OutOfPrint,
			"updated_at":   b.UpdatedAt,
		}
	}

	warehouses := make([]any, len(ds.Warehouses))
	for i, w := range ds.Warehouses {
		warehouses[i] = map[string]any{
			"id":           w.ID,
			"display_name": w.DisplayName,
			"discount":     w.Discount.String(),
		}
	}

	notes := make([]any, len(ds.Notes))
	for i, n := range ds.Notes {
		obj := map[string]any{
			"id":                     n.ID,
			"display_name":           n.DisplayName,
			"warehouse_id":           n.WarehouseID,
			"is_reconciliation_note": n.IsReconciliationNote,
			"default_warehouse":      n.DefaultWarehouse,
			"updated_at":             n.UpdatedAt,
			"committed":              n.Committed,
			"n_books":                n.NBooks,
		}
		if n.CommittedAt != nil {
			obj["committed_at"] = *n.CommittedAt
		}
		notes[i] = obj
	}

	txns := make([]any, len(ds.Transactions))
	for i, tx := range ds.Transactions {
		obj := map[string]any{
			"isbn":         tx.ISBN,
			"quantity":     tx.Quantity,
			"note_id":      tx.NoteID,
			"warehouse_id": tx.WarehouseID,
			"updated_at":   tx.UpdatedAt,
		}
		if tx.CommittedAt != nil {
			obj["committed_at"] = *tx.CommittedAt
		}
		txns[i] = obj
	}

	return map[string]any{
		"book":             books,
		"warehouse":        warehouses,
		"note":             notes,
		"book_transaction": txns,
	}
}
