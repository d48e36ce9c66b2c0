package generate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/librocco/demo-data/internal/model"
)

// WarehouseSpec describes one warehouse before ids are assigned.
type WarehouseSpec struct {
	DisplayName string
	Discount    decimal.Decimal
}

// DefaultWarehouses is one used and one new warehouse per year.
var DefaultWarehouses = []WarehouseSpec{
	{"Used books (2022)", decimal.NewFromInt(20)},
	{"New books (2022)", decimal.Zero},
	{"Used books (2023)", decimal.NewFromInt(15)},
	{"New books (2023)", decimal.Zero},
	{"Used books (2024)", decimal.NewFromInt(10)},
	{"New books (2024)", decimal.Zero},
	{"Used books (2025)", decimal.NewFromInt(5)},
	{"New books (2025)", decimal.Zero},
}

// Warehouses assigns ids 1..len(specs) in order.
func Warehouses(specs []WarehouseSpec) ([]model.Warehouse, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: at least one warehouse is required", ErrInvalidOptions)
	}
	out := make([]model.Warehouse, len(specs))
	for i, s := range specs {
		if s.Discount.IsNegative() || s.Discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("%w: warehouse %q discount %s outside [0, 100]",
				ErrInvalidOptions, s.DisplayName, s.Discount)
		}
		out[i] = model.Warehouse{
			ID:          int64(i + 1),
			DisplayName: s.DisplayName,
			Discount:    s.Discount,
		}
	}
	return out, nil
}
