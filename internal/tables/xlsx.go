package tables

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/librocco/demo-data/internal/model"
)

// WriteWorkbook saves ds to path as an XLSX workbook with the sheets book,
// warehouse, note and book_transaction. Numbers are stored as numeric cells;
// prices and discounts keep their decimal text.
func WriteWorkbook(path string, ds *model.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []table{
		bookTable(ds.Books),
		warehouseTable(ds.Warehouses),
		noteTable(ds.Notes),
		transactionTable(ds.Transactions),
	}
	for i, t := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", t.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(t.name); err != nil {
			return err
		}
		if err := writeSheet(f, t); err != nil {
			return fmt.Errorf("sheet %s: %w", t.name, err)
		}
	}

	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, t table) error {
	sw, err := f.NewStreamWriter(t.name)
	if err != nil {
		return err
	}

	header := make([]any, len(t.header))
	for i, h := range t.header {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i := 0; i < t.len; i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := t.row(i)
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = sheetValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return err
		}
	}
	return sw.Flush()
}

func sheetValue(v any) any {
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case *int64:
		if val == nil {
			return nil
		}
		return *val
	case decimal.Decimal:
		return val.String()
	default:
		return v
	}
}
