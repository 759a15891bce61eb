package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SampleProducts seeds a new workbook for `tvyn init`.
var SampleProducts = []Product{
	{Name: "Milk", Quantity: "24", Price: "1.20"},
	{Name: "Bread", Quantity: "30", Price: "0.95"},
	{Name: "Eggs", Quantity: "120", Price: "0.25"},
	{Name: "Apples", Quantity: "80", Price: "0.40"},
	{Name: "Bananas", Quantity: "65", Price: "0.30"},
	{Name: "Cheese", Quantity: "12", Price: "4.50"},
}

// WriteWorkbook saves products as a single-sheet workbook with the expected
// header row. Quantities that parse are written as numbers.
func WriteWorkbook(path string, products []Product) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{ColumnName, ColumnQuantity, ColumnPrice}); err != nil {
		return err
	}
	for i, p := range products {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var qty any = p.Quantity
		if n, ok := p.Units(); ok {
			qty = n
		}
		if err := f.SetSheetRow(sheet, cellRef, &[]any{p.Name, qty, p.Price}); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
