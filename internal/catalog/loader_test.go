package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeRows(t *testing.T, rows [][]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		ref, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, ref, &r))
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "missing.xlsx"), nil)
	products, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NotNil(t, products)
}

func TestLoad_Rows(t *testing.T) {
	path := writeRows(t, [][]any{
		{"Product Name", "Quantity", "Price"},
		{"Milk", 10, 1.5},
		{"Bread", "abc", "0.95"},
		{"Eggs", 5, "2"},
	})

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, products, 3)

	assert.Equal(t, Product{Name: "Milk", Quantity: "10", Price: "1.5"}, products[0])
	assert.Equal(t, "abc", products[1].Quantity)
	assert.Equal(t, "Eggs", products[2].Name)
}

func TestLoad_BlankCellsBecomeEmpty(t *testing.T) {
	path := writeRows(t, [][]any{
		{"Product Name", "Quantity", "Price"},
		{"Milk"},
		{"Rice", nil, "3.10"},
	})

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, Product{Name: "Milk"}, products[0])
	assert.Equal(t, Product{Name: "Rice", Price: "3.10"}, products[1])
}

func TestLoad_HeaderOrderAndCase(t *testing.T) {
	path := writeRows(t, [][]any{
		{" price ", "QUANTITY", "product name", "Aisle"},
		{"2.00", 7, "Tea", "4"},
	})

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, Product{Name: "Tea", Quantity: "7", Price: "2.00"}, products[0])
}

func TestLoad_SkipsRowsWithoutName(t *testing.T) {
	path := writeRows(t, [][]any{
		{"Product Name", "Quantity", "Price"},
		{"", 3, "1"},
		{"Salt", 2, "0.5"},
	})

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Salt", products[0].Name)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeRows(t, [][]any{
		{"Product Name", "Price"},
		{"Salt", "0.5"},
	})

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "", products[0].Quantity)
}

func TestLoad_NotAWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0644))

	_, err := NewLoader(path, nil).Load()
	assert.Error(t, err)
}

func TestWriteWorkbook_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "products.xlsx")
	require.NoError(t, WriteWorkbook(path, SampleProducts))

	products, err := NewLoader(path, nil).Load()
	require.NoError(t, err)
	assert.Equal(t, SampleProducts, products)
}
