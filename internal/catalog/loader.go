package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/tvyn/internal/logger"
)

// Loader reads the product workbook. The file is opened on every Load so
// edits to the sheet show up on the next turn.
type Loader struct {
	path string
	log  *slog.Logger
}

func NewLoader(path string, log *slog.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{path: path, log: log.With(logger.Module("catalog"))}
}

func (l *Loader) Path() string { return l.path }

// Load returns the products of the first sheet. A missing workbook yields an
// empty catalog.
func (l *Loader) Load() ([]Product, error) {
	if _, err := os.Stat(l.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Product{}, nil
		}
		return nil, fmt.Errorf("catalog: %w", err)
	}

	f, err := excelize.OpenFile(l.path, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", l.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []Product{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("catalog: read sheet %q: %w", sheets[0], err)
	}
	return l.fromRows(rows), nil
}

func (l *Loader) fromRows(rows [][]string) []Product {
	products := []Product{}
	if len(rows) == 0 {
		return products
	}

	cols := headerIndex(rows[0])
	for _, name := range []string{ColumnName, ColumnQuantity, ColumnPrice} {
		if _, ok := cols[name]; !ok {
			l.log.Warn("column missing from product sheet", slog.String("column", name), slog.String("file", l.path))
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		p := Product{
			Name:     cell(row, cols, ColumnName),
			Quantity: cell(row, cols, ColumnQuantity),
			Price:    cell(row, cols, ColumnPrice),
		}
		if p.Name == "" {
			if !blank(row) {
				l.log.Debug("skipping row without product name", slog.Int("row", i+1))
			}
			continue
		}
		products = append(products, p)
	}
	return products
}

func headerIndex(header []string) map[string]int {
	known := map[string]string{
		strings.ToLower(ColumnName):     ColumnName,
		strings.ToLower(ColumnQuantity): ColumnQuantity,
		strings.ToLower(ColumnPrice):    ColumnPrice,
	}
	idx := make(map[string]int, len(known))
	for i, h := range header {
		if name, ok := known[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, seen := idx[name]; !seen {
				idx[name] = i
			}
		}
	}
	return idx
}

// cell returns "" for short rows and missing columns.
func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
