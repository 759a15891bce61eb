package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Column headers expected in the product sheet.
const (
	ColumnName     = "Product Name"
	ColumnQuantity = "Quantity"
	ColumnPrice    = "Price"
)

// Product is one row of the product sheet. Quantity and Price are kept as
// the raw cell text; callers parse them when they need numbers.
type Product struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// Units returns the stock count when Quantity is a plain non-negative integer.
func (p Product) Units() (int64, bool) {
	return ParseQuantity(p.Quantity)
}

// ParseQuantity accepts only non-empty strings of ASCII digits that fit in int64.
func ParseQuantity(raw string) (int64, bool) {
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// TotalUnits sums the quantities that parse; anything else is skipped.
// The sum saturates at math.MaxInt64.
func TotalUnits(products []Product) int64 {
	var total int64
	for _, p := range products {
		n, ok := p.Units()
		if !ok {
			continue
		}
		if n > math.MaxInt64-total {
			return math.MaxInt64
		}
		total += n
	}
	return total
}

// Key is the lookup form of a product name.
func Key(name string) string {
	return strings.ToLower(name)
}
