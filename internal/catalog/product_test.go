package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{"10", 10, true},
		{"0", 0, true},
		{"007", 7, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-3", 0, false},
		{"2.5", 0, false},
		{" 4", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseQuantity(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got, "raw=%q", tt.raw)
	}
}

func TestTotalUnits_SkipsNonNumeric(t *testing.T) {
	products := []Product{
		{Name: "a", Quantity: "10"},
		{Name: "b", Quantity: "abc"},
		{Name: "c", Quantity: "5"},
	}
	assert.Equal(t, int64(15), TotalUnits(products))
	assert.Equal(t, int64(0), TotalUnits(nil))
}

func TestTotalUnits_Saturates(t *testing.T) {
	products := []Product{
		{Name: "a", Quantity: "9223372036854775807"},
		{Name: "b", Quantity: "1"},
		{Name: "c", Quantity: "5"},
	}
	assert.Equal(t, int64(math.MaxInt64), TotalUnits(products))
}
