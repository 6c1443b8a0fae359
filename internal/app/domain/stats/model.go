package stats

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Summary holds the derived inventory aggregates. TotalStockValue is the sum
// of quantity times price across all products, zero for an empty set.
type Summary struct {
	TotalProducts    int             `json:"totalProducts"`
	TotalCategories  int             `json:"totalCategories"`
	TotalSuppliers   int             `json:"totalSuppliers"`
	LowStockProducts int             `json:"lowStockProducts"`
	TotalStockValue  decimal.Decimal `json:"totalStockValue"`
}

// MarshalJSON emits the stock value as a JSON number rather than the quoted
// form decimal.Decimal produces by default.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		TotalStockValue json.RawMessage `json:"totalStockValue"`
	}{
		alias:           alias(s),
		TotalStockValue: json.RawMessage(s.TotalStockValue.String()),
	})
}
