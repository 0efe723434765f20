package model

import (
	"github.com/shopspring/decimal"
)

// Transaction represents one parsed row of the pipe-delimited sales file.
type Transaction struct {
	TransactionID string          // must start with "T"
	Date          string          // "YYYY-MM-DD", compared lexicographically
	ProductID     string          // must start with "P"
	ProductName   string          // commas stripped during parsing
	Quantity      int             // > 0 after validation
	UnitPrice     decimal.Decimal // > 0 after validation
	CustomerID    string          // must start with "C"
	Region        string
}

// Amount returns Quantity x UnitPrice. It is always derived, never stored.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}
