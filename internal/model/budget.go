package model

import "github.com/shopspring/decimal"

// BudgetEntry is a spending allowance for one category in one calendar
// month. (CategoryID, Year, Month) is the table key; setting the same key
// again overwrites.
type BudgetEntry struct {
	Amount     decimal.Decimal
	CategoryID int
	Year       int
	Month      int
}
