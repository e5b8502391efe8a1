package model

import "github.com/shopspring/decimal"

// Transaction is a single dated movement of money. Amount is positive on
// every validated path; direction is carried by Kind, never by sign.
type Transaction struct {
	Amount     decimal.Decimal
	Note       string
	Date       Date
	ID         int
	CategoryID int
	Kind       Kind
}
