package model

import (
	"fmt"
	"strings"
)

// Kind separates money flowing out from money flowing in. The numeric
// values are part of the CSV and snapshot encodings.
type Kind uint8

const (
	// Expense is money leaving the ledger.
	Expense Kind = 0
	// Income is money entering the ledger.
	Income Kind = 1
)

// ParseKind reads a kind from user input, accepting the word forms only.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "income":
		return Income, nil
	default:
		return Expense, fmt.Errorf("unknown kind %q (want income or expense)", s)
	}
}

// String returns the word form used in reports and CLI output.
func (k Kind) String() string {
	switch k {
	case Income:
		return "income"
	case Expense:
		return "expense"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}
