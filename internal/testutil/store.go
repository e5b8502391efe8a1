// Package testutil provides shared ledger fixtures for tests across the
// gateway and command packages.
package testutil

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
)

// Books bundles a seeded store with handles to the records it was seeded
// with.
type Books struct {
	Store     *ledger.Store
	Groceries model.Category
	Salary    model.Category
	Shop      model.Transaction
	Pay       model.Transaction
}

// SeededBooks returns a store holding the canonical March 2024 fixture: a
// 45.50 grocery run, a 3000.00 salary payment, and a 200.00 grocery
// budget.
func SeededBooks(t *testing.T) *Books {
	t.Helper()

	s := ledger.New()
	groceries, err := s.AddCategory("Groceries")
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	salary, err := s.AddCategory("Salary")
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	shop, err := s.AddTransaction("2024-03-15", model.Expense, decimal.RequireFromString("45.50"), groceries.ID, "weekly shop")
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
	pay, err := s.AddTransaction("2024-03-01", model.Income, decimal.RequireFromString("3000.00"), salary.ID, "march pay")
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}

	if err := s.SetBudget(groceries.ID, 2024, 3, decimal.RequireFromString("200.00")); err != nil {
		t.Fatalf("failed to seed budget: %v", err)
	}

	return &Books{
		Store:     s,
		Groceries: groceries,
		Salary:    salary,
		Shop:      shop,
		Pay:       pay,
	}
}
