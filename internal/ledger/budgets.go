package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/model"
)

// SetBudget upserts the allowance for one category month. The category
// must exist at set time (ErrReferentialIntegrity), the month must be
// 1-12 and the amount non-negative (ErrValidation). Years are not
// bounded. Setting an existing (category, year, month) key overwrites it,
// so repeated sets are idempotent.
func (s *Store) SetBudget(categoryID, year, month int, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryIndex(categoryID) < 0 {
		return fmt.Errorf("%w: category %d does not exist", ErrReferentialIntegrity, categoryID)
	}
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d out of range 1-12", ErrValidation, month)
	}
	if amount.IsNegative() {
		return fmt.Errorf("%w: budget amount cannot be negative", ErrValidation)
	}

	for i := range s.budgets {
		b := &s.budgets[i]
		if b.CategoryID == categoryID && b.Year == year && b.Month == month {
			b.Amount = amount
			return nil
		}
	}
	s.budgets = append(s.budgets, model.BudgetEntry{
		CategoryID: categoryID,
		Year:       year,
		Month:      month,
		Amount:     amount,
	})
	return nil
}

// GetBudget returns the allowance set for the category month.
func (s *Store) GetBudget(categoryID, year, month int) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.budgets {
		if b.CategoryID == categoryID && b.Year == year && b.Month == month {
			return b.Amount, true
		}
	}
	return decimal.Decimal{}, false
}

// BudgetEntries returns a copy of the table in insertion order. There is
// no delete: entries outlive their category and report as orphans.
func (s *Store) BudgetEntries() []model.BudgetEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.budgets)
}
