// Package report derives summaries from the ledger. Everything here is a
// pure read over one set of books; nothing mutates the store.
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
)

// Books is the read surface the engine needs from a store.
type Books interface {
	Categories() []model.Category
	GetCategory(id int) (model.Category, bool)
	Transactions(f ledger.Filter) []model.Transaction
	BudgetEntries() []model.BudgetEntry
}

// Engine answers summary queries over one set of books.
type Engine struct {
	books Books
}

// New returns an engine reading from books.
func New(books Books) *Engine {
	return &Engine{books: books}
}

// MonthSummary totals one calendar month of activity.
type MonthSummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// CategoryTotal pairs a category with its net spend for some month.
type CategoryTotal struct {
	Category model.Category
	Total    decimal.Decimal
}

// BudgetLine compares one budget entry against the month's net spending.
type BudgetLine struct {
	CategoryName string
	Budget       decimal.Decimal
	Used         decimal.Decimal
	Remaining    decimal.Decimal
	CategoryID   int
}

// Criteria filters a search. Unset fields do not constrain: nil dates are
// open bounds (set bounds are inclusive), empty strings match everything,
// and a non-positive amount bound is no bound at all, which makes a
// literal bound of zero inexpressible.
type Criteria struct {
	MinAmount decimal.Decimal
	MaxAmount decimal.Decimal
	Category  string
	Note      string
	From      *model.Date
	To        *model.Date
}

// CategoryMonthTotal nets one category's activity for one month:
// expenses add, everything else subtracts. A category holding income
// nets negative.
func (e *Engine) CategoryMonthTotal(categoryID, year, month int) decimal.Decimal {
	start, end := monthWindow(year, month)
	total := decimal.Zero
	for _, t := range e.books.Transactions(ledger.Filter{}) {
		if t.CategoryID != categoryID || !inWindow(t.Date, start, end) {
			continue
		}
		if t.Kind == model.Expense {
			total = total.Add(t.Amount)
		} else {
			total = total.Sub(t.Amount)
		}
	}
	return total
}

// MonthlySummary totals income and expense for one month. Net is income
// minus expense.
func (e *Engine) MonthlySummary(year, month int) MonthSummary {
	start, end := monthWindow(year, month)
	sum := MonthSummary{TotalIncome: decimal.Zero, TotalExpense: decimal.Zero}
	for _, t := range e.books.Transactions(ledger.Filter{}) {
		if !inWindow(t.Date, start, end) {
			continue
		}
		if t.Kind == model.Income {
			sum.TotalIncome = sum.TotalIncome.Add(t.Amount)
		} else {
			sum.TotalExpense = sum.TotalExpense.Add(t.Amount)
		}
	}
	sum.Net = sum.TotalIncome.Sub(sum.TotalExpense)
	return sum
}

// CategorySummary nets every known category for the month, zero-activity
// categories included, in registry order.
func (e *Engine) CategorySummary(year, month int) []CategoryTotal {
	cats := e.books.Categories()
	out := make([]CategoryTotal, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryTotal{
			Category: c,
			Total:    e.CategoryMonthTotal(c.ID, year, month),
		})
	}
	return out
}

// BudgetReport lines up the month's budget entries against actual
// spending. Only categories holding an entry for exactly (year, month)
// appear, so no entries means an empty report, which callers can tell
// apart from all-zero lines. An entry whose category is gone renders as
// UNKNOWN.
func (e *Engine) BudgetReport(year, month int) []BudgetLine {
	var out []BudgetLine
	for _, b := range e.books.BudgetEntries() {
		if b.Year != year || b.Month != month {
			continue
		}
		name := "UNKNOWN"
		if c, ok := e.books.GetCategory(b.CategoryID); ok {
			name = c.Name
		}
		used := e.CategoryMonthTotal(b.CategoryID, year, month)
		out = append(out, BudgetLine{
			CategoryID:   b.CategoryID,
			CategoryName: name,
			Budget:       b.Amount,
			Used:         used,
			Remaining:    b.Amount.Sub(used),
		})
	}
	return out
}

// Search returns the transactions matching every set criterion, in
// ledger order.
func (e *Engine) Search(c Criteria) []model.Transaction {
	var out []model.Transaction
	for _, t := range e.books.Transactions(ledger.Filter{From: c.From, To: c.To}) {
		if c.MinAmount.IsPositive() && t.Amount.LessThan(c.MinAmount) {
			continue
		}
		if c.MaxAmount.IsPositive() && t.Amount.GreaterThan(c.MaxAmount) {
			continue
		}
		if c.Category != "" {
			name := "UNKNOWN"
			if cat, ok := e.books.GetCategory(t.CategoryID); ok {
				name = cat.Name
			}
			if !containsFold(name, c.Category) {
				continue
			}
		}
		if c.Note != "" && !containsFold(t.Note, c.Note) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// monthWindow returns the half-open [start, end) window covering a month.
func monthWindow(year, month int) (start, end model.Date) {
	start = model.Date{Year: year, Month: month, Day: 1}
	if month == 12 {
		end = model.Date{Year: year + 1, Month: 1, Day: 1}
	} else {
		end = model.Date{Year: year, Month: month + 1, Day: 1}
	}
	return start, end
}

func inWindow(d, start, end model.Date) bool {
	return d.Compare(start) >= 0 && d.Compare(end) < 0
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
