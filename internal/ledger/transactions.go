package ledger

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/model"
)

// Filter bounds a transaction listing. Nil bounds are open; set bounds
// are inclusive on both ends.
type Filter struct {
	From *model.Date
	To   *model.Date
}

// TransactionEdit carries per-field changes for EditTransaction. Nil (or
// blank, where the field is textual) keeps the current value.
type TransactionEdit struct {
	// Date is re-parsed under the ledger's date contract. A value that
	// fails to parse keeps the old date and is reported in EditResult.
	Date *string
	// Kind replaces the direction outright when set.
	Kind *model.Kind
	// Amount keeps the old value unless positive.
	Amount *decimal.Decimal
	// CategoryID keeps the old value unless it names a known category.
	// Zero is the blank sentinel.
	CategoryID *int
	// Note keeps the old value when empty; a note cannot be cleared,
	// only replaced.
	Note *string
}

// EditResult reports the per-field outcomes an edit absorbed instead of
// failing. Only the date asymmetry is surfaced: bad category ids and
// non-positive amounts fall back silently.
type EditResult struct {
	DateRejected bool
}

// AddTransaction validates and appends a transaction, returning it with
// its assigned id. The date string must satisfy the date contract, the
// amount must be positive, and the category must exist; any miss fails
// with ErrValidation and nothing is stored.
func (s *Store) AddTransaction(date string, kind model.Kind, amount decimal.Decimal, categoryID int, note string) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := model.ParseDate(date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if !amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if s.categoryIndex(categoryID) < 0 {
		return model.Transaction{}, fmt.Errorf("%w: category %d does not exist", ErrValidation, categoryID)
	}

	t := model.Transaction{
		ID:         s.nextTransactionID,
		Date:       d,
		Kind:       kind,
		Amount:     amount,
		CategoryID: categoryID,
		Note:       model.Clip(note, model.MaxNote),
	}
	s.nextTransactionID++
	s.transactions = append(s.transactions, t)
	return t, nil
}

// EditTransaction applies edit to the transaction with the given id,
// field by field under blank-means-keep. The edit itself only fails when
// the id is unknown.
func (s *Store) EditTransaction(id int, edit TransactionEdit) (EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res EditResult
	i := s.transactionIndex(id)
	if i < 0 {
		return res, fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	t := &s.transactions[i]

	if edit.Date != nil && *edit.Date != "" {
		if d, err := model.ParseDate(*edit.Date); err != nil {
			res.DateRejected = true
		} else {
			t.Date = d
		}
	}
	if edit.Kind != nil {
		t.Kind = *edit.Kind
	}
	if edit.Amount != nil && edit.Amount.IsPositive() {
		t.Amount = *edit.Amount
	}
	if edit.CategoryID != nil && *edit.CategoryID != 0 && s.categoryIndex(*edit.CategoryID) >= 0 {
		t.CategoryID = *edit.CategoryID
	}
	if edit.Note != nil && *edit.Note != "" {
		t.Note = model.Clip(*edit.Note, model.MaxNote)
	}
	return res, nil
}

// RemoveTransaction deletes a transaction by id, swapping the last
// element into the gap. No other record is touched.
func (s *Store) RemoveTransaction(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.transactionIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: transaction %d", ErrNotFound, id)
	}
	last := len(s.transactions) - 1
	s.transactions[i] = s.transactions[last]
	s.transactions = s.transactions[:last]
	return nil
}

// GetTransaction returns the transaction with the given id.
func (s *Store) GetTransaction(id int) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.transactionIndex(id); i >= 0 {
		return s.transactions[i], true
	}
	return model.Transaction{}, false
}

// Transactions lists transactions in store order, optionally bounded by
// an inclusive date range. Store order is insertion order until a removal
// compacts it; nothing here sorts.
func (s *Store) Transactions(f Filter) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if f.From == nil && f.To == nil {
		return slices.Clone(s.transactions)
	}
	var out []model.Transaction
	for _, t := range s.transactions {
		if f.From != nil && t.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && t.Date.After(*f.To) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// transactionIndex returns the slice position of id, or -1. Caller holds
// the lock.
func (s *Store) transactionIndex(id int) int {
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// referencesCategory reports whether any transaction is filed under the
// category. Caller holds the lock.
func (s *Store) referencesCategory(id int) bool {
	for i := range s.transactions {
		if s.transactions[i].CategoryID == id {
			return true
		}
	}
	return false
}
