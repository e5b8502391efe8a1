// Package ledger holds the in-memory book of record: categories,
// transactions, and monthly budgets, with the id allocation and
// cross-record rules that keep them consistent.
package ledger

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/solari/internal/model"
)

// Store owns the three record collections. Ids are handed out from
// counters that start at 1 and never rewind while the process lives, so a
// deleted id is not reused. All methods are safe for concurrent use; each
// takes the store lock once for its whole operation.
type Store struct {
	mu                sync.RWMutex
	categories        []model.Category
	transactions      []model.Transaction
	budgets           []model.BudgetEntry
	nextCategoryID    int
	nextTransactionID int
}

// New returns an empty store ready to record.
func New() *Store {
	return &Store{nextCategoryID: 1, nextTransactionID: 1}
}

// Snapshot is a value copy of everything the store holds, in store order.
// Gateways persist and restore snapshots; they never see live slices.
type Snapshot struct {
	Categories   []model.Category
	Transactions []model.Transaction
	Budgets      []model.BudgetEntry
}

// Snapshot copies the current contents for a gateway to persist.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Categories:   slices.Clone(s.categories),
		Transactions: slices.Clone(s.transactions),
		Budgets:      slices.Clone(s.budgets),
	}
}

// Restore replaces the store's contents with snap and recomputes both id
// counters as 1 + the highest id present. Counters are never persisted,
// so a restored store allocates above whatever it was handed.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = slices.Clone(snap.Categories)
	s.transactions = slices.Clone(snap.Transactions)
	s.budgets = slices.Clone(snap.Budgets)
	s.nextCategoryID = 1
	for _, c := range s.categories {
		if c.ID >= s.nextCategoryID {
			s.nextCategoryID = c.ID + 1
		}
	}
	s.nextTransactionID = 1
	for _, t := range s.transactions {
		if t.ID >= s.nextTransactionID {
			s.nextTransactionID = t.ID + 1
		}
	}
}

// InsertImported appends a transaction on behalf of a bulk importer,
// resolving the category by the name exactly as given: the first
// case-insensitive match wins, and an unmatched name becomes a new
// category on the spot. Import rows bypass the amount and category-name
// checks the interactive paths enforce, so a zero amount or an empty name
// is stored as-is. The second return reports whether a category was
// created.
func (s *Store) InsertImported(date model.Date, kind model.Kind, amount decimal.Decimal, categoryName, note string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categoryName = model.Clip(categoryName, model.MaxCategoryName)
	created := false
	id, ok := s.categoryIDByFold(categoryName)
	if !ok {
		c := model.Category{ID: s.nextCategoryID, Name: categoryName}
		s.nextCategoryID++
		s.categories = append(s.categories, c)
		id = c.ID
		created = true
	}

	t := model.Transaction{
		ID:         s.nextTransactionID,
		Date:       date,
		Kind:       kind,
		Amount:     amount,
		CategoryID: id,
		Note:       model.Clip(note, model.MaxNote),
	}
	s.nextTransactionID++
	s.transactions = append(s.transactions, t)
	return t, created
}
