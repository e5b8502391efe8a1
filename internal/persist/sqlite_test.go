package persist

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/testutil"
)

func setupArchive(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("failed to close archive: %v", err)
		}
	})
	return s
}

// assertSnapshotsEqual compares snapshots semantically: decimal amounts
// are compared by value, since the TEXT column normalizes exponents.
func assertSnapshotsEqual(t *testing.T, want, got ledger.Snapshot) {
	t.Helper()

	assert.Equal(t, want.Categories, got.Categories)

	require.Len(t, got.Transactions, len(want.Transactions))
	for i, w := range want.Transactions {
		g := got.Transactions[i]
		assert.Equal(t, w.ID, g.ID)
		assert.Equal(t, w.Date, g.Date)
		assert.Equal(t, w.Kind, g.Kind)
		assert.Equal(t, w.CategoryID, g.CategoryID)
		assert.Equal(t, w.Note, g.Note)
		assert.True(t, w.Amount.Equal(g.Amount), "transaction %d amount: got %s, want %s", w.ID, g.Amount, w.Amount)
	}

	require.Len(t, got.Budgets, len(want.Budgets))
	for i, w := range want.Budgets {
		g := got.Budgets[i]
		assert.Equal(t, w.CategoryID, g.CategoryID)
		assert.Equal(t, w.Year, g.Year)
		assert.Equal(t, w.Month, g.Month)
		assert.True(t, w.Amount.Equal(g.Amount), "budget amount: got %s, want %s", g.Amount, w.Amount)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	books := testutil.SeededBooks(t)
	snap := books.Store.Snapshot()

	archive := setupArchive(t)
	require.NoError(t, archive.Save(ctx, snap))

	got, err := archive.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsEqual(t, snap, got)
}

func TestSQLiteStoreLoadEmpty(t *testing.T) {
	archive := setupArchive(t)

	snap, err := archive.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Categories)
	assert.Empty(t, snap.Transactions)
	assert.Empty(t, snap.Budgets)
}

func TestSQLiteStoreSaveReplaces(t *testing.T) {
	ctx := context.Background()
	books := testutil.SeededBooks(t)

	archive := setupArchive(t)
	require.NoError(t, archive.Save(ctx, books.Store.Snapshot()))

	// A smaller snapshot replaces the archive outright.
	require.NoError(t, books.Store.RemoveTransaction(books.Shop.ID))
	second := books.Store.Snapshot()
	require.NoError(t, archive.Save(ctx, second))

	got, err := archive.Load(ctx)
	require.NoError(t, err)
	assertSnapshotsEqual(t, second, got)
}

func TestSQLiteStoreKeepsOrphanBudgets(t *testing.T) {
	ctx := context.Background()
	s := ledger.New()
	c, err := s.AddCategory("Fleeting")
	require.NoError(t, err)
	require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(50)))
	require.NoError(t, s.RemoveCategory(c.ID))

	archive := setupArchive(t)
	require.NoError(t, archive.Save(ctx, s.Snapshot()))

	got, err := archive.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got.Budgets, 1)
	assert.Equal(t, c.ID, got.Budgets[0].CategoryID)
	assert.Empty(t, got.Categories)
}
