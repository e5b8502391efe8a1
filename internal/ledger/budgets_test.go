package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBudget(t *testing.T) {
	t.Run("creates an entry", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Groceries")

		require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.RequireFromString("200.00")))

		amt, ok := s.GetBudget(c.ID, 2024, 3)
		require.True(t, ok)
		assert.True(t, amt.Equal(decimal.RequireFromString("200.00")))
	})

	t.Run("setting the same key overwrites", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Groceries")

		require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(200)))
		require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(250)))

		assert.Len(t, s.BudgetEntries(), 1)
		amt, _ := s.GetBudget(c.ID, 2024, 3)
		assert.True(t, amt.Equal(decimal.NewFromInt(250)))
	})

	t.Run("distinct months are distinct keys", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Groceries")

		require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(200)))
		require.NoError(t, s.SetBudget(c.ID, 2024, 4, decimal.NewFromInt(220)))
		require.NoError(t, s.SetBudget(c.ID, 2025, 3, decimal.NewFromInt(240)))

		assert.Len(t, s.BudgetEntries(), 3)
	})

	t.Run("unknown category fails referential check", func(t *testing.T) {
		s := New()
		err := s.SetBudget(42, 2024, 3, decimal.NewFromInt(200))
		assert.ErrorIs(t, err, ErrReferentialIntegrity)
	})

	t.Run("month out of range fails", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Groceries")

		assert.ErrorIs(t, s.SetBudget(c.ID, 2024, 0, decimal.NewFromInt(200)), ErrValidation)
		assert.ErrorIs(t, s.SetBudget(c.ID, 2024, 13, decimal.NewFromInt(200)), ErrValidation)
	})

	t.Run("negative amount fails, zero is allowed", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Groceries")

		assert.ErrorIs(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(-1)), ErrValidation)
		assert.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.Zero))
	})

	t.Run("entries survive category removal as orphans", func(t *testing.T) {
		s := New()
		c := seedCategory(t, s, "Fleeting")
		require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(50)))

		require.NoError(t, s.RemoveCategory(c.ID))

		entries := s.BudgetEntries()
		require.Len(t, entries, 1)
		assert.Equal(t, c.ID, entries[0].CategoryID)
	})
}

func TestGetBudget(t *testing.T) {
	s := New()
	c := seedCategory(t, s, "Groceries")
	require.NoError(t, s.SetBudget(c.ID, 2024, 3, decimal.NewFromInt(200)))

	_, ok := s.GetBudget(c.ID, 2024, 4)
	assert.False(t, ok)
	_, ok = s.GetBudget(c.ID+1, 2024, 3)
	assert.False(t, ok)
}
