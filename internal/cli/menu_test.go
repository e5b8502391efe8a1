package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/model"
	"github.com/Veraticus/solari/internal/persist"
	"github.com/Veraticus/solari/internal/report"
	"github.com/Veraticus/solari/internal/testutil"
)

func newFileArchive(t *testing.T) *persist.FileStore {
	t.Helper()
	fs, err := persist.NewFileStore(t.TempDir(), 0)
	require.NoError(t, err)
	return fs
}

// runMenu drives a full scripted session and returns the rendered output.
func runMenu(t *testing.T, store *ledger.Store, archive persist.Gateway, input string) string {
	t.Helper()
	var out bytes.Buffer
	menu := NewMenu(store, report.New(store), archive, strings.NewReader(input), &out, filepath.Join(t.TempDir(), "export.csv"))
	require.NoError(t, menu.Run(context.Background()))
	return out.String()
}

func TestMenuAddAndList(t *testing.T) {
	store := ledger.New()
	input := strings.Join([]string{
		"5", "Groceries",
		"1", "2024-03-15", "0", "45.50", "1", "coffee beans",
		"2", "", "",
		"0",
	}, "\n") + "\n"

	out := runMenu(t, store, newFileArchive(t), input)

	assert.Contains(t, out, "added category #1")
	assert.Contains(t, out, "recorded transaction #1")
	assert.Contains(t, out, "coffee beans")
	assert.Contains(t, out, "ledger saved")

	tx, ok := store.GetTransaction(1)
	require.True(t, ok)
	assert.Equal(t, "45.5", tx.Amount.String())
	assert.Equal(t, model.Expense, tx.Kind)
}

func TestMenuRecoverableErrorsReprompt(t *testing.T) {
	t.Run("bad date on add", func(t *testing.T) {
		books := testutil.SeededBooks(t)
		input := strings.Join([]string{
			"1", "not-a-date", "0", "10.00", "1", "",
			"0",
		}, "\n") + "\n"

		out := runMenu(t, books.Store, newFileArchive(t), input)

		assert.Contains(t, out, "validation failed")
		assert.Contains(t, out, "ledger saved")
		assert.Len(t, books.Store.Transactions(ledger.Filter{}), 2)
	})

	t.Run("unknown choice", func(t *testing.T) {
		out := runMenu(t, ledger.New(), newFileArchive(t), "99\n0\n")
		assert.Contains(t, out, "unknown choice")
	})

	t.Run("referenced category refuses delete", func(t *testing.T) {
		books := testutil.SeededBooks(t)
		out := runMenu(t, books.Store, newFileArchive(t), "8\n1\n0\n")

		assert.Contains(t, out, "still has transactions")
		assert.True(t, books.Store.CategoryExists(books.Groceries.ID))
	})
}

func TestMenuEdit(t *testing.T) {
	t.Run("blank input keeps every field", func(t *testing.T) {
		books := testutil.SeededBooks(t)
		input := strings.Join([]string{
			"3", "1", "", "", "", "", "",
			"0",
		}, "\n") + "\n"

		out := runMenu(t, books.Store, newFileArchive(t), input)
		assert.Contains(t, out, "updated transaction #1")

		tx, ok := books.Store.GetTransaction(books.Shop.ID)
		require.True(t, ok)
		assert.Equal(t, books.Shop.Date, tx.Date)
		assert.Equal(t, books.Shop.Note, tx.Note)
		assert.True(t, books.Shop.Amount.Equal(tx.Amount))
	})

	t.Run("bad date warns and keeps", func(t *testing.T) {
		books := testutil.SeededBooks(t)
		input := strings.Join([]string{
			"3", "1", "2024-13-99", "", "", "", "",
			"0",
		}, "\n") + "\n"

		out := runMenu(t, books.Store, newFileArchive(t), input)
		assert.Contains(t, out, "date not changed")

		tx, _ := books.Store.GetTransaction(books.Shop.ID)
		assert.Equal(t, books.Shop.Date, tx.Date)
	})
}

func TestMenuMonthReport(t *testing.T) {
	books := testutil.SeededBooks(t)
	out := runMenu(t, books.Store, newFileArchive(t), "11\n2024\n3\n0\n")

	assert.Contains(t, out, "Income:  3000.00")
	assert.Contains(t, out, "Expense: 45.50")
	assert.Contains(t, out, "Net:     2954.50")
	assert.Contains(t, out, "154.50") // groceries budget remaining
	assert.Contains(t, out, "Salary")
}

func TestMenuSearch(t *testing.T) {
	books := testutil.SeededBooks(t)
	input := strings.Join([]string{
		"12", "groc", "", "", "", "", "",
		"0",
	}, "\n") + "\n"

	out := runMenu(t, books.Store, newFileArchive(t), input)
	assert.Contains(t, out, "weekly shop")
	assert.NotContains(t, out, "march pay")
}

func TestMenuExportImport(t *testing.T) {
	books := testutil.SeededBooks(t)
	exportPath := filepath.Join(t.TempDir(), "export.csv")

	var out bytes.Buffer
	menu := NewMenu(books.Store, report.New(books.Store), newFileArchive(t), strings.NewReader("13\n0\n"), &out, exportPath)
	require.NoError(t, menu.Run(context.Background()))
	assert.Contains(t, out.String(), "exported 2 transactions")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,date,type,amount,category,note\n"))

	// Pull the file back into a fresh ledger.
	fresh := ledger.New()
	importOut := runMenu(t, fresh, newFileArchive(t), "14\n"+exportPath+"\n0\n")
	assert.Contains(t, importOut, "imported 2 transactions")
	assert.Len(t, fresh.Transactions(ledger.Filter{}), 2)
}

func TestMenuToggleMask(t *testing.T) {
	t.Run("enables and saves masked", func(t *testing.T) {
		dir := t.TempDir()
		fs, err := persist.NewFileStore(dir, 0)
		require.NoError(t, err)

		books := testutil.SeededBooks(t)
		var out bytes.Buffer
		menu := NewMenu(books.Store, report.New(books.Store), fs, strings.NewReader("15\n7\n0\n"), &out, filepath.Join(dir, "export.csv"))
		require.NoError(t, menu.Run(context.Background()))

		assert.Contains(t, out.String(), "masking enabled")
		assert.Equal(t, byte(7), fs.Mask())

		// The save that ended the session must be readable under key 7.
		reader, err := persist.NewFileStore(dir, 7)
		require.NoError(t, err)
		snap, err := reader.Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, snap.Transactions, 2)
	})

	t.Run("disables when already on", func(t *testing.T) {
		fs, err := persist.NewFileStore(t.TempDir(), 42)
		require.NoError(t, err)

		out := runMenu(t, ledger.New(), fs, "15\n0\n")
		assert.Contains(t, out, "masking disabled")
		assert.Equal(t, byte(0), fs.Mask())
	})

	t.Run("rejects out-of-range key", func(t *testing.T) {
		fs := newFileArchive(t)
		out := runMenu(t, ledger.New(), fs, "15\n900\n0\n")
		assert.Contains(t, out, "between 1 and 255")
		assert.Equal(t, byte(0), fs.Mask())
	})

	t.Run("backend without masking", func(t *testing.T) {
		out := runMenu(t, ledger.New(), nopGateway{}, "15\n0\n")
		assert.Contains(t, out, "does not support masking")
	})
}

func TestMenuEndOfInputSaves(t *testing.T) {
	dir := t.TempDir()
	fs, err := persist.NewFileStore(dir, 0)
	require.NoError(t, err)

	store := ledger.New()
	var out bytes.Buffer
	menu := NewMenu(store, report.New(store), fs, strings.NewReader("5\nFood\n"), &out, filepath.Join(dir, "export.csv"))
	require.NoError(t, menu.Run(context.Background()))

	snap, err := fs.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Categories, 1)
	assert.Equal(t, "Food", snap.Categories[0].Name)
}

func TestMenuCancelSkipsSave(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A pipe that never delivers input keeps the read pending so the
	// canceled context is the only way out.
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close(); _ = pr.Close() })

	dir := t.TempDir()
	fs, err := persist.NewFileStore(dir, 0)
	require.NoError(t, err)

	store := ledger.New()
	menu := NewMenu(store, report.New(store), fs, pr, &bytes.Buffer{}, filepath.Join(dir, "export.csv"))
	err = menu.Run(ctx)
	require.ErrorIs(t, err, ErrInputCancelled)

	_, statErr := os.Stat(filepath.Join(dir, "transactions.dat"))
	assert.True(t, os.IsNotExist(statErr))
}

// nopGateway is an archive stub with no masking support.
type nopGateway struct{}

func (nopGateway) Load(context.Context) (ledger.Snapshot, error) { return ledger.Snapshot{}, nil }
func (nopGateway) Save(context.Context, ledger.Snapshot) error   { return nil }
