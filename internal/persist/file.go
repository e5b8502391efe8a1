// Package persist moves ledger snapshots to and from disk. Two gateways
// speak the same whole-snapshot contract: a fixed-record binary file
// store, which is the default, and a SQLite archive.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/solari/internal/ledger"
)

// Gateway loads and saves whole snapshots. Save overwrites everything it
// touches; there is no partial write and no durability promise beyond the
// overwrite itself.
type Gateway interface {
	Load(ctx context.Context) (ledger.Snapshot, error)
	Save(ctx context.Context, snap ledger.Snapshot) error
}

const (
	categoryFile    = "categories.dat"
	transactionFile = "transactions.dat"
	budgetFile      = "budgets.dat"
)

// FileStore keeps the three record files in one directory. An optional
// single-byte XOR mask scrambles every byte on the way out and unscrambles
// it on the way back; it is obfuscation, not encryption, and reading a
// file under a different mask than it was written with decodes to garbage.
type FileStore struct {
	dir  string
	mask byte
}

// NewFileStore opens a file gateway rooted at dir, creating it if needed.
// A zero mask disables masking.
func NewFileStore(dir string, mask byte) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("data directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, mask: mask}, nil
}

// Mask returns the mask byte currently in force.
func (f *FileStore) Mask() byte { return f.mask }

// SetMask changes the mask for subsequent saves and loads. The menu's
// obfuscation toggle lands here; files already on disk keep whatever mask
// they were written under.
func (f *FileStore) SetMask(key byte) { f.mask = key }

// Load reads the three record files concurrently. A missing file is an
// empty collection, not an error; a trailing partial record is dropped.
func (f *FileStore) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := f.readMasked(ctx, categoryFile, categoryRecordSize)
		if err != nil {
			return err
		}
		snap.Categories = decodeCategories(data)
		return nil
	})
	g.Go(func() error {
		data, err := f.readMasked(ctx, transactionFile, transactionRecordSize)
		if err != nil {
			return err
		}
		snap.Transactions = decodeTransactions(data)
		return nil
	})
	g.Go(func() error {
		data, err := f.readMasked(ctx, budgetFile, budgetRecordSize)
		if err != nil {
			return err
		}
		snap.Budgets = decodeBudgets(data)
		return nil
	})
	if err := g.Wait(); err != nil {
		return ledger.Snapshot{}, err
	}
	slog.Debug("loaded snapshot",
		"dir", f.dir,
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets))
	return snap, nil
}

// Save rewrites all three files. Empty collections still overwrite their
// file: a stale file left behind would bring deleted records back on the
// next load.
func (f *FileStore) Save(ctx context.Context, snap ledger.Snapshot) error {
	if err := f.writeMasked(ctx, categoryFile, encodeCategories(snap.Categories)); err != nil {
		return err
	}
	if err := f.writeMasked(ctx, transactionFile, encodeTransactions(snap.Transactions)); err != nil {
		return err
	}
	if err := f.writeMasked(ctx, budgetFile, encodeBudgets(snap.Budgets)); err != nil {
		return err
	}
	slog.Debug("saved snapshot",
		"dir", f.dir,
		"categories", len(snap.Categories),
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets))
	return nil
}

func (f *FileStore) readMasked(ctx context.Context, name string, recordSize int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	maskBytes(data, f.mask)
	if extra := len(data) % recordSize; extra != 0 {
		slog.Warn("ignoring trailing partial record", "file", name, "bytes", extra)
	}
	return data, nil
}

func (f *FileStore) writeMasked(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	maskBytes(data, f.mask)
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
