package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Veraticus/solari/internal/config"
	"github.com/Veraticus/solari/internal/ledger"
	"github.com/Veraticus/solari/internal/persist"
	"github.com/Veraticus/solari/internal/report"
)

// session wires one command invocation to the configured archive: load
// everything into memory, mutate, save on demand.
type session struct {
	settings config.Settings
	store    *ledger.Store
	reports  *report.Engine
	archive  persist.Gateway
}

func openSession(ctx context.Context) (*session, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	archive, err := openArchive(settings)
	if err != nil {
		return nil, err
	}

	snap, err := archive.Load(ctx)
	if err != nil {
		closeArchive(archive)
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	store := ledger.New()
	store.Restore(snap)

	return &session{
		settings: settings,
		store:    store,
		reports:  report.New(store),
		archive:  archive,
	}, nil
}

func openArchive(settings config.Settings) (persist.Gateway, error) {
	if settings.Backend == "sqlite" {
		return persist.NewSQLiteStore(settings.SQLitePath())
	}
	return persist.NewFileStore(settings.DataDir, settings.MaskKey)
}

func closeArchive(archive persist.Gateway) {
	if c, ok := archive.(io.Closer); ok {
		_ = c.Close()
	}
}

// save writes the store back through the archive.
func (s *session) save(ctx context.Context) error {
	if err := s.archive.Save(ctx, s.store.Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}

func (s *session) close() {
	closeArchive(s.archive)
}
