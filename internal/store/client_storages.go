package store

import (
	"context"
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

// ClientStorages groups the client-side storage of the sync client.
type ClientStorages struct {
	// LocalStore is the SQLite-backed device replica.
	LocalStore LocalStore

	db *DB
}

// NewClientStorages opens the SQLite replica at cfg.DSN, creating the file
// if needed, applies migrations and wires a [LocalStore] with opts.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger, opts ...LocalStoreOption) (*ClientStorages, error) {
	log.Info().Msg("creating new client storages...")

	db, err := NewConnectSQLite(ctx, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		LocalStore: NewLocalStore(db, opts...),
		db:         db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	return s.db.Close()
}
