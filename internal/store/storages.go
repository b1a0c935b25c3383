package store

import (
	"context"
	"fmt"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

// Storages groups the server-side repositories.
type Storages struct {
	ItemRepository ItemRepository

	db *DB
}

// NewStorages connects to PostgreSQL, applies migrations and wires the
// repositories.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		ItemRepository: NewItemRepository(db),
		db:             db,
	}, nil
}

// Close releases the database handle.
func (s *Storages) Close() error {
	return s.db.Close()
}
