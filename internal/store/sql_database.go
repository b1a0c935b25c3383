package store

import (
	"database/sql"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
)

// DB is a database handle shared by the repositories of one backend.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	migrate            func(*sql.DB) error
	logger             *logger.Logger
}

// Migrate applies the backend's embedded schema.
func (db *DB) Migrate() error {
	return db.migrate(db.DB)
}
