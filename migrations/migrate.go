package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql
var sqliteMigrations embed.FS

//go:embed postgres/*.sql
var postgresMigrations embed.FS

// goose keeps its base FS and dialect in package state
var gooseMu sync.Mutex

// MigrateSQLite applies the local replica schema.
func MigrateSQLite(db *sql.DB) error {
	return migrate(db, sqliteMigrations, "sqlite3", "sqlite")
}

// MigratePostgres applies the remote store schema.
func MigratePostgres(db *sql.DB) error {
	return migrate(db, postgresMigrations, "pgx", "postgres")
}

func migrate(db *sql.DB, fsys fs.FS, dialect, dir string) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
