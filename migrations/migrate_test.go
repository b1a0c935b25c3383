// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigratePostgres_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// no expectations: goose's first query fails
	err = MigratePostgres(db)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "migration error"), "got: %v", err)
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := MigrateSQLite(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is nil")

	err = MigratePostgres(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is nil")
}

func TestMigrateSQLite_CreatesItemsTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	require.NoError(t, MigrateSQLite(db))
	// idempotent
	require.NoError(t, MigrateSQLite(db))

	_, err = db.Exec(`INSERT INTO items (collection, id, kind, deleted) VALUES ('habits', 'h1', 'habit', 0)`)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count))
	assert.Equal(t, 1, count)
}
