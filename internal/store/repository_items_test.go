package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

func newTestItemRepo(t *testing.T) (ItemRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewItemRepository(&DB{DB: db, logger: logger.Nop()})
	return repo, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var remoteColumns = []string{"id", "kind", "updated_at", "last_edited", "synced_at", "deleted", "deleted_at", "body"}

func TestItemRepository_GetAll(t *testing.T) {
	repo, mock := newTestItemRepo(t)
	updated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(remoteColumns).
		AddRow("j1", "journal_entry", updated, nil, nil, false, nil, `{"title":"hello"}`).
		AddRow("j2", "journal_entry", updated, nil, nil, true, updated, `{"title":"gone"}`).
		AddRow("x1", "spaceship", updated, nil, nil, false, nil, `{}`)

	mock.ExpectQuery(`SELECT id, kind, updated_at, last_edited, synced_at, deleted, deleted_at, body FROM items WHERE collection = \$1 AND user_id = \$2 ORDER BY stored_at, id`).
		WithArgs("journal", "user-1").
		WillReturnRows(rows)

	items, err := repo.GetAll(context.Background(), "user-1", "journal")
	require.NoError(t, err)
	require.Len(t, items, 2, "unreadable rows are skipped")

	assert.Equal(t, "j1", items[0].ID)
	assert.Equal(t, models.KindJournalEntry, items[0].Kind)
	assert.True(t, updated.Equal(items[0].UpdatedAt.Time))
	assert.Nil(t, items[0].DeletedAt)
	assert.JSONEq(t, `{"title":"hello"}`, string(items[0].Body))

	assert.True(t, items[1].Deleted)
	require.NotNil(t, items[1].DeletedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_GetAll_RetriesTransientErrors(t *testing.T) {
	repo, mock := newTestItemRepo(t)

	mock.ExpectQuery(`SELECT .* FROM items`).
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectQuery(`SELECT .* FROM items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns))

	items, err := repo.GetAll(context.Background(), "user-1", "journal")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_GetAll_NonRetryable(t *testing.T) {
	repo, mock := newTestItemRepo(t)

	mock.ExpectQuery(`SELECT .* FROM items`).
		WillReturnError(pgError(pgerrcode.UndefinedTable))

	_, err := repo.GetAll(context.Background(), "user-1", "journal")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Upsert(t *testing.T) {
	repo, mock := newTestItemRepo(t)

	a, err := models.NewItem("j1", &models.JournalEntry{Title: "a"}, time.Now())
	require.NoError(t, err)
	b, err := models.NewItem("j2", &models.JournalEntry{Title: "b"}, time.Now())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO items \(user_id,collection,id,kind,updated_at,last_edited,synced_at,deleted,deleted_at,body\) VALUES .* ON CONFLICT \(user_id, collection, id\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Upsert(context.Background(), "user-1", "journal", a, b))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Upsert_Empty(t *testing.T) {
	repo, mock := newTestItemRepo(t)

	require.NoError(t, repo.Upsert(context.Background(), "user-1", "journal"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Upsert_Failure(t *testing.T) {
	repo, mock := newTestItemRepo(t)
	item, err := models.NewItem("j1", &models.JournalEntry{Title: "a"}, time.Now())
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO items`).
		WillReturnError(pgError(pgerrcode.CheckViolation))

	err = repo.Upsert(context.Background(), "user-1", "journal", item)
	assert.ErrorIs(t, err, ErrExecutingStatement)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_SoftDelete(t *testing.T) {
	repo, mock := newTestItemRepo(t)
	at := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE items SET deleted = \$1, deleted_at = \$2, stored_at = NOW\(\) WHERE collection = \$3 AND id = \$4 AND user_id = \$5 AND NOT deleted AND COALESCE\(GREATEST\(.*\) <= \$6 RETURNING`).
		WithArgs(true, at, "journal", "j1", "user-1", at).
		WillReturnRows(sqlmock.NewRows(remoteColumns).
			AddRow("j1", "journal_entry", at.Add(-time.Hour), nil, nil, true, at, `{"title":"a"}`))

	item, err := repo.SoftDelete(context.Background(), "user-1", "journal", "j1", at)
	require.NoError(t, err)
	assert.True(t, item.Deleted)
	assert.Equal(t, at.UnixMilli(), item.EffectiveMillis())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Удаление, которое старше сохранённой версии, не трогает строку
func TestItemRepository_SoftDelete_StoredVersionIsNewer(t *testing.T) {
	repo, mock := newTestItemRepo(t)
	at := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)
	newer := at.Add(time.Hour)

	mock.ExpectQuery(`UPDATE items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns))
	mock.ExpectQuery(`SELECT id, kind, updated_at, last_edited, synced_at, deleted, deleted_at, body FROM items WHERE collection = \$1 AND id = \$2 AND user_id = \$3`).
		WithArgs("journal", "j1", "user-1").
		WillReturnRows(sqlmock.NewRows(remoteColumns).
			AddRow("j1", "journal_entry", newer, nil, nil, false, nil, `{"title":"edited"}`))

	item, err := repo.SoftDelete(context.Background(), "user-1", "journal", "j1", at)
	require.NoError(t, err)
	assert.False(t, item.Deleted, "newer live version survives a stale delete")
	assert.Equal(t, newer.UnixMilli(), item.EffectiveMillis())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Повторное удаление возвращает уже существующий tombstone без нового deleted_at
func TestItemRepository_SoftDelete_AlreadyTombstoned(t *testing.T) {
	repo, mock := newTestItemRepo(t)
	deletedAt := time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`UPDATE items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns))
	mock.ExpectQuery(`SELECT .* FROM items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns).
			AddRow("j1", "journal_entry", deletedAt.Add(-time.Hour), nil, nil, true, deletedAt, `{"title":"a"}`))

	item, err := repo.SoftDelete(context.Background(), "user-1", "journal", "j1", deletedAt.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, deletedAt.UnixMilli(), item.EffectiveMillis())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_SoftDelete_NotFound(t *testing.T) {
	repo, mock := newTestItemRepo(t)

	mock.ExpectQuery(`UPDATE items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns))
	mock.ExpectQuery(`SELECT .* FROM items`).
		WillReturnRows(sqlmock.NewRows(remoteColumns))

	_, err := repo.SoftDelete(context.Background(), "user-1", "journal", "ghost", time.Now())
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{"nil", nil, NonRetryable},
		{"plain error", errors.New("boom"), NonRetryable},
		{"no rows", sql.ErrNoRows, NonRetryable},
		{"serialization failure", pgError(pgerrcode.SerializationFailure), Retryable},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), Retryable},
		{"connection failure", pgError(pgerrcode.ConnectionFailure), Retryable},
		{"admin shutdown", pgError(pgerrcode.AdminShutdown), Retryable},
		{"too many connections", pgError(pgerrcode.TooManyConnections), Retryable},
		{"wrapped retryable", errors.Join(errors.New("ctx"), pgError(pgerrcode.CannotConnectNow)), Retryable},
		{"unique violation", pgError(pgerrcode.UniqueViolation), NonRetryable},
		{"bad datetime", pgError(pgerrcode.InvalidDatetimeFormat), NonRetryable},
		{"unknown code", pgError("XX999"), NonRetryable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
		})
	}
}
