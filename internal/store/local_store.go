// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

// localStore is the SQLite-backed implementation of [LocalStore].
//
// Timestamps are stored as RFC3339Nano text and the entity body as raw JSON.
// Rows that no longer parse are skipped with a warning on read.
type localStore struct {
	*DB
	hook      ChangeHook
	now       func() time.Time
	principal func() string
}

// LocalStoreOption customises a [LocalStore].
type LocalStoreOption func(*localStore)

// WithChangeHook installs the hook run after Put and Delete.
func WithChangeHook(hook ChangeHook) LocalStoreOption {
	return func(s *localStore) {
		s.hook = hook
	}
}

// WithClock replaces the clock used to stamp deletedAt.
func WithClock(now func() time.Time) LocalStoreOption {
	return func(s *localStore) {
		s.now = now
	}
}

// WithPrincipal scopes every read and write to the partition of the
// principal returned by current. It is called once per operation, so a
// principal switch takes effect on the next call.
func WithPrincipal(current func() string) LocalStoreOption {
	return func(s *localStore) {
		s.principal = current
	}
}

// NewLocalStore constructs a [LocalStore] over an already migrated database.
func NewLocalStore(db *DB, opts ...LocalStoreOption) LocalStore {
	s := &localStore{
		DB:        db,
		now:       time.Now,
		principal: func() string { return "" },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *localStore) GetAll(ctx context.Context, collection string) ([]models.Item, error) {
	return s.query(ctx, "localStore.GetAll", localGetAllLive, collection)
}

func (s *localStore) GetAllIncludingDeleted(ctx context.Context, collection string) ([]models.Item, error) {
	return s.query(ctx, "localStore.GetAllIncludingDeleted", localGetAll, collection)
}

func (s *localStore) Get(ctx context.Context, collection, id string) (models.Item, error) {
	return s.get(ctx, s.principal(), collection, id)
}

func (s *localStore) get(ctx context.Context, principal, collection, id string) (models.Item, error) {
	log := logger.FromContext(ctx)

	row := s.DB.QueryRowContext(ctx, localGetOne, principal, collection, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Get").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to scan item row")
		return models.Item{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return item, nil
}

func (s *localStore) Put(ctx context.Context, collection string, item models.Item) error {
	log := logger.FromContext(ctx)

	if collection == "" {
		return ErrEmptyCollection
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	principal := s.principal()
	if _, err := s.DB.ExecContext(ctx, localUpsert, upsertArgs(principal, collection, item)...); err != nil {
		log.Err(err).
			Str("func", "localStore.Put").
			Str("collection", collection).
			Str("id", item.ID).
			Msg("failed to upsert item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	s.notify(ctx, models.LocalChange{Principal: principal, Collection: collection, Item: item, Op: models.OpPut})
	return nil
}

func (s *localStore) PutBatchLocalOnly(ctx context.Context, collection string, items []models.Item) error {
	log := logger.FromContext(ctx)

	if collection == "" {
		return ErrEmptyCollection
	}
	if len(items) == 0 {
		return nil
	}

	principal := s.principal()

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.PutBatchLocalOnly").
			Str("collection", collection).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, localUpsert)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.PutBatchLocalOnly").
			Str("collection", collection).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, err)
	}
	defer stmt.Close()

	for i, item := range items {
		if err := item.Validate(); err != nil {
			log.Warn().Err(err).
				Str("func", "localStore.PutBatchLocalOnly").
				Str("collection", collection).
				Str("id", item.ID).
				Int("index", i).
				Msg("skipping malformed item")
			continue
		}

		if _, err := stmt.ExecContext(ctx, upsertArgs(principal, collection, item)...); err != nil {
			log.Err(err).
				Str("func", "localStore.PutBatchLocalOnly").
				Str("collection", collection).
				Str("id", item.ID).
				Int("index", i).
				Msg("failed to upsert item")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "localStore.PutBatchLocalOnly").
			Str("collection", collection).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *localStore) Delete(ctx context.Context, collection, id string) error {
	log := logger.FromContext(ctx)

	principal := s.principal()
	at := s.now().UTC()
	res, err := s.DB.ExecContext(ctx, localTombstone, formatTimestamp(models.NewTimestamp(at)), principal, collection, id)
	if err != nil {
		log.Err(err).
			Str("func", "localStore.Delete").
			Str("collection", collection).
			Str("id", id).
			Msg("failed to tombstone item")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	item, err := s.get(ctx, principal, collection, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		// already a tombstone: nothing changed, nothing to push
		return nil
	}

	s.notify(ctx, models.LocalChange{Principal: principal, Collection: collection, Item: item, Op: models.OpDelete})
	return nil
}

func (s *localStore) notify(ctx context.Context, change models.LocalChange) {
	if s.hook == nil {
		return
	}

	if err := s.hook(ctx, change); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "localStore.notify").
			Str("collection", change.Collection).
			Str("id", change.Item.ID).
			Str("op", change.Op.String()).
			Msg("change hook failed; local write kept")
	}
}

func (s *localStore) query(ctx context.Context, funcName, query, collection string) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	rows, err := s.DB.QueryContext(ctx, query, s.principal(), collection)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("collection", collection).
			Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.Item, 0, 32)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			log.Warn().Err(err).
				Str("func", funcName).
				Str("collection", collection).
				Str("id", item.ID).
				Msg("skipping unreadable item row")
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("collection", collection).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanItem reads one row. On a parse failure the returned item still carries
// the id so the caller can log it.
func scanItem(row rowScanner) (models.Item, error) {
	var (
		item                            models.Item
		kind                            string
		updatedAt, lastEdited, syncedAt sql.NullString
		deletedAt                       sql.NullString
		deleted                         bool
		body                            []byte
	)

	if err := row.Scan(&item.ID, &kind, &updatedAt, &lastEdited, &syncedAt, &deleted, &deletedAt, &body); err != nil {
		return item, err
	}

	item.Kind = models.Kind(kind)
	item.Deleted = deleted
	if len(body) > 0 {
		item.Body = body
	}

	var err error
	if item.UpdatedAt, err = parseNullTimestamp(updatedAt); err != nil {
		return item, err
	}
	if item.LastEdited, err = parseNullTimestamp(lastEdited); err != nil {
		return item, err
	}
	if item.SyncedAt, err = parseNullTimestamp(syncedAt); err != nil {
		return item, err
	}
	if item.DeletedAt, err = parseNullTimestamp(deletedAt); err != nil {
		return item, err
	}

	return item, item.Validate()
}

func upsertArgs(principal, collection string, item models.Item) []any {
	var body any
	if len(item.Body) > 0 {
		body = []byte(item.Body)
	}

	return []any{
		principal,
		collection,
		item.ID,
		string(item.Kind),
		formatTimestamp(item.UpdatedAt),
		formatTimestamp(item.LastEdited),
		formatTimestamp(item.SyncedAt),
		item.Deleted,
		formatTimestamp(item.DeletedAt),
		body,
	}
}

func formatTimestamp(ts *models.Timestamp) sql.NullString {
	if ts == nil || ts.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: ts.String(), Valid: true}
}

func parseNullTimestamp(raw sql.NullString) (*models.Timestamp, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	ts, err := models.ParseTimestamp(raw.String)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
