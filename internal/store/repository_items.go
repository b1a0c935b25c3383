package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/sethvargo/go-retry"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/models"
)

const (
	retryBaseDelay  = 50 * time.Millisecond
	retryMaxRetries = 3
)

// upsertConflictClause keeps the stored row when it is strictly newer than
// the incoming one, so a late writer cannot regress the remote replica.
const upsertConflictClause = `ON CONFLICT (user_id, collection, id) DO UPDATE SET
		kind        = EXCLUDED.kind,
		updated_at  = EXCLUDED.updated_at,
		last_edited = EXCLUDED.last_edited,
		synced_at   = EXCLUDED.synced_at,
		deleted     = EXCLUDED.deleted,
		deleted_at  = EXCLUDED.deleted_at,
		body        = EXCLUDED.body,
		stored_at   = NOW()
	WHERE ` + effectiveExcluded + ` >= ` + effectiveStored

const (
	effectiveExcluded = `COALESCE(GREATEST(EXCLUDED.updated_at, EXCLUDED.last_edited, EXCLUDED.synced_at,
		CASE WHEN EXCLUDED.deleted THEN EXCLUDED.deleted_at END), 'epoch'::timestamptz)`
	effectiveStored = `COALESCE(GREATEST(items.updated_at, items.last_edited, items.synced_at,
		CASE WHEN items.deleted THEN items.deleted_at END), 'epoch'::timestamptz)`
)

var itemColumns = []string{
	"id", "kind", "updated_at", "last_edited", "synced_at", "deleted", "deleted_at", "body",
}

// itemRepository is the PostgreSQL-backed implementation of [ItemRepository].
// Rows are keyed by (user_id, collection, id).
type itemRepository struct {
	*DB
	builder sq.StatementBuilderType
}

// NewItemRepository constructs an [ItemRepository] over the provided connection.
func NewItemRepository(db *DB) ItemRepository {
	if db.errorClassificator == nil {
		db.errorClassificator = NewPostgresErrorClassifier()
	}

	return &itemRepository{
		DB:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *itemRepository) GetAll(ctx context.Context, userID, collection string) ([]models.Item, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"user_id": userID, "collection": collection}).
		OrderBy("stored_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var items []models.Item
	err = r.withRetry(ctx, func(ctx context.Context) error {
		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]models.Item, 0, 32)
		for rows.Next() {
			item, scanErr := scanRemoteItem(rows)
			if scanErr != nil {
				log.Warn().Err(scanErr).
					Str("func", "itemRepository.GetAll").
					Str("user_id", userID).
					Str("collection", collection).
					Str("id", item.ID).
					Msg("skipping unreadable item row")
				continue
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.GetAll").
			Str("user_id", userID).
			Str("collection", collection).
			Msg("failed to get items")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

func (r *itemRepository) Upsert(ctx context.Context, userID, collection string, items ...models.Item) error {
	log := logger.FromContext(ctx)

	if len(items) == 0 {
		return nil
	}

	insert := r.builder.
		Insert("items").
		Columns(append([]string{"user_id", "collection"}, itemColumns...)...)
	for _, item := range items {
		insert = insert.Values(
			userID,
			collection,
			item.ID,
			string(item.Kind),
			nullTime(item.UpdatedAt),
			nullTime(item.LastEdited),
			nullTime(item.SyncedAt),
			item.Deleted,
			nullTime(item.DeletedAt),
			nullBody(item.Body),
		)
	}

	query, args, err := insert.Suffix(upsertConflictClause).ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Upsert").
			Str("user_id", userID).
			Str("collection", collection).
			Msg("failed to build upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	err = r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.DB.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.Upsert").
			Str("user_id", userID).
			Str("collection", collection).
			Int("items", len(items)).
			Msg("failed to upsert items")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *itemRepository) SoftDelete(ctx context.Context, userID, collection, id string, at time.Time) (models.Item, error) {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Update("items").
		Set("deleted", true).
		Set("deleted_at", at.UTC()).
		Set("stored_at", sq.Expr("NOW()")).
		Where(sq.Eq{"user_id": userID, "collection": collection, "id": id}).
		Where("NOT deleted").
		Where(sq.Expr(effectiveStored+" <= ?", at.UTC())).
		Suffix("RETURNING " + strings.Join(itemColumns, ", ")).
		ToSql()
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var item models.Item
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		item, scanErr = scanRemoteItem(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		// already a tombstone, or stored version is newer than the delete
		return r.getOne(ctx, userID, collection, id)
	}
	if err != nil {
		log.Err(err).
			Str("func", "itemRepository.SoftDelete").
			Str("user_id", userID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to tombstone item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return item, nil
}

func (r *itemRepository) getOne(ctx context.Context, userID, collection, id string) (models.Item, error) {
	query, args, err := r.builder.
		Select(itemColumns...).
		From("items").
		Where(sq.Eq{"user_id": userID, "collection": collection, "id": id}).
		ToSql()
	if err != nil {
		return models.Item{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var item models.Item
	err = r.withRetry(ctx, func(ctx context.Context) error {
		var scanErr error
		item, scanErr = scanRemoteItem(r.DB.QueryRowContext(ctx, query, args...))
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return models.Item{}, ErrItemNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "itemRepository.getOne").
			Str("user_id", userID).
			Str("collection", collection).
			Str("id", id).
			Msg("failed to read item")
		return models.Item{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return item, nil
}

// withRetry runs op, retrying errors the classifier marks as Retryable with
// exponential backoff.
func (r *itemRepository) withRetry(ctx context.Context, op func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retryMaxRetries, retry.NewExponential(retryBaseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && r.errorClassificator.Classify(err) == Retryable {
			return retry.RetryableError(err)
		}
		return err
	})
}

func scanRemoteItem(row rowScanner) (models.Item, error) {
	var (
		item                            models.Item
		kind                            string
		updatedAt, lastEdited, syncedAt sql.NullTime
		deletedAt                       sql.NullTime
		body                            []byte
	)

	if err := row.Scan(&item.ID, &kind, &updatedAt, &lastEdited, &syncedAt, &item.Deleted, &deletedAt, &body); err != nil {
		return item, err
	}

	item.Kind = models.Kind(kind)
	item.UpdatedAt = fromNullTime(updatedAt)
	item.LastEdited = fromNullTime(lastEdited)
	item.SyncedAt = fromNullTime(syncedAt)
	item.DeletedAt = fromNullTime(deletedAt)
	if len(body) > 0 {
		item.Body = body
	}

	return item, item.Validate()
}

func nullTime(ts *models.Timestamp) sql.NullTime {
	if ts == nil || ts.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: ts.UTC(), Valid: true}
}

func fromNullTime(t sql.NullTime) *models.Timestamp {
	if !t.Valid {
		return nil
	}
	return models.NewTimestamp(t.Time)
}

// nullBody passes JSON as text so that pgx casts it into the jsonb column.
func nullBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	return string(body)
}
