package store

// Every query is scoped to one principal's partition of the replica.
const (
	localSelectColumns = `SELECT id, kind, updated_at, last_edited, synced_at, deleted, deleted_at, body FROM items`

	localGetAllLive = localSelectColumns + `
		WHERE principal = ? AND collection = ? AND deleted = 0
		ORDER BY rowid;`

	localGetAll = localSelectColumns + `
		WHERE principal = ? AND collection = ?
		ORDER BY rowid;`

	localGetOne = localSelectColumns + `
		WHERE principal = ? AND collection = ? AND id = ?;`

	localUpsert = `INSERT INTO items (
			principal, collection, id, kind, updated_at, last_edited, synced_at, deleted, deleted_at, body
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (principal, collection, id) DO UPDATE SET
			kind        = excluded.kind,
			updated_at  = excluded.updated_at,
			last_edited = excluded.last_edited,
			synced_at   = excluded.synced_at,
			deleted     = excluded.deleted,
			deleted_at  = excluded.deleted_at,
			body        = excluded.body;`

	// An existing tombstone keeps its deleted_at.
	localTombstone = `UPDATE items
		SET deleted = 1, deleted_at = ?
		WHERE principal = ? AND collection = ? AND id = ? AND deleted = 0;`
)
