package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the item repository whether a failed statement
// is worth repeating.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	Retryable
)

// retryablePgCodes are the server-side failures that clear up on their own:
// lost connections, rolled back transactions and an overloaded or restarting
// server. Constraint and data errors repeat identically and are absent.
var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.TooManyConnections:     {},
	pgerrcode.AdminShutdown:          {},
	pgerrcode.CannotConnectNow:       {},
}

// PostgresErrorClassifier implements [ErrorClassificator] on top of pgx
// errors.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

// Classify reports Retryable for a wrapped *pgconn.PgError whose code is in
// retryablePgCodes. Anything else, nil and sql.ErrNoRows included, is
// NonRetryable.
func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NonRetryable
	}

	if _, ok := retryablePgCodes[pgErr.Code]; ok {
		return Retryable
	}
	return NonRetryable
}
