package repositories

import (
	"database/sql"
	"errors"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

	// ErrNoFields is returned when a dynamic statement is requested with zero
	// usable fields; emitting SQL with an empty column list is never allowed.
	ErrNoFields = errors.New("no fields provided for statement")
)

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx.
// This allows repository methods to be used within transactions or with a direct
// DB connection.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Query(query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
// This allows for generic scanning helpers.
type scanner interface {
	Scan(dest ...interface{}) error
}

// countResult carries the outcome of a COUNT query run alongside a page query.
type countResult struct {
	total int
	err   error
}

// runCount executes a COUNT query on its own pooled connection so the data and
// count queries of a paginated fetch can run concurrently. The two result sets
// are not transactionally consistent with each other; both are read-only and
// the small window is accepted.
func runCount(db *sql.DB, query string, args []interface{}) <-chan countResult {
	ch := make(chan countResult, 1)
	go func() {
		var total int
		err := db.QueryRow(query, args...).Scan(&total)
		ch <- countResult{total: total, err: err}
	}()
	return ch
}
