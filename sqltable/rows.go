// Package sqltable loads table records from database/sql query results.
package sqltable

import (
	"context"
	"database/sql"
)

var (
	_ Rows    = &sql.Rows{}
	_ Queryer = &sql.DB{}
	_ Queryer = &sql.Tx{}
	_ Queryer = &sql.Conn{}
)

// Rows abstracts the methods of *sql.Rows
// needed to iterate a result set.
//
// Usage follows *sql.Rows: call Next before every Scan,
// check Err after Next returned false, and Close when done.
type Rows interface {
	// Columns returns the column names of the result set
	// in query order.
	Columns() ([]string, error)

	// Scan copies the column values of the current row
	// into the variables pointed to by dest.
	Scan(dest ...any) error

	// Close releases the result set.
	// It is safe to call Close multiple times.
	Close() error

	// Next prepares the next row for Scan and returns false
	// if there is no further row or an error occurred.
	Next() bool

	// Err returns the error encountered during iteration.
	Err() error
}

// Queryer is implemented by *sql.DB, *sql.Tx, and *sql.Conn.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
