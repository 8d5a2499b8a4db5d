package sqltable

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestQueryRecords(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery(`SELECT name, age FROM people WHERE age > \?`).
		WithArgs(30).
		WillReturnRows(
			sqlmock.NewRows([]string{"name", "age"}).
				AddRow("Ada", int64(36)).
				AddRow([]byte("Alan"), nil),
		)

	records, columns, err := QueryRecords(context.Background(), db, "SELECT name, age FROM people WHERE age > ?", 30)
	require.NoError(t, err)
	require.Equal(t, []string{"name", "age"}, columns)
	require.Equal(t, []map[string]any{
		{"name": "Ada", "age": int64(36)},
		{"name": "Alan", "age": nil},
	}, records)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryRecords_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	records, columns, err := QueryRecords(context.Background(), db, "SELECT id FROM empty")
	require.NoError(t, err)
	require.Equal(t, []string{"id"}, columns)
	require.NotNil(t, records)
	require.Empty(t, records)
}

func TestQueryRecords_Errors(t *testing.T) {
	queryErr := errors.New("no such table")
	rowErr := errors.New("connection lost")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT").WillReturnError(queryErr)
	_, _, err = QueryRecords(context.Background(), db, "SELECT * FROM missing")
	require.ErrorIs(t, err, queryErr)

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id"}).
			AddRow(1).
			AddRow(2).
			RowError(1, rowErr),
	)
	_, _, err = QueryRecords(context.Background(), db, "SELECT id FROM broken")
	require.ErrorIs(t, err, rowErr)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRecords_Canceled(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	rows, err := db.Query("SELECT id FROM t")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = ScanRecords(ctx, rows)
	require.ErrorIs(t, err, context.Canceled)
}
