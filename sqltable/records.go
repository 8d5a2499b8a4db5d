package sqltable

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryRecords executes query with args and returns
// one record per result row mapping column names to values
// together with the column names in query order.
//
// Values are returned as scanned by the driver
// except for []byte, which is returned as string.
// NULL values are nil.
func QueryRecords(ctx context.Context, db Queryer, query string, args ...any) (records []map[string]any, columns []string, err error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query %q: %w", query, err)
	}
	return ScanRecords(ctx, rows)
}

// ScanRecords scans all remaining rows into records
// mapping column names to values and closes rows.
// See QueryRecords.
//
// If the result has duplicate column names,
// then the value of the last column wins.
func ScanRecords(ctx context.Context, rows Rows) (records []map[string]any, columns []string, err error) {
	defer rows.Close()

	columns, err = rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	records = []map[string]any{}
	values := make([]any, len(columns))
	scanners := make([]any, len(columns))
	for i := range scanners {
		scanners[i] = valueScanner{&values[i]}
	}
	for rows.Next() {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		err = rows.Scan(scanners...)
		if err != nil {
			return nil, nil, fmt.Errorf("scanning row %d: %w", len(records), err)
		}
		record := make(map[string]any, len(columns))
		for i, name := range columns {
			record[name] = values[i]
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, nil, err
	}
	return records, columns, nil
}

var _ sql.Scanner = valueScanner{}

type valueScanner struct {
	dest *any
}

// Scan implements the database/sql.Scanner interface.
func (s valueScanner) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		// Bytes are only valid until the next call of Next
		src = string(b)
	}
	*s.dest = src
	return nil
}
