package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	fs "github.com/ungerik/go-fs"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/domonda/go-sortable/colspec"
	"github.com/domonda/go-sortable/csvtable"
	"github.com/domonda/go-sortable/exceltable"
	"github.com/domonda/go-sortable/sqltable"
)

// ErrNoData is returned if no data source is configured
var ErrNoData = errors.New("no data source, use --data")

// LoadRecords loads the records from the data source of cfg
// and returns them with the names of their fields.
//
// JSON files must contain an array of objects.
// CSV files must have a header row, their format is detected.
// From XLSX files the first sheet is read with a header row.
// SQLite databases (.db, .sqlite, .sqlite3) need a query.
func LoadRecords(ctx context.Context, cfg *Config, logger *slog.Logger) (records []colspec.Record, fields []string, err error) {
	if cfg.Data == "" {
		return nil, nil, ErrNoData
	}
	file := fs.File(cfg.Data)
	ext := strings.ToLower(file.Ext())
	logger.Debug("loading records", slog.String("data", cfg.Data), slog.String("ext", ext))

	if cfg.Query != "" || ext == ".db" || ext == ".sqlite" || ext == ".sqlite3" {
		return querySQLite(ctx, cfg.Data, cfg.Query)
	}

	if !file.Exists() {
		return nil, nil, fmt.Errorf("data file %s does not exist", cfg.Data)
	}
	data, err := file.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	switch ext {
	case ".json":
		return jsonRecords(data)
	case ".csv", ".tsv", ".txt":
		return csvRecords(data, logger)
	case ".xlsx":
		return xlsxRecords(data)
	}
	return nil, nil, fmt.Errorf("unsupported data file extension %q", ext)
}

func querySQLite(ctx context.Context, path, query string) ([]colspec.Record, []string, error) {
	if query == "" {
		return nil, nil, fmt.Errorf("SQLite database %s needs a --query", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()
	return sqltable.QueryRecords(ctx, db, query)
}

// jsonRecords decodes an array of objects.
// The fields are the sorted union of all object keys.
func jsonRecords(data []byte) ([]colspec.Record, []string, error) {
	var records []colspec.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("JSON data must be an array of objects: %w", err)
	}
	keys := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			keys[key] = struct{}{}
		}
	}
	return records, slices.Sorted(maps.Keys(keys)), nil
}

func csvRecords(data []byte, logger *slog.Logger) ([]colspec.Record, []string, error) {
	rows, format, err := csvtable.ReadDetectFormat(data, csvtable.NewDefaultFormatDetectionConfig())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("detected CSV format",
		slog.String("encoding", format.Encoding),
		slog.String("separator", format.Separator),
	)
	rows = csvtable.RemoveEmptyRows(rows)
	if len(rows) == 0 {
		return nil, nil, nil
	}
	records, err := csvtable.RecordsFromRows(rows)
	if err != nil {
		return nil, nil, err
	}
	return records, rows[0], nil
}

func xlsxRecords(data []byte) ([]colspec.Record, []string, error) {
	sheet, err := exceltable.ReadFirstSheet(bytes.NewReader(data), false)
	if err != nil {
		return nil, nil, err
	}
	records, err := sheet.Records()
	if err != nil {
		return nil, nil, err
	}
	return records, sheet.Columns, nil
}
