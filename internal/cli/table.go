package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	fs "github.com/ungerik/go-fs"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/colspec"
	"github.com/domonda/go-sortable/csvtable"
	"github.com/domonda/go-sortable/exceltable"
	"github.com/domonda/go-sortable/htmltable"
	"github.com/domonda/go-sortable/texttable"
)

// Formats supported by RenderTable
var Formats = []string{"html", "text", "markdown", "csv", "xlsx"}

// LoadSpec reads the column spec file of cfg
// or returns a spec with one column per field if there is none.
// Caption, sort, and locale of cfg override the spec.
func LoadSpec(cfg *Config, fields []string) (*colspec.Spec, error) {
	var spec *colspec.Spec
	if cfg.Spec == "" {
		spec = colspec.Auto(fields)
	} else {
		data, err := fs.File(cfg.Spec).ReadAll()
		if err != nil {
			return nil, err
		}
		spec, err = colspec.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Spec, err)
		}
	}
	if cfg.Caption != "" {
		spec.Caption = cfg.Caption
	}
	if cfg.Sort != "" {
		spec.Sort = cfg.Sort
	}
	if cfg.Locale != "" {
		spec.Locale = cfg.Locale
	}
	return spec, spec.Validate()
}

// NewTable returns a table of records with the columns
// and the initial sort state of spec.
// A new table has to be created per goroutine.
func NewTable(spec *colspec.Spec, records []colspec.Record, logger *slog.Logger) (*sortable.Table[colspec.Record], error) {
	config, err := spec.Config(sortable.NewConfig().WithLogger(logger))
	if err != nil {
		return nil, err
	}
	columns, err := spec.TableColumns(config)
	if err != nil {
		return nil, err
	}
	state, err := spec.SortState()
	if err != nil {
		return nil, err
	}
	table := sortable.NewTable(columns, records).WithConfig(config)
	table.SetSortState(state)
	return table, nil
}

// RenderTable writes table in format to dest.
// Tables rendered as HTML link their sortable header cells
// to the sort state of a click as query parameter.
func RenderTable(ctx context.Context, dest io.Writer, format string, table *sortable.Table[colspec.Record], caption string) error {
	switch format {
	case "html":
		return htmltable.WriteTable(ctx, htmltable.NewWriter().WithTableClass("sortable-table"), dest, table, caption)
	case "text":
		return texttable.WriteTable(ctx, texttable.NewWriter(), dest, table, caption)
	case "markdown":
		return texttable.WriteTable(ctx, texttable.NewWriter().WithFormat(texttable.FormatMarkdown), dest, table, caption)
	case "csv":
		writer := csvtable.NewWriter().WithHeaderRows(csvtable.AllHeaders).WithDelimiter(',')
		return csvtable.WriteTable(ctx, writer, dest, table)
	case "xlsx":
		return exceltable.WriteTable(ctx, exceltable.NewWriter(), dest, table, caption)
	}
	return fmt.Errorf("unsupported format %q, use one of %v", format, Formats)
}
