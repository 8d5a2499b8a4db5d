package htmltable

import (
	"context"
	"html/template"

	sortable "github.com/domonda/go-sortable"
)

var (
	_ CellFormatter = CellFormatterFunc(nil)
	_ CellFormatter = Raw("")
)

// CellFormatter formats the content of a body cell.
//
// If raw is true, then str is used as HTML,
// else it will be escaped.
// An error wrapping errors.ErrUnsupported
// makes the Writer use its next formatting method.
type CellFormatter interface {
	FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter with a function.
type CellFormatterFunc func(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
	return f(ctx, cell)
}

// Raw is a CellFormatter that always returns the same HTML.
type Raw template.HTML

func (r Raw) FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
	return string(r), true, nil
}
