// Package texttable writes sortable tables as text for terminals
// using github.com/jedib0t/go-pretty/v6/table.
//
// Every header row of the description becomes a go-pretty header row.
// Group titles are repeated over the columns they span
// and merged horizontally, the titles of leaf columns
// spanning multiple header rows are written in their top row.
// A header row where adjacent cells have equal titles
// is written without merging.
package texttable

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/richtext"
)

// Format of the rendered text
type Format int

const (
	// FormatBox renders a table with box drawing characters
	FormatBox Format = iota
	// FormatMarkdown renders a Markdown table
	FormatMarkdown
)

// Writer writes a sortable.Description as text table.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	format     Format
	style      table.Style
	ascending  string
	descending string
	nilValue   string
}

// NewWriter returns a Writer rendering boxes
// with table.StyleLight, appending the sort indicators
// "▲" and "▼" to the title of the active sort column
// and writing nil content as empty string.
func NewWriter() *Writer {
	return &Writer{
		format:     FormatBox,
		style:      table.StyleLight,
		ascending:  "▲",
		descending: "▼",
	}
}

// WriteTable renders table with its current sort state
// and writes it as text to dest.
func WriteTable[R any](ctx context.Context, w *Writer, dest io.Writer, table *sortable.Table[R], caption ...string) error {
	desc, err := table.Render()
	if err != nil {
		return err
	}
	return w.Write(ctx, dest, desc, caption...)
}

// Write writes the table description as text to dest.
// Rich content is reduced to plain text.
func (w *Writer) Write(ctx context.Context, dest io.Writer, desc *sortable.Description, caption ...string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	t := table.NewWriter()
	t.SetStyle(w.style)
	t.Style().Format.Header = text.FormatDefault
	if title := strings.Join(caption, " "); title != "" {
		t.SetTitle("%s", title)
	}

	for r, row := range desc.HeaderMatrix() {
		headerRow := make(table.Row, len(row))
		for col, cell := range row {
			switch {
			case cell == nil:
				headerRow[col] = ""
			case cell.Sortable && headerRowOf(desc, cell) != r:
				// Rows below the title of a leaf spanning multiple rows
				headerRow[col] = ""
			default:
				headerRow[col] = w.headerTitle(cell)
			}
		}
		t.AppendHeader(headerRow, table.RowConfig{AutoMerge: canAutoMerge(row, headerRow)})
	}

	for _, row := range desc.Body {
		bodyRow := make(table.Row, len(row.Cells))
		for col := range row.Cells {
			bodyRow[col] = w.content(row.Cells[col].Content)
		}
		t.AppendRow(bodyRow)
	}

	var rendered string
	switch w.format {
	case FormatMarkdown:
		rendered = t.RenderMarkdown()
	default:
		rendered = t.Render()
	}
	_, err := io.WriteString(dest, rendered+"\n")
	return err
}

// canAutoMerge returns false if go-pretty would merge
// adjacent titles of different cells because their text is equal.
// go-pretty merges by text, so such rows are written unmerged.
func canAutoMerge(cells []*sortable.HeaderCell, titles table.Row) bool {
	for col := 1; col < len(cells); col++ {
		sameCell := cells[col] != nil && cells[col] == cells[col-1]
		if !sameCell && titles[col] == titles[col-1] {
			return false
		}
	}
	return true
}

// headerRowOf returns the index of the header row containing cell.
func headerRowOf(desc *sortable.Description, cell *sortable.HeaderCell) int {
	for r := range desc.Header {
		for i := range desc.Header[r] {
			if &desc.Header[r][i] == cell {
				return r
			}
		}
	}
	return -1
}

func (w *Writer) headerTitle(cell *sortable.HeaderCell) string {
	title := richtext.Text(cell.Title)
	switch cell.Sort {
	case sortable.SortAscending:
		return strings.TrimSpace(title + " " + w.ascending)
	case sortable.SortDescending:
		return strings.TrimSpace(title + " " + w.descending)
	}
	return title
}

func (w *Writer) content(content any) any {
	switch x := content.(type) {
	case nil:
		return w.nilValue
	case string:
		return x
	case fmt.Stringer, error:
		return richtext.Text(x)
	}
	if sortable.ValueIsNil(reflect.ValueOf(content)) {
		return w.nilValue
	}
	v := reflect.ValueOf(content)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		// Numbers are aligned right by go-pretty
		return v.Interface()
	}
	return richtext.Text(v.Interface())
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithFormat returns a new writer rendering format.
func (w *Writer) WithFormat(format Format) *Writer {
	mod := w.clone()
	mod.format = format
	return mod
}

// WithStyle returns a new writer using the go-pretty style
// for FormatBox, for example table.StyleRounded.
func (w *Writer) WithStyle(style table.Style) *Writer {
	mod := w.clone()
	mod.style = style
	return mod
}

// WithSortIndicators returns a new writer appending ascending or descending
// to the title of the active sort column.
func (w *Writer) WithSortIndicators(ascending, descending string) *Writer {
	mod := w.clone()
	mod.ascending = ascending
	mod.descending = descending
	return mod
}

// WithNilValue returns a new writer writing nilValue for nil content.
func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}
