package csvtable

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/richtext"
)

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// PassthroughEncoder returns an Encoder that returns the passed data unchanged.
func PassthroughEncoder() Encoder {
	return EncoderFunc(func(data []byte) ([]byte, error) {
		return data, nil
	})
}

// CharsetEncoder returns an Encoder converting UTF-8
// to the character encoding with the passed name
// like "ISO 8859-1" or "Windows 1252".
// nil is returned for "UTF-8".
func CharsetEncoder(name string) (Encoder, error) {
	if name == "" || name == "UTF-8" {
		return nil, nil
	}
	enc, err := charset.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return EncoderFunc(enc.Encode), nil
}

// CellFormatter formats the content of a body cell as CSV field.
//
// If raw is true, then str is written without quoting or escaping.
// An error wrapping errors.ErrUnsupported
// makes the Writer use its default formatting.
type CellFormatter interface {
	FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter with a function.
type CellFormatterFunc func(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
	return f(ctx, cell)
}

type Padding int

const (
	NoPadding Padding = iota
	AlignLeft
	AlignRight
	AlignCenter
)

// HeaderRows selects which header rows are written
type HeaderRows int

const (
	// NoHeader writes only the body rows
	NoHeader HeaderRows = iota
	// LeafHeader writes one header row with the titles of the leaf columns
	LeafHeader
	// AllHeaders writes one row per header row.
	// Group titles are repeated for every column they span
	// and leaf titles are written in the last header row.
	AllHeaders
)

// Writer writes a sortable.Description as CSV.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	columnFormatters map[int]CellFormatter
	padding          Padding
	headerRows       HeaderRows
	sortIndicators   bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]CellFormatter),
		padding:          NoPadding,
		headerRows:       NoHeader,
		quoteAllFields:   false,
		quoteEmptyFields: false,
		escapeQuotes:     `""`,
		nilValue:         "",
		delimiter:        ';',
		newLine:          "\r\n",
		encoder:          nil,
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WriteTable renders table with its current sort state
// and writes it as CSV to dest.
func WriteTable[R any](ctx context.Context, w *Writer, dest io.Writer, table *sortable.Table[R]) error {
	desc, err := table.Render()
	if err != nil {
		return err
	}
	return w.Write(ctx, dest, desc)
}

// Write writes the rows of desc to dest formatted as CSV.
func (w *Writer) Write(ctx context.Context, dest io.Writer, desc *sortable.Description) error {
	rows, err := w.Strings(ctx, desc)
	if err != nil {
		return err
	}
	var colWidths []int
	if w.padding != NoPadding {
		colWidths = columnWidths(rows, desc.NumColumns)
	}

	rowBuf := bytes.NewBuffer(make([]byte, 0, 1024))
	for _, row := range rows {
		for col, str := range row {
			if col > 0 {
				rowBuf.WriteRune(w.delimiter)
			}
			if colWidths == nil {
				rowBuf.WriteString(str)
				continue
			}
			var (
				padTotal = colWidths[col] - utf8.RuneCountInString(str)
				padLeft  = 0
				padRight = 0
			)
			switch w.padding {
			case AlignLeft:
				padRight = padTotal
			case AlignRight:
				padLeft = padTotal
			case AlignCenter:
				padLeft = padTotal / 2
				padRight = (padTotal + 1) / 2
			}
			rowBuf.WriteString(strings.Repeat(" ", padLeft))
			rowBuf.WriteString(str)
			rowBuf.WriteString(strings.Repeat(" ", padRight))
		}
		rowBuf.WriteString(w.newLine)

		if w.encoder != nil {
			// Read, encode, and write back the buffered row
			encoded, err := w.encoder.Bytes(rowBuf.Bytes())
			if err != nil {
				return err
			}
			rowBuf.Reset()
			rowBuf.Write(encoded)
		}

		_, err = dest.Write(rowBuf.Bytes())
		if err != nil {
			return err
		}
		rowBuf.Reset()
	}
	return nil
}

// Strings returns the header rows selected with WithHeaderRows
// followed by the body rows of desc as escaped CSV fields.
func (w *Writer) Strings(ctx context.Context, desc *sortable.Description) ([][]string, error) {
	rows := make([][]string, 0, desc.Depth+len(desc.Body))
	switch w.headerRows {
	case LeafHeader:
		row := make([]string, desc.NumColumns)
		for col, cell := range desc.LeafHeaders() {
			row[col] = w.escapeString(w.headerTitle(cell), false)
		}
		rows = append(rows, row)

	case AllHeaders:
		matrix := desc.HeaderMatrix()
		for r := range matrix {
			row := make([]string, desc.NumColumns)
			for col, cell := range matrix[r] {
				if cell == nil || cell.Sortable && r < len(matrix)-1 {
					// Leaf titles only in the last header row
					continue
				}
				row[col] = w.escapeString(w.headerTitle(cell), false)
			}
			rows = append(rows, row)
		}
	}

	for i := range desc.Body {
		cells := desc.Body[i].Cells
		row := make([]string, len(cells))
		for col := range cells {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			var err error
			row[col], err = w.cellString(ctx, &cells[col])
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, col, err)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (w *Writer) headerTitle(cell *sortable.HeaderCell) string {
	if cell == nil {
		return ""
	}
	title := richtext.Text(cell.Title)
	if w.sortIndicators {
		switch cell.Sort {
		case sortable.SortAscending:
			title += " (asc)"
		case sortable.SortDescending:
			title += " (desc)"
		}
	}
	return title
}

func (w *Writer) cellString(ctx context.Context, cell *sortable.BodyCell) (string, error) {
	if colFormatter, ok := w.columnFormatters[cell.Column]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, cell)
		if err == nil {
			return w.escapeString(str, isRaw), nil
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		// Continue after errors.ErrUnsupported
	}

	// Use fallback methods for formatting
	switch x := cell.Content.(type) {
	case template.HTML:
		return w.escapeString(richtext.PlainText(x), false), nil
	case string:
		return w.escapeString(x, false), nil
	}
	v := reflect.ValueOf(cell.Content)
	if sortable.ValueIsNil(v) {
		return w.escapeString(w.nilValue, false), nil
	}
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return w.escapeString(richtext.Text(v.Interface()), false), nil
}

func (w *Writer) escapeString(str string, isRaw bool) string {
	if isRaw {
		return str
	}
	// Just in case remove all \r,
	// \n alone is valid within quotes
	str = strings.ReplaceAll(str, "\r", "")
	switch {
	case w.quoteAllFields || strings.ContainsRune(str, w.delimiter) || strings.ContainsRune(str, '\n'):
		return `"` + strings.ReplaceAll(str, `"`, w.escapeQuotes) + `"`
	case w.quoteEmptyFields && str == "":
		return `""`
	}
	return strings.ReplaceAll(str, `"`, w.escapeQuotes)
}

// columnWidths returns the maximum number of runes
// per column of rows.
func columnWidths(rows [][]string, numCols int) []int {
	widths := make([]int, numCols)
	for _, row := range rows {
		for col := 0; col < numCols && col < len(row); col++ {
			widths[col] = max(widths[col], utf8.RuneCountInString(row[col]))
		}
	}
	return widths
}

// WithHeaderRows returns a new writer writing the selected header rows
// before the body rows.
func (w *Writer) WithHeaderRows(headerRows HeaderRows) *Writer {
	mod := w.clone()
	mod.headerRows = headerRows
	return mod
}

// WithSortIndicators returns a new writer that appends " (asc)" or " (desc)"
// to the header title of the active sort column if sortIndicators is true.
func (w *Writer) WithSortIndicators(sortIndicators bool) *Writer {
	mod := w.clone()
	mod.sortIndicators = sortIndicators
	return mod
}

// WithColumnFormatter returns a new writer with the passed formatter registered for columnIndex.
// If nil is passed as formatter, then a previous registered column formatter is removed.
func (w *Writer) WithColumnFormatter(columnIndex int, formatter CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[int]CellFormatter)
	for key, val := range w.columnFormatters {
		mod.columnFormatters[key] = val
	}
	if formatter != nil {
		mod.columnFormatters[columnIndex] = formatter
	} else {
		delete(mod.columnFormatters, columnIndex)
	}
	return mod
}

// WithFormat returns a new writer using the separator, newline,
// and encoding of format.
func (w *Writer) WithFormat(format *Format) (*Writer, error) {
	if err := format.Validate(); err != nil {
		return nil, err
	}
	encoder, err := CharsetEncoder(format.Encoding)
	if err != nil {
		return nil, err
	}
	mod := w.clone()
	mod.delimiter, _ = utf8.DecodeRuneInString(format.Separator)
	mod.newLine = format.Newline
	mod.encoder = encoder
	return mod, nil
}

func (w *Writer) WithPadding(padding Padding) *Writer {
	mod := w.clone()
	mod.padding = padding
	return mod
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	mod := w.clone()
	mod.quoteAllFields = quoteAllFields
	return mod
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	mod := w.clone()
	mod.quoteEmptyFields = quoteEmptyFields
	return mod
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	mod := w.clone()
	mod.escapeQuotes = escapeQuotes
	return mod
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	mod := w.clone()
	mod.delimiter = delimiter
	return mod
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	mod := w.clone()
	mod.newLine = newLine
	return mod
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	mod := w.clone()
	mod.encoder = encoder
	return mod
}

func (w *Writer) Delimiter() rune {
	return w.delimiter
}

func (w *Writer) NilValue() string {
	return w.nilValue
}

func (w *Writer) NewLine() string {
	return w.newLine
}
