// Package htmltable writes sortable tables as HTML.
// It supports customizable formatting, HTML templating, and automatic
// HTML escaping for safe output.
//
// The package is built around the Writer type which converts
// a sortable.Description into an HTML table element with:
//   - a thead with one tr per header row using colspan and rowspan
//     for grouped columns
//   - sort indicators as CSS classes and aria-sort attributes
//   - links on sortable header cells to the table sorted
//     in the state a click on the cell results in
//   - a tbody with the class list and inline style of every body cell
//   - column and type specific formatters
//   - customizable templates
//
// Example usage:
//
//	table := sortable.NewTable(columns, people)
//	writer := htmltable.NewWriter().WithTableClass("my-table")
//	err := htmltable.WriteTable(ctx, writer, os.Stdout, table, "People")
package htmltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"reflect"
	"strings"

	sortable "github.com/domonda/go-sortable"
)

// DefaultSortParam is the URL query parameter used
// by the default sort links.
const DefaultSortParam = "sort"

// SortLinkFunc returns the href of the link on a sortable header cell
// for the sort state a click on the cell results in.
// An empty string renders no link.
type SortLinkFunc func(next sortable.SortState) string

// QuerySortLink returns a SortLinkFunc returning a relative URL
// that consists only of the query parameter param
// set to the text representation of the sort state.
//
// Example: QuerySortLink("sort") returns "?sort=2%3Adesc"
// for sortable.SortBy(2, sortable.Descending).
func QuerySortLink(param string) SortLinkFunc {
	return func(next sortable.SortState) string {
		return "?" + url.Values{param: {next.String()}}.Encode()
	}
}

// Writer writes a sortable.Description as HTML table element.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
//
// HTML Escaping:
// Content of type template.HTML is written as is,
// all other content is HTML-escaped.
// Formatters can return raw HTML by setting the raw return value to true.
type Writer struct {
	tableClass       string
	columnFormatters map[int]CellFormatter
	typeFormatters   map[reflect.Type]CellFormatter
	nilValue         template.HTML
	sortLink         SortLinkFunc
	sortableClass    string
	ascendingClass   string
	descendingClass  string
	headerTemplate   *template.Template
	theadTemplate    *template.Template
	rowTemplate      *template.Template
	footerTemplate   *template.Template
}

// NewWriter creates a new HTML table writer.
// The writer is initialized with default templates and no formatters.
//
// Default configuration:
//   - No table class
//   - No custom formatters
//   - Empty string for nil values
//   - Sort links using the query parameter DefaultSortParam
//   - Sortable header cells have the class "sortable",
//     the header cell of the active sort column
//     additionally "sort-asc" or "sort-desc"
//   - Standard HTML table templates
//
// Use the With* methods to customize the writer configuration.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[int]CellFormatter),
		typeFormatters:   make(map[reflect.Type]CellFormatter),
		nilValue:         "",
		sortLink:         QuerySortLink(DefaultSortParam),
		sortableClass:    "sortable",
		ascendingClass:   "sort-asc",
		descendingClass:  "sort-desc",
		headerTemplate:   HeaderTemplate,
		theadTemplate:    TheadTemplate,
		rowTemplate:      RowTemplate,
		footerTemplate:   FooterTemplate,
	}
}

// WriteTable renders table with its current sort state
// and writes it as HTML to dest.
func WriteTable[R any](ctx context.Context, w *Writer, dest io.Writer, table *sortable.Table[R], caption ...string) error {
	desc, err := table.Render()
	if err != nil {
		return err
	}
	return w.Write(ctx, dest, desc, caption...)
}

// Write writes the table description as HTML to the destination writer.
//
// The content of each body cell is formatted with the following cascade:
//  1. Column-specific formatters (if configured for the leaf column)
//  2. Type-based formatters (if configured for the content type)
//  3. template.HTML content as is, nil as the nil value,
//     and all other content escaped after fmt.Sprint
//
// The context is checked for cancellation before writing begins.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - dest: Where to write the HTML output
//   - desc: The rendered table
//   - caption: Optional caption strings that will be joined and used as table caption
//
// Returns an error if context is cancelled, formatting fails, or writing fails.
func (w *Writer) Write(ctx context.Context, dest io.Writer, desc *sortable.Description, caption ...string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	tableContext := TemplateContext{
		TableClass: w.tableClass,
		Caption:    strings.Join(caption, " "),
	}
	err := w.headerTemplate.Execute(dest, tableContext)
	if err != nil {
		return err
	}

	thead := TheadTemplateContext{
		TemplateContext: tableContext,
		Rows:            make([][]HeaderCellContext, len(desc.Header)),
	}
	for r, row := range desc.Header {
		thead.Rows[r] = make([]HeaderCellContext, len(row))
		for i := range row {
			thead.Rows[r][i] = w.headerCellContext(&row[i])
		}
	}
	err = w.theadTemplate.Execute(dest, thead)
	if err != nil {
		return err
	}

	templData := &RowTemplateContext{
		TemplateContext: tableContext,
		Cells:           make([]BodyCellContext, desc.NumColumns),
	}
	for rowIndex := range desc.Body {
		row := &desc.Body[rowIndex]
		templData.RowIndex = rowIndex
		templData.RecordIndex = row.Index
		templData.Cells = templData.Cells[:len(row.Cells)]
		for col := range row.Cells {
			cell := &row.Cells[col]
			content, err := w.formatCell(ctx, cell)
			if err != nil {
				return fmt.Errorf("row %d column %d: %w", rowIndex, col, err)
			}
			templData.Cells[col] = BodyCellContext{
				Content: content,
				Class:   strings.Join(cell.ClassList, " "),
				Style:   template.CSS(cell.Style.String()), //#nosec G203
			}
		}
		err = w.rowTemplate.Execute(dest, templData)
		if err != nil {
			return err
		}
	}

	return w.footerTemplate.Execute(dest, tableContext)
}

func (w *Writer) headerCellContext(cell *sortable.HeaderCell) HeaderCellContext {
	c := HeaderCellContext{
		Content:  w.content(cell.Title),
		ColSpan:  cell.ColSpan,
		RowSpan:  cell.RowSpan,
		Sortable: cell.Sortable,
	}
	if !cell.Sortable {
		return c
	}
	c.AriaSort = string(cell.Sort)
	classes := []string{w.sortableClass}
	switch cell.Sort {
	case sortable.SortAscending:
		classes = append(classes, w.ascendingClass)
	case sortable.SortDescending:
		classes = append(classes, w.descendingClass)
	}
	c.Class = strings.TrimSpace(strings.Join(classes, " "))
	if w.sortLink != nil {
		c.Href = w.sortLink(cell.Next)
	}
	return c
}

func (w *Writer) formatCell(ctx context.Context, cell *sortable.BodyCell) (template.HTML, error) {
	if colFormatter, ok := w.columnFormatters[cell.Column]; ok {
		str, isRaw, err := colFormatter.FormatCell(ctx, cell)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		if err == nil {
			return asHTML(str, isRaw), nil
		}
	}
	if cell.Content != nil {
		if typeFormatter, ok := w.typeFormatters[reflect.TypeOf(cell.Content)]; ok {
			str, isRaw, err := typeFormatter.FormatCell(ctx, cell)
			if err != nil && !errors.Is(err, errors.ErrUnsupported) {
				return "", err
			}
			if err == nil {
				return asHTML(str, isRaw), nil
			}
		}
	}
	// In case of no formatter or errors.ErrUnsupported
	// use fallback method of formatting
	return w.content(cell.Content), nil
}

func (w *Writer) content(content any) template.HTML {
	switch x := content.(type) {
	case nil:
		return w.nilValue
	case template.HTML:
		return x
	case string:
		return asHTML(x, false)
	default:
		if sortable.ValueIsNil(reflect.ValueOf(content)) {
			return w.nilValue
		}
		return asHTML(fmt.Sprint(content), false)
	}
}

func asHTML(str string, raw bool) template.HTML {
	if !raw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithTableClass returns a new writer with the specified CSS class for the table element.
// The class will be rendered as: <table class='tableClass'>
//
// Example:
//
//	writer := htmltable.NewWriter().WithTableClass("table table-striped")
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithSortLink returns a new writer using sortLink
// to create the links of sortable header cells.
// Passing nil disables the links.
func (w *Writer) WithSortLink(sortLink SortLinkFunc) *Writer {
	mod := w.clone()
	mod.sortLink = sortLink
	return mod
}

// WithSortClasses returns a new writer with the CSS classes
// of sortable header cells and the additional classes
// of the header cell of the active sort column.
func (w *Writer) WithSortClasses(sortableClass, ascendingClass, descendingClass string) *Writer {
	mod := w.clone()
	mod.sortableClass = sortableClass
	mod.ascendingClass = ascendingClass
	mod.descendingClass = descendingClass
	return mod
}

// WithColumnFormatter returns a new writer with the formatter registered for the specified leaf column.
// Column formatters take precedence over type formatters in the formatting cascade.
// If nil is passed as formatter, any previously registered formatter for this column is removed.
//
// Example:
//
//	// Format the second column as a percentage
//	writer := htmltable.NewWriter().WithColumnFormatter(1, percentFormatter)
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

// WithRawColumn returns a new writer that interprets the content
// of the specified column formatted with fmt.Sprint as raw HTML.
//
// Warning: Only use this for trusted content to avoid XSS vulnerabilities.
func (w *Writer) WithRawColumn(columnIndex int) *Writer {
	return w.WithColumnFormatter(columnIndex, SprintCellFormatter(true))
}

// WithTypeFormatter returns a new writer with a formatter registered
// for body cell content of the specified type.
// Type formatters are used when no column formatter is configured for a cell.
// If nil is passed as formatter, any previously registered formatter for this type is removed.
//
// Example:
//
//	writer := htmltable.NewWriter().
//	    WithTypeFormatter(reflect.TypeFor[json.RawMessage](), htmltable.JSONCellFormatter("  "))
func (w *Writer) WithTypeFormatter(typ reflect.Type, formatter CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = make(map[reflect.Type]CellFormatter)
	for key, val := range w.typeFormatters {
		mod.typeFormatters[key] = val
	}
	if formatter != nil {
		mod.typeFormatters[typ] = formatter
	} else {
		delete(mod.typeFormatters, typ)
	}
	return mod
}

// WithNilValue returns a new writer with the specified HTML to use for nil content.
// By default, nil content is rendered as empty string.
//
// Example:
//
//	writer := htmltable.NewWriter().WithNilValue(template.HTML("<em>N/A</em>"))
func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithTemplate returns a new writer with custom templates for rendering the HTML table.
// This allows complete control over the HTML structure.
//
// Parameters:
//   - tableTemplate: Template for the opening table tag and optional caption
//   - theadTemplate: Template for the header rows and the opening tbody tag
//   - rowTemplate: Template for rendering each body row
//   - footerTemplate: Template for the closing tags
//
// The templates receive TemplateContext, TheadTemplateContext,
// and RowTemplateContext respectively.
// See templates.go for the default templates and context structures.
func (w *Writer) WithTemplate(tableTemplate, theadTemplate, rowTemplate, footerTemplate *template.Template) *Writer {
	mod := w.clone()
	mod.headerTemplate = tableTemplate
	mod.theadTemplate = theadTemplate
	mod.rowTemplate = rowTemplate
	mod.footerTemplate = footerTemplate
	return mod
}

// TableClass returns the CSS class configured for the table element.
// Returns an empty string if no class is configured.
func (w *Writer) TableClass() string {
	return w.tableClass
}

// NilValue returns the HTML configured to be rendered for nil content.
// Returns an empty template.HTML if not configured.
func (w *Writer) NilValue() template.HTML {
	return w.nilValue
}
