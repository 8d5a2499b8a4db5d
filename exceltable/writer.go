// Package exceltable writes sortable tables as Excel files
// and reads Excel sheets as table records
// using github.com/xuri/excelize/v2.
//
// Header cells of grouped columns are merged over the cells they span,
// so an Excel sheet shows the same multi row header as an HTML table.
package exceltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/richtext"
)

// SheetName is the name of the sheet written by Writer
const SheetName = "Sheet1"

// Writer writes a sortable.Description as Excel file.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
type Writer struct {
	ascending    string
	descending   string
	freezeHeader bool
	headerStyle  *excelize.Style
}

// NewWriter returns a Writer with bold centered header cells
// and frozen header rows that appends "▲" or "▼"
// to the header title of the active sort column.
func NewWriter() *Writer {
	return &Writer{
		ascending:    "▲",
		descending:   "▼",
		freezeHeader: true,
		headerStyle: &excelize.Style{
			Font:      &excelize.Font{Bold: true},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
	}
}

// WriteTable renders table with its current sort state
// and writes it as Excel file to dest.
func WriteTable[R any](ctx context.Context, w *Writer, dest io.Writer, table *sortable.Table[R], caption ...string) error {
	desc, err := table.Render()
	if err != nil {
		return err
	}
	return w.Write(ctx, dest, desc, caption...)
}

// Write writes desc as Excel file with a single sheet named SheetName to dest.
//
// A non empty caption is written in the first row
// merged over all columns followed by the header rows and the body rows.
// Numbers, bools, and time.Time content is written as native Excel values,
// rich content as plain text, nil content as empty cell.
func (w *Writer) Write(ctx context.Context, dest io.Writer, desc *sortable.Description, caption ...string) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	f := excelize.NewFile()
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	err = w.writeSheet(ctx, f, desc, strings.Join(caption, " "))
	if err != nil {
		return err
	}
	return f.Write(dest)
}

func (w *Writer) writeSheet(ctx context.Context, f *excelize.File, desc *sortable.Description, caption string) error {
	styleID, err := f.NewStyle(w.headerStyle)
	if err != nil {
		return err
	}
	numCols := max(desc.NumColumns, 1)

	row := 1 // Excel rows and columns are 1 based
	if caption != "" {
		err = w.writeSpan(f, 1, row, numCols, 1, caption, styleID)
		if err != nil {
			return err
		}
		row++
	}

	headerTop := row
	written := make(map[*sortable.HeaderCell]bool)
	for r, cells := range desc.HeaderMatrix() {
		for x, cell := range cells {
			if cell == nil || written[cell] {
				continue
			}
			written[cell] = true
			err = w.writeSpan(f, x+1, headerTop+r, cell.ColSpan, cell.RowSpan, w.headerTitle(cell), styleID)
			if err != nil {
				return err
			}
		}
	}
	row = headerTop + desc.Depth

	if w.freezeHeader && desc.Depth > 0 {
		topLeft, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		err = f.SetPanes(SheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      row - 1,
			TopLeftCell: topLeft,
			ActivePane:  "bottomLeft",
		})
		if err != nil {
			return err
		}
	}

	for _, bodyRow := range desc.Body {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		for col := range bodyRow.Cells {
			value := cellValue(bodyRow.Cells[col].Content)
			if value == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			err = f.SetCellValue(SheetName, name, value)
			if err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

// writeSpan writes value with styleID to the 1 based cell at col and row
// and merges it with the cells it spans.
func (w *Writer) writeSpan(f *excelize.File, col, row, colSpan, rowSpan int, value any, styleID int) error {
	topLeft, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	bottomRight, err := excelize.CoordinatesToCellName(col+max(colSpan, 1)-1, row+max(rowSpan, 1)-1)
	if err != nil {
		return err
	}
	err = f.SetCellValue(SheetName, topLeft, value)
	if err != nil {
		return err
	}
	if topLeft != bottomRight {
		err = f.MergeCell(SheetName, topLeft, bottomRight)
		if err != nil {
			return fmt.Errorf("merging %s:%s: %w", topLeft, bottomRight, err)
		}
	}
	return f.SetCellStyle(SheetName, topLeft, bottomRight, styleID)
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

// cellValue returns content as value for excelize.File.SetCellValue
// or nil for an empty cell.
func cellValue(content any) any {
	switch x := content.(type) {
	case nil:
		return nil
	case template.HTML:
		return richtext.PlainText(x)
	case string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return x
	}
	v := reflect.ValueOf(content)
	if sortable.ValueIsNil(v) {
		return nil
	}
	if v.Kind() == reflect.Pointer {
		return cellValue(v.Elem().Interface())
	}
	return richtext.Text(content)
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithSortIndicators returns a new writer appending ascending or descending
// to the header title of the active sort column.
func (w *Writer) WithSortIndicators(ascending, descending string) *Writer {
	mod := w.clone()
	mod.ascending = ascending
	mod.descending = descending
	return mod
}

// WithFreezeHeader returns a new writer that freezes
// the caption and header rows when scrolling if freeze is true.
func (w *Writer) WithFreezeHeader(freeze bool) *Writer {
	mod := w.clone()
	mod.freezeHeader = freeze
	return mod
}

// WithHeaderStyle returns a new writer using style
// for the caption and header cells.
func (w *Writer) WithHeaderStyle(style *excelize.Style) *Writer {
	mod := w.clone()
	mod.headerStyle = style
	return mod
}
