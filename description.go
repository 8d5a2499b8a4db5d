package sortable

import "github.com/domonda/go-sortable/richtext"

// Description is the complete layout of a rendered table
// to be painted by a rendering substrate like an HTML or text writer.
type Description struct {
	// Depth is the number of header rows
	Depth int
	// NumColumns is the number of leaf columns
	NumColumns int
	// Sort is the sort state the body rows are ordered by
	Sort SortState
	// Header has Depth rows of header cells.
	// Cells spanning multiple rows are only contained
	// in the first row they cover.
	Header [][]HeaderCell
	// Body has one row per record in display order
	Body []BodyRow
}

// BodyRow is a row of body cells for one record.
type BodyRow struct {
	// Index of the record in the input records,
	// usable as stable key of the row.
	Index int
	// Cells has one cell per leaf column
	Cells []BodyCell
}

// BodyCell is the cell of a record in a leaf column.
type BodyCell struct {
	// Column is the index of the leaf column
	Column int
	// Content returned by the Value function of the column
	Content any
	// ClassList are the CSS classes of the cell
	ClassList []string
	// Style is the inline style of the cell
	Style Style
}

// HeaderMatrix returns the header cells in a dense grid
// of Depth rows and NumColumns columns.
// See the HeaderMatrix function.
func (d *Description) HeaderMatrix() [][]*HeaderCell {
	return HeaderMatrix(d.Header, d.NumColumns)
}

// LeafHeaders returns the sortable header cells
// indexed by their leaf column.
func (d *Description) LeafHeaders() []*HeaderCell {
	return LeafHeaders(d.Header, d.NumColumns)
}

// LeafTitles returns the titles of the leaf columns as plain text.
func (d *Description) LeafTitles() []string {
	leaves := d.LeafHeaders()
	titles := make([]string, len(leaves))
	for i, cell := range leaves {
		if cell != nil {
			titles[i] = richtext.Text(cell.Title)
		}
	}
	return titles
}

// RecordOrder returns the input indices of the records
// in display order.
func (d *Description) RecordOrder() []int {
	order := make([]int, len(d.Body))
	for i, row := range d.Body {
		order[i] = row.Index
	}
	return order
}
