package sortable

import (
	"fmt"

	"github.com/domonda/go-sortable/richtext"
)

// HeaderCell describes one cell of the header grid.
type HeaderCell struct {
	// Title is the content of the cell
	Title any
	// Column is the index of the leaf column for a leaf cell
	// or the index of the first leaf column below a group cell
	Column int
	// ColSpan is the number of leaf columns the cell spans horizontally
	ColSpan int
	// RowSpan is the number of header rows the cell spans vertically
	RowSpan int
	// Sortable is true for the header cells of leaf columns
	Sortable bool
	// Sort is the indicator of the current sort state for sortable cells
	// and empty for group cells
	Sort SortIndicator
	// Next is the SortState after the cell has been clicked.
	// Only valid if Sortable is true.
	Next SortState
}

// String implements the fmt.Stringer interface.
func (c *HeaderCell) String() string {
	return fmt.Sprintf("%q[col:%d colSpan:%d rowSpan:%d]", richtext.Text(c.Title), c.Column, c.ColSpan, c.RowSpan)
}

// BuildHeaders lays out the header cells of the column tree
// in totalDepth rows.
//
// A group emits its cell in row 0 spanning the columns of its leaves
// and its child headers in the rows below.
// A leaf emits its cell in row 0 spanning all totalDepth rows
// and is marked as sortable with the indicator of state
// and the state a click on the cell would result in.
//
// Leaf column indices start at columnOffset and are identical
// to the indices returned by Normalize for columnOffset 0.
// The number of leaf columns laid out is returned as consumed.
//
// totalDepth must not be less than Depth(columns).
// An error wrapping ErrInvalidColumn is returned for invalid columns,
// in which case no rows are returned.
func BuildHeaders[R any](columns []Column[R], state SortState, totalDepth, columnOffset int) (rows [][]HeaderCell, consumed int, err error) {
	if depth := Depth(columns); totalDepth < depth {
		return nil, 0, fmt.Errorf("total depth %d is less than the depth %d of the columns", totalDepth, depth)
	}
	return buildHeaders(columns, state, totalDepth, columnOffset, "columns")
}

func buildHeaders[R any](columns []Column[R], state SortState, totalDepth, columnOffset int, path string) (rows [][]HeaderCell, consumed int, err error) {
	rows = make([][]HeaderCell, totalDepth)
	col := columnOffset
	for i, column := range columns {
		colPath := childPath(path, i)
		if err := checkColumn[R](column, colPath); err != nil {
			return nil, 0, err
		}
		switch c := column.(type) {
		case *Group[R]:
			childRows, n, err := buildHeaders(c.Columns, state, totalDepth-1, col, colPath)
			if err != nil {
				return nil, 0, err
			}
			rows[0] = append(rows[0], HeaderCell{
				Title:   c.Title,
				Column:  col,
				ColSpan: n,
				RowSpan: 1,
			})
			for r, childRow := range childRows {
				rows[r+1] = append(rows[r+1], childRow...)
			}
			col += n

		case *Leaf[R]:
			rows[0] = append(rows[0], HeaderCell{
				Title:    c.Title,
				Column:   col,
				ColSpan:  1,
				RowSpan:  totalDepth,
				Sortable: true,
				Sort:     state.Indicator(col),
				Next:     state.Click(col),
			})
			col++
		}
	}
	return rows, col - columnOffset, nil
}

// HeaderMatrix places the header cells of rows in a dense grid
// of len(rows) rows and numColumns columns.
// A cell spanning multiple rows or columns is referenced
// at every grid position it covers.
//
// Cells are placed like an HTML table does it:
// every cell goes to the first position of its row
// that is not already covered by a cell from a row above.
func HeaderMatrix(rows [][]HeaderCell, numColumns int) [][]*HeaderCell {
	matrix := make([][]*HeaderCell, len(rows))
	for r := range matrix {
		matrix[r] = make([]*HeaderCell, numColumns)
	}
	for r := range rows {
		x := 0
		for i := range rows[r] {
			cell := &rows[r][i]
			for x < numColumns && matrix[r][x] != nil {
				x++
			}
			for dy := 0; dy < cell.RowSpan && r+dy < len(rows); dy++ {
				for dx := 0; dx < cell.ColSpan && x+dx < numColumns; dx++ {
					matrix[r+dy][x+dx] = cell
				}
			}
			x += cell.ColSpan
		}
	}
	return matrix
}

// LeafHeaders returns the sortable header cells of rows
// indexed by their leaf column.
func LeafHeaders(rows [][]HeaderCell, numColumns int) []*HeaderCell {
	leaves := make([]*HeaderCell, numColumns)
	for r := range rows {
		for i := range rows[r] {
			cell := &rows[r][i]
			if cell.Sortable && cell.Column >= 0 && cell.Column < numColumns {
				leaves[cell.Column] = cell
			}
		}
	}
	return leaves
}
