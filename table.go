package sortable

import (
	"fmt"
	"log/slog"
)

// Table is an instance of a rendered table
// owning the sort state that is changed by clicks on header cells.
//
// Every call of Render lays out the whole table again
// from the current columns, records, and sort state.
//
// A Table is not safe for concurrent use.
type Table[R any] struct {
	columns []Column[R]
	records []R
	state   SortState
	config  *Config
}

// NewTable returns an unsorted Table for columns and records.
func NewTable[R any](columns []Column[R], records []R) *Table[R] {
	return &Table[R]{
		columns: columns,
		records: records,
		state:   Unsorted(),
		config:  DefaultConfig,
	}
}

// WithInitialSort sets the sort state of the table
// to column and direction and returns the table.
// A negative column results in an unsorted table.
// The column is validated by Render.
func (t *Table[R]) WithInitialSort(column int, direction Direction) *Table[R] {
	t.state = SortBy(column, direction)
	return t
}

// WithConfig sets the config used to normalize the columns
// and returns the table.
// A nil config will use DefaultConfig.
func (t *Table[R]) WithConfig(config *Config) *Table[R] {
	t.config = config.orDefault()
	return t
}

// Columns returns the column specification of the table.
func (t *Table[R]) Columns() []Column[R] {
	return t.columns
}

// SetColumns replaces the column specification.
// The sort state is kept.
func (t *Table[R]) SetColumns(columns []Column[R]) {
	t.columns = columns
}

// Records returns the records of the table in input order.
func (t *Table[R]) Records() []R {
	return t.records
}

// SetRecords replaces the records of the table.
// The sort state is kept.
func (t *Table[R]) SetRecords(records []R) {
	t.records = records
}

// SortState returns the current sort state.
func (t *Table[R]) SortState() SortState {
	return t.state
}

// SetSortState replaces the sort state.
// The state is validated by Render.
func (t *Table[R]) SetSortState(state SortState) {
	t.state = state
}

// ClickHeader applies a click on the header cell of the leaf column
// to the sort state: if column is the active sort column
// its direction is reversed, else column becomes
// the active sort column with ascending direction.
//
// An error is returned if the columns are invalid
// or column is not a leaf column index,
// in which case the sort state is not changed.
func (t *Table[R]) ClickHeader(column int) error {
	leaves, err := Normalize(t.columns, t.config)
	if err != nil {
		return err
	}
	if column < 0 || column >= len(leaves) {
		return fmt.Errorf("%w: clicked column %d out of bounds [0..%d)", ErrInvalidSortColumn, column, len(leaves))
	}
	t.state = t.state.Click(column)
	t.config.Logger().Debug("sort state changed", slog.Int("column", column), slog.String("state", t.state.String()))
	return nil
}

// Render lays out the header grid and the body rows
// for the current columns, records, and sort state.
//
// A malformed column specification or an invalid sort state
// fails the whole rendering and no partial Description is returned.
func (t *Table[R]) Render() (*Description, error) {
	return Describe(t.columns, t.records, t.state, t.config)
}

// Describe lays out the header grid and the body rows of a table
// with columns and records sorted by state.
// The config may be nil to use DefaultConfig.
func Describe[R any](columns []Column[R], records []R, state SortState, config *Config) (*Description, error) {
	leaves, err := Normalize(columns, config)
	if err != nil {
		return nil, err
	}
	depth := Depth(columns)
	header, numColumns, err := BuildHeaders(columns, state, depth, 0)
	if err != nil {
		return nil, err
	}
	order, err := Order(records, leaves, state)
	if err != nil {
		return nil, err
	}
	body := make([]BodyRow, len(order))
	for i, index := range order {
		record := records[index]
		cells := make([]BodyCell, len(leaves))
		for col, leaf := range leaves {
			cells[col] = BodyCell{
				Column:    col,
				Content:   leaf.Value(record),
				ClassList: leaf.ClassList(record),
				Style:     leaf.Style(record),
			}
		}
		body[i] = BodyRow{Index: index, Cells: cells}
	}
	return &Description{
		Depth:      depth,
		NumColumns: numColumns,
		Sort:       state,
		Header:     header,
		Body:       body,
	}, nil
}
