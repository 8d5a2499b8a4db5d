package sortable

import (
	"fmt"
	"strconv"
	"strings"
)

// NoColumn is the SortState.Column of an unsorted table.
const NoColumn = -1

// Direction of sorting
type Direction int

const (
	// Descending sorts from the greatest to the least value
	Descending Direction = -1
	// Ascending sorts from the least to the greatest value
	Ascending Direction = 1
)

// ParseDirection parses "asc", "ascending", "desc", or "descending"
// case insensitive. An empty string results in Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return 0, fmt.Errorf("%w: invalid direction %q", ErrInvalidSortState, s)
}

// Valid returns true for Ascending and Descending.
func (d Direction) Valid() bool {
	return d == Ascending || d == Descending
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// String implements the fmt.Stringer interface.
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// SortIndicator describes how a header cell shows the sort state
// of its column.
type SortIndicator string

const (
	// SortNone is the indicator of a sortable column
	// that is currently not sorted
	SortNone SortIndicator = "none"
	// SortAscending is the indicator of the column
	// that sorts the table ascending
	SortAscending SortIndicator = "ascending"
	// SortDescending is the indicator of the column
	// that sorts the table descending
	SortDescending SortIndicator = "descending"
)

// SortState is the active sort column of a table and the sort direction.
// Column is NoColumn if the records are shown in their input order.
//
// SortState is a value type, the transitions
// Click and Reverse return the new state.
// Note that the zero value has no valid Direction,
// use Unsorted or SortBy to create a SortState.
type SortState struct {
	// Column is the index of the active leaf column or NoColumn
	Column    int
	Direction Direction
}

// Unsorted returns the SortState that keeps records in input order.
func Unsorted() SortState {
	return SortState{Column: NoColumn, Direction: Ascending}
}

// SortBy returns a SortState sorting by column in direction.
// An invalid direction is replaced with Ascending
// and a negative column results in Unsorted.
func SortBy(column int, direction Direction) SortState {
	if column < 0 {
		return Unsorted()
	}
	if !direction.Valid() {
		direction = Ascending
	}
	return SortState{Column: column, Direction: direction}
}

// ParseSortState parses the text representation
// returned by SortState.String.
// An empty string results in Unsorted.
func ParseSortState(s string) (SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unsorted(), nil
	}
	colStr, dirStr, _ := strings.Cut(s, ":")
	column, err := strconv.Atoi(colStr)
	if err != nil || column < 0 {
		return Unsorted(), fmt.Errorf("%w: invalid column in %q", ErrInvalidSortState, s)
	}
	direction, err := ParseDirection(dirStr)
	if err != nil {
		return Unsorted(), err
	}
	return SortState{Column: column, Direction: direction}, nil
}

// IsActive returns true if the state sorts by a column.
func (s SortState) IsActive() bool {
	return s.Column >= 0
}

// Click returns the state after the header cell of column was clicked.
// If column is already active, then the direction is reversed,
// else column becomes the active column sorting ascending.
func (s SortState) Click(column int) SortState {
	if s.IsActive() && s.Column == column {
		return s.Reverse()
	}
	return SortBy(column, Ascending)
}

// Reverse returns the state with the direction reversed.
// An inactive state is returned unchanged.
func (s SortState) Reverse() SortState {
	if !s.IsActive() {
		return s
	}
	return SortState{Column: s.Column, Direction: s.Direction.Reverse()}
}

// Indicator returns how the header cell of column shows the state.
func (s SortState) Indicator(column int) SortIndicator {
	if !s.IsActive() || s.Column != column {
		return SortNone
	}
	if s.Direction == Descending {
		return SortDescending
	}
	return SortAscending
}

// Validate returns an error if the state is active
// with a column outside of the range [0..numColumns)
// or has an invalid direction.
func (s SortState) Validate(numColumns int) error {
	if !s.IsActive() {
		return nil
	}
	if s.Column >= numColumns {
		return fmt.Errorf("%w: column %d out of bounds [0..%d)", ErrInvalidSortColumn, s.Column, numColumns)
	}
	if !s.Direction.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidSortState, s.Direction)
	}
	return nil
}

// String returns an empty string for an inactive state
// or the column index and direction like "2:asc" or "2:desc".
func (s SortState) String() string {
	switch {
	case !s.IsActive():
		return ""
	case s.Direction == Descending:
		return strconv.Itoa(s.Column) + ":desc"
	default:
		return strconv.Itoa(s.Column) + ":asc"
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s SortState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *SortState) UnmarshalText(text []byte) error {
	parsed, err := ParseSortState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
