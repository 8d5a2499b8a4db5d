package sortable

import "errors"

var (
	// ErrInvalidColumn is wrapped by all configuration errors
	// of a column specification.
	// Such errors are programming mistakes in the specification
	// and not caused by the table data.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrInvalidSortColumn is returned when a SortState references
	// a column that is not a leaf column index of the table.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrInvalidSortState is returned when parsing
	// the text representation of a SortState fails.
	ErrInvalidSortState = errors.New("invalid sort state")
)
