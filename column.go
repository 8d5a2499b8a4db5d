// Package sortable lays out records as a table with a possibly
// multi-level header and columns that can be sorted by clicking
// on their header cell.
//
// A table is specified by a tree of columns:
// Group columns only provide a shared header for their child columns,
// Leaf columns extract the displayed content from a record.
// Content is plain text (string), rich content (template.HTML),
// or any other value that will be formatted by the rendering substrate.
//
// Example:
//
//	type Person struct {
//	    First, Last string
//	    Age         int
//	}
//
//	columns := []sortable.Column[Person]{
//	    sortable.NewGroup("Name",
//	        sortable.NewLeaf("First", func(p Person) any { return p.First }),
//	        sortable.NewLeaf("Last", func(p Person) any { return p.Last }),
//	    ),
//	    sortable.NewLeaf("Age", func(p Person) any { return p.Age }),
//	}
//	table := sortable.NewTable(columns, people)
//	desc, err := table.Render()
package sortable

import (
	"fmt"

	"github.com/domonda/go-sortable/richtext"
)

// Column is a node of a column specification tree.
//
// The interface is sealed, the only implementations
// are *Group and *Leaf.
type Column[R any] interface {
	// ColumnTitle returns the content of the column header cell.
	ColumnTitle() any

	column()
}

var (
	_ Column[any] = (*Group[any])(nil)
	_ Column[any] = (*Leaf[any])(nil)
)

// Group is a column that groups its child columns
// under a shared header cell.
// It contributes no body cells.
type Group[R any] struct {
	// Title is plain text, template.HTML, or any other displayable value.
	Title any
	// Columns are the child columns from left to right.
	Columns []Column[R]
}

// NewGroup returns a Group with the passed title and child columns.
func NewGroup[R any](title any, columns ...Column[R]) *Group[R] {
	return &Group[R]{Title: title, Columns: columns}
}

func (g *Group[R]) ColumnTitle() any { return g.Title }

func (*Group[R]) column() {}

func (g *Group[R]) String() string {
	return fmt.Sprintf("Group(%q, %d columns)", richtext.Text(g.Title), len(g.Columns))
}

// Leaf is a data column that renders one body cell per record
// and can be used to sort the records.
type Leaf[R any] struct {
	// Title is plain text, template.HTML, or any other displayable value.
	Title any

	// Value returns the content of the column's body cell for a record.
	// Required.
	Value func(R) any

	// Compare is a total order over records for this column
	// returning a negative number if a sorts before b,
	// a positive number if a sorts after b, and zero if they are equal.
	// If nil, the values returned by Value will be compared.
	Compare func(a, b R) int

	// ClassList sets the CSS classes of the column's body cells.
	// Supported types:
	//   - nil for no classes
	//   - string for a single class
	//   - []string for a static list
	//   - func(R) []string or func(R) string for record dependent classes
	ClassList any

	// Style sets the inline style of the column's body cells.
	// Supported types:
	//   - nil for no style
	//   - Style or map[string]string for a static style
	//   - func(R) Style or func(R) map[string]string for record dependent styles
	Style any
}

// NewLeaf returns a Leaf with the passed title and value function.
func NewLeaf[R any](title any, value func(R) any) *Leaf[R] {
	return &Leaf[R]{Title: title, Value: value}
}

func (l *Leaf[R]) ColumnTitle() any { return l.Title }

func (*Leaf[R]) column() {}

func (l *Leaf[R]) String() string {
	return fmt.Sprintf("Leaf(%q)", richtext.Text(l.Title))
}

func (l *Leaf[R]) clone() *Leaf[R] {
	c := new(Leaf[R])
	*c = *l
	return c
}

// WithCompare returns a copy of the Leaf using compare to sort records.
func (l *Leaf[R]) WithCompare(compare func(a, b R) int) *Leaf[R] {
	mod := l.clone()
	mod.Compare = compare
	return mod
}

// WithClassList returns a copy of the Leaf with the passed classList.
// See Leaf.ClassList for the supported types.
func (l *Leaf[R]) WithClassList(classList any) *Leaf[R] {
	mod := l.clone()
	mod.ClassList = classList
	return mod
}

// WithStyle returns a copy of the Leaf with the passed style.
// See Leaf.Style for the supported types.
func (l *Leaf[R]) WithStyle(style any) *Leaf[R] {
	mod := l.clone()
	mod.Style = style
	return mod
}

// checkColumn returns an error wrapping ErrInvalidColumn
// if column is neither a usable group nor a usable leaf.
// path describes the position of the column in the tree.
func checkColumn[R any](column Column[R], path string) error {
	switch c := column.(type) {
	case *Group[R]:
		if c == nil {
			return fmt.Errorf("%w: nil group at %s", ErrInvalidColumn, path)
		}
		if len(c.Columns) == 0 {
			return fmt.Errorf("%w: group %q at %s has no columns", ErrInvalidColumn, richtext.Text(c.Title), path)
		}
	case *Leaf[R]:
		if c == nil {
			return fmt.Errorf("%w: nil leaf at %s", ErrInvalidColumn, path)
		}
		if c.Value == nil {
			return fmt.Errorf("%w: leaf %q at %s has no Value function", ErrInvalidColumn, richtext.Text(c.Title), path)
		}
	case nil:
		return fmt.Errorf("%w: nil column at %s", ErrInvalidColumn, path)
	default:
		// A *Group or *Leaf of another record type
		// also satisfies the method set of Column[R]
		return fmt.Errorf("%w: %T at %s is neither a group nor a leaf", ErrInvalidColumn, column, path)
	}
	return nil
}

func childPath(path string, index int) string {
	return fmt.Sprintf("%s[%d]", path, index)
}
