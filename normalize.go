package sortable

import (
	"errors"
	"fmt"
	"slices"
)

// LeafColumn is a Leaf with all defaults filled in,
// as returned by Normalize.
type LeafColumn[R any] struct {
	// Index is the position of the column
	// in the flat left-to-right list of leaf columns.
	Index int
	// Title of the Leaf the column was created from.
	Title any
	// Value of the Leaf the column was created from.
	Value func(R) any
	// Compare is never nil.
	Compare func(a, b R) int
	// ClassList is never nil, static classes are wrapped as function.
	ClassList func(R) []string
	// Style is never nil, static styles are wrapped as function.
	Style func(R) Style
}

// Normalize flattens the column tree depth first from left to right
// into the list of leaf columns.
// Groups only contribute their leaf descendants.
//
// The returned columns are new values with defaults
// for Compare, ClassList, and Style. The passed columns are not modified.
//
// An error wrapping ErrInvalidColumn is returned for any column
// that is neither a valid group nor a valid leaf.
// The config may be nil to use DefaultConfig.
func Normalize[R any](columns []Column[R], config *Config) ([]*LeafColumn[R], error) {
	var leaves []*LeafColumn[R]
	err := normalize(columns, config.orDefault(), "columns", &leaves)
	if err != nil {
		return nil, err
	}
	return leaves, nil
}

// MustNormalize is like Normalize but panics on error.
func MustNormalize[R any](columns []Column[R], config *Config) []*LeafColumn[R] {
	leaves, err := Normalize(columns, config)
	if err != nil {
		panic(err)
	}
	return leaves
}

func normalize[R any](columns []Column[R], config *Config, path string, leaves *[]*LeafColumn[R]) error {
	for i, column := range columns {
		colPath := childPath(path, i)
		if err := checkColumn[R](column, colPath); err != nil {
			return err
		}
		switch c := column.(type) {
		case *Group[R]:
			err := normalize(c.Columns, config, colPath, leaves)
			if err != nil {
				return err
			}

		case *Leaf[R]:
			leaf, err := normalizeLeaf(c, len(*leaves), config, colPath)
			if err != nil {
				return err
			}
			*leaves = append(*leaves, leaf)
		}
	}
	return nil
}

func normalizeLeaf[R any](leaf *Leaf[R], index int, config *Config, path string) (*LeafColumn[R], error) {
	classList, err := classListFunc[R](leaf.ClassList)
	if err != nil {
		return nil, fmt.Errorf("%w: leaf %s: %w", ErrInvalidColumn, path, err)
	}
	style, err := styleFunc[R](leaf.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: leaf %s: %w", ErrInvalidColumn, path, err)
	}
	compare := leaf.Compare
	if compare == nil {
		compare = defaultCompare(leaf.Value, index, config)
	}
	return &LeafColumn[R]{
		Index:     index,
		Title:     leaf.Title,
		Value:     leaf.Value,
		Compare:   compare,
		ClassList: classList,
		Style:     style,
	}, nil
}

func classListFunc[R any](classList any) (func(R) []string, error) {
	switch x := classList.(type) {
	case nil:
		return func(R) []string { return nil }, nil
	case string:
		if x == "" {
			return func(R) []string { return nil }, nil
		}
		return func(R) []string { return []string{x} }, nil
	case []string:
		static := slices.Clone(x)
		return func(R) []string { return slices.Clone(static) }, nil
	case func(R) []string:
		if x == nil {
			return nil, errors.New("nil ClassList function")
		}
		return x, nil
	case func(R) string:
		if x == nil {
			return nil, errors.New("nil ClassList function")
		}
		return func(r R) []string {
			if class := x(r); class != "" {
				return []string{class}
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported ClassList type %T", classList)
	}
}

func styleFunc[R any](style any) (func(R) Style, error) {
	switch x := style.(type) {
	case nil:
		return func(R) Style { return Style{} }, nil
	case Style:
		static := x.Clone()
		return func(R) Style { return static.Clone() }, nil
	case map[string]string:
		static := Style(x).Clone()
		return func(R) Style { return static.Clone() }, nil
	case func(R) Style:
		if x == nil {
			return nil, errors.New("nil Style function")
		}
		return x, nil
	case func(R) map[string]string:
		if x == nil {
			return nil, errors.New("nil Style function")
		}
		return func(r R) Style { return Style(x(r)) }, nil
	default:
		return nil, fmt.Errorf("unsupported Style type %T", style)
	}
}
