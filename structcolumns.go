package sortable

import (
	"fmt"
	"reflect"
)

// StructColumns returns one Leaf column per exported field
// of the struct type R or the struct type R points to,
// titled by naming. Fields whose title is naming.Ignore are skipped.
//
// If naming has a GroupSeparator, then titles of adjacent fields
// with the same group prefix are grouped under a shared Group column.
// Example with DefaultStructFieldNaming:
//
//	type Person struct {
//	    First string `col:"Name/First"`
//	    Last  string `col:"Name/Last"`
//	    Age   int
//	}
//
// results in the group "Name" with the leaves "First" and "Last"
// followed by the leaf "Age".
//
// The Value function of a leaf returns the field value
// or nil for a nil struct pointer record.
func StructColumns[R any](naming *StructFieldNaming) ([]Column[R], error) {
	recordType := reflect.TypeFor[R]()
	structType := recordType
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record type %s is not a struct or struct pointer", ErrInvalidColumn, recordType)
	}

	var columns []Column[R]
	for _, field := range exportedStructFields(structType, nil) {
		title := naming.StructFieldTitle(field)
		if naming.IsIgnored(title) {
			continue
		}
		groups, leafTitle := naming.splitTitle(title)
		leaf := NewLeaf(leafTitle, structFieldValue[R](field.Index))
		columns = appendToGroups(columns, groups, leaf)
	}
	return columns, nil
}

// MustStructColumns is like StructColumns but panics on error.
func MustStructColumns[R any](naming *StructFieldNaming) []Column[R] {
	columns, err := StructColumns[R](naming)
	if err != nil {
		panic(err)
	}
	return columns
}

// appendToGroups appends leaf to the last column of columns
// if it is a group titled groups[0], or else to a new group.
// Deeper groups are handled recursively.
func appendToGroups[R any](columns []Column[R], groups []string, leaf Column[R]) []Column[R] {
	if len(groups) == 0 {
		return append(columns, leaf)
	}
	if n := len(columns); n > 0 {
		if last, ok := columns[n-1].(*Group[R]); ok && last.Title == groups[0] {
			last.Columns = appendToGroups(last.Columns, groups[1:], leaf)
			return columns
		}
	}
	return append(columns, NewGroup(groups[0], appendToGroups[R](nil, groups[1:], leaf)...))
}

func structFieldValue[R any](index []int) func(R) any {
	return func(record R) any {
		v := reflect.ValueOf(record)
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return nil
			}
			v = v.Elem()
		}
		return v.FieldByIndex(index).Interface()
	}
}
