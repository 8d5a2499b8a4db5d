package sortable

import (
	"fmt"
	"reflect"
	"strings"
)

// StructFieldNaming defines how struct fields
// are mapped to column titles as used by StructColumns.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column title.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column title.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the title of fields that don't become columns
	Ignore string
	// Untagged will be called with the struct field name to
	// return a title in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
	// GroupSeparator splits a title into the titles of nested groups
	// and the title of the leaf column.
	// Example: with "/" the title "Name/First" results in
	// the leaf "First" within the group "Name".
	// An empty GroupSeparator disables grouping.
	GroupSeparator string
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: "", GroupSeparator: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v, GroupSeparator: %#v}", n.Tag, n.Ignore, n.GroupSeparator)
}

// StructFieldTitle returns the column title for a struct field.
func (n *StructFieldNaming) StructFieldTitle(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns true if title is the Ignore title.
func (n *StructFieldNaming) IsIgnored(title string) bool {
	return n != nil && n.Ignore != "" && title == n.Ignore
}

// Titles returns the titles of all not ignored exported fields
// of a struct or struct pointer type including the inlined fields
// of anonymously embedded structs.
// Group titles are not split off.
func (n *StructFieldNaming) Titles(structType reflect.Type) []string {
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	titles := make([]string, 0, structType.NumField())
	for _, field := range exportedStructFields(structType, nil) {
		if title := n.StructFieldTitle(field); !n.IsIgnored(title) {
			titles = append(titles, title)
		}
	}
	return titles
}

// splitTitle returns the group titles and the leaf title of title.
func (n *StructFieldNaming) splitTitle(title string) (groups []string, leaf string) {
	if n == nil || n.GroupSeparator == "" {
		return nil, title
	}
	parts := strings.Split(title, n.GroupSeparator)
	return parts[:len(parts)-1], parts[len(parts)-1]
}
