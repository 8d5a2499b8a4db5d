package sortable

import (
	"maps"
	"slices"
	"strings"
)

// Style holds inline CSS properties of a body cell
// mapped from property name to value.
type Style map[string]string

// String returns the properties sorted by name
// in the syntax of an HTML style attribute
// like "color: red; text-align: right".
// An empty or nil Style results in an empty string.
func (s Style) String() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for i, name := range slices.Sorted(maps.Keys(s)) {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(s[name])
	}
	return b.String()
}

// Clone returns a copy of the Style.
// The clone of a nil Style is an empty non-nil Style.
func (s Style) Clone() Style {
	c := make(Style, len(s))
	maps.Copy(c, s)
	return c
}
