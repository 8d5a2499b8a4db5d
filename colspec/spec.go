// Package colspec declares the columns of a sortable table
// for map records, like decoded JSON objects or SQL result rows,
// in YAML.
//
// Example:
//
//	caption: People
//	locale: de
//	sort: "2:desc"
//	columns:
//	  - title: Name
//	    columns:
//	      - title: First
//	        field: name.first
//	      - title_html: <i>Last</i>
//	        field: name.last
//	  - title: Age
//	    field: age
//	    format: "%v years"
//	    class: number
//	    style: {text-align: right}
//	  - title: Profile
//	    template: <a href="/people/{{.id}}">{{.name.first}}</a>
package colspec

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	sortable "github.com/domonda/go-sortable"
)

// Record is the record type of tables declared by a Spec.
type Record = map[string]any

// Spec declares a table
type Spec struct {
	// Caption of the table
	Caption string `yaml:"caption,omitempty"`
	// Locale is a BCP 47 language tag for collating strings.
	// Strings are compared by their bytes if empty.
	Locale string `yaml:"locale,omitempty"`
	// Sort is the initial sort state like "2:desc",
	// see sortable.ParseSortState.
	Sort string `yaml:"sort,omitempty"`
	// Columns from left to right
	Columns []*Column `yaml:"columns"`
}

// Column declares a group column if it has child Columns,
// else a leaf column.
type Column struct {
	// Title is the plain text header title.
	Title string `yaml:"title,omitempty"`
	// TitleHTML is a rich header title used instead of Title.
	TitleHTML string `yaml:"title_html,omitempty"`

	// Field is the dotted path of the displayed record value,
	// see Lookup.
	Field string `yaml:"field,omitempty"`
	// Type parses string Field values before they are
	// displayed and compared, see FieldType.
	Type FieldType `yaml:"type,omitempty"`
	// Format is a fmt.Sprintf format for the Field value.
	// A formatted column is still sorted by the unformatted value.
	Format string `yaml:"format,omitempty"`
	// Template is an html/template executed with the record as data
	// producing rich content. Sorted by the Field value if set,
	// else by the plain text of the content.
	Template string `yaml:"template,omitempty"`
	// Class is a space separated string or a list of CSS classes.
	Class ClassList `yaml:"class,omitempty"`
	// ClassField is the dotted path of a record value
	// holding additional space separated classes.
	ClassField string `yaml:"class_field,omitempty"`
	// Style are inline CSS properties of the body cells.
	Style map[string]string `yaml:"style,omitempty"`

	// Columns are the child columns of a group.
	Columns []*Column `yaml:"columns,omitempty"`
}

// ClassList is a list of CSS classes that is unmarshalled
// from a YAML sequence or a space separated string.
type ClassList []string

func (l *ClassList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = strings.Fields(node.Value)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*l = list
		return nil
	}
	return fmt.Errorf("line %d: class must be a string or a list of strings", node.Line)
}

// Parse parses a YAML Spec.
// Unknown keys are an error.
func Parse(data []byte) (*Spec, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	spec := new(Spec)
	if err := dec.Decode(spec); err != nil {
		return nil, fmt.Errorf("parsing column spec: %w", err)
	}
	return spec, nil
}

// Auto returns a Spec with one leaf column per field name
// titled with the name.
func Auto(fields []string) *Spec {
	spec := &Spec{Columns: make([]*Column, len(fields))}
	for i, field := range fields {
		spec.Columns[i] = &Column{Title: field, Field: field}
	}
	return spec
}

// Marshal returns the Spec as YAML.
func (s *Spec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// SortState parses Sort.
func (s *Spec) SortState() (sortable.SortState, error) {
	return sortable.ParseSortState(s.Sort)
}

// Config returns base with the Locale of the Spec applied.
// base may be nil.
func (s *Spec) Config(base *sortable.Config) (*sortable.Config, error) {
	if s.Locale == "" {
		return base, nil
	}
	locale, err := language.Parse(s.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", s.Locale, err)
	}
	return base.WithLocale(locale), nil
}

// Validate checks that every column can be built.
func (s *Spec) Validate() error {
	_, err := s.TableColumns(nil)
	if err != nil {
		return err
	}
	if _, err = s.SortState(); err != nil {
		return err
	}
	_, err = s.Config(nil)
	return err
}
