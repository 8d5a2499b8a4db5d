package colspec

import (
	"fmt"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	sortable "github.com/domonda/go-sortable"
)

// Lookup returns the value at the dotted path in record
// or nil if there is none.
//
// A key of record that equals the whole path takes precedence,
// so field names containing dots can be looked up.
// Path elements index nested maps
// or, as decimal numbers, []any slices.
func Lookup(record Record, path string) any {
	if v, ok := record[path]; ok {
		return v
	}
	var current any = record
	for elem := range strings.SplitSeq(path, ".") {
		switch x := current.(type) {
		case map[string]any:
			current = x[elem]
		case []any:
			i, err := strconv.Atoi(elem)
			if err != nil || i < 0 || i >= len(x) {
				return nil
			}
			current = x[i]
		default:
			return nil
		}
	}
	return current
}

// TableColumns builds the sortable columns declared by the Spec.
//
// config is used for comparing the unformatted values
// of formatted columns and for logging template execution errors.
// It may be nil.
func (s *Spec) TableColumns(config *sortable.Config) ([]sortable.Column[Record], error) {
	if len(s.Columns) == 0 {
		return nil, fmt.Errorf("%w: spec has no columns", sortable.ErrInvalidColumn)
	}
	return buildColumns(s.Columns, config, "columns")
}

func buildColumns(specs []*Column, config *sortable.Config, path string) ([]sortable.Column[Record], error) {
	columns := make([]sortable.Column[Record], len(specs))
	for i, spec := range specs {
		colPath := fmt.Sprintf("%s[%d]", path, i)
		if spec == nil {
			return nil, fmt.Errorf("%w: empty column at %s", sortable.ErrInvalidColumn, colPath)
		}
		column, err := spec.build(config, colPath)
		if err != nil {
			return nil, err
		}
		columns[i] = column
	}
	return columns, nil
}

func (c *Column) title() any {
	switch {
	case c.TitleHTML != "":
		return template.HTML(c.TitleHTML)
	case c.Title != "":
		return c.Title
	}
	return c.Field
}

func (c *Column) build(config *sortable.Config, path string) (sortable.Column[Record], error) {
	if len(c.Columns) > 0 {
		if c.Field != "" || c.Type != "" || c.Format != "" || c.Template != "" || len(c.Class) > 0 || c.ClassField != "" || len(c.Style) > 0 {
			return nil, fmt.Errorf("%w: group %s can only have a title and columns", sortable.ErrInvalidColumn, path)
		}
		children, err := buildColumns(c.Columns, config, path+".columns")
		if err != nil {
			return nil, err
		}
		return sortable.NewGroup(c.title(), children...), nil
	}

	if c.Field == "" && c.Template == "" {
		return nil, fmt.Errorf("%w: column %s needs a field or a template", sortable.ErrInvalidColumn, path)
	}
	if c.Format != "" && c.Template != "" {
		return nil, fmt.Errorf("%w: column %s can't have a format and a template", sortable.ErrInvalidColumn, path)
	}
	if !c.Type.Valid() {
		return nil, fmt.Errorf("%w: column %s has invalid type %q", sortable.ErrInvalidColumn, path, c.Type)
	}
	if c.Type != TypeAuto && c.Field == "" {
		return nil, fmt.Errorf("%w: column %s needs a field for type %q", sortable.ErrInvalidColumn, path, c.Type)
	}
	fieldValue := fieldFunc(c.Field, c.Type, config)

	var leaf *sortable.Leaf[Record]
	switch {
	case c.Template != "":
		tmpl, err := template.New(path).Parse(c.Template)
		if err != nil {
			return nil, fmt.Errorf("%w: column %s: %w", sortable.ErrInvalidColumn, path, err)
		}
		leaf = sortable.NewLeaf(c.title(), templateValue(tmpl, config))

	case c.Format != "":
		format := c.Format
		leaf = sortable.NewLeaf(c.title(), func(r Record) any {
			v := fieldValue(r)
			if v == nil {
				return nil
			}
			return fmt.Sprintf(format, v)
		})

	default:
		leaf = sortable.NewLeaf(c.title(), fieldValue)
	}

	if c.Field != "" && (c.Format != "" || c.Template != "") {
		leaf = leaf.WithCompare(fieldCompare(c.Field, fieldValue, config))
	}
	if c.ClassField != "" {
		static, classField := []string(c.Class), c.ClassField
		leaf = leaf.WithClassList(func(r Record) []string {
			classes := append([]string(nil), static...)
			if v, ok := Lookup(r, classField).(string); ok {
				classes = append(classes, strings.Fields(v)...)
			}
			return classes
		})
	} else if len(c.Class) > 0 {
		leaf = leaf.WithClassList([]string(c.Class))
	}
	if len(c.Style) > 0 {
		leaf = leaf.WithStyle(sortable.Style(c.Style).Clone())
	}
	return leaf, nil
}

// fieldFunc returns a function looking up field in a record
// that parses string values as typ with DefaultStringParser.
// Strings that can't be parsed are returned unchanged.
func fieldFunc(field string, typ FieldType, config *sortable.Config) func(Record) any {
	if typ == TypeAuto {
		return func(r Record) any { return Lookup(r, field) }
	}
	return func(r Record) any {
		v := Lookup(r, field)
		str, ok := v.(string)
		if !ok {
			return v
		}
		parsed, err := DefaultStringParser.Parse(str, typ)
		if err != nil {
			config.Logger().Debug(
				"field value not parsed",
				slog.String("field", field),
				slog.String("type", string(typ)),
				slog.Any("error", err),
			)
			return str
		}
		return parsed
	}
}

// fieldCompare compares records by their unformatted field value.
func fieldCompare(field string, value func(Record) any, config *sortable.Config) func(a, b Record) int {
	return func(a, b Record) int {
		x, y := value(a), value(b)
		result, ok := config.CompareValues(x, y)
		if !ok {
			config.Logger().Warn(
				"incomparable field values treated as equal",
				slog.String("field", field),
				slog.Any("a", x),
				slog.Any("b", y),
			)
		}
		return result
	}
}

func templateValue(tmpl *template.Template, config *sortable.Config) func(Record) any {
	return func(r Record) any {
		var b strings.Builder
		err := tmpl.Execute(&b, r)
		if err != nil {
			config.Logger().Warn(
				"executing column template",
				slog.String("column", tmpl.Name()),
				slog.Any("error", err),
			)
			return nil
		}
		return template.HTML(b.String())
	}
}
