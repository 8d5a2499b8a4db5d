package htmltable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"

	sortable "github.com/domonda/go-sortable"
	"github.com/domonda/go-sortable/richtext"
)

var (
	HTMLPreCellFormatter CellFormatterFunc = func(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(richtext.Text(cell.Content))
		return "<pre>" + value + "</pre>", true, nil
	}

	HTMLCodeCellFormatter CellFormatterFunc = func(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(richtext.Text(cell.Content))
		return "<code>" + value + "</code>", true, nil
	}

	// ValueAsHTMLAnchorCellFormatter formats the cell content as plain text,
	// escapes it for HTML and returns an HTML anchor element with the
	// text as id and inner text.
	ValueAsHTMLAnchorCellFormatter CellFormatterFunc = func(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
		value := template.HTMLEscapeString(richtext.Text(cell.Content))
		return fmt.Sprintf("<a id='%[1]s'>%[1]s</a>", value), true, nil
	}

	_ CellFormatter = JSONCellFormatter("")
	_ CellFormatter = HTMLSpanClassCellFormatter("")
	_ CellFormatter = SprintCellFormatter(false)
)

// JSONCellFormatter formats JSON cell content indented
// with the underlying string within a pre element.
// An empty indent string results in compact JSON.
// Strings, []byte, and json.RawMessage are interpreted as JSON text,
// all other values are marshalled as JSON.
// A nil content results in an empty string.
type JSONCellFormatter string

func (indent JSONCellFormatter) FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
	var src []byte
	switch x := cell.Content.(type) {
	case nil:
		return "", false, nil
	case string:
		src = []byte(x)
	case []byte:
		src = x
	case json.RawMessage:
		src = x
	default:
		src, err = json.Marshal(x)
		if err != nil {
			return "", false, err
		}
	}
	if len(src) == 0 {
		return "", false, nil
	}
	buf := bytes.NewBufferString("<pre>")
	if indent == "" {
		err = json.Compact(buf, src)
	} else {
		err = json.Indent(buf, src, "", string(indent))
	}
	if err != nil {
		return "", false, err
	}
	buf.WriteString("</pre>")
	return buf.String(), true, nil
}

// HTMLSpanClassCellFormatter formats the cell content within an HTML span element
// with the class of the underlying string value.
type HTMLSpanClassCellFormatter string

func (class HTMLSpanClassCellFormatter) FormatCell(ctx context.Context, cell *sortable.BodyCell) (str string, raw bool, err error) {
	text := template.HTMLEscapeString(richtext.Text(cell.Content))
	return fmt.Sprintf("<span class='%s'>%s</span>", template.HTMLEscapeString(string(class)), text), true, nil
}

// SprintCellFormatter formats the cell content with fmt.Sprint.
// The underlying bool value is returned as raw result.
type SprintCellFormatter bool

func (raw SprintCellFormatter) FormatCell(ctx context.Context, cell *sortable.BodyCell) (string, bool, error) {
	if cell.Content == nil {
		return "", false, nil
	}
	return fmt.Sprint(cell.Content), bool(raw), nil
}
