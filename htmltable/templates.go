package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	TheadTemplate = template.Must(template.New("thead").Parse("" +
		"  <thead>\n" +
		"{{range $row := .Rows}}" +
		"    <tr>{{range $cell := $row}}" +
		"<th" +
		"{{if gt $cell.ColSpan 1}} colspan='{{$cell.ColSpan}}'{{end}}" +
		"{{if gt $cell.RowSpan 1}} rowspan='{{$cell.RowSpan}}'{{end}}" +
		"{{if $cell.Class}} class='{{$cell.Class}}'{{end}}" +
		"{{if $cell.Sortable}} aria-sort='{{$cell.AriaSort}}'{{end}}" +
		">" +
		"{{if $cell.Href}}<a href='{{$cell.Href}}'>{{$cell.Content}}</a>{{else}}{{$cell.Content}}{{end}}" +
		"</th>{{end}}</tr>\n" +
		"{{end}}" +
		"  </thead>\n" +
		"  <tbody>\n",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"    <tr>{{range $cell := .Cells}}" +
		"<td" +
		"{{if $cell.Class}} class='{{$cell.Class}}'{{end}}" +
		"{{if $cell.Style}} style='{{$cell.Style}}'{{end}}" +
		">{{$cell.Content}}</td>{{end}}</tr>\n",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"  </tbody>\n" +
			"</table>",
	))
)

// TemplateContext is passed to the header and footer templates.
type TemplateContext struct {
	TableClass string
	Caption    string
}

// TheadTemplateContext is passed to the thead template.
type TheadTemplateContext struct {
	TemplateContext

	Rows [][]HeaderCellContext
}

// HeaderCellContext describes a th element.
type HeaderCellContext struct {
	Content  template.HTML
	ColSpan  int
	RowSpan  int
	Class    string
	Sortable bool
	// AriaSort is "none", "ascending", or "descending"
	AriaSort string
	// Href links to the table sorted after a click on the cell,
	// empty if no link should be rendered
	Href string
}

// RowTemplateContext is passed to the row template
// for every body row.
type RowTemplateContext struct {
	TemplateContext

	// RowIndex is the display position of the row
	RowIndex int
	// RecordIndex is the index of the record in the input records
	RecordIndex int
	Cells       []BodyCellContext
}

// BodyCellContext describes a td element.
type BodyCellContext struct {
	Content template.HTML
	Class   string
	Style   template.CSS
}
