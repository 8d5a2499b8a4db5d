// Package richtext converts rich (HTML) display content to plain text.
//
// The plain text is used wherever content has to be compared or written
// to a format that can't carry markup, like CSV cells or terminal tables.
package richtext

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// PlainText returns the text that content renders as
// with all markup removed, entities unescaped,
// and whitespace collapsed to single spaces.
//
// The content of script and style elements is dropped.
// Block level elements separate words like whitespace.
//
// Example:
//
//	PlainText(template.HTML("<b>Bob</b>"))           // "Bob"
//	PlainText(template.HTML("Tom &amp; <i>Jerry</i>")) // "Tom & Jerry"
func PlainText(content template.HTML) string {
	if !strings.ContainsAny(string(content), "<&") {
		return strings.Join(strings.Fields(string(content)), " ")
	}

	var (
		b         strings.Builder
		tokenizer = html.NewTokenizer(strings.NewReader(string(content)))
		skip      atom.Atom
	)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			// The tokenizer only fails with io.EOF
			// when reading from a strings.Reader
			return strings.Join(strings.Fields(b.String()), " ")

		case html.TextToken:
			if skip == 0 {
				b.Write(tokenizer.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			tag := atom.Lookup(name)
			switch {
			case tag == atom.Script || tag == atom.Style:
				skip = tag
			case isBlock(tag):
				b.WriteByte(' ')
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := atom.Lookup(name)
			if tag == skip {
				skip = 0
			} else if isBlock(tag) {
				b.WriteByte(' ')
			}
		}
	}
}

// Text returns content as plain text.
// template.HTML is converted with PlainText,
// nil results in an empty string,
// and all other values are formatted with fmt.Sprint.
func Text(content any) string {
	switch x := content.(type) {
	case nil:
		return ""
	case string:
		return x
	case template.HTML:
		return PlainText(x)
	default:
		return fmt.Sprint(content)
	}
}

// IsRich returns if content is rich display content
// that needs conversion before it can be used as plain text.
func IsRich(content any) bool {
	_, ok := content.(template.HTML)
	return ok
}

func isBlock(tag atom.Atom) bool {
	switch tag {
	case atom.Br, atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol,
		atom.Tr, atom.Td, atom.Th, atom.Table,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Hr, atom.Section, atom.Article, atom.Header, atom.Footer:
		return true
	}
	return false
}
