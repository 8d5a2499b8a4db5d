package sortable

import (
	"html/template"
	"log/slog"
	"reflect"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/domonda/go-sortable/richtext"
)

var (
	// DefaultConfig is used for a nil *Config.
	// It compares strings by their bytes, converts rich content
	// with richtext.PlainText and discards diagnostic log messages.
	DefaultConfig = NewConfig()

	// DefaultStructFieldNaming provides the default StructFieldNaming
	// using "col" as title tag, ignores "-" titled fields,
	// uses SpacePascalCase for untagged fields
	// and "/" to separate group titles from column titles.
	DefaultStructFieldNaming = StructFieldNaming{
		Tag:            "col",
		Ignore:         "-",
		Untagged:       SpacePascalCase,
		GroupSeparator: "/",
	}
)

var (
	typeOfTime = reflect.TypeOf(time.Time{})
	typeOfHTML = reflect.TypeOf(template.HTML(""))
)

// TextExtractor returns the plain text representation
// of rich display content that is used for comparisons.
type TextExtractor func(content template.HTML) string

// Config holds the settings used to normalize columns
// and to compare their values.
//
// Config is immutable, all With* methods return a modified copy.
// A nil *Config is valid and behaves like DefaultConfig.
type Config struct {
	textExtractor TextExtractor
	locale        language.Tag
	collator      *collate.Collator
	logger        *slog.Logger
}

// NewConfig returns a Config comparing strings by their bytes,
// using richtext.PlainText as TextExtractor
// and discarding all log messages.
func NewConfig() *Config {
	return &Config{
		textExtractor: richtext.PlainText,
		locale:        language.Und,
		logger:        slog.New(slog.DiscardHandler),
	}
}

func (c *Config) orDefault() *Config {
	if c == nil {
		return DefaultConfig
	}
	return c
}

func (c *Config) clone() *Config {
	mod := new(Config)
	*mod = *c.orDefault()
	return mod
}

// WithLogger returns a copy of the Config logging
// diagnostics like incomparable values to logger.
// A nil logger discards all messages.
func (c *Config) WithLogger(logger *slog.Logger) *Config {
	mod := c.clone()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	mod.logger = logger
	return mod
}

// WithTextExtractor returns a copy of the Config using extractor
// to reduce rich content to plain text before comparing it.
// A nil extractor resets to richtext.PlainText.
func (c *Config) WithTextExtractor(extractor TextExtractor) *Config {
	mod := c.clone()
	if extractor == nil {
		extractor = richtext.PlainText
	}
	mod.textExtractor = extractor
	return mod
}

// WithLocale returns a copy of the Config that compares strings
// using the collation rules of locale.
// language.Und resets to comparing strings by their bytes.
//
// Note that a collator is not safe for concurrent use,
// so a Config with a locale must not be shared between goroutines.
func (c *Config) WithLocale(locale language.Tag) *Config {
	mod := c.clone()
	mod.locale = locale
	if locale == language.Und {
		mod.collator = nil
	} else {
		mod.collator = collate.New(locale)
	}
	return mod
}

// Locale returns the locale used to compare strings
// or language.Und if strings are compared by their bytes.
func (c *Config) Locale() language.Tag {
	return c.orDefault().locale
}

// Logger returns the logger for diagnostic messages.
func (c *Config) Logger() *slog.Logger {
	return c.orDefault().logger
}

// PlainText returns the plain text of content
// using the configured TextExtractor.
func (c *Config) PlainText(content template.HTML) string {
	return c.orDefault().textExtractor(content)
}
