// Package csvtable writes sortable tables as CSV
// and reads CSV data as table records.
//
// The package handles common CSV edge cases including:
//   - Multiple character encodings (UTF-8, UTF-16LE, ISO 8859-1, Windows 1252, Macintosh)
//   - Various field separators (comma, semicolon, tab)
//   - Different line endings (\n, \r\n, \n\r)
//   - Quoted fields with embedded newlines, delimiters, and quotes
//   - Automatic format detection from CSV data
//   - Multiple header rows for grouped columns
package csvtable

import (
	"errors"
	"fmt"
)

// Format describes the encoding and structural format of a CSV file
// used for reading with ReadWithFormat and for writing
// with Writer.WithFormat.
type Format struct {
	// Encoding is the character encoding name
	// as known by github.com/domonda/go-types/charset,
	// like "UTF-8", "UTF-16LE", "ISO 8859-1", or "Windows 1252".
	Encoding string `json:"encoding" yaml:"encoding"`

	// Separator is the single character field delimiter
	Separator string `json:"separator" yaml:"separator"`

	// Newline is "\n", "\r\n", or "\n\r"
	Newline string `json:"newline" yaml:"newline"`
}

// NewFormat returns a Format with the passed separator,
// UTF-8 encoding, and "\r\n" newlines as recommended by RFC 4180.
func NewFormat(separator string) *Format {
	return &Format{
		Encoding:  "UTF-8",
		Separator: separator,
		Newline:   "\r\n",
	}
}

// Validate returns an error if the Format is nil
// or any of its fields is missing or invalid.
func (f *Format) Validate() error {
	switch {
	case f == nil:
		return errors.New("<nil> csvtable.Format")
	case f.Encoding == "":
		return errors.New("missing csvtable.Format.Encoding")
	case f.Separator == "":
		return errors.New("missing csvtable.Format.Separator")
	case len(f.Separator) > 1:
		return fmt.Errorf("invalid csvtable.Format.Separator: %q", f.Separator)
	case f.Newline == "":
		return errors.New("missing csvtable.Format.Newline")
	case f.Newline != "\n" && f.Newline != "\n\r" && f.Newline != "\r\n":
		return fmt.Errorf("invalid csvtable.Format.Newline: %q", f.Newline)
	}
	return nil
}

// FormatDetectionConfig configures the encoding detection
// of ReadDetectFormat.
type FormatDetectionConfig struct {
	// Encodings to try in priority order
	Encodings []string `json:"encodings" yaml:"encodings"`

	// EncodingTests are strings with characters that have
	// different byte representations across encodings.
	// An encoding is selected if the decoded data contains any of them.
	EncodingTests []string `json:"encodingTests" yaml:"encodingTests"`
}

// NewDefaultFormatDetectionConfig returns a FormatDetectionConfig
// for European and Cyrillic CSV files.
func NewDefaultFormatDetectionConfig() *FormatDetectionConfig {
	return &FormatDetectionConfig{
		Encodings: []string{
			"UTF-8",
			"UTF-16LE",
			"ISO 8859-1",
			"Windows 1252", // like ANSI
			"Macintosh",
		},
		EncodingTests: []string{
			"ä", "Ä", "ö", "Ö", "ü", "Ü", "ß", "§", "€",
			"д", "Д", "ъ", "Ъ", "б", "Б", "л", "Л", "и", "И", "ж",
		},
	}
}
