package csvtable

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/domonda/go-types/charset"
)

// ReadWithFormat decodes csv from format.Encoding
// and parses its rows separated by format.Separator.
// A first line like "sep=;" declaring the separator is skipped.
func ReadWithFormat(data []byte, format *Format) (rows [][]string, err error) {
	err = format.Validate()
	if err != nil {
		return nil, err
	}
	if format.Encoding == "UTF-8" {
		data = charset.TrimBOM(data, charset.BOMUTF8)
	} else {
		enc, err := charset.GetEncoding(format.Encoding)
		if err != nil {
			return nil, err
		}
		data, err = enc.Decode(data)
		if err != nil {
			return nil, err
		}
	}
	data = bytes.ToValidUTF8(data, []byte("�"))

	if sep, rest := cutSepHeaderLine(data); sep != "" {
		if sep != format.Separator {
			return nil, fmt.Errorf("separator '%s' in header line is different from format.Separator '%s'", sep, format.Separator)
		}
		data = rest
	}
	return readRows(data, format.Separator)
}

// ReadDetectFormat detects the encoding, newline, and separator of data
// and parses its rows.
//
// The encodings of config are tried in order with its EncodingTests,
// UTF-8 is used if none matches.
// The separator is taken from a first line like "sep=;"
// or else is the most frequent of comma, semicolon, and tab
// in the first line, defaulting to comma.
//
// If config is nil then NewDefaultFormatDetectionConfig is used.
func ReadDetectFormat(data []byte, config *FormatDetectionConfig) (rows [][]string, format *Format, err error) {
	if config == nil {
		config = NewDefaultFormatDetectionConfig()
	}
	format = new(Format)

	var encodings []charset.Encoding
	for _, name := range config.Encodings {
		enc, err := charset.GetEncoding(name)
		if err != nil {
			return nil, nil, err
		}
		encodings = append(encodings, enc)
	}
	data, format.Encoding, err = charset.AutoDecode(data, encodings, config.EncodingTests)
	if err != nil {
		return nil, nil, err
	}
	if format.Encoding == "" {
		format.Encoding = "UTF-8"
	}
	data = bytes.ToValidUTF8(data, []byte("�"))

	switch {
	case bytes.Contains(data, []byte("\r\n")):
		format.Newline = "\r\n"
	case bytes.Contains(data, []byte("\n\r")):
		format.Newline = "\n\r"
	default:
		format.Newline = "\n"
	}

	sep, rest := cutSepHeaderLine(data)
	if sep != "" {
		data = rest
	} else {
		sep = detectSeparator(data)
	}
	format.Separator = sep

	rows, err = readRows(data, sep)
	if err != nil {
		return nil, nil, err
	}
	return rows, format, nil
}

// RecordsFromRows returns one record per row after the first row
// mapping the titles of the first row to the fields of the row.
// Missing fields are nil.
func RecordsFromRows(rows [][]string) (records []map[string]any, err error) {
	rows = RemoveEmptyRows(rows)
	if len(rows) == 0 {
		return nil, nil
	}
	header := rows[0]
	for i, title := range header {
		if title == "" {
			return nil, fmt.Errorf("empty title of CSV column %d", i)
		}
	}
	records = make([]map[string]any, len(rows)-1)
	for i, row := range rows[1:] {
		record := make(map[string]any, len(header))
		for col, title := range header {
			if col < len(row) {
				record[title] = row[col]
			} else {
				record[title] = nil
			}
		}
		records[i] = record
	}
	return records, nil
}

// RemoveEmptyRows returns rows without the rows
// that have only empty fields.
func RemoveEmptyRows(rows [][]string) [][]string {
	nonEmpty := rows[:0:0]
	for _, row := range rows {
		if strings.Join(row, "") != "" {
			nonEmpty = append(nonEmpty, row)
		}
	}
	return nonEmpty
}

func readRows(data []byte, separator string) ([][]string, error) {
	comma, size := utf8.DecodeRuneInString(separator)
	if size != len(separator) {
		return nil, fmt.Errorf("invalid separator: %q", separator)
	}
	// encoding/csv only knows \n and \r\n line endings
	data = bytes.ReplaceAll(data, []byte("\n\r"), []byte("\n"))
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid CSV in line %d: %w", parseErr.Line, parseErr.Err)
		}
		return nil, err
	}
	return rows, nil
}

// cutSepHeaderLine returns the separator of a first line like "sep=;"
// and the data after that line.
func cutSepHeaderLine(data []byte) (sep string, rest []byte) {
	line, rest, _ := bytes.Cut(data, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > 2 && line[0] == '"' && line[len(line)-1] == '"' {
		line = line[1 : len(line)-1]
	}
	if len(line) != 5 {
		return "", data
	}
	if !bytes.HasPrefix(line, []byte("sep=")) && !bytes.HasPrefix(line, []byte("SEP=")) {
		return "", data
	}
	return string(line[4:5]), bytes.TrimPrefix(rest, []byte("\r"))
}

func detectSeparator(data []byte) string {
	line, _, _ := bytes.Cut(data, []byte("\n"))
	best, bestCount := ",", 0
	for _, sep := range []string{",", ";", "\t"} {
		if count := bytes.Count(line, []byte(sep)); count > bestCount {
			best, bestCount = sep, count
		}
	}
	return best
}
