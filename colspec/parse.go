package colspec

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FieldType names the type string field values are parsed as
// before they are displayed and compared.
// Data sources like CSV or XLSX files only provide strings,
// so numeric columns would sort lexicographically without a type.
type FieldType string

const (
	// TypeAuto keeps field values as they are
	TypeAuto FieldType = ""
	// TypeNumber parses float64 numbers, see StringParser.ParseFloat
	TypeNumber FieldType = "number"
	// TypeInt parses int64 numbers
	TypeInt FieldType = "int"
	// TypeBool parses bools, see StringParser.ParseBool
	TypeBool FieldType = "bool"
	// TypeTime parses time.Time, see StringParser.ParseTime
	TypeTime FieldType = "time"
	// TypeDuration parses time.Duration like "1h30m"
	TypeDuration FieldType = "duration"
)

// Valid returns true if t is one of the defined field types.
func (t FieldType) Valid() bool {
	switch t {
	case TypeAuto, TypeNumber, TypeInt, TypeBool, TypeTime, TypeDuration:
		return true
	}
	return false
}

// StringParser parses string field values as FieldType.
type StringParser struct {
	// TrueStrings are parsed as true
	TrueStrings []string `yaml:"true_strings"`
	// FalseStrings are parsed as false
	FalseStrings []string `yaml:"false_strings"`
	// NilStrings are parsed as nil for every FieldType
	NilStrings []string `yaml:"nil_strings"`
	// TimeFormats are tried in order by ParseTime
	TimeFormats []string `yaml:"time_formats"`
}

// DefaultStringParser is used by columns with a FieldType
var DefaultStringParser = NewStringParser()

// NewStringParser returns a StringParser that knows
// "true", "yes", "1" and "false", "no", "0" in lower, title, and upper case
// as bools, "", "null", and "NULL" as nil,
// and the ISO, RFC, SQL, and German time formats.
func NewStringParser() *StringParser {
	return &StringParser{
		TrueStrings:  []string{"true", "True", "TRUE", "yes", "Yes", "YES", "1"},
		FalseStrings: []string{"false", "False", "FALSE", "no", "No", "NO", "0"},
		NilStrings:   []string{"", "null", "NULL"},
		TimeFormats:  slices.Clone(timeFormats),
	}
}

// Parse returns str parsed as typ.
// Strings with only whitespace and NilStrings result in nil,
// TypeAuto returns str unchanged.
func (p *StringParser) Parse(str string, typ FieldType) (any, error) {
	if typ == TypeAuto {
		return str, nil
	}
	str = strings.TrimSpace(str)
	if slices.Contains(p.NilStrings, str) || str == "" {
		return nil, nil
	}
	switch typ {
	case TypeNumber:
		return p.ParseFloat(str)
	case TypeInt:
		return strconv.ParseInt(str, 10, 64)
	case TypeBool:
		return p.ParseBool(str)
	case TypeTime:
		return p.ParseTime(str)
	case TypeDuration:
		return time.ParseDuration(str)
	}
	return nil, fmt.Errorf("invalid field type %q", typ)
}

// ParseFloat parses "3.14" and a single comma as decimal separator like "3,14".
func (p *StringParser) ParseFloat(str string) (float64, error) {
	f, err := strconv.ParseFloat(str, 64)
	if err == nil {
		return f, nil
	}
	if strings.Count(str, ",") == 1 && !strings.Contains(str, ".") {
		if f, e := strconv.ParseFloat(strings.Replace(str, ",", ".", 1), 64); e == nil {
			return f, nil
		}
	}
	return 0, err
}

// ParseBool parses TrueStrings and FalseStrings.
func (p *StringParser) ParseBool(str string) (bool, error) {
	switch {
	case slices.Contains(p.TrueStrings, str):
		return true, nil
	case slices.Contains(p.FalseStrings, str):
		return false, nil
	}
	return false, fmt.Errorf("cannot parse %q as bool", str)
}

// ParseTime tries the TimeFormats in order.
func (p *StringParser) ParseTime(str string) (time.Time, error) {
	for _, format := range p.TimeFormats {
		t, err := time.Parse(format, str)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", str)
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04", // HTML datetime-local input
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.UnixDate,
	time.ANSIC,
	time.DateTime,
	"2006-01-02 15:04",
	time.DateOnly,
	"02.01.2006 15:04:05",
	"02.01.2006",
}
