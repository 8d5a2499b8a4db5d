package sortable

import (
	"cmp"
	"html/template"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"time"
)

// CompareValues compares two cell values and returns -1, 0, or +1.
//
// Rich content of type template.HTML is reduced to plain text
// with the configured TextExtractor before comparing.
// Non nil pointers are dereferenced.
//
// Supported orders:
//   - numbers of any integer or float kind are compared numerically
//   - strings lexicographically or by the collation rules of the configured locale
//   - bools with false before true
//   - time.Time chronologically
//   - values of the same comparable type are equal if they are ==
//   - two nil values are equal
//
// For all other pairs, including NaN floats and nil compared
// to a non nil value, ok is false and the values are incomparable.
// The result is 0 in that case.
func (c *Config) CompareValues(a, b any) (result int, ok bool) {
	c = c.orDefault()

	va := c.comparisonKey(a)
	vb := c.comparisonKey(b)
	switch {
	case !va.IsValid() && !vb.IsValid():
		return 0, true
	case !va.IsValid() || !vb.IsValid():
		return 0, false
	}

	switch ka, kb := numberKind(va), numberKind(vb); {
	case ka == kindInt && kb == kindInt:
		return cmp.Compare(va.Int(), vb.Int()), true
	case ka == kindUint && kb == kindUint:
		return cmp.Compare(va.Uint(), vb.Uint()), true
	case ka == kindInt && kb == kindUint:
		if va.Int() < 0 {
			return -1, true
		}
		return cmp.Compare(uint64(va.Int()), vb.Uint()), true
	case ka == kindUint && kb == kindInt:
		if vb.Int() < 0 {
			return 1, true
		}
		return cmp.Compare(va.Uint(), uint64(vb.Int())), true
	case ka != kindNone && kb != kindNone:
		fa, fb := asFloat(va), asFloat(vb)
		if math.IsNaN(fa) || math.IsNaN(fb) {
			return 0, false
		}
		return cmp.Compare(fa, fb), true
	}

	switch {
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		if c.collator != nil {
			return c.collator.CompareString(va.String(), vb.String()), true
		}
		return strings.Compare(va.String(), vb.String()), true

	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		switch x, y := va.Bool(), vb.Bool(); {
		case x == y:
			return 0, true
		case y:
			return -1, true
		default:
			return 1, true
		}

	case va.Type() == typeOfTime && vb.Type() == typeOfTime:
		return va.Interface().(time.Time).Compare(vb.Interface().(time.Time)), true
	}

	if va.Type() == vb.Type() && va.Comparable() && va.Equal(vb) {
		return 0, true
	}
	return 0, false
}

// comparisonKey returns the reflect.Value used to compare v
// or an invalid reflect.Value for nil.
func (c *Config) comparisonKey(v any) reflect.Value {
	if html, ok := v.(template.HTML); ok {
		return reflect.ValueOf(c.textExtractor(html))
	}
	val := reflect.ValueOf(v)
	for val.Kind() == reflect.Pointer && !val.IsNil() {
		val = val.Elem()
	}
	if ValueIsNil(val) {
		return reflect.Value{}
	}
	if val.Type() == typeOfHTML {
		// Dereferenced *template.HTML
		return reflect.ValueOf(c.textExtractor(val.Interface().(template.HTML)))
	}
	return val
}

type numKind int

const (
	kindNone numKind = iota
	kindInt
	kindUint
	kindFloat
)

func numberKind(v reflect.Value) numKind {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	}
	return kindNone
}

func asFloat(v reflect.Value) float64 {
	switch numberKind(v) {
	case kindInt:
		return float64(v.Int())
	case kindUint:
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// defaultCompare returns the comparison function used for leaf columns
// without a Compare function.
// Incomparable values are treated as equal and logged as warning.
func defaultCompare[R any](value func(R) any, column int, config *Config) func(a, b R) int {
	config = config.orDefault()
	return func(a, b R) int {
		x, y := value(a), value(b)
		result, ok := config.CompareValues(x, y)
		if !ok {
			config.logger.Warn(
				"incomparable column values treated as equal",
				slog.Int("column", column),
				slog.Any("a", x),
				slog.Any("b", y),
			)
		}
		return result
	}
}
