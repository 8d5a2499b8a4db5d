package sortable

import (
	"html/template"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestConfig_CompareValues(t *testing.T) {
	var (
		str     = "b"
		nilStr  *string
		early   = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
		late    = time.Date(2002, 1, 1, 0, 0, 0, 0, time.UTC)
		richBob = template.HTML("<b>Bob</b>")
	)
	type point struct{ X, Y int }
	tests := []struct {
		name   string
		a, b   any
		want   int
		wantOK bool
	}{
		{name: "strings", a: "a", b: "b", want: -1, wantOK: true},
		{name: "equal strings", a: "a", b: "a", want: 0, wantOK: true},
		{name: "upper before lower", a: "Z", b: "a", want: -1, wantOK: true},
		{name: "ints", a: 10, b: 2, want: 1, wantOK: true},
		{name: "int and float", a: 1, b: 1.5, want: -1, wantOK: true},
		{name: "negative int and uint", a: -1, b: uint(0), want: -1, wantOK: true},
		{name: "large uints", a: uint64(math.MaxUint64), b: uint64(math.MaxUint64 - 1), want: 1, wantOK: true},
		{name: "floats", a: 2.5, b: float32(2.5), want: 0, wantOK: true},
		{name: "NaN", a: math.NaN(), b: 1.0, want: 0, wantOK: false},
		{name: "bools", a: false, b: true, want: -1, wantOK: true},
		{name: "times", a: late, b: early, want: 1, wantOK: true},
		{name: "time pointer", a: &early, b: late, want: -1, wantOK: true},
		{name: "string pointer", a: &str, b: "a", want: 1, wantOK: true},
		{name: "nil pointer and nil", a: nilStr, b: nil, want: 0, wantOK: true},
		{name: "rich and plain", a: richBob, b: "Bob", want: 0, wantOK: true},
		{name: "rich pointer", a: &richBob, b: "Alice", want: 1, wantOK: true},
		{name: "equal structs", a: point{1, 2}, b: point{1, 2}, want: 0, wantOK: true},
		{name: "different structs", a: point{1, 2}, b: point{2, 1}, want: 0, wantOK: false},
		{name: "string and int", a: "1", b: 1, want: 0, wantOK: false},
		{name: "nil and string", a: nil, b: "", want: 0, wantOK: false},
		{name: "slices", a: []int{1}, b: []int{1}, want: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := (*Config)(nil).CompareValues(tt.a, tt.b)
			require.Equal(t, tt.wantOK, ok, "ok")
			require.Equal(t, tt.want, got, "result")

			// Swapping the arguments negates the result
			got, ok = (*Config)(nil).CompareValues(tt.b, tt.a)
			require.Equal(t, tt.wantOK, ok, "swapped ok")
			require.Equal(t, -tt.want, got, "swapped result")
		})
	}
}

func TestConfig_WithLocale(t *testing.T) {
	german := NewConfig().WithLocale(language.German)
	require.Equal(t, language.German, german.Locale())
	require.Equal(t, language.Und, DefaultConfig.Locale(), "DefaultConfig not modified")

	result, ok := german.CompareValues("Zebra", "apfel")
	require.True(t, ok)
	require.Equal(t, 1, result, "collation ignores case for the primary order")

	result, _ = german.CompareValues("Äpfel", "Birne")
	require.Equal(t, -1, result)

	result, _ = DefaultConfig.CompareValues("Äpfel", "Birne")
	require.Equal(t, 1, result, "byte order puts non ASCII last")

	reset := german.WithLocale(language.Und)
	result, _ = reset.CompareValues("Zebra", "apfel")
	require.Equal(t, -1, result)
}

func TestConfig_WithTextExtractor(t *testing.T) {
	config := NewConfig().WithTextExtractor(func(content template.HTML) string {
		return strings.ToUpper(string(content))
	})
	require.Equal(t, "<B>X</B>", config.PlainText("<b>x</b>"))

	result, ok := config.CompareValues(template.HTML("abc"), "ABC")
	require.True(t, ok)
	require.Equal(t, 0, result)

	require.Equal(t, "x", NewConfig().WithTextExtractor(nil).PlainText("<b>x</b>"), "nil uses the default")
}
