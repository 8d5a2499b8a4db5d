package sortable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type address struct {
	City    string
	Country string `col:"Country Code"`
}

type customer struct {
	First    string    `col:"Name/First"`
	Last     string    `col:"Name/Last"`
	Internal string    `col:"-"`
	Since    time.Time `col:"Customer Since"`
	address
	NumOrders int
	notes     string
}

func TestStructColumns(t *testing.T) {
	columns, err := StructColumns[customer](&DefaultStructFieldNaming)
	require.NoError(t, err)
	require.Equal(t, 2, Depth(columns))
	require.Len(t, columns, 5)

	name, ok := columns[0].(*Group[customer])
	require.True(t, ok, "first column is the Name group")
	require.Equal(t, "Name", name.Title)
	require.Len(t, name.Columns, 2)

	leaves := MustNormalize(columns, nil)
	titles := make([]any, len(leaves))
	for i, leaf := range leaves {
		titles[i] = leaf.Title
	}
	require.Equal(t, []any{"First", "Last", "Customer Since", "City", "Country Code", "Num Orders"}, titles)

	since := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	c := customer{
		First:     "Ada",
		Last:      "Lovelace",
		Since:     since,
		address:   address{City: "London", Country: "GB"},
		NumOrders: 3,
		notes:     "hidden",
	}
	values := make([]any, len(leaves))
	for i, leaf := range leaves {
		values[i] = leaf.Value(c)
	}
	require.Equal(t, []any{"Ada", "Lovelace", since, "London", "GB", 3}, values)
}

func TestStructColumns_Pointer(t *testing.T) {
	columns, err := StructColumns[*customer](nil)
	require.NoError(t, err)
	leaves := MustNormalize(columns, nil)
	require.Len(t, leaves, 7, "nil naming uses all exported fields by name without grouping")
	require.Equal(t, "Name/First", leaves[0].Title)
	require.Equal(t, "Internal", leaves[2].Title)

	require.Equal(t, "Ada", leaves[0].Value(&customer{First: "Ada"}))
	require.Nil(t, leaves[0].Value(nil), "nil record has nil values")

	people := []*customer{{NumOrders: 2}, nil, {NumOrders: 1}}
	order, err := Order(people, leaves, SortBy(6, Ascending))
	require.NoError(t, err)
	require.ElementsMatch(t, []int{0, 1, 2}, order)
}

func TestStructColumns_NotAStruct(t *testing.T) {
	_, err := StructColumns[int](&DefaultStructFieldNaming)
	require.ErrorIs(t, err, ErrInvalidColumn)

	require.Panics(t, func() { MustStructColumns[[]string](nil) })
}

func TestStructColumns_NestedGroups(t *testing.T) {
	type record struct {
		A int `col:"X/Y/A"`
		B int `col:"X/Y/B"`
		C int `col:"X/C"`
		D int `col:"D"`
		E int `col:"X/E"`
	}
	columns := MustStructColumns[record](&DefaultStructFieldNaming)
	require.Equal(t, 3, Depth(columns))

	rows, n, err := BuildHeaders(columns, Unsorted(), Depth(columns), 0)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	titles := make([][]any, len(rows))
	for r, row := range rows {
		for _, cell := range row {
			titles[r] = append(titles[r], cell.Title)
		}
	}
	require.Equal(t, [][]any{
		{"X", "D", "X"},
		{"Y", "C", "E"},
		{"A", "B"},
	}, titles, "only adjacent fields share a group")
}
