package sortable

import (
	"errors"
	"fmt"
	"html/template"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-sortable/internal/testutil"
)

type person struct {
	First string
	Last  string
	Age   int
}

func personColumns() []Column[person] {
	return []Column[person]{
		NewGroup[person]("Name",
			NewLeaf("First", func(p person) any { return p.First }),
			NewLeaf("Last", func(p person) any { return p.Last }),
		),
		NewLeaf("Age", func(p person) any { return p.Age }),
	}
}

func ages(ages ...int) []person {
	people := make([]person, len(ages))
	for i, age := range ages {
		people[i] = person{Age: age}
	}
	return people
}

func TestDepth(t *testing.T) {
	leaf := NewLeaf("Leaf", func(p person) any { return p.Age })
	tests := []struct {
		name    string
		columns []Column[person]
		want    int
	}{
		{name: "nil", columns: nil, want: 1},
		{name: "empty", columns: []Column[person]{}, want: 1},
		{name: "no groups", columns: []Column[person]{leaf, leaf, leaf}, want: 1},
		{name: "name and age", columns: personColumns(), want: 2},
		{
			name:    "group in group",
			columns: []Column[person]{NewGroup[person]("A", NewGroup[person]("B", leaf))},
			want:    3,
		},
		{
			name: "uneven groups",
			columns: []Column[person]{
				NewGroup[person]("A", leaf),
				leaf,
				NewGroup[person]("B", leaf, NewGroup[person]("C", NewGroup[person]("D", leaf))),
			},
			want: 4,
		},
		{name: "nil column counts as leaf", columns: []Column[person]{nil}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Depth(tt.columns))
		})
	}
}

func TestNormalize(t *testing.T) {
	columns := personColumns()
	leaves, err := Normalize(columns, nil)
	require.NoError(t, err)
	require.Len(t, leaves, 3)

	for i, title := range []string{"First", "Last", "Age"} {
		assert.Equal(t, i, leaves[i].Index)
		assert.Equal(t, title, leaves[i].Title)
		assert.NotNil(t, leaves[i].Compare)
		assert.Empty(t, leaves[i].ClassList(person{}))
		assert.Equal(t, Style{}, leaves[i].Style(person{}))
	}

	// The passed columns got no defaults filled in
	age := columns[1].(*Leaf[person])
	assert.Nil(t, age.Compare)
	assert.Nil(t, age.ClassList)
	assert.Nil(t, age.Style)

	// Normalizing again gives the same result
	again, err := Normalize(columns, nil)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, leaves[2].Title, again[2].Title)
}

func TestNormalize_ClassListAndStyle(t *testing.T) {
	value := func(p person) any { return p.Age }
	tests := []struct {
		name      string
		leaf      *Leaf[person]
		record    person
		wantClass []string
		wantStyle Style
	}{
		{
			name:      "defaults",
			leaf:      NewLeaf("Age", value),
			wantClass: nil,
			wantStyle: Style{},
		},
		{
			name:      "single class string",
			leaf:      NewLeaf("Age", value).WithClassList("number"),
			wantClass: []string{"number"},
			wantStyle: Style{},
		},
		{
			name:      "empty class string",
			leaf:      NewLeaf("Age", value).WithClassList(""),
			wantClass: nil,
			wantStyle: Style{},
		},
		{
			name:      "static class list",
			leaf:      NewLeaf("Age", value).WithClassList([]string{"a", "b"}),
			wantClass: []string{"a", "b"},
			wantStyle: Style{},
		},
		{
			name: "class list func",
			leaf: NewLeaf("Age", value).WithClassList(func(p person) []string {
				if p.Age >= 18 {
					return []string{"adult"}
				}
				return []string{"minor"}
			}),
			record:    person{Age: 12},
			wantClass: []string{"minor"},
			wantStyle: Style{},
		},
		{
			name:      "class string func",
			leaf:      NewLeaf("Age", value).WithClassList(func(p person) string { return p.First }),
			record:    person{First: "first"},
			wantClass: []string{"first"},
			wantStyle: Style{},
		},
		{
			name:      "static style",
			leaf:      NewLeaf("Age", value).WithStyle(Style{"text-align": "right"}),
			wantStyle: Style{"text-align": "right"},
		},
		{
			name:      "static style map",
			leaf:      NewLeaf("Age", value).WithStyle(map[string]string{"color": "red"}),
			wantStyle: Style{"color": "red"},
		},
		{
			name: "style func",
			leaf: NewLeaf("Age", value).WithStyle(func(p person) Style {
				return Style{"width": fmt.Sprintf("%dpx", p.Age)}
			}),
			record:    person{Age: 30},
			wantStyle: Style{"width": "30px"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, err := Normalize([]Column[person]{tt.leaf}, nil)
			require.NoError(t, err)
			require.Len(t, leaves, 1)
			require.Equal(t, tt.wantClass, leaves[0].ClassList(tt.record))
			require.Equal(t, tt.wantStyle, leaves[0].Style(tt.record))
		})
	}
}

func TestNormalize_StaticValuesAreCopied(t *testing.T) {
	classes := []string{"a"}
	style := Style{"color": "red"}
	leaves := MustNormalize([]Column[person]{
		NewLeaf("Age", func(p person) any { return p.Age }).WithClassList(classes).WithStyle(style),
	}, nil)

	classes[0] = "changed"
	style["color"] = "blue"
	require.Equal(t, []string{"a"}, leaves[0].ClassList(person{}))
	require.Equal(t, Style{"color": "red"}, leaves[0].Style(person{}))

	// Modifying a returned value does not change the next result
	leaves[0].Style(person{})["color"] = "green"
	require.Equal(t, Style{"color": "red"}, leaves[0].Style(person{}))
}

func TestInvalidColumns(t *testing.T) {
	value := func(p person) any { return p.Age }
	tests := []struct {
		name    string
		columns []Column[person]
		// leafOnly errors are only detected when leaves are normalized
		leafOnly bool
	}{
		{name: "nil column", columns: []Column[person]{nil}},
		{name: "nil leaf", columns: []Column[person]{(*Leaf[person])(nil)}},
		{name: "nil group", columns: []Column[person]{(*Group[person])(nil)}},
		{name: "leaf without value", columns: []Column[person]{&Leaf[person]{Title: "Age"}}},
		{name: "empty group", columns: []Column[person]{NewGroup[person]("Empty")}},
		{name: "nested leaf without value", columns: []Column[person]{NewGroup[person]("G", NewLeaf[person]("Age", nil))}},
		{name: "unsupported class list", columns: []Column[person]{NewLeaf("Age", value).WithClassList(42)}, leafOnly: true},
		{name: "unsupported style", columns: []Column[person]{NewLeaf("Age", value).WithStyle("color: red")}, leafOnly: true},
		{name: "column of other record type", columns: []Column[person]{NewLeaf("Age", func(int) any { return 0 })}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.columns, nil)
			require.ErrorIs(t, err, ErrInvalidColumn, "Normalize")

			if !tt.leafOnly {
				_, _, err = BuildHeaders(tt.columns, Unsorted(), Depth(tt.columns), 0)
				require.ErrorIs(t, err, ErrInvalidColumn, "BuildHeaders")
			}

			desc, err := NewTable(tt.columns, ages(1, 2)).Render()
			require.ErrorIs(t, err, ErrInvalidColumn, "Render")
			require.Nil(t, desc, "no partial table")

			require.Panics(t, func() { MustNormalize(tt.columns, nil) })
		})
	}
}

func TestBuildHeaders(t *testing.T) {
	rows, consumed, err := BuildHeaders(personColumns(), Unsorted(), 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, consumed)

	asc := SortBy(0, Ascending)
	want := [][]HeaderCell{
		{
			{Title: "Name", Column: 0, ColSpan: 2, RowSpan: 1},
			{Title: "Age", Column: 2, ColSpan: 1, RowSpan: 2, Sortable: true, Sort: SortNone, Next: SortBy(2, Ascending)},
		},
		{
			{Title: "First", Column: 0, ColSpan: 1, RowSpan: 1, Sortable: true, Sort: SortNone, Next: asc},
			{Title: "Last", Column: 1, ColSpan: 1, RowSpan: 1, Sortable: true, Sort: SortNone, Next: SortBy(1, Ascending)},
		},
	}
	require.Equal(t, want, rows)
}

func TestBuildHeaders_SortIndicator(t *testing.T) {
	rows, _, err := BuildHeaders(personColumns(), SortBy(2, Descending), 2, 0)
	require.NoError(t, err)

	age := rows[0][1]
	require.Equal(t, SortDescending, age.Sort)
	require.Equal(t, SortBy(2, Ascending), age.Next, "click on active column reverses direction")

	first := rows[1][0]
	require.Equal(t, SortNone, first.Sort)
	require.Equal(t, SortBy(0, Ascending), first.Next, "click on other column sorts it ascending")

	name := rows[0][0]
	require.False(t, name.Sortable)
	require.Equal(t, SortIndicator(""), name.Sort)
}

func TestBuildHeaders_Offset(t *testing.T) {
	rows, consumed, err := BuildHeaders(personColumns(), SortBy(12, Ascending), 3, 10)
	require.NoError(t, err)
	require.Equal(t, 3, consumed)
	require.Len(t, rows, 3)
	require.Equal(t, 10, rows[0][0].Column)
	require.Equal(t, 12, rows[0][1].Column)
	require.Equal(t, 3, rows[0][1].RowSpan)
	require.Equal(t, SortAscending, rows[0][1].Sort)
	require.Equal(t, 2, rows[1][0].RowSpan, "leaf below group spans the remaining rows")
	require.Empty(t, rows[2])
}

func TestBuildHeaders_DepthTooSmall(t *testing.T) {
	_, _, err := BuildHeaders(personColumns(), Unsorted(), 1, 0)
	require.Error(t, err)
}

func TestBuildHeaders_MatchesNormalize(t *testing.T) {
	leaf := func(title string) Column[person] {
		return NewLeaf(title, func(p person) any { return p.Age })
	}
	specs := map[string][]Column[person]{
		"empty":     {},
		"flat":      {leaf("a"), leaf("b"), leaf("c")},
		"name, age": personColumns(),
		"deep": {
			NewGroup[person]("G1", leaf("a"), NewGroup[person]("G2", leaf("b"), NewGroup[person]("G3", leaf("c"), leaf("d")))),
			leaf("e"),
			NewGroup[person]("G4", NewGroup[person]("G5", leaf("f"))),
		},
	}
	for name, columns := range specs {
		t.Run(name, func(t *testing.T) {
			leaves, err := Normalize(columns, nil)
			require.NoError(t, err)
			depth := Depth(columns)
			rows, consumed, err := BuildHeaders(columns, Unsorted(), depth, 0)
			require.NoError(t, err)
			require.Len(t, rows, depth)
			require.Equal(t, len(leaves), consumed)

			leafCells := LeafHeaders(rows, consumed)
			numSortable := 0
			for _, row := range rows {
				for _, cell := range row {
					if cell.Sortable {
						numSortable++
					}
				}
			}
			require.Equal(t, len(leaves), numSortable)
			for i, leaf := range leaves {
				require.NotNil(t, leafCells[i])
				require.Equal(t, leaf.Title, leafCells[i].Title)
				require.Equal(t, leaf.Index, leafCells[i].Column)
			}

			// Every position of the dense grid is covered exactly by one cell
			matrix := HeaderMatrix(rows, consumed)
			for r := range matrix {
				for c := range matrix[r] {
					require.NotNil(t, matrix[r][c], "grid position %d/%d", r, c)
				}
			}
			// Bottom row references all leaf cells in order
			if depth > 0 && consumed > 0 {
				for c, cell := range matrix[depth-1] {
					require.Same(t, leafCells[c], cell)
				}
			}
		})
	}
}

func TestHeaderMatrix(t *testing.T) {
	rows, n, err := BuildHeaders(personColumns(), Unsorted(), 2, 0)
	require.NoError(t, err)
	matrix := HeaderMatrix(rows, n)
	titles := make([][]any, len(matrix))
	for r := range matrix {
		for _, cell := range matrix[r] {
			titles[r] = append(titles[r], cell.Title)
		}
	}
	require.Equal(t, [][]any{{"Name", "Name", "Age"}, {"First", "Last", "Age"}}, titles)
}

func TestDefaultCompare(t *testing.T) {
	leaves := MustNormalize([]Column[any]{
		NewLeaf("Value", func(v any) any { return v }),
	}, nil)
	compare := leaves[0].Compare

	require.Equal(t, -1, compare("a", "b"))
	require.Equal(t, 1, compare("b", "a"))
	require.Equal(t, 0, compare("a", "a"))
	require.Equal(t, 0, compare(template.HTML("<b>Bob</b>"), "Bob"), "rich content compares by its plain text")
	require.Equal(t, -1, compare(template.HTML("<i>Alice</i>"), template.HTML("<b>Bob</b>")))
	require.Equal(t, -1, compare(2, 10), "numbers compare numerically")
	require.Equal(t, -1, compare(2, 2.5))
	require.Equal(t, 1, compare(uint8(3), -1))
	require.Equal(t, 0, compare(nil, nil))
}

func TestDefaultCompare_Incomparable(t *testing.T) {
	logger, logBuf := testutil.NewRecordingLogger(t)
	config := NewConfig().WithLogger(logger)
	leaves := MustNormalize([]Column[any]{
		NewLeaf("Value", func(v any) any { return v }),
	}, config)
	compare := leaves[0].Compare

	require.Equal(t, 0, compare("a", 1))
	require.Contains(t, logBuf.String(), "incomparable column values treated as equal")
	require.Contains(t, logBuf.String(), "column=0")

	logBuf.Reset()
	require.Equal(t, 0, compare(nil, "a"))
	require.NotEmpty(t, logBuf.String())

	logBuf.Reset()
	require.Equal(t, 0, compare("a", "a"))
	require.Empty(t, logBuf.String(), "comparable values log nothing")
}

func TestOrder(t *testing.T) {
	leaves := MustNormalize(personColumns(), nil)
	people := ages(30, 20, 25)

	order, err := Order(people, leaves, Unsorted())
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, order)

	order, err = Order(people, leaves, SortBy(2, Ascending))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 0}, order)

	order, err = Order(people, leaves, SortBy(2, Descending))
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 1}, order)

	require.Equal(t, []person{{Age: 30}, {Age: 20}, {Age: 25}}, people, "records not modified")

	_, err = Order(people, leaves, SortBy(3, Ascending))
	require.ErrorIs(t, err, ErrInvalidSortColumn)
}

func TestOrder_Stable(t *testing.T) {
	leaves := MustNormalize(personColumns(), nil)
	people := []person{
		{First: "b", Age: 2},
		{First: "a", Age: 1},
		{First: "c", Age: 2},
		{First: "d", Age: 1},
		{First: "e", Age: 2},
	}

	asc, err := Order(people, leaves, SortBy(2, Ascending))
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 0, 2, 4}, asc, "ties keep input order")

	desc, err := Order(people, leaves, SortBy(2, Descending))
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 4, 1, 3}, desc, "ties keep input order")

	// Applying the same sort to the sorted records is idempotent
	sorted := make([]person, len(people))
	for i, index := range asc {
		sorted[i] = people[index]
	}
	again, err := Order(sorted, leaves, SortBy(2, Ascending))
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, again)
}

func TestOrder_ReverseWithoutTies(t *testing.T) {
	leaves := MustNormalize(personColumns(), nil)
	people := []person{{First: "d"}, {First: "b"}, {First: "e"}, {First: "a"}, {First: "c"}}

	asc, err := Order(people, leaves, SortBy(0, Ascending))
	require.NoError(t, err)
	desc, err := Order(people, leaves, SortBy(0, Ascending).Reverse())
	require.NoError(t, err)
	require.Equal(t, []int{3, 1, 4, 0, 2}, asc)
	for i := range asc {
		require.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestOrder_CustomCompare(t *testing.T) {
	byLength := NewLeaf("First", func(p person) any { return p.First }).
		WithCompare(func(a, b person) int { return len(a.First) - len(b.First) })
	leaves := MustNormalize([]Column[person]{byLength}, nil)
	people := []person{{First: "ccc"}, {First: "a"}, {First: "bb"}}

	order, err := Order(people, leaves, SortBy(0, Ascending))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 0}, order)
}

func TestOrder_CompareMinInt(t *testing.T) {
	// Only the sign of a Compare result counts,
	// math.MinInt must not overflow when reversed
	byAge := NewLeaf("Age", func(p person) any { return p.Age }).
		WithCompare(func(a, b person) int {
			switch {
			case a.Age < b.Age:
				return math.MinInt
			case a.Age > b.Age:
				return math.MaxInt
			}
			return 0
		})
	leaves := MustNormalize([]Column[person]{byAge}, nil)
	people := ages(20, 40, 30, 10)

	order, err := Order(people, leaves, SortBy(0, Ascending))
	require.NoError(t, err)
	require.Equal(t, []int{3, 0, 2, 1}, order)

	order, err = Order(people, leaves, SortBy(0, Descending))
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 0, 3}, order)
}

func TestTable_ClickHeader(t *testing.T) {
	table := NewTable(personColumns(), ages(30, 20, 25))

	desc, err := table.Render()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, desc.RecordOrder(), "unsorted table keeps input order")

	require.NoError(t, table.ClickHeader(2))
	require.Equal(t, SortBy(2, Ascending), table.SortState())
	desc, err = table.Render()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 0}, desc.RecordOrder())
	require.Equal(t, SortAscending, desc.LeafHeaders()[2].Sort)

	require.NoError(t, table.ClickHeader(2))
	require.Equal(t, SortBy(2, Descending), table.SortState())
	desc, err = table.Render()
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 1}, desc.RecordOrder())
	require.Equal(t, SortDescending, desc.LeafHeaders()[2].Sort)

	require.NoError(t, table.ClickHeader(0))
	require.Equal(t, SortBy(0, Ascending), table.SortState(), "other column starts ascending")

	err = table.ClickHeader(3)
	require.ErrorIs(t, err, ErrInvalidSortColumn)
	require.Equal(t, SortBy(0, Ascending), table.SortState(), "state unchanged after error")
}

func TestTable_ObservesChanges(t *testing.T) {
	table := NewTable(personColumns(), ages(30, 20)).WithInitialSort(2, Descending)

	desc, err := table.Render()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, desc.RecordOrder())

	table.SetRecords(ages(1, 3, 2))
	desc, err = table.Render()
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 0}, desc.RecordOrder())
	require.Equal(t, 3, desc.Body[0].Cells[2].Content)

	table.SetColumns([]Column[person]{NewLeaf("Age", func(p person) any { return p.Age })})
	_, err = table.Render()
	require.ErrorIs(t, err, ErrInvalidSortColumn, "sort column 2 no longer exists")

	table.SetSortState(Unsorted())
	desc, err = table.Render()
	require.NoError(t, err)
	require.Equal(t, 1, desc.NumColumns)
	require.Equal(t, 1, desc.Depth)
}

func TestDescribe_BodyCells(t *testing.T) {
	columns := []Column[person]{
		NewLeaf("First", func(p person) any { return p.First }).WithClassList("name"),
		NewLeaf("Age", func(p person) any { return p.Age }).
			WithStyle(func(p person) Style {
				if p.Age < 18 {
					return Style{"color": "gray"}
				}
				return nil
			}),
	}
	desc, err := Describe(columns, []person{{First: "Ann", Age: 12}}, Unsorted(), nil)
	require.NoError(t, err)
	require.Equal(t, []BodyRow{{
		Index: 0,
		Cells: []BodyCell{
			{Column: 0, Content: "Ann", ClassList: []string{"name"}, Style: Style{}},
			{Column: 1, Content: 12, Style: Style{"color": "gray"}},
		},
	}}, desc.Body)
	require.Equal(t, []string{"First", "Age"}, desc.LeafTitles())
}

func TestTable_InvalidInitialSort(t *testing.T) {
	_, err := NewTable(personColumns(), ages(1)).WithInitialSort(5, Ascending).Render()
	require.True(t, errors.Is(err, ErrInvalidSortColumn))

	desc, err := NewTable(personColumns(), ages(2, 1)).WithInitialSort(-1, Descending).Render()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, desc.RecordOrder())
}
