package sortable

import "slices"

// Order returns the indices of records in the order
// they are displayed for the sort state.
//
// If state is not active, the indices are in input order 0..n-1.
// Else the indices are stable sorted by the Compare function
// of the active leaf column with its arguments swapped
// for descending order, so records comparing as equal keep their input order.
//
// records are not modified and a new slice is returned for every call.
// An error wrapping ErrInvalidSortColumn is returned if the active
// column is not an index of leafColumns.
func Order[R any](records []R, leafColumns []*LeafColumn[R], state SortState) ([]int, error) {
	if err := state.Validate(len(leafColumns)); err != nil {
		return nil, err
	}
	indices := make([]int, len(records))
	for i := range indices {
		indices[i] = i
	}
	if !state.IsActive() {
		return indices, nil
	}
	compare := leafColumns[state.Column].Compare
	if state.Direction == Descending {
		slices.SortStableFunc(indices, func(i, j int) int {
			return compare(records[j], records[i])
		})
	} else {
		slices.SortStableFunc(indices, func(i, j int) int {
			return compare(records[i], records[j])
		})
	}
	return indices, nil
}
