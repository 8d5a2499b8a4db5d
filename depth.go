package sortable

// Depth returns the nesting depth of the column tree
// which is the number of header rows needed to lay it out.
//
// Columns without any groups, including an empty column list,
// have a depth of 1. Every level of groups adds 1.
// Leaves are not recursed into and invalid columns count as leaves,
// they are reported by Normalize and BuildHeaders.
func Depth[R any](columns []Column[R]) int {
	depth := 1
	for _, column := range columns {
		group, ok := column.(*Group[R])
		if !ok || group == nil {
			continue
		}
		depth = max(depth, 1+Depth(group.Columns))
	}
	return depth
}
