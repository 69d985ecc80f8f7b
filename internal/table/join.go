package table

import "strings"

const keySep = "\x1f"

// InnerJoin merges left and right on leftOn[i] == rightOn[i].
//
// Key columns sharing a name on both sides appear once. Other column names
// present on both sides are suffixed _x (left) and _y (right). Row order
// follows left, then right. Missing key columns degrade to an empty table.
func InnerJoin(left, right *Table, leftOn, rightOn []string) *Table {
	name := left.Name + "_" + right.Name
	if len(leftOn) == 0 || len(leftOn) != len(rightOn) ||
		!left.HasColumns(leftOn...) || !right.HasColumns(rightOn...) {
		return New(name)
	}

	shared := make(map[string]bool)
	for i := range leftOn {
		if leftOn[i] == rightOn[i] {
			shared[leftOn[i]] = true
		}
	}

	leftNames := make(map[string]string, len(left.Columns))
	rightNames := make(map[string]string, len(right.Columns))
	var columns []string
	for _, col := range left.Columns {
		out := col
		if right.HasColumn(col) && !shared[col] {
			out = col + "_x"
		}
		leftNames[col] = out
		columns = append(columns, out)
	}
	for _, col := range right.Columns {
		if shared[col] {
			continue
		}
		out := col
		if left.HasColumn(col) {
			out = col + "_y"
		}
		rightNames[col] = out
		columns = append(columns, out)
	}

	index := make(map[string][]int, right.Len())
	for i, row := range right.Rows {
		k := joinKey(row, rightOn)
		index[k] = append(index[k], i)
	}

	out := New(name, columns...)
	for _, lrow := range left.Rows {
		for _, ri := range index[joinKey(lrow, leftOn)] {
			row := make(Row, len(columns))
			for col, renamed := range leftNames {
				row[renamed] = lrow[col]
			}
			for col, renamed := range rightNames {
				row[renamed] = right.Rows[ri][col]
			}
			out.Rows = append(out.Rows, row)
		}
	}

	return out
}

func joinKey(row Row, cols []string) string {
	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = strings.TrimSpace(row[col])
	}
	return strings.Join(parts, keySep)
}
