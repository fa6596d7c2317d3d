package plot

import "github.com/samber/lo"

// Column turns row-oriented records into one parallel column, keeping length
// and order. Rows the key has nothing for contribute the zero value.
func Column[R any, V any](rows []R, key func(R) V) []V {
	return lo.Map(rows, func(row R, _ int) V {
		return key(row)
	})
}
