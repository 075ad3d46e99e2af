package attribution

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// Aggregate sums instrument values into group values per date.
//
// The allocation of a group on a date is its value divided by the total value
// of every instrument present that date, including instruments the group map
// does not mention. Instruments without a group are then dropped.
//
// Rows are sorted by group then date. It fails with *EmptyResultError if no
// instrument belongs to any group.
func Aggregate(rows []ValuationRow, groups GroupMap) ([]GroupAllocationRow, error) {
	lookup := groups.Lookup()
	return aggregate("aggregate", rows, func(instrument string) (string, bool) {
		g, ok := lookup[instrument]
		return g, ok
	})
}

// InstrumentAllocation is Aggregate with every instrument as its own group.
func InstrumentAllocation(rows []ValuationRow) ([]GroupAllocationRow, error) {
	return aggregate("instrument allocation", rows, func(instrument string) (string, bool) {
		return instrument, true
	})
}

type groupDay struct {
	group string
	on    date.Date
}

func aggregate(op string, rows []ValuationRow, groupOf func(string) (string, bool)) ([]GroupAllocationRow, error) {
	totals := make(map[date.Date]float64)
	values := make(map[groupDay]float64)
	for _, r := range rows {
		totals[r.Date] += r.Value
		g, ok := groupOf(r.Instrument)
		if !ok {
			continue
		}
		values[groupDay{g, r.Date}] += r.Value
	}
	if len(values) == 0 {
		return nil, &EmptyResultError{Op: op}
	}

	res := make([]GroupAllocationRow, 0, len(values))
	for k, v := range values {
		alloc := 0.0
		if total := totals[k.on]; total != 0 {
			alloc = v / total
		}
		res = append(res, GroupAllocationRow{Group: k.group, Date: k.on, Value: v, Alloc: alloc})
	}
	slices.SortFunc(res, func(a, b GroupAllocationRow) int {
		return cmp.Or(strings.Compare(a.Group, b.Group), a.Date.Compare(b.Date))
	})
	return res, nil
}
