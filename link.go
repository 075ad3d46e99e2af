package attribution

import (
	"slices"
	"strings"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// Link chains the group returns of consecutive periods into a single period.
//
// The return of a group is compounded over the periods where it appears (see
// TotalReturn). Its allocation is the one of the first period, or zero when
// the group is not held in the first period. Linked rows have no date, so that
// Attribute matches them by group only.
func Link(periods ...[]GroupReturnRow) ([]GroupReturnRow, error) {
	returns := make(map[string][]float64)
	allocs := make(map[string]float64)
	var groups []string
	for i, period := range periods {
		for _, r := range period {
			if _, seen := returns[r.Group]; !seen {
				groups = append(groups, r.Group)
			}
			returns[r.Group] = append(returns[r.Group], r.Return)
			if i == 0 {
				allocs[r.Group] += r.Alloc
			}
		}
	}
	if len(groups) == 0 {
		return nil, &EmptyResultError{Op: "link"}
	}

	slices.SortFunc(groups, strings.Compare)
	res := make([]GroupReturnRow, 0, len(groups))
	for _, g := range groups {
		res = append(res, GroupReturnRow{
			Group:  g,
			Alloc:  allocs[g],
			Return: TotalReturn(returns[g]...),
		})
	}
	return res, nil
}

// AttributeLinked links the periods of each side and attributes the result.
func AttributeLinked(port, idx [][]GroupReturnRow) (Attribution, error) {
	pl, err := Link(port...)
	if err != nil {
		return Attribution{}, err
	}
	il, err := Link(idx...)
	if err != nil {
		return Attribution{}, err
	}
	return Attribute(pl, il)
}

// SplitByDate splits rows into one period per date, in chronological order.
// It turns the output of ExtractMonthly into Link input.
func SplitByDate(rows []GroupReturnRow) [][]GroupReturnRow {
	byDate := make(map[date.Date][]GroupReturnRow)
	var dates []date.Date
	for _, r := range rows {
		if _, ok := byDate[r.Date]; !ok {
			dates = append(dates, r.Date)
		}
		byDate[r.Date] = append(byDate[r.Date], r)
	}
	slices.SortFunc(dates, date.Date.Compare)
	periods := make([][]GroupReturnRow, 0, len(dates))
	for _, on := range dates {
		periods = append(periods, byDate[on])
	}
	return periods
}
