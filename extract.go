package attribution

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// Extract computes the return of every group between the first and the last
// date of rows.
//
// Only those two dates are looked at: the return is value(last)/value(first)-1
// and intermediate dates are ignored. A group without a value on the first date
// has a zero return. Groups absent on the last date are dropped. The
// allocation reported is the one observed on the last date.
func Extract(rows []GroupAllocationRow) ([]GroupReturnRow, error) {
	if len(rows) == 0 {
		return nil, &EmptyResultError{Op: "extract"}
	}
	first, last := rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}

	start := make(map[string]float64)
	for _, r := range rows {
		if r.Date == first {
			start[r.Group] += r.Value
		}
	}
	var res []GroupReturnRow
	for _, r := range rows {
		if r.Date != last {
			continue
		}
		res = append(res, GroupReturnRow{
			Group:  r.Group,
			Date:   last,
			Alloc:  r.Alloc,
			Return: growth(start[r.Group], r.Value),
		})
	}
	sortReturns(res)
	return res, nil
}

// ExtractMonthly computes the return of every group month by month.
//
// Only the last date with data in each calendar month is kept. The return of a
// month is measured from the previous month end; the first month has no
// previous value and its return is 0. There is one row per group and month end.
func ExtractMonthly(rows []GroupAllocationRow) ([]GroupReturnRow, error) {
	if len(rows) == 0 {
		return nil, &EmptyResultError{Op: "extract monthly"}
	}
	monthEnds := make(map[date.Date]date.Date) // start of month -> last date seen in that month
	for _, r := range rows {
		month := r.Date.StartOf(date.Monthly)
		if end, ok := monthEnds[month]; !ok || r.Date.After(end) {
			monthEnds[month] = r.Date
		}
	}

	byGroup := make(map[string]*date.History[float64])
	allocs := make(map[groupDay]float64)
	for _, r := range rows {
		h, ok := byGroup[r.Group]
		if !ok {
			h = new(date.History[float64])
			byGroup[r.Group] = h
		}
		if monthEnds[r.Date.StartOf(date.Monthly)] == r.Date {
			h.Append(r.Date, r.Value)
			allocs[groupDay{r.Group, r.Date}] = r.Alloc
		}
	}

	var res []GroupReturnRow
	for group, h := range byGroup {
		previous, hasPrevious := 0.0, false
		for on, value := range h.Values() {
			r := GroupReturnRow{Group: group, Date: on, Alloc: allocs[groupDay{group, on}]}
			if hasPrevious {
				r.Return = growth(previous, value)
			}
			res = append(res, r)
			previous, hasPrevious = value, true
		}
	}
	if len(res) == 0 {
		return nil, &EmptyResultError{Op: "extract monthly"}
	}
	sortReturns(res)
	return res, nil
}

// growth returns to/from-1, or 0 when from is zero.
func growth(from, to float64) float64 {
	if from == 0 {
		return 0
	}
	return to/from - 1
}

func sortReturns(rows []GroupReturnRow) {
	slices.SortFunc(rows, func(a, b GroupReturnRow) int {
		return cmp.Or(strings.Compare(a.Group, b.Group), a.Date.Compare(b.Date))
	})
}
