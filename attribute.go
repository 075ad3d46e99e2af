package attribution

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// Attribute decomposes the excess return of a portfolio over its benchmark
// into allocation, selection and interaction effects, group by group.
//
// Rows are matched on (group, date). A group present on one side only is
// matched against zero allocation and zero return.
//
//	selection   = (pr - ir) * ia
//	allocation  = (pa - ia) * ir
//	interaction = (pa - ia) * (pr - ir)
//
// The three effects of a group sum to pa*pr - ia*ir, so the summary alpha is
// the portfolio return minus the benchmark return.
func Attribute(port, idx []GroupReturnRow) (Attribution, error) {
	rows := join(port, idx)
	if len(rows) == 0 {
		return Attribution{}, &EmptyResultError{Op: "attribute"}
	}
	return Attribution{Rows: rows, Summary: summarize(rows)}, nil
}

// AttributeMonthly runs Attribute month by month. Both sides are reduced with
// ExtractMonthly, and one Attribution is returned per month end, in
// chronological order.
func AttributeMonthly(port, idx []GroupAllocationRow) ([]Attribution, error) {
	pr, err := ExtractMonthly(port)
	if err != nil {
		return nil, err
	}
	ir, err := ExtractMonthly(idx)
	if err != nil {
		return nil, err
	}

	rows := join(pr, ir)
	months := make(map[date.Date][]AttributionRow)
	for _, r := range rows {
		months[r.Date] = append(months[r.Date], r)
	}
	res := make([]Attribution, 0, len(months))
	for on, rows := range months {
		s := summarize(rows)
		s.Date = on
		res = append(res, Attribution{Rows: rows, Summary: s})
	}
	slices.SortFunc(res, func(a, b Attribution) int { return a.Summary.Date.Compare(b.Summary.Date) })
	return res, nil
}

// join is the outer join of both sides on (group, date), with the effects
// computed on every row.
func join(port, idx []GroupReturnRow) []AttributionRow {
	index := make(map[groupDay]int)
	var rows []AttributionRow
	row := func(r GroupReturnRow) *AttributionRow {
		k := groupDay{r.Group, r.Date}
		i, ok := index[k]
		if !ok {
			i = len(rows)
			index[k] = i
			rows = append(rows, AttributionRow{Group: r.Group, Date: r.Date})
		}
		return &rows[i]
	}
	for _, r := range port {
		p := row(r)
		p.PortAlloc, p.PortReturn = r.Alloc, r.Return
	}
	for _, r := range idx {
		p := row(r)
		p.IdxAlloc, p.IdxReturn = r.Alloc, r.Return
	}

	for i := range rows {
		r := &rows[i]
		r.Selection = (r.PortReturn - r.IdxReturn) * r.IdxAlloc
		r.Allocation = (r.PortAlloc - r.IdxAlloc) * r.IdxReturn
		r.Interaction = (r.PortAlloc - r.IdxAlloc) * (r.PortReturn - r.IdxReturn)
	}
	slices.SortFunc(rows, func(a, b AttributionRow) int {
		return cmp.Or(a.Date.Compare(b.Date), strings.Compare(a.Group, b.Group))
	})
	return rows
}

func summarize(rows []AttributionRow) Summary {
	var s Summary
	for _, r := range rows {
		s.Allocation += r.Allocation
		s.Selection += r.Selection
		s.Interaction += r.Interaction
		s.PortfolioReturn += r.PortAlloc * r.PortReturn
		s.BenchmarkReturn += r.IdxAlloc * r.IdxReturn
	}
	s.Alpha = s.Selection + s.Allocation + s.Interaction
	return s
}
