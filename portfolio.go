package attribution

import (
	"context"
	"fmt"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// Holding is an instrument held by a portfolio, with its weight at inception
// and the group it is attributed to.
type Holding struct {
	Instrument string  `json:"instrument"`
	Weight     float64 `json:"weight"`
	Group      string  `json:"group"`
}

// Portfolio describes a buy-and-hold portfolio, or a benchmark index.
type Portfolio struct {
	Name     string     `json:"name"`
	Currency string     `json:"currency,omitempty"` // ISO 4217 code, used to display values
	Capital  float64    `json:"capital"`
	Range    date.Range `json:"range"`
	Holdings []Holding  `json:"holdings"`
}

// Allocation returns the weights of the holdings.
func (p Portfolio) Allocation() Allocation {
	alloc := make(Allocation, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		alloc = append(alloc, Weight{Instrument: h.Instrument, Weight: h.Weight})
	}
	return alloc
}

// Groups returns the group map of the holdings. Holdings without a group are
// left out.
func (p Portfolio) Groups() GroupMap {
	groups := make(GroupMap, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if h.Group == "" {
			continue
		}
		groups = append(groups, Membership{Instrument: h.Instrument, Group: h.Group})
	}
	return groups
}

// Valuation builds the portfolio over its range.
func (p Portfolio) Valuation(ctx context.Context, src PriceSource) ([]ValuationRow, error) {
	rows, err := Build(ctx, p.Capital, p.Allocation(), p.Range, src)
	if err != nil {
		return nil, fmt.Errorf("cannot build %q: %w", p.Name, err)
	}
	return rows, nil
}

// GroupAllocation builds the portfolio and aggregates it by group.
func (p Portfolio) GroupAllocation(ctx context.Context, src PriceSource) ([]GroupAllocationRow, error) {
	rows, err := p.Valuation(ctx, src)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows, p.Groups())
}

// GroupReturns returns the return of each group over the portfolio range.
func (p Portfolio) GroupReturns(ctx context.Context, src PriceSource) ([]GroupReturnRow, error) {
	rows, err := p.GroupAllocation(ctx, src)
	if err != nil {
		return nil, err
	}
	return Extract(rows)
}

// Options controls Analyze.
type Options struct {
	// Monthly adds the month by month attribution, and its geometric linking.
	Monthly bool
}

// Report gathers the results of an attribution analysis.
type Report struct {
	Portfolio string     `json:"portfolio"`
	Benchmark string     `json:"benchmark"`
	Currency  string     `json:"currency,omitempty"`
	Capital   float64    `json:"capital"`
	Range     date.Range `json:"range"`

	PortfolioReturns []GroupReturnRow  `json:"portfolio_returns"`
	BenchmarkReturns []GroupReturnRow  `json:"benchmark_returns"`
	Contribution     []ContributionRow `json:"contribution"`
	Attribution      Attribution       `json:"attribution"`

	Monthly []Attribution `json:"monthly,omitempty"`
	Linked  *Attribution  `json:"linked,omitempty"`
}

// Analyze attributes the performance of port against bench.
//
// Both are valued over the range of port; the range of bench is ignored so
// that both sides always cover the same window.
func Analyze(ctx context.Context, port, bench Portfolio, src PriceSource, opts Options) (*Report, error) {
	bench.Range = port.Range

	pa, err := port.GroupAllocation(ctx, src)
	if err != nil {
		return nil, err
	}
	ba, err := bench.GroupAllocation(ctx, src)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Portfolio: port.Name,
		Benchmark: bench.Name,
		Currency:  port.Currency,
		Capital:   port.Capital,
		Range:     port.Range,
	}
	if r.PortfolioReturns, err = Extract(pa); err != nil {
		return nil, err
	}
	if r.BenchmarkReturns, err = Extract(ba); err != nil {
		return nil, err
	}
	r.Contribution = Contribution(r.PortfolioReturns)
	if r.Attribution, err = Attribute(r.PortfolioReturns, r.BenchmarkReturns); err != nil {
		return nil, err
	}
	if !opts.Monthly {
		return r, nil
	}

	if r.Monthly, err = AttributeMonthly(pa, ba); err != nil {
		return nil, err
	}
	pm, err := ExtractMonthly(pa)
	if err != nil {
		return nil, err
	}
	bm, err := ExtractMonthly(ba)
	if err != nil {
		return nil, err
	}
	linked, err := AttributeLinked(SplitByDate(pm), SplitByDate(bm))
	if err != nil {
		return nil, err
	}
	r.Linked = &linked
	return r, nil
}
