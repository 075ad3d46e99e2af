package attribution

import "github.com/sonwamoh/perfomance-attribution/date"

// ValuationRow is the value of an instrument position on a date.
type ValuationRow struct {
	Instrument string    `json:"symbol"`
	Date       date.Date `json:"date"`
	Price      float64   `json:"adj_close"`
	Shares     int64     `json:"shares"`
	Value      float64   `json:"value"`
	Filled     bool      `json:"filled,omitempty"` // price carried forward from an earlier date
}

// GroupAllocationRow is the value of a group on a date, and its share of the
// total portfolio value that day.
type GroupAllocationRow struct {
	Group string    `json:"sector"`
	Date  date.Date `json:"date"`
	Value float64   `json:"sector_val"`
	Alloc float64   `json:"sector_alloc"`
}

// GroupReturnRow is the return of a group over a window ending on Date, with
// its allocation observed on Date. Date is zero for linked multi-period rows.
type GroupReturnRow struct {
	Group  string    `json:"sector"`
	Date   date.Date `json:"date,omitzero"`
	Alloc  float64   `json:"sector_alloc"`
	Return float64   `json:"sector_returns"`
}

// AttributionRow holds the joined portfolio and benchmark figures of a group
// and the resulting effects.
type AttributionRow struct {
	Group       string    `json:"sector"`
	Date        date.Date `json:"date,omitzero"`
	PortAlloc   float64   `json:"sector_alloc_port"`
	PortReturn  float64   `json:"sector_returns_port"`
	IdxAlloc    float64   `json:"sector_alloc_idx"`
	IdxReturn   float64   `json:"sector_returns_idx"`
	Selection   float64   `json:"selection_effect"`
	Allocation  float64   `json:"allocation_effect"`
	Interaction float64   `json:"interaction_effect"`
}

// Summary holds the effects summed across groups.
type Summary struct {
	Date            date.Date `json:"date,omitzero"`
	Allocation      float64   `json:"alloc_val"`
	Selection       float64   `json:"selec_val"`
	Interaction     float64   `json:"interact_val"`
	Alpha           float64   `json:"alpha_val"`
	PortfolioReturn float64   `json:"portfolio_return"` // Σ port_alloc*port_return
	BenchmarkReturn float64   `json:"benchmark_return"` // Σ idx_alloc*idx_return
}

// Attribution is the result of an attribution analysis over one window.
type Attribution struct {
	Rows    []AttributionRow `json:"rows"`
	Summary Summary          `json:"summary"`
}

// ContributionRow is the contribution of a group (or instrument) to the
// portfolio return.
type ContributionRow struct {
	Group        string    `json:"sector"`
	Date         date.Date `json:"date,omitzero"`
	Alloc        float64   `json:"sector_alloc"`
	Return       float64   `json:"sector_returns"`
	Contribution float64   `json:"contribution"`
}
