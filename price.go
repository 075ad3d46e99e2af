package attribution

import (
	"context"
	"slices"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// PricePoint is a single daily observation for an instrument.
type PricePoint struct {
	Instrument  string    `json:"symbol"`
	Date        date.Date `json:"date"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	AdjClose    float64   `json:"adj_close"`
	Volume      float64   `json:"vol"`
	Dividend    float64   `json:"dividend"`
	SplitFactor float64   `json:"factor"`
}

// Price returns the adjusted close, or the close when the provider did not
// supply an adjusted value.
func (p PricePoint) Price() float64 {
	if p.AdjClose > 0 {
		return p.AdjClose
	}
	return p.Close
}

// PriceSource gives access to the daily price series of instruments.
//
// Prices returns the full known series of an instrument, in any order. It
// must fail with a *PriceUnavailableError when the instrument is unknown. It
// may return fewer dates than a caller is interested in.
//
// Caching, persistence and rate limiting are the implementation's concern.
type PriceSource interface {
	Prices(ctx context.Context, instrument string) ([]PricePoint, error)
}

// PriceTable is a PriceSource over a pre-fetched in-memory table.
type PriceTable struct {
	series map[string][]PricePoint
}

// NewPriceTable returns a table holding the given points.
func NewPriceTable(points ...PricePoint) *PriceTable {
	t := &PriceTable{series: make(map[string][]PricePoint)}
	t.Add(points...)
	return t
}

// Add appends points to the table.
func (t *PriceTable) Add(points ...PricePoint) {
	for _, p := range points {
		t.series[p.Instrument] = append(t.series[p.Instrument], p)
	}
}

// Instruments returns the sorted list of instruments in the table.
func (t *PriceTable) Instruments() []string {
	ids := make([]string, 0, len(t.series))
	for id := range t.series {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Prices implements PriceSource.
func (t *PriceTable) Prices(_ context.Context, instrument string) ([]PricePoint, error) {
	points, ok := t.series[instrument]
	if !ok || len(points) == 0 {
		return nil, &PriceUnavailableError{Instrument: instrument}
	}
	return slices.Clone(points), nil
}

var _ PriceSource = (*PriceTable)(nil)
