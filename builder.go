package attribution

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sonwamoh/perfomance-attribution/date"
)

// Build values a buy-and-hold portfolio over window.
//
// The capital is split according to alloc on each instrument's basis date
// (its first priced date inside window), where the number of shares is fixed
// as floor(weight*capital/price) and never rebalanced.
//
// An instrument without any price inside window is left out: it has no row and
// its share of the capital stays uninvested. An instrument unknown to src is an
// error.
//
// The dates of the result are the union of all instruments' dates inside
// window. An instrument lacking a price on one of those dates carries its last
// known price forward (the row is marked Filled); it is never filled backward,
// so an instrument has no rows before its basis date.
//
// Rows are sorted by instrument then date.
func Build(ctx context.Context, capital float64, alloc Allocation, window date.Range, src PriceSource) ([]ValuationRow, error) {
	if err := alloc.Validate(); err != nil {
		return nil, err
	}
	if capital <= 0 {
		return nil, fmt.Errorf("capital must be positive, got %v", capital)
	}
	if !window.Valid() {
		return nil, fmt.Errorf("invalid range %s", window)
	}

	var held Allocation
	var histories []*date.History[float64]
	for _, w := range alloc {
		h, err := priceHistory(ctx, src, w.Instrument, window)
		if err != nil {
			return nil, err
		}
		if h.Len() == 0 {
			continue
		}
		held = append(held, w)
		histories = append(histories, h)
	}
	if len(held) == 0 {
		return nil, &EmptyResultError{Op: "build " + window.String()}
	}
	grid := date.Grid(histories...)

	// Visit instruments in id order, so that rows come out sorted.
	order := make([]int, len(held))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(i, j int) int { return strings.Compare(held[i].Instrument, held[j].Instrument) })

	rows := make([]ValuationRow, 0, len(held)*len(grid))
	for _, i := range order {
		w, h := held[i], histories[i]
		basis, basisPrice := h.First()
		shares := shareCount(capital, w.Weight, basisPrice)

		for _, on := range grid {
			if on.Before(basis) {
				continue
			}
			price, observed := h.Get(on)
			if !observed {
				price, _ = h.ValueAsOf(on)
			}
			rows = append(rows, ValuationRow{
				Instrument: w.Instrument,
				Date:       on,
				Price:      price,
				Shares:     shares,
				Value:      float64(shares) * price,
				Filled:     !observed,
			})
		}
	}
	return rows, nil
}

// priceHistory reads the prices of an instrument that fall inside window.
// Points without a positive price are ignored.
func priceHistory(ctx context.Context, src PriceSource, instrument string, window date.Range) (*date.History[float64], error) {
	points, err := src.Prices(ctx, instrument)
	if err != nil {
		var unavailable *PriceUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("cannot read prices of %q: %w", instrument, err)
	}

	h := new(date.History[float64])
	for _, p := range points {
		if !window.Contains(p.Date) || p.Price() <= 0 {
			continue
		}
		h.Append(p.Date, p.Price())
	}
	return h, nil
}

// shareCount returns floor(weight*capital/price) computed with exact decimals.
func shareCount(capital, weight, price float64) int64 {
	amount := decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(capital))
	shares, rem := amount.QuoRem(decimal.NewFromFloat(price), 0)
	if rem.IsNegative() {
		// QuoRem truncates toward zero, short positions round down.
		shares = shares.Sub(decimal.NewFromInt(1))
	}
	return shares.IntPart()
}
