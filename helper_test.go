package attribution

import (
	"math"
	"testing"

	"github.com/sonwamoh/perfomance-attribution/date"
)

// scenarioPrices are the adjusted closes of three BSE stocks on the first
// trading days of 2023.
func scenarioPrices() *PriceTable {
	d := date.MustParse
	return NewPriceTable(
		PricePoint{Instrument: "HINDUNILVR.BSE", Date: d("2023-01-02"), Close: 2548.05, AdjClose: 2537.7716},
		PricePoint{Instrument: "HINDUNILVR.BSE", Date: d("2023-01-03"), Close: 2530.4, AdjClose: 2520.1654},
		PricePoint{Instrument: "HINDUNILVR.BSE", Date: d("2023-01-04"), Close: 2526.45, AdjClose: 2516.2474},
		PricePoint{Instrument: "MARUTI.BSE", Date: d("2023-01-02"), Close: 8496.7, AdjClose: 8406.6504},
		PricePoint{Instrument: "MARUTI.BSE", Date: d("2023-01-03"), Close: 8476.1, AdjClose: 8386.2998},
		PricePoint{Instrument: "MARUTI.BSE", Date: d("2023-01-04"), Close: 8422.0, AdjClose: 8422.0},
		// adjusted close is missing: the close is used instead.
		PricePoint{Instrument: "TATAMOTORS.BSE", Date: d("2023-01-02"), Close: 394.8},
		PricePoint{Instrument: "TATAMOTORS.BSE", Date: d("2023-01-03"), Close: 394.0},
		PricePoint{Instrument: "TATAMOTORS.BSE", Date: d("2023-01-04"), Close: 385.75},
	)
}

// scenarioPortfolio is a two sector portfolio invested on scenarioPrices.
func scenarioPortfolio() Portfolio {
	return Portfolio{
		Name:     "Portfolio",
		Currency: "INR",
		Capital:  1000000,
		Range:    date.Range{From: date.MustParse("2023-01-01"), To: date.MustParse("2023-01-04")},
		Holdings: []Holding{
			{Instrument: "MARUTI.BSE", Weight: 0.7, Group: "AUTO"},
			{Instrument: "HINDUNILVR.BSE", Weight: 0.3, Group: "FMCG"},
		},
	}
}

// scenarioIndex is the benchmark of scenarioPortfolio.
func scenarioIndex() Portfolio {
	return Portfolio{
		Name:     "Index",
		Currency: "INR",
		Capital:  1000000,
		Range:    date.Range{From: date.MustParse("2023-01-01"), To: date.MustParse("2023-01-04")},
		Holdings: []Holding{
			{Instrument: "MARUTI.BSE", Weight: 0.3, Group: "AUTO"},
			{Instrument: "HINDUNILVR.BSE", Weight: 0.4, Group: "FMCG"},
			{Instrument: "TATAMOTORS.BSE", Weight: 0.3, Group: "AUTO"},
		},
	}
}

// round rounds f to n decimals.
func round(f float64, n int) float64 {
	p := math.Pow10(n)
	return math.Round(f*p) / p
}

// near checks that got equals want within tol.
func near(t *testing.T, name string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, tol)
	}
}
