package attribution

import (
	"context"
	"strings"
	"testing"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"single period", Options{}},
		{"monthly", Options{Monthly: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Analyze(context.Background(), scenarioPortfolio(), scenarioIndex(), scenarioPrices(), tt.opts)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if got := round(r.Attribution.Summary.Alpha, 4); got != 0.0085 {
				t.Errorf("alpha = %v, want 0.0085", got)
			}
			if len(r.Contribution) != 2 {
				t.Errorf("contribution has %d rows, want 2", len(r.Contribution))
			}
			if !tt.opts.Monthly {
				if r.Monthly != nil || r.Linked != nil {
					t.Errorf("Analyze() computed monthly figures")
				}
				return
			}
			// The range holds a single month end, with no previous one to grow from.
			if len(r.Monthly) != 1 {
				t.Fatalf("Analyze() returned %d months, want 1", len(r.Monthly))
			}
			near(t, "monthly alpha", r.Monthly[0].Summary.Alpha, 0, 1e-12)
			near(t, "linked alpha", r.Linked.Summary.Alpha, 0, 1e-12)
		})
	}
}

func TestAnalyze_BenchmarkRange(t *testing.T) {
	bench := scenarioIndex()
	bench.Range.From = bench.Range.To.Add(1) // would be empty
	if _, err := Analyze(context.Background(), scenarioPortfolio(), bench, scenarioPrices(), Options{}); err != nil {
		t.Errorf("Analyze() error = %v, want the benchmark valued over the portfolio range", err)
	}
}

func TestPortfolio_Groups(t *testing.T) {
	p := scenarioIndex()
	p.Holdings = append(p.Holdings, Holding{Instrument: "CASH", Weight: 0})
	groups := p.Groups()
	if len(groups) != 3 {
		t.Errorf("Groups() = %v, want holdings without group left out", groups)
	}
	if got := len(p.Allocation()); got != 4 {
		t.Errorf("Allocation() has %d weights, want 4", got)
	}
}

func TestDecodePortfolio(t *testing.T) {
	const def = `{
  "name": "Growth",
  "currency": "INR",
  "capital": 1000000,
  "range": {"from": "2023-01-01", "to": "2023-01-04"},
  "holdings": [
    {"instrument": "MARUTI.BSE", "weight": 0.7, "group": "AUTO"},
    {"instrument": "HINDUNILVR.BSE", "weight": 0.3, "group": "FMCG"}
  ]
}`
	p, err := DecodePortfolio(strings.NewReader(def))
	if err != nil {
		t.Fatalf("DecodePortfolio() error = %v", err)
	}
	want := scenarioPortfolio()
	if p.Capital != want.Capital || p.Range != want.Range || len(p.Holdings) != 2 || p.Holdings[1] != want.Holdings[1] {
		t.Errorf("DecodePortfolio() = %+v, want %+v", p, want)
	}

	for _, bad := range []string{
		`{"name": "x", "holdings": []}`,
		`{"name": "x", "capitol": 10, "holdings": [{"instrument": "A", "weight": 1}]}`,
		`{"name": `,
	} {
		if _, err := DecodePortfolio(strings.NewReader(bad)); err == nil {
			t.Errorf("DecodePortfolio(%q) succeeded", bad)
		}
	}
}
