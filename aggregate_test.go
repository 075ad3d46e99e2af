package attribution

import (
	"context"
	"errors"
	"testing"

	"github.com/sonwamoh/perfomance-attribution/date"
)

func TestAggregate(t *testing.T) {
	p := scenarioIndex()
	rows, err := p.GroupAllocation(context.Background(), scenarioPrices())
	if err != nil {
		t.Fatalf("GroupAllocation() error = %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("GroupAllocation() returned %d rows, want 6: %v", len(rows), rows)
	}
	if rows[0].Group != "AUTO" || rows[3].Group != "FMCG" {
		t.Errorf("rows are not sorted by group: %v", rows)
	}
	// MARUTI 35*8406.6504 + TATAMOTORS 759*394.8
	near(t, "AUTO value", rows[0].Value, 593885.964, 1e-6)

	sums := make(map[date.Date]float64)
	for _, r := range rows {
		sums[r.Date] += r.Alloc
	}
	for on, sum := range sums {
		near(t, "allocation on "+on.String(), sum, 1, 1e-9)
	}
}

func TestAggregate_Unmapped(t *testing.T) {
	on := date.MustParse("2024-01-02")
	rows := []ValuationRow{
		{Instrument: "A", Date: on, Value: 50},
		{Instrument: "B", Date: on, Value: 30},
		{Instrument: "C", Date: on, Value: 20},
	}
	got, err := Aggregate(rows, GroupMap{{"A", "G1"}, {"B", "G1"}, {"A", "G2"}})
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Aggregate() = %v, want a single G1 row", got)
	}
	if got[0].Value != 80 || got[0].Alloc != 0.8 {
		t.Errorf("Aggregate() = %+v, want value 80 over a total of 100", got[0])
	}

	_, err = Aggregate(rows, GroupMap{{"Z", "G1"}})
	var empty *EmptyResultError
	if !errors.As(err, &empty) {
		t.Errorf("Aggregate() without any member error = %v, want an EmptyResultError", err)
	}
}

func TestInstrumentAllocation(t *testing.T) {
	p := scenarioIndex()
	rows, err := p.Valuation(context.Background(), scenarioPrices())
	if err != nil {
		t.Fatalf("Valuation() error = %v", err)
	}
	alloc, err := InstrumentAllocation(rows)
	if err != nil {
		t.Fatalf("InstrumentAllocation() error = %v", err)
	}
	if len(alloc) != len(rows) {
		t.Errorf("InstrumentAllocation() returned %d rows, want %d", len(alloc), len(rows))
	}
	for i, r := range alloc {
		if r.Group != rows[i].Instrument || r.Value != rows[i].Value {
			t.Errorf("row %d = %+v does not match %+v", i, r, rows[i])
		}
	}
}
