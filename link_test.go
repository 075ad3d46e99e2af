package attribution

import (
	"errors"
	"testing"

	"github.com/sonwamoh/perfomance-attribution/date"
)

func months() (port, idx [][]GroupReturnRow) {
	port = [][]GroupReturnRow{
		{{Group: "AUTO", Alloc: 0.65, Return: 0.09}, {Group: "FMCG", Alloc: 0.35, Return: -0.03}},
		{{Group: "AUTO", Alloc: 0.6, Return: 0.02}, {Group: "FMCG", Alloc: 0.4, Return: -0.01}},
	}
	idx = [][]GroupReturnRow{
		{{Group: "AUTO", Alloc: 0.7, Return: 0.15}, {Group: "FMCG", Alloc: 0.3, Return: -0.01}},
		{{Group: "AUTO", Alloc: 0.68, Return: 0.03}, {Group: "FMCG", Alloc: 0.32, Return: 0.01}},
	}
	return port, idx
}

func TestLink(t *testing.T) {
	port, idx := months()
	tests := []struct {
		name    string
		periods [][]GroupReturnRow
		want    float64 // sum of the linked returns
	}{
		{"portfolio", port, 0.0721},
		{"index", idx, 0.1844},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linked, err := Link(tt.periods...)
			if err != nil {
				t.Fatalf("Link() error = %v", err)
			}
			sum := 0.0
			for i, r := range linked {
				if r.Alloc != tt.periods[0][i].Alloc {
					t.Errorf("%s alloc = %v, want the first period's %v", r.Group, r.Alloc, tt.periods[0][i].Alloc)
				}
				if !r.Date.IsZero() {
					t.Errorf("%s is dated %s", r.Group, r.Date)
				}
				sum += r.Return
			}
			if got := round(sum, 4); got != tt.want {
				t.Errorf("sum of linked returns = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLink_MissingGroup(t *testing.T) {
	linked, err := Link(
		[]GroupReturnRow{{Group: "A", Alloc: 1, Return: 0.1}},
		[]GroupReturnRow{{Group: "A", Alloc: 0.5, Return: 0.1}, {Group: "B", Alloc: 0.5, Return: 0.2}},
	)
	if err != nil {
		t.Fatalf("Link() error = %v", err)
	}
	if len(linked) != 2 {
		t.Fatalf("Link() = %v, want A and B", linked)
	}
	near(t, "A return", linked[0].Return, 0.21, 1e-12)
	if b := linked[1]; b.Alloc != 0 {
		t.Errorf("B = %+v, want no allocation", b)
	}
	near(t, "B return", linked[1].Return, 0.2, 1e-12)

	var empty *EmptyResultError
	if _, err := Link(); !errors.As(err, &empty) {
		t.Errorf("Link() error = %v, want an EmptyResultError", err)
	}
}

func TestAttributeLinked(t *testing.T) {
	port, idx := months()
	a, err := AttributeLinked(port, idx)
	if err != nil {
		t.Fatalf("AttributeLinked() error = %v", err)
	}
	if got := round(a.Summary.Alpha, 4); got != -0.0703 {
		t.Errorf("alpha = %v, want -0.0703", got)
	}
	near(t, "alpha", a.Summary.Alpha, a.Summary.PortfolioReturn-a.Summary.BenchmarkReturn, 1e-12)
}

func TestAttributeLinked_SinglePeriod(t *testing.T) {
	port, idx := scenarioReturns(t)
	single, err := Attribute(port, idx)
	if err != nil {
		t.Fatalf("Attribute() error = %v", err)
	}
	linked, err := AttributeLinked([][]GroupReturnRow{port}, [][]GroupReturnRow{idx})
	if err != nil {
		t.Fatalf("AttributeLinked() error = %v", err)
	}
	near(t, "alpha", linked.Summary.Alpha, single.Summary.Alpha, 1e-15)
	near(t, "allocation", linked.Summary.Allocation, single.Summary.Allocation, 1e-15)
	near(t, "selection", linked.Summary.Selection, single.Summary.Selection, 1e-15)
	near(t, "interaction", linked.Summary.Interaction, single.Summary.Interaction, 1e-15)
}

func TestSplitByDate(t *testing.T) {
	d := date.MustParse
	rows := []GroupReturnRow{
		{Group: "A", Date: d("2024-02-29")},
		{Group: "A", Date: d("2024-01-31")},
		{Group: "B", Date: d("2024-01-31")},
	}
	periods := SplitByDate(rows)
	if len(periods) != 2 || len(periods[0]) != 2 || len(periods[1]) != 1 {
		t.Fatalf("SplitByDate() = %v", periods)
	}
	if periods[0][0].Date != d("2024-01-31") {
		t.Errorf("first period is %s, want 2024-01-31", periods[0][0].Date)
	}
}
