package renderer

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	attribution "github.com/sonwamoh/perfomance-attribution"
	"github.com/sonwamoh/perfomance-attribution/date"
)

// tables parses md and returns the text of every table cell, table by table.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var all [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *extast.Table:
			all = append(all, nil)
		case *extast.TableHeader, *extast.TableRow:
			table := &all[len(all)-1]
			*table = append(*table, nil)
		case *extast.TableCell:
			table := all[len(all)-1]
			row := &table[len(table)-1]
			*row = append(*row, "")
		case *ast.Text:
			if inCell(n) {
				rows := all[len(all)-1]
				row := rows[len(rows)-1]
				row[len(row)-1] += string(n.Segment.Value(source))
			}
		}
		return ast.WalkContinue, nil
	})
	return all
}

func inCell(n ast.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*extast.TableCell); ok {
			return true
		}
	}
	return false
}

// headings returns the text of every heading.
func headings(t *testing.T, md string) []string {
	t.Helper()
	var hs []string
	for _, line := range strings.Split(md, "\n") {
		if strings.HasPrefix(line, "#") {
			hs = append(hs, strings.TrimSpace(strings.TrimLeft(line, "#")))
		}
	}
	return hs
}

var jan4 = date.New(2023, time.January, 4)

func sample() attribution.Attribution {
	return attribution.Attribution{
		Rows: []attribution.AttributionRow{
			{Group: "AUTO", PortAlloc: 0.7, PortReturn: 0.002, IdxAlloc: 0.6, IdxReturn: -0.01, Selection: 0.0072, Allocation: -0.001, Interaction: 0.0012},
			{Group: "FMCG", PortAlloc: 0.3, PortReturn: -0.0085, IdxAlloc: 0.4, IdxReturn: -0.0085},
		},
		Summary: attribution.Summary{Selection: 0.0072, Allocation: -0.001, Interaction: 0.0012, Alpha: 0.0074, PortfolioReturn: -0.0012, BenchmarkReturn: -0.0094},
	}
}

func TestAttributionMarkdown(t *testing.T) {
	md := AttributionMarkdown("Attribution", sample())
	got := tables(t, md)
	if len(got) != 1 {
		t.Fatalf("AttributionMarkdown() has %d tables want 1", len(got))
	}
	want := [][]string{
		{"Group", "Portfolio", "Benchmark", "Selection", "Allocation", "Interaction"},
		{"AUTO", "70.00% @ +0.20%", "60.00% @ -1.00%", "+0.72%", "-0.10%", "+0.12%"},
		{"FMCG", "30.00% @ -0.85%", "40.00% @ -0.85%", "-", "-", "-"},
		{"Total", "-0.12%", "-0.94%", "+0.72%", "-0.10%", "+0.12%"},
	}
	if !slices.EqualFunc(got[0], want, slices.Equal) {
		t.Errorf("AttributionMarkdown() table = %q want %q", got[0], want)
	}
	if !strings.Contains(md, "Alpha: **+0.74%**") {
		t.Errorf("AttributionMarkdown() has no alpha line:\n%s", md)
	}
}

func TestValuationMarkdown(t *testing.T) {
	rows := []attribution.ValuationRow{
		{Instrument: "MARUTI.BSE", Date: jan4, Price: 8422, Shares: 83, Value: 699026},
		{Instrument: "HINDUNILVR.BSE", Date: jan4, Price: 2521.5, Shares: 118, Value: 297537, Filled: true},
	}
	md := ValuationMarkdown(rows, "INR")
	got := tables(t, md)
	want := [][]string{
		{"Date", "Instrument", "Price", "Shares", "Value"},
		{"2023-01-04", "MARUTI.BSE", "₹8,422.00", "83", "₹699,026.00"},
		{"2023-01-04", "HINDUNILVR.BSE", "₹2,521.50*", "118", "₹297,537.00"},
	}
	if len(got) != 1 || !slices.EqualFunc(got[0], want, slices.Equal) {
		t.Errorf("ValuationMarkdown() = %q want %q", got, want)
	}
	if !strings.Contains(md, "carried forward") {
		t.Errorf("ValuationMarkdown() has no footnote for filled prices")
	}
}

func TestReturnsMarkdown(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		got := tables(t, ReturnsMarkdown("Returns", []attribution.GroupReturnRow{
			{Group: "AUTO", Date: jan4, Alloc: 0.6969, Return: 0.0018},
		}))
		want := []string{"AUTO", "2023-01-04", "69.69%", "+0.18%"}
		if !slices.Equal(got[0][1], want) {
			t.Errorf("ReturnsMarkdown() row = %q want %q", got[0][1], want)
		}
	})
	t.Run("linked", func(t *testing.T) {
		got := tables(t, ReturnsMarkdown("Returns", []attribution.GroupReturnRow{
			{Group: "AUTO", Alloc: 0.5, Return: 0.0721},
		}))
		want := []string{"AUTO", "50.00%", "+7.21%"}
		if !slices.Equal(got[0][1], want) {
			t.Errorf("ReturnsMarkdown() row = %q want %q", got[0][1], want)
		}
	})
}

func TestContributionMarkdown(t *testing.T) {
	got := tables(t, ContributionMarkdown([]attribution.ContributionRow{
		{Group: "AUTO", Alloc: 0.5, Return: 0.1, Contribution: 0.05},
		{Group: "IT", Alloc: 0.5, Return: -0.02, Contribution: -0.01},
	}))
	total := got[0][len(got[0])-1]
	if total[0] != "Total" || total[3] != "+4.00%" {
		t.Errorf("ContributionMarkdown() total = %q want Total +4.00%%", total)
	}
}

func TestReportMarkdown(t *testing.T) {
	a := sample()
	a.Summary.Date = jan4
	r := &attribution.Report{
		Portfolio:   "Core",
		Benchmark:   "Index",
		Currency:    "INR",
		Capital:     1e6,
		Range:       date.Range{From: date.New(2023, time.January, 1), To: jan4},
		Attribution: sample(),
	}

	md := ReportMarkdown(r)
	want := []string{"Attribution of Core against Index", "Portfolio Returns", "Benchmark Returns", "Contribution", "Attribution"}
	if got := headings(t, md); !slices.Equal(got, want) {
		t.Errorf("ReportMarkdown() headings = %q want %q", got, want)
	}
	if !strings.Contains(md, "Capital: ₹1,000,000.00") {
		t.Errorf("ReportMarkdown() has no capital line:\n%s", md)
	}

	r.Monthly = []attribution.Attribution{a}
	r.Linked = &a
	md = ReportMarkdown(r)
	want = append(want, "Monthly Attribution", "Linked Attribution")
	if got := headings(t, md); !slices.Equal(got, want) {
		t.Errorf("ReportMarkdown(monthly) headings = %q want %q", got, want)
	}
	if got := tables(t, md)[4][1][0]; got != "2023-01" {
		t.Errorf("ReportMarkdown(monthly) month = %q want 2023-01", got)
	}
}
