package renderer

import (
	"fmt"
	"io"
	"strings"

	attribution "github.com/sonwamoh/perfomance-attribution"
)

// AttributionMarkdown renders the effects of every group followed by their totals.
func AttributionMarkdown(title string, a attribution.Attribution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	writeAttribution(&b, a)
	return b.String()
}

func writeAttribution(w io.Writer, a attribution.Attribution) {
	fmt.Fprintln(w, "| Group | Portfolio | Benchmark | Selection | Allocation | Interaction |")
	fmt.Fprintln(w, "|:---|---:|---:|---:|---:|---:|")
	for _, r := range a.Rows {
		fmt.Fprintf(w, "| %s | %s @ %s | %s @ %s | %s | %s | %s |\n",
			r.Group,
			weight(r.PortAlloc), ratio(r.PortReturn),
			weight(r.IdxAlloc), ratio(r.IdxReturn),
			ratio(r.Selection), ratio(r.Allocation), ratio(r.Interaction))
	}
	s := a.Summary
	fmt.Fprintf(w, "| **Total** | **%s** | **%s** | **%s** | **%s** | **%s** |\n\n",
		ratio(s.PortfolioReturn), ratio(s.BenchmarkReturn),
		ratio(s.Selection), ratio(s.Allocation), ratio(s.Interaction))
	fmt.Fprintf(w, "Alpha: **%s**\n", ratio(s.Alpha))
}

// MonthlyMarkdown renders one summary line per month.
func MonthlyMarkdown(periods []attribution.Attribution) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Monthly Attribution\n\n")
	fmt.Fprintln(&b, "| Month | Portfolio | Benchmark | Selection | Allocation | Interaction | Alpha |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, a := range periods {
		s := a.Summary
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			s.Date.Format("2006-01"),
			ratio(s.PortfolioReturn), ratio(s.BenchmarkReturn),
			ratio(s.Selection), ratio(s.Allocation), ratio(s.Interaction), ratio(s.Alpha))
	}
	return b.String()
}

// ReportMarkdown renders a full analysis.
func ReportMarkdown(r *attribution.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Attribution of %s against %s\n\n", r.Portfolio, r.Benchmark)
	fmt.Fprintf(&b, "Period: %s to %s\n\n", r.Range.From, r.Range.To)
	fmt.Fprintf(&b, "Capital: %s\n\n", attribution.M(r.Capital, r.Currency))

	fmt.Fprint(&b, ReturnsMarkdown("Portfolio Returns", r.PortfolioReturns), "\n")
	fmt.Fprint(&b, ReturnsMarkdown("Benchmark Returns", r.BenchmarkReturns), "\n")
	fmt.Fprint(&b, ContributionMarkdown(r.Contribution), "\n")
	fmt.Fprint(&b, AttributionMarkdown("Attribution", r.Attribution))

	ConditionalBlock(&b, func(w io.Writer) bool {
		fmt.Fprint(w, "\n", MonthlyMarkdown(r.Monthly))
		return len(r.Monthly) > 0
	})
	ConditionalBlock(&b, func(w io.Writer) bool {
		if r.Linked == nil {
			return false
		}
		fmt.Fprint(w, "\n", AttributionMarkdown("Linked Attribution", *r.Linked))
		return true
	})
	return b.String()
}
