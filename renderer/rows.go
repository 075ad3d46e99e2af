// Package renderer formats attribution results as markdown.
package renderer

import (
	"fmt"
	"strings"

	attribution "github.com/sonwamoh/perfomance-attribution"
)

// ValuationMarkdown renders the daily value of every position.
// Prices carried forward from an earlier date are marked with a *.
func ValuationMarkdown(rows []attribution.ValuationRow, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Valuation\n\n")
	fmt.Fprintln(&b, "| Date | Instrument | Price | Shares | Value |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	filled := false
	for _, r := range rows {
		mark := ""
		if r.Filled {
			mark, filled = "*", true
		}
		fmt.Fprintf(&b, "| %s | %s | %s%s | %d | %s |\n",
			r.Date, r.Instrument, attribution.M(r.Price, currency), mark, r.Shares, attribution.M(r.Value, currency))
	}
	if filled {
		fmt.Fprint(&b, "\n\\* price carried forward from the previous trading day.\n")
	}
	return b.String()
}

// AllocationMarkdown renders the value and allocation of every group on every date.
func AllocationMarkdown(rows []attribution.GroupAllocationRow, currency string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Allocation\n\n")
	fmt.Fprintln(&b, "| Group | Date | Value | Allocation |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Group, r.Date, attribution.M(r.Value, currency), weight(r.Alloc))
	}
	return b.String()
}

// ReturnsMarkdown renders group returns under the given title.
func ReturnsMarkdown(title string, rows []attribution.GroupReturnRow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	dated := len(rows) > 0 && !rows[0].Date.IsZero()
	if dated {
		fmt.Fprintln(&b, "| Group | Date | Allocation | Return |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|")
	} else {
		fmt.Fprintln(&b, "| Group | Allocation | Return |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
	}
	for _, r := range rows {
		if dated {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Group, r.Date, weight(r.Alloc), ratio(r.Return))
		} else {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", r.Group, weight(r.Alloc), ratio(r.Return))
		}
	}
	return b.String()
}

// ContributionMarkdown renders the contribution of each group to the return.
func ContributionMarkdown(rows []attribution.ContributionRow) string {
	var b strings.Builder
	fmt.Fprint(&b, "## Contribution\n\n")
	fmt.Fprintln(&b, "| Group | Allocation | Return | Contribution |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	total := 0.0
	for _, r := range rows {
		total += r.Contribution
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Group, weight(r.Alloc), ratio(r.Return), ratio(r.Contribution))
	}
	fmt.Fprintf(&b, "| **Total** | | | **%s** |\n", ratio(total))
	return b.String()
}
