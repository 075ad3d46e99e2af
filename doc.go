// Package attribution computes Brinson performance attribution of a portfolio
// against a benchmark index.
//
// The computation is a pipeline over plain rows:
//   - Build values a buy-and-hold portfolio from an Allocation and a
//     PriceSource, one ValuationRow per instrument and date.
//   - Aggregate rolls the valuation up to groups (typically sectors), giving
//     the allocation of every group on every date.
//   - Extract reduces the allocation series to one return per group, between
//     the first and the last date. ExtractMonthly does the same month by month.
//   - Attribute joins the portfolio and benchmark returns by group and date and
//     splits the excess return into allocation, selection and interaction
//     effects, whose sum is the alpha.
//   - Link chains several periods geometrically before attributing them.
//
// Analyze runs the whole pipeline on two Portfolio definitions.
//
// The package does no I/O of its own: prices come from a PriceSource, and the
// same inputs always give the same rows.
package attribution
