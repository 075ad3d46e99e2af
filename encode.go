package attribution

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sonwamoh/perfomance-attribution/date"
)

// DecodePortfolio reads a portfolio definition in JSON. Unknown properties are
// rejected so that typos do not silently change an analysis.
func DecodePortfolio(r io.Reader) (Portfolio, error) {
	var p Portfolio
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Portfolio{}, fmt.Errorf("invalid portfolio definition: %w", err)
	}
	if len(p.Holdings) == 0 {
		return Portfolio{}, fmt.Errorf("invalid portfolio definition %q: no holdings", p.Name)
	}
	return p, nil
}

// EncodeJSONL writes rows as JSON lines, one row per line.
func EncodeJSONL[T any](w io.Writer, rows []T) error {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return buf.Flush()
}

// Record is a row that can be written as a CSV record.
type Record interface {
	CSVHeader() []string
	CSVRecord() []string
}

// EncodeCSV writes rows as CSV, with a header line. Column names are the JSON
// property names of the row.
func EncodeCSV[R Record](w io.Writer, rows []R) error {
	cw := csv.NewWriter(w)
	var zero R
	if err := cw.Write(zero.CSVHeader()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.CSVRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func dtoa(d date.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func (ValuationRow) CSVHeader() []string {
	return []string{"symbol", "date", "adj_close", "shares", "value", "filled"}
}

func (r ValuationRow) CSVRecord() []string {
	return []string{r.Instrument, dtoa(r.Date), ftoa(r.Price), strconv.FormatInt(r.Shares, 10), ftoa(r.Value), strconv.FormatBool(r.Filled)}
}

func (GroupAllocationRow) CSVHeader() []string {
	return []string{"sector", "date", "sector_val", "sector_alloc"}
}

func (r GroupAllocationRow) CSVRecord() []string {
	return []string{r.Group, dtoa(r.Date), ftoa(r.Value), ftoa(r.Alloc)}
}

func (GroupReturnRow) CSVHeader() []string {
	return []string{"sector", "date", "sector_alloc", "sector_returns"}
}

func (r GroupReturnRow) CSVRecord() []string {
	return []string{r.Group, dtoa(r.Date), ftoa(r.Alloc), ftoa(r.Return)}
}

func (AttributionRow) CSVHeader() []string {
	return []string{"sector", "date",
		"sector_alloc_port", "sector_returns_port", "sector_alloc_idx", "sector_returns_idx",
		"selection_effect", "allocation_effect", "interaction_effect"}
}

func (r AttributionRow) CSVRecord() []string {
	return []string{r.Group, dtoa(r.Date),
		ftoa(r.PortAlloc), ftoa(r.PortReturn), ftoa(r.IdxAlloc), ftoa(r.IdxReturn),
		ftoa(r.Selection), ftoa(r.Allocation), ftoa(r.Interaction)}
}

func (Summary) CSVHeader() []string {
	return []string{"date", "alloc_val", "selec_val", "interact_val", "alpha_val", "portfolio_return", "benchmark_return"}
}

func (s Summary) CSVRecord() []string {
	return []string{dtoa(s.Date), ftoa(s.Allocation), ftoa(s.Selection), ftoa(s.Interaction), ftoa(s.Alpha), ftoa(s.PortfolioReturn), ftoa(s.BenchmarkReturn)}
}

func (ContributionRow) CSVHeader() []string {
	return []string{"sector", "date", "sector_alloc", "sector_returns", "contribution"}
}

func (r ContributionRow) CSVRecord() []string {
	return []string{r.Group, dtoa(r.Date), ftoa(r.Alloc), ftoa(r.Return), ftoa(r.Contribution)}
}

var priceColumns = []string{"date", "open", "high", "low", "close", "adj_close", "vol", "dividend", "factor", "symbol"}

func (PricePoint) CSVHeader() []string { return slices.Clone(priceColumns) }

func (p PricePoint) CSVRecord() []string {
	return []string{dtoa(p.Date), ftoa(p.Open), ftoa(p.High), ftoa(p.Low), ftoa(p.Close), ftoa(p.AdjClose), ftoa(p.Volume), ftoa(p.Dividend), ftoa(p.SplitFactor), p.Instrument}
}

// DecodePricesCSV reads price points written by EncodeCSV, or any CSV with
// the same column names in any order. Only "date", "symbol" and one of
// "adj_close" or "close" are required. Empty cells read as zero.
func DecodePricesCSV(r io.Reader) (*PriceTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read price header: %w", err)
	}
	col := make(map[string]int)
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"date", "symbol"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q in price header %v", required, header)
		}
	}
	_, hasAdj := col["adj_close"]
	_, hasClose := col["close"]
	if !hasAdj && !hasClose {
		return nil, fmt.Errorf("missing column %q or %q in price header %v", "adj_close", "close", header)
	}

	table := NewPriceTable()
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cell := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		p := PricePoint{Instrument: cell("symbol")}
		if p.Date, err = date.Parse(cell("date")); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for name, field := range map[string]*float64{
			"open": &p.Open, "high": &p.High, "low": &p.Low, "close": &p.Close, "adj_close": &p.AdjClose,
			"vol": &p.Volume, "dividend": &p.Dividend, "factor": &p.SplitFactor,
		} {
			if *field, err = ParseNumber(cell(name)); err != nil {
				return nil, fmt.Errorf("line %d, column %q: %w", line, name, err)
			}
		}
		table.Add(p)
	}
	return table, nil
}

// ParseNumber parses a decimal string as provided by price feeds. The empty
// string is zero.
func ParseNumber(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
