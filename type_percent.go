package attribution

import "fmt"

// Percent is a value expressed in percent (1.5 means 1.5%).
type Percent float64

// Ratio converts a fraction (0.015) into a Percent (1.5%).
func Ratio(f float64) Percent { return Percent(100 * f) }

// Equal compares two percents with a 0.0001 precision.
func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString returns the percent with an explicit sign, "-" for zero.
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
