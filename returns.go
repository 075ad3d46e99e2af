package attribution

// TotalReturn compounds a sequence of periodic returns into a single return:
//
//	(1+r1) * (1+r2) * ... * (1+rn) - 1
//
// An empty sequence has a zero total return.
func TotalReturn(returns ...float64) float64 {
	total := 1.0
	for _, r := range returns {
		total *= 1 + r
	}
	return total - 1
}
