package attribution

import "fmt"

// WeightTolerance is the maximum distance between the sum of an allocation's
// weights and 1.0.
const WeightTolerance = 1e-6

// InvalidWeightError is returned when the weights of an allocation do not sum
// to 1.0 within WeightTolerance. Weights are never normalized.
type InvalidWeightError struct {
	Sum float64
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("the sum of all the weights does not allocate to 100%% (1.0), as it's allocating to %s", Ratio(e.Sum))
}

// PriceUnavailableError is returned by a PriceSource that knows no price at
// all for an instrument.
type PriceUnavailableError struct {
	Instrument string
	Err        error // optional underlying cause
}

func (e *PriceUnavailableError) Error() string {
	msg := fmt.Sprintf("no price available for %q", e.Instrument)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PriceUnavailableError) Unwrap() error { return e.Err }

// EmptyResultError is returned when a grouping, window or join operation
// produces no rows at all.
type EmptyResultError struct {
	Op string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: empty result", e.Op)
}
