package risk

import "fmt"

// InvalidAggregationError reports a bucketed-risk computation that cannot
// produce a defined result: either a sector product was never risked or the
// total quantity is zero.
type InvalidAggregationError struct {
	Sector string
	Reason string
	Cause  error
}

func (e *InvalidAggregationError) Error() string {
	return fmt.Sprintf("bucketed risk for sector %q: %s", e.Sector, e.Reason)
}

func (e *InvalidAggregationError) Unwrap() error { return e.Cause }
