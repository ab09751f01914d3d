package marketdata

import "fmt"

// PreconditionError reports an order book whose bid or offer stack was
// empty at best-bid/offer query time. An empty stack violates the
// producer's input invariant and is unrecoverable here.
type PreconditionError struct {
	Product string
	Stack   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("order book for %q: empty %s stack", e.Product, e.Stack)
}
