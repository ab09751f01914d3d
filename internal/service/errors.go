package service

import (
	"errors"
	"fmt"
)

// NotFoundError reports a query or mutation that referenced a key never
// published to the service. It is always returned synchronously to the
// caller and never swallowed or retried.
type NotFoundError struct {
	Service string
	Key     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no entity for key %q", e.Service, e.Key)
}

// IsNotFound reports whether err is a NotFoundError anywhere in its chain.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
