package inquiry

import "fmt"

// InvalidTransitionError reports an attempted state transition the inquiry
// lifecycle does not permit, such as quoting a DONE inquiry.
type InvalidTransitionError struct {
	InquiryID string
	From      string
	To        string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("inquiry %q: illegal transition %s -> %s", e.InquiryID, e.From, e.To)
}
