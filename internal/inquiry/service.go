// Package inquiry implements the customer inquiry state machine.
//
// States: RECEIVED -> QUOTED -> {DONE, CUSTOMER_REJECTED};
// RECEIVED -> REJECTED. DONE, REJECTED and CUSTOMER_REJECTED are terminal.
package inquiry

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service stores inquiries keyed by inquiry id and enforces legal state
// transitions.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.Inquiry]
}

// NewService creates an empty inquiry service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.Inquiry]("inquiry", logger),
	}
}

// OnNewInquiry stores a freshly received inquiry and fans out as an add
// event. The inquiry is stored at RECEIVED regardless of the caller's
// state field.
func (s *Service) OnNewInquiry(inq model.Inquiry) error {
	inq.State = model.InquiryReceived
	return s.store.Publish(inq.InquiryID, inq)
}

// SendQuote sets the price and transitions RECEIVED -> QUOTED, fanning out
// as an update.
func (s *Service) SendQuote(inquiryID string, price decimal.Decimal) error {
	inq, err := s.transitionable(inquiryID, model.InquiryQuoted)
	if err != nil {
		return err
	}
	inq.Price = price
	inq.State = model.InquiryQuoted
	return s.store.Publish(inq.InquiryID, inq)
}

// Reject transitions any non-terminal inquiry to REJECTED.
func (s *Service) Reject(inquiryID string) error {
	inq, err := s.transitionable(inquiryID, model.InquiryRejected)
	if err != nil {
		return err
	}
	inq.State = model.InquiryRejected
	return s.store.Publish(inq.InquiryID, inq)
}

// Complete transitions a QUOTED inquiry to DONE.
func (s *Service) Complete(inquiryID string) error {
	inq, err := s.transitionable(inquiryID, model.InquiryDone)
	if err != nil {
		return err
	}
	inq.State = model.InquiryDone
	return s.store.Publish(inq.InquiryID, inq)
}

// CustomerReject transitions a QUOTED inquiry to CUSTOMER_REJECTED.
func (s *Service) CustomerReject(inquiryID string) error {
	inq, err := s.transitionable(inquiryID, model.InquiryCustomerRejected)
	if err != nil {
		return err
	}
	inq.State = model.InquiryCustomerRejected
	return s.store.Publish(inq.InquiryID, inq)
}

// Get returns the latest stored inquiry, never a stale one.
func (s *Service) Get(inquiryID string) (model.Inquiry, error) {
	return s.store.Get(inquiryID)
}

// AddListener registers a downstream inquiry listener.
func (s *Service) AddListener(l service.Listener[model.Inquiry]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.Inquiry] {
	return s.store.Listeners()
}

// transitionable loads an inquiry and checks the transition is legal.
func (s *Service) transitionable(inquiryID, to string) (model.Inquiry, error) {
	inq, err := s.store.Get(inquiryID)
	if err != nil {
		return model.Inquiry{}, err
	}
	if !legal(inq.State, to) {
		return model.Inquiry{}, &InvalidTransitionError{
			InquiryID: inquiryID,
			From:      inq.State,
			To:        to,
		}
	}
	return inq, nil
}

func legal(from, to string) bool {
	if model.TerminalInquiryState(from) {
		return false
	}
	switch to {
	case model.InquiryQuoted:
		return from == model.InquiryReceived
	case model.InquiryRejected:
		return true // any non-terminal state
	case model.InquiryDone, model.InquiryCustomerRejected:
		return from == model.InquiryQuoted
	}
	return false
}
