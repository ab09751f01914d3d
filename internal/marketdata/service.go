// Package marketdata distributes order-book snapshots and derives the best
// bid/offer pair from pre-sorted stacks.
package marketdata

import (
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service stores the latest order book per product.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.OrderBook]
}

// NewService creates an empty market data service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.OrderBook]("marketdata", logger),
	}
}

// OnMessage ingests an order-book snapshot, overwriting any previous book
// for the product, and fans out. Stacks must arrive pre-sorted best-first;
// sortedness is an input invariant owned by the producer.
func (s *Service) OnMessage(book model.OrderBook) error {
	return s.store.Publish(book.Product.ProductID(), book)
}

// Get returns the stored order book for a product.
func (s *Service) Get(productID string) (model.OrderBook, error) {
	return s.store.Get(productID)
}

// BestBidOffer returns the first element of each stack as the best pair.
// No bid < offer validation is performed and the stacks are never
// re-sorted. An empty stack is a precondition violation and fails
// explicitly rather than indexing out of range.
func (s *Service) BestBidOffer(productID string) (model.BidOffer, error) {
	book, err := s.store.Get(productID)
	if err != nil {
		return model.BidOffer{}, err
	}
	if len(book.Bids) == 0 {
		return model.BidOffer{}, &PreconditionError{Product: productID, Stack: "bid"}
	}
	if len(book.Offers) == 0 {
		return model.BidOffer{}, &PreconditionError{Product: productID, Stack: "offer"}
	}
	return model.BidOffer{Bid: book.Bids[0], Offer: book.Offers[0]}, nil
}

// AggregateDepth returns the full stored book unchanged: a current depth
// snapshot, not a compaction of duplicate price levels.
func (s *Service) AggregateDepth(productID string) (model.OrderBook, error) {
	return s.store.Get(productID)
}

// AddListener registers a downstream order-book listener.
func (s *Service) AddListener(l service.Listener[model.OrderBook]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.OrderBook] {
	return s.store.Listeners()
}
