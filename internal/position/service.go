// Package position implements the position aggregator: per-book signed
// quantities per product, fed by booked trades.
package position

import (
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service maintains one Position per product, created lazily on the first
// trade for that product, and fans updated positions out to listeners.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.Position]
}

// NewService creates an empty position service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.Position]("position", logger),
	}
}

// RecordTrade folds a trade's signed quantity (+BUY, -SELL) into the
// position entry for the trade's book and publishes the updated position.
// The stored position never aliases previously published copies.
func (s *Service) RecordTrade(trade model.Trade) error {
	productID := trade.Product.ProductID()

	current, err := s.store.Get(productID)
	if err != nil {
		current = model.NewPosition(trade.Product)
	}

	next := current.Clone()
	delta := trade.Quantity
	if trade.Side == model.SideSell {
		delta = -delta
	}
	next.Positions[trade.Book] += delta

	s.logger.Debug("position updated",
		zap.String("product", productID),
		zap.String("book", trade.Book),
		zap.Int64("delta", delta),
		zap.Int64("book_position", next.Positions[trade.Book]),
		zap.Int64("aggregate", next.Aggregate()))

	return s.store.Publish(productID, next)
}

// Get returns the current position for a product.
func (s *Service) Get(productID string) (model.Position, error) {
	return s.store.Get(productID)
}

// AggregatePosition returns the signed sum across all books for a product.
// Recomputed on every call; fails for products never traded.
func (s *Service) AggregatePosition(productID string) (int64, error) {
	pos, err := s.store.Get(productID)
	if err != nil {
		return 0, err
	}
	return pos.Aggregate(), nil
}

// Quantity returns the signed net quantity for one book of a product.
func (s *Service) Quantity(productID, book string) (int64, error) {
	pos, err := s.store.Get(productID)
	if err != nil {
		return 0, err
	}
	return pos.Quantity(book), nil
}

// AddListener registers a downstream position listener.
func (s *Service) AddListener(l service.Listener[model.Position]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.Position] {
	return s.store.Listeners()
}

// TradeListener adapts the service to consume booked trades. Both add and
// update events fold into the running position.
func TradeListener(s *Service) service.Listener[model.Trade] {
	return service.ListenerFuncs[model.Trade]{
		OnAdd:    s.RecordTrade,
		OnUpdate: s.RecordTrade,
	}
}
