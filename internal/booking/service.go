// Package booking implements the trade booking service. Trades are keyed by
// trade id; the position aggregator subscribes downstream.
package booking

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service books trades and fans them out to listeners.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.Trade]
}

// NewService creates an empty trade booking service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.Trade]("booking", logger),
	}
}

// BookTrade validates and books a trade, fanning out to listeners before
// returning. Re-booking the same trade id overwrites and re-fires.
func (s *Service) BookTrade(trade model.Trade) error {
	if trade.TradeID == "" {
		return fmt.Errorf("book trade: empty trade id")
	}
	if trade.Quantity <= 0 {
		return fmt.Errorf("book trade %s: quantity must be positive, got %d", trade.TradeID, trade.Quantity)
	}
	if trade.Side != model.SideBuy && trade.Side != model.SideSell {
		return fmt.Errorf("book trade %s: unknown side %q", trade.TradeID, trade.Side)
	}

	s.logger.Debug("booking trade",
		zap.String("trade_id", trade.TradeID),
		zap.String("product", trade.Product.ProductID()),
		zap.String("book", trade.Book),
		zap.String("side", trade.Side),
		zap.Int64("quantity", trade.Quantity))

	return s.store.Publish(trade.TradeID, trade)
}

// Get returns a booked trade by trade id.
func (s *Service) Get(tradeID string) (model.Trade, error) {
	return s.store.Get(tradeID)
}

// AddListener registers a downstream trade listener.
func (s *Service) AddListener(l service.Listener[model.Trade]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.Trade] {
	return s.store.Listeners()
}
