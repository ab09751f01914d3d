// Package execution places execution orders on a venue and keeps the order
// table keyed by order id.
package execution

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service stores executed orders keyed by order id.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.ExecutionOrder]
}

// NewService creates an empty execution service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.ExecutionOrder]("execution", logger),
	}
}

// ExecuteOrder stores the order, fans out, and logs the execution.
func (s *Service) ExecuteOrder(order model.ExecutionOrder, venue string) error {
	if order.OrderID == "" {
		return fmt.Errorf("execute order: empty order id")
	}

	if err := s.store.Publish(order.OrderID, order); err != nil {
		return err
	}

	s.logger.Info("executed order",
		zap.String("order_id", order.OrderID),
		zap.String("venue", venue),
		zap.String("product", order.Product.ProductID()),
		zap.String("side", order.Side),
		zap.String("price", order.Price.String()),
		zap.Int64("visible_quantity", order.VisibleQuantity))
	return nil
}

// Get returns an executed order by order id.
func (s *Service) Get(orderID string) (model.ExecutionOrder, error) {
	return s.store.Get(orderID)
}

// AddListener registers a downstream execution listener.
func (s *Service) AddListener(l service.Listener[model.ExecutionOrder]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.ExecutionOrder] {
	return s.store.Listeners()
}

// Algo crosses the most aggressive side of each order-book update:
// it alternates between lifting the best offer and hitting the best bid,
// placing a FOK order at that level's price and quantity.
type Algo struct {
	exec   *Service
	venue  string
	hitBid bool
}

// NewAlgo creates an algo targeting the given venue.
func NewAlgo(exec *Service, venue string) *Algo {
	return &Algo{exec: exec, venue: venue}
}

// OnBook derives and executes one FOK order from the book's best level.
func (a *Algo) OnBook(book model.OrderBook) error {
	if len(book.Bids) == 0 || len(book.Offers) == 0 {
		return &marketDataGap{product: book.Product.ProductID()}
	}

	var level model.Order
	side := model.PricingSideBid
	if a.hitBid {
		level = book.Bids[0]
		side = model.PricingSideOffer
	} else {
		level = book.Offers[0]
	}
	a.hitBid = !a.hitBid

	order := model.ExecutionOrder{
		Product:         book.Product,
		Side:            side,
		OrderID:         uuid.NewString(),
		OrderType:       model.OrderTypeFOK,
		Price:           level.Price,
		VisibleQuantity: level.Quantity,
	}
	return a.exec.ExecuteOrder(order, a.venue)
}

// BookListener adapts the algo to consume order-book updates.
func BookListener(a *Algo) service.Listener[model.OrderBook] {
	return service.ListenerFuncs[model.OrderBook]{
		OnAdd:    a.OnBook,
		OnUpdate: a.OnBook,
	}
}

type marketDataGap struct {
	product string
}

func (e *marketDataGap) Error() string {
	return fmt.Sprintf("algo execution for %q: book has an empty stack", e.product)
}
