// Package pricing manages internal mid/spread prices per product.
package pricing

import (
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// Service stores the latest internal price per product.
type Service struct {
	logger *zap.Logger
	store  *service.Service[model.Price]
}

// NewService creates an empty pricing service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
		store:  service.New[model.Price]("pricing", logger),
	}
}

// PublishPrice stores an internal price, overwriting any previous price
// for the product, and fans out.
func (s *Service) PublishPrice(price model.Price) error {
	return s.store.Publish(price.Product.ProductID(), price)
}

// Get returns the stored price for a product.
func (s *Service) Get(productID string) (model.Price, error) {
	return s.store.Get(productID)
}

// AddListener registers a downstream price listener.
func (s *Service) AddListener(l service.Listener[model.Price]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.Price] {
	return s.store.Listeners()
}
