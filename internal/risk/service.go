// Package risk implements PV01 risk per product and aggregation across
// caller-defined sector buckets.
package risk

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

// DefaultSensitivity is the per-unit PV01 coefficient assigned the first
// time a product is risked.
var DefaultSensitivity = decimal.RequireFromString("0.01")

// Service maintains one PV01 entry per product, keyed by product id.
type Service struct {
	logger      *zap.Logger
	store       *service.Service[model.PV01]
	sensitivity decimal.Decimal
}

// NewService creates a risk service assigning the given per-unit
// sensitivity to newly seen products.
func NewService(logger *zap.Logger, sensitivity decimal.Decimal) *Service {
	return &Service{
		logger:      logger,
		store:       service.New[model.PV01]("risk", logger),
		sensitivity: sensitivity,
	}
}

// AddPosition refreshes the PV01 quantity for the position's product from
// its aggregate. The per-unit sensitivity is assigned on first sight and
// never recomputed afterwards.
func (s *Service) AddPosition(position model.Position) error {
	productID := position.Product.ProductID()
	aggregate := position.Aggregate()

	entry, err := s.store.Get(productID)
	if err != nil {
		entry = model.PV01{
			Product:     position.Product,
			Sensitivity: s.sensitivity,
		}
	}
	entry.Quantity = aggregate

	s.logger.Debug("risk updated",
		zap.String("product", productID),
		zap.String("pv01", entry.Sensitivity.String()),
		zap.Int64("quantity", aggregate))

	return s.store.Publish(productID, entry)
}

// Get returns the PV01 entry for a product.
func (s *Service) Get(productID string) (model.PV01, error) {
	return s.store.Get(productID)
}

// BucketedRisk aggregates PV01 across every product in the sector:
// the result carries the quantity-weighted average sensitivity and the
// summed quantity. A freshly computed value is returned on every call.
//
// Fails with *InvalidAggregationError when any product in the sector was
// never risked or when the total quantity is zero (the weighted average is
// undefined; NaN is never propagated).
func (s *Service) BucketedRisk(sector model.BucketedSector) (model.SectorRisk, error) {
	totalWeighted := decimal.Zero
	var totalQuantity int64

	for _, product := range sector.Products {
		entry, err := s.store.Get(product.ProductID())
		if err != nil {
			return model.SectorRisk{}, &InvalidAggregationError{
				Sector: sector.Name,
				Reason: "product " + product.ProductID() + " was never risked",
				Cause:  err,
			}
		}
		qty := decimal.NewFromInt(entry.Quantity)
		totalWeighted = totalWeighted.Add(entry.Sensitivity.Mul(qty))
		totalQuantity += entry.Quantity
	}

	if totalQuantity == 0 {
		return model.SectorRisk{}, &InvalidAggregationError{
			Sector: sector.Name,
			Reason: "total quantity is zero, weighted average undefined",
		}
	}

	return model.SectorRisk{
		Sector:      sector,
		Sensitivity: totalWeighted.Div(decimal.NewFromInt(totalQuantity)),
		Quantity:    totalQuantity,
	}, nil
}

// AddListener registers a downstream PV01 listener.
func (s *Service) AddListener(l service.Listener[model.PV01]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.PV01] {
	return s.store.Listeners()
}

// PositionListener adapts the service to consume position updates.
func PositionListener(s *Service) service.Listener[model.Position] {
	return service.ListenerFuncs[model.Position]{
		OnAdd:    s.AddPosition,
		OnUpdate: s.AddPosition,
	}
}
