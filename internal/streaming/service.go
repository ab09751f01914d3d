// Package streaming builds and publishes public two-way markets derived
// from internal prices.
package streaming

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

var two = decimal.NewFromInt(2)

// Builder derives a two-way market from an internal price, splitting the
// spread symmetrically around the mid so that offer - bid == spread
// exactly. Visible and hidden quantities are fixed per builder.
type Builder struct {
	VisibleQuantity int64
	HiddenQuantity  int64
}

// BuildStream derives bid = mid - spread/2 and offer = mid + spread/2.
func (b Builder) BuildStream(price model.Price) model.PriceStream {
	half := price.BidOfferSpread.Div(two)
	return model.PriceStream{
		Product: price.Product,
		Bid: model.PriceStreamOrder{
			Price:           price.Mid.Sub(half),
			VisibleQuantity: b.VisibleQuantity,
			HiddenQuantity:  b.HiddenQuantity,
			Side:            model.PricingSideBid,
		},
		Offer: model.PriceStreamOrder{
			Price:           price.Mid.Add(half),
			VisibleQuantity: b.VisibleQuantity,
			HiddenQuantity:  b.HiddenQuantity,
			Side:            model.PricingSideOffer,
		},
	}
}

// Service stores the latest published two-way market per product.
type Service struct {
	logger  *zap.Logger
	store   *service.Service[model.PriceStream]
	builder Builder
}

// NewService creates a streaming service using the given builder.
func NewService(logger *zap.Logger, builder Builder) *Service {
	return &Service{
		logger:  logger,
		store:   service.New[model.PriceStream]("streaming", logger),
		builder: builder,
	}
}

// PublishStream stores a two-way market, overwriting any previous stream
// for the product, and fans out.
func (s *Service) PublishStream(stream model.PriceStream) error {
	return s.store.Publish(stream.Product.ProductID(), stream)
}

// Get returns the stored stream for a product.
func (s *Service) Get(productID string) (model.PriceStream, error) {
	return s.store.Get(productID)
}

// AddListener registers a downstream stream listener.
func (s *Service) AddListener(l service.Listener[model.PriceStream]) {
	s.store.AddListener(l)
}

// Listeners returns the registered listeners for diagnostics.
func (s *Service) Listeners() []service.Listener[model.PriceStream] {
	return s.store.Listeners()
}

// PriceListener builds and publishes a stream for every internal price.
func PriceListener(s *Service) service.Listener[model.Price] {
	publish := func(p model.Price) error {
		return s.PublishStream(s.builder.BuildStream(p))
	}
	return service.ListenerFuncs[model.Price]{
		OnAdd:    publish,
		OnUpdate: publish,
	}
}
