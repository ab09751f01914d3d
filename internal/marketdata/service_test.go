package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/service"
)

func level(price string, qty int64, side string) model.Order {
	return model.Order{Price: decimal.RequireFromString(price), Quantity: qty, Side: side}
}

func TestBestBidOfferReturnsTopOfStack(t *testing.T) {
	svc := NewService(zap.NewNop())

	book := model.OrderBook{
		Product: model.Bond{Cusip: "912828A1"},
		Bids: []model.Order{
			level("99.5", 100, model.PricingSideBid),
			level("99.25", 200, model.PricingSideBid),
		},
		Offers: []model.Order{
			level("100.0", 100, model.PricingSideOffer),
			level("100.25", 200, model.PricingSideOffer),
		},
	}
	require.NoError(t, svc.OnMessage(book))

	bbo, err := svc.BestBidOffer("912828A1")
	require.NoError(t, err)
	assert.True(t, bbo.Bid.Price.Equal(decimal.RequireFromString("99.5")))
	assert.Equal(t, int64(100), bbo.Bid.Quantity)
	assert.True(t, bbo.Offer.Price.Equal(decimal.RequireFromString("100.0")))
	assert.Equal(t, int64(100), bbo.Offer.Quantity)
}

func TestBestBidOfferUnknownProductFails(t *testing.T) {
	svc := NewService(zap.NewNop())

	_, err := svc.BestBidOffer("no-such-product")
	assert.True(t, service.IsNotFound(err))
}

func TestBestBidOfferEmptyStackFails(t *testing.T) {
	svc := NewService(zap.NewNop())

	require.NoError(t, svc.OnMessage(model.OrderBook{
		Product: model.Bond{Cusip: "912828A1"},
		Offers:  []model.Order{level("100.0", 100, model.PricingSideOffer)},
	}))

	_, err := svc.BestBidOffer("912828A1")
	require.Error(t, err)

	var pre *PreconditionError
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "bid", pre.Stack)

	require.NoError(t, svc.OnMessage(model.OrderBook{
		Product: model.Bond{Cusip: "912828B2"},
		Bids:    []model.Order{level("99.5", 100, model.PricingSideBid)},
	}))

	_, err = svc.BestBidOffer("912828B2")
	require.ErrorAs(t, err, &pre)
	assert.Equal(t, "offer", pre.Stack)
}

func TestAggregateDepthIsPassThrough(t *testing.T) {
	svc := NewService(zap.NewNop())

	// Duplicate price levels stay uncompacted: depth is a snapshot.
	book := model.OrderBook{
		Product: model.Bond{Cusip: "912828A1"},
		Bids: []model.Order{
			level("99.5", 100, model.PricingSideBid),
			level("99.5", 300, model.PricingSideBid),
		},
		Offers: []model.Order{level("100.0", 100, model.PricingSideOffer)},
	}
	require.NoError(t, svc.OnMessage(book))

	depth, err := svc.AggregateDepth("912828A1")
	require.NoError(t, err)
	assert.Len(t, depth.Bids, 2)
	assert.Equal(t, book.Bids, depth.Bids)
	assert.Equal(t, book.Offers, depth.Offers)
}

func TestOnMessageOverwritesAndRefires(t *testing.T) {
	svc := NewService(zap.NewNop())

	var events int
	svc.AddListener(service.ListenerFuncs[model.OrderBook]{
		OnAdd:    func(model.OrderBook) error { events++; return nil },
		OnUpdate: func(model.OrderBook) error { events++; return nil },
	})

	first := model.OrderBook{
		Product: model.Bond{Cusip: "912828A1"},
		Bids:    []model.Order{level("99.5", 100, model.PricingSideBid)},
		Offers:  []model.Order{level("100.0", 100, model.PricingSideOffer)},
	}
	second := first
	second.Bids = []model.Order{level("99.75", 50, model.PricingSideBid)}

	require.NoError(t, svc.OnMessage(first))
	require.NoError(t, svc.OnMessage(second))
	assert.Equal(t, 2, events, "re-ingesting the same key re-fires listeners")

	bbo, err := svc.BestBidOffer("912828A1")
	require.NoError(t, err)
	assert.True(t, bbo.Bid.Price.Equal(decimal.RequireFromString("99.75")))
}
