package booking

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/position"
	"github.com/fixedstream/bondoffice/internal/risk"
	"github.com/fixedstream/bondoffice/internal/service"
)

func trade(id, book string, qty int64, side string) model.Trade {
	return model.Trade{
		Product:  model.Bond{Cusip: "912828A1"},
		TradeID:  id,
		Price:    decimal.RequireFromString("99.5"),
		Book:     book,
		Quantity: qty,
		Side:     side,
	}
}

func TestBookTradeStoresAndFansOut(t *testing.T) {
	svc := NewService(zap.NewNop())

	var seen []string
	svc.AddListener(service.ListenerFuncs[model.Trade]{
		OnAdd: func(tr model.Trade) error { seen = append(seen, tr.TradeID); return nil },
	})

	require.NoError(t, svc.BookTrade(trade("T1", "TRSY1", 1000, model.SideBuy)))

	got, err := svc.Get("T1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.Quantity)
	assert.Equal(t, []string{"T1"}, seen)
}

func TestBookTradeValidation(t *testing.T) {
	svc := NewService(zap.NewNop())

	assert.Error(t, svc.BookTrade(trade("", "TRSY1", 100, model.SideBuy)))
	assert.Error(t, svc.BookTrade(trade("T1", "TRSY1", 0, model.SideBuy)))
	assert.Error(t, svc.BookTrade(trade("T1", "TRSY1", -5, model.SideSell)))
	assert.Error(t, svc.BookTrade(trade("T1", "TRSY1", 100, "HOLD")))
}

// The full pipeline runs on a single call stack: booking a trade updates
// the position, which refreshes the PV01 quantity, before BookTrade
// returns.
func TestTradeToPositionToRiskPipeline(t *testing.T) {
	bookingSvc := NewService(zap.NewNop())
	positionSvc := position.NewService(zap.NewNop())
	riskSvc := risk.NewService(zap.NewNop(), risk.DefaultSensitivity)

	bookingSvc.AddListener(position.TradeListener(positionSvc))
	positionSvc.AddListener(risk.PositionListener(riskSvc))

	require.NoError(t, bookingSvc.BookTrade(trade("T1", "TRSY1", 1000, model.SideBuy)))

	pv01, err := riskSvc.Get("912828A1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), pv01.Quantity)

	require.NoError(t, bookingSvc.BookTrade(trade("T2", "TRSY2", 400, model.SideSell)))

	pv01, err = riskSvc.Get("912828A1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), pv01.Quantity)

	agg, err := positionSvc.AggregatePosition("912828A1")
	require.NoError(t, err)
	assert.Equal(t, int64(600), agg)
}
