package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func writeFeed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

type tradeRecorder struct{ trades []model.Trade }

func (r *tradeRecorder) BookTrade(tr model.Trade) error {
	r.trades = append(r.trades, tr)
	return nil
}

type priceRecorder struct{ prices []model.Price }

func (r *priceRecorder) PublishPrice(p model.Price) error {
	r.prices = append(r.prices, p)
	return nil
}

type bookRecorder struct{ books []model.OrderBook }

func (r *bookRecorder) OnMessage(b model.OrderBook) error {
	r.books = append(r.books, b)
	return nil
}

type inquiryRecorder struct{ inquiries []model.Inquiry }

func (r *inquiryRecorder) OnNewInquiry(i model.Inquiry) error {
	r.inquiries = append(r.inquiries, i)
	return nil
}

func TestLoadTrades(t *testing.T) {
	path := writeFeed(t, "trades.csv",
		"912828A1,T1,99.5,TRSY1,1000,BUY\n"+
			"912828A1,,100.25,TRSY2,500,SELL\n")

	var rec tradeRecorder
	require.NoError(t, LoadTrades(zap.NewNop(), path, &rec))

	require.Len(t, rec.trades, 2)
	assert.Equal(t, "T1", rec.trades[0].TradeID)
	assert.Equal(t, "912828A1", rec.trades[0].Product.ProductID())
	assert.Equal(t, int64(1000), rec.trades[0].Quantity)
	assert.Equal(t, model.SideBuy, rec.trades[0].Side)
	assert.NotEmpty(t, rec.trades[1].TradeID, "blank trade ids get generated")
}

func TestLoadTradesBadRow(t *testing.T) {
	path := writeFeed(t, "trades.csv", "912828A1,T1,not-a-price,TRSY1,1000,BUY\n")

	var rec tradeRecorder
	err := LoadTrades(zap.NewNop(), path, &rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Empty(t, rec.trades)
}

func TestLoadPrices(t *testing.T) {
	path := writeFeed(t, "prices.csv", "912828A1,99.71875,0.0078125\n")

	var rec priceRecorder
	require.NoError(t, LoadPrices(zap.NewNop(), path, &rec))

	require.Len(t, rec.prices, 1)
	assert.True(t, rec.prices[0].Mid.Equal(mustDecimal(t, "99.71875")))
	assert.True(t, rec.prices[0].BidOfferSpread.Equal(mustDecimal(t, "0.0078125")))
}

func TestLoadOrderBooks(t *testing.T) {
	path := writeFeed(t, "market.csv", "912828A1,99.5,100,100.0,150\n")

	var rec bookRecorder
	require.NoError(t, LoadOrderBooks(zap.NewNop(), path, &rec))

	require.Len(t, rec.books, 1)
	book := rec.books[0]
	require.Len(t, book.Bids, 1)
	require.Len(t, book.Offers, 1)
	assert.Equal(t, model.PricingSideBid, book.Bids[0].Side)
	assert.Equal(t, int64(150), book.Offers[0].Quantity)
}

func TestLoadInquiries(t *testing.T) {
	path := writeFeed(t, "inquiries.csv", "I1,912828A1,BUY,1000,99.5\n")

	var rec inquiryRecorder
	require.NoError(t, LoadInquiries(zap.NewNop(), path, &rec))

	require.Len(t, rec.inquiries, 1)
	assert.Equal(t, "I1", rec.inquiries[0].InquiryID)
	assert.Equal(t, model.InquiryReceived, rec.inquiries[0].State)
}

func TestLoadMissingFileFails(t *testing.T) {
	var rec tradeRecorder
	assert.Error(t, LoadTrades(zap.NewNop(), filepath.Join(t.TempDir(), "absent.csv"), &rec))
}

func TestWrongFieldCountFails(t *testing.T) {
	path := writeFeed(t, "trades.csv", "912828A1,T1,99.5\n")

	var rec tradeRecorder
	assert.Error(t, LoadTrades(zap.NewNop(), path, &rec))
}
