// Package feed loads entities from CSV files and pushes them into the
// pipeline's ingestion entry points. Feeds are external collaborators; the
// wire format here is the feed's concern, not the core's.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/model"
)

// TradeBooker is the booking ingestion entry point.
type TradeBooker interface {
	BookTrade(model.Trade) error
}

// PricePublisher is the pricing ingestion entry point.
type PricePublisher interface {
	PublishPrice(model.Price) error
}

// BookIngester is the market data ingestion entry point.
type BookIngester interface {
	OnMessage(model.OrderBook) error
}

// InquiryReceiver is the inquiry ingestion entry point.
type InquiryReceiver interface {
	OnNewInquiry(model.Inquiry) error
}

// LoadTrades reads rows of the form
//
//	product,trade_id,price,book,quantity,side
//
// and books each trade. An empty trade_id gets a generated UUID.
func LoadTrades(logger *zap.Logger, path string, booker TradeBooker) error {
	return eachRow(path, 6, func(row []string) error {
		price, err := decimal.NewFromString(row[2])
		if err != nil {
			return fmt.Errorf("trade price %q: %w", row[2], err)
		}
		qty, err := strconv.ParseInt(row[4], 10, 64)
		if err != nil {
			return fmt.Errorf("trade quantity %q: %w", row[4], err)
		}
		tradeID := row[1]
		if tradeID == "" {
			tradeID = uuid.NewString()
		}
		trade := model.Trade{
			Product:  model.Bond{Cusip: row[0]},
			TradeID:  tradeID,
			Price:    price,
			Book:     row[3],
			Quantity: qty,
			Side:     row[5],
		}
		logger.Debug("feeding trade", zap.String("trade_id", tradeID))
		return booker.BookTrade(trade)
	})
}

// LoadPrices reads rows of the form
//
//	product,mid,spread
//
// and publishes each price.
func LoadPrices(logger *zap.Logger, path string, pub PricePublisher) error {
	return eachRow(path, 3, func(row []string) error {
		mid, err := decimal.NewFromString(row[1])
		if err != nil {
			return fmt.Errorf("price mid %q: %w", row[1], err)
		}
		spread, err := decimal.NewFromString(row[2])
		if err != nil {
			return fmt.Errorf("price spread %q: %w", row[2], err)
		}
		logger.Debug("feeding price", zap.String("product", row[0]))
		return pub.PublishPrice(model.Price{
			Product:        model.Bond{Cusip: row[0]},
			Mid:            mid,
			BidOfferSpread: spread,
		})
	})
}

// LoadOrderBooks reads rows of the form
//
//	product,bid_price,bid_quantity,offer_price,offer_quantity
//
// and ingests each row as a one-level book snapshot.
func LoadOrderBooks(logger *zap.Logger, path string, ing BookIngester) error {
	return eachRow(path, 5, func(row []string) error {
		bidPrice, err := decimal.NewFromString(row[1])
		if err != nil {
			return fmt.Errorf("bid price %q: %w", row[1], err)
		}
		bidQty, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return fmt.Errorf("bid quantity %q: %w", row[2], err)
		}
		offerPrice, err := decimal.NewFromString(row[3])
		if err != nil {
			return fmt.Errorf("offer price %q: %w", row[3], err)
		}
		offerQty, err := strconv.ParseInt(row[4], 10, 64)
		if err != nil {
			return fmt.Errorf("offer quantity %q: %w", row[4], err)
		}
		logger.Debug("feeding order book", zap.String("product", row[0]))
		return ing.OnMessage(model.OrderBook{
			Product: model.Bond{Cusip: row[0]},
			Bids:    []model.Order{{Price: bidPrice, Quantity: bidQty, Side: model.PricingSideBid}},
			Offers:  []model.Order{{Price: offerPrice, Quantity: offerQty, Side: model.PricingSideOffer}},
		})
	})
}

// LoadInquiries reads rows of the form
//
//	inquiry_id,product,side,quantity,price
//
// and hands each inquiry to the receiver.
func LoadInquiries(logger *zap.Logger, path string, recv InquiryReceiver) error {
	return eachRow(path, 5, func(row []string) error {
		qty, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return fmt.Errorf("inquiry quantity %q: %w", row[3], err)
		}
		price, err := decimal.NewFromString(row[4])
		if err != nil {
			return fmt.Errorf("inquiry price %q: %w", row[4], err)
		}
		inquiryID := row[0]
		if inquiryID == "" {
			inquiryID = uuid.NewString()
		}
		logger.Debug("feeding inquiry", zap.String("inquiry_id", inquiryID))
		return recv.OnNewInquiry(model.Inquiry{
			InquiryID: inquiryID,
			Product:   model.Bond{Cusip: row[1]},
			Side:      row[2],
			Quantity:  qty,
			Price:     price,
			State:     model.InquiryReceived,
		})
	})
}

func eachRow(path string, fields int, fn func(row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open feed %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("feed %q: %w", path, err)
		}
		line++
		if err := fn(row); err != nil {
			return fmt.Errorf("feed %q line %d: %w", path, line, err)
		}
	}
}
