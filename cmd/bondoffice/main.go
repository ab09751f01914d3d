package main

import (
	"flag"
	"log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/api"
	"github.com/fixedstream/bondoffice/internal/booking"
	"github.com/fixedstream/bondoffice/internal/config"
	"github.com/fixedstream/bondoffice/internal/database"
	"github.com/fixedstream/bondoffice/internal/distribution"
	"github.com/fixedstream/bondoffice/internal/execution"
	"github.com/fixedstream/bondoffice/internal/feed"
	"github.com/fixedstream/bondoffice/internal/history"
	"github.com/fixedstream/bondoffice/internal/inquiry"
	"github.com/fixedstream/bondoffice/internal/marketdata"
	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/position"
	"github.com/fixedstream/bondoffice/internal/pricing"
	"github.com/fixedstream/bondoffice/internal/risk"
	"github.com/fixedstream/bondoffice/internal/streaming"
	"github.com/fixedstream/bondoffice/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	sensitivity, err := decimal.NewFromString(cfg.Risk.Sensitivity)
	if err != nil {
		zapLogger.Fatal("invalid risk sensitivity", zap.String("value", cfg.Risk.Sensitivity), zap.Error(err))
	}

	db, err := database.Open(cfg.History.Driver, cfg.History.DSN)
	if err != nil {
		zapLogger.Fatal("failed to open history store", zap.Error(err))
	}
	if err := history.Migrate(db); err != nil {
		zapLogger.Fatal("failed to migrate history store", zap.Error(err))
	}

	// Services.
	bookingSvc := booking.NewService(zapLogger)
	positionSvc := position.NewService(zapLogger)
	riskSvc := risk.NewService(zapLogger, sensitivity)
	marketdataSvc := marketdata.NewService(zapLogger)
	pricingSvc := pricing.NewService(zapLogger)
	streamingSvc := streaming.NewService(zapLogger, streaming.Builder{
		VisibleQuantity: cfg.Streaming.VisibleQuantity,
		HiddenQuantity:  cfg.Streaming.HiddenQuantity,
	})
	executionSvc := execution.NewService(zapLogger)
	inquirySvc := inquiry.NewService(zapLogger)

	// Pipeline wiring: trade -> position -> risk, price -> stream,
	// market data -> algo execution. Every arrow is a synchronous
	// listener callback.
	bookingSvc.AddListener(position.TradeListener(positionSvc))
	positionSvc.AddListener(risk.PositionListener(riskSvc))
	pricingSvc.AddListener(streaming.PriceListener(streamingSvc))
	marketdataSvc.AddListener(execution.BookListener(execution.NewAlgo(executionSvc, cfg.Execution.Venue)))

	// Historical sinks are terminal listeners.
	positionSvc.AddListener(history.Listener(history.NewSink(zapLogger, db, "position",
		func(p model.Position) string { return p.Product.ProductID() })))
	riskSvc.AddListener(history.Listener(history.NewSink(zapLogger, db, "risk",
		func(p model.PV01) string { return p.Product.ProductID() })))
	streamingSvc.AddListener(history.Listener(history.NewSink(zapLogger, db, "streaming",
		func(p model.PriceStream) string { return p.Product.ProductID() })))
	executionSvc.AddListener(history.Listener(history.NewSink(zapLogger, db, "execution",
		func(o model.ExecutionOrder) string { return o.OrderID })))
	inquirySvc.AddListener(history.Listener(history.NewSink(zapLogger, db, "inquiry",
		func(i model.Inquiry) string { return i.InquiryID })))

	// Optional external distribution.
	switch cfg.Distribution.Backend {
	case "redis":
		backend := distribution.NewRedisPubSub(cfg.Distribution.RedisAddr)
		defer backend.Close()
		streamingSvc.AddListener(distribution.Listener[model.PriceStream](backend, "streams"))
		riskSvc.AddListener(distribution.Listener[model.PV01](backend, "risk"))
	case "kafka":
		backend := distribution.NewKafkaPubSub(cfg.Distribution.KafkaBrokers, cfg.Distribution.KafkaTopic)
		defer backend.Close()
		streamingSvc.AddListener(distribution.Listener[model.PriceStream](backend, "streams"))
		riskSvc.AddListener(distribution.Listener[model.PV01](backend, "risk"))
	case "":
	default:
		zapLogger.Fatal("unknown distribution backend", zap.String("backend", cfg.Distribution.Backend))
	}

	// File feeds run to completion before the query API serves reads;
	// ingestion is single-threaded by design.
	if cfg.Feeds.TradesFile != "" {
		if err := feed.LoadTrades(zapLogger, cfg.Feeds.TradesFile, bookingSvc); err != nil {
			zapLogger.Fatal("trade feed failed", zap.Error(err))
		}
	}
	if cfg.Feeds.PricesFile != "" {
		if err := feed.LoadPrices(zapLogger, cfg.Feeds.PricesFile, pricingSvc); err != nil {
			zapLogger.Fatal("price feed failed", zap.Error(err))
		}
	}
	if cfg.Feeds.MarketFile != "" {
		if err := feed.LoadOrderBooks(zapLogger, cfg.Feeds.MarketFile, marketdataSvc); err != nil {
			zapLogger.Fatal("market data feed failed", zap.Error(err))
		}
	}
	if cfg.Feeds.InquiriesFile != "" {
		if err := feed.LoadInquiries(zapLogger, cfg.Feeds.InquiriesFile, inquirySvc); err != nil {
			zapLogger.Fatal("inquiry feed failed", zap.Error(err))
		}
	}

	server := api.NewServer(zapLogger, positionSvc, riskSvc, marketdataSvc, pricingSvc, streamingSvc, inquirySvc)
	if err := server.Start(cfg.Server.Addr); err != nil {
		zapLogger.Fatal("query API stopped", zap.Error(err))
	}
}
