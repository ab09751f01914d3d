// Package api exposes the back office's pure-read query entry points over
// HTTP, plus Prometheus metrics. All state mutation happens through the
// ingestion entry points, never through this surface.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fixedstream/bondoffice/internal/inquiry"
	"github.com/fixedstream/bondoffice/internal/marketdata"
	"github.com/fixedstream/bondoffice/internal/model"
	"github.com/fixedstream/bondoffice/internal/pricing"
	"github.com/fixedstream/bondoffice/internal/risk"
	"github.com/fixedstream/bondoffice/internal/service"
	"github.com/fixedstream/bondoffice/internal/streaming"

	positionsvc "github.com/fixedstream/bondoffice/internal/position"
)

// Server serves the query API.
type Server struct {
	router     *gin.Engine
	logger     *zap.Logger
	positions  *positionsvc.Service
	risk       *risk.Service
	marketdata *marketdata.Service
	pricing    *pricing.Service
	streaming  *streaming.Service
	inquiries  *inquiry.Service
}

// NewServer creates the API server over the given services.
func NewServer(
	logger *zap.Logger,
	positions *positionsvc.Service,
	riskSvc *risk.Service,
	md *marketdata.Service,
	prices *pricing.Service,
	streams *streaming.Service,
	inquiries *inquiry.Service,
) *Server {
	s := &Server{
		logger:     logger,
		positions:  positions,
		risk:       riskSvc,
		marketdata: md,
		pricing:    prices,
		streaming:  streams,
		inquiries:  inquiries,
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.GET("/positions/:productId", s.getPosition)
		v1.GET("/positions/:productId/aggregate", s.getAggregatePosition)
		v1.GET("/risk/:productId", s.getRisk)
		v1.GET("/risk/bucket/:name", s.getBucketedRisk)
		v1.GET("/orderbooks/:productId", s.getDepth)
		v1.GET("/orderbooks/:productId/best", s.getBestBidOffer)
		v1.GET("/prices/:productId", s.getPrice)
		v1.GET("/streams/:productId", s.getStream)
		v1.GET("/inquiries/:inquiryId", s.getInquiry)
	}

	s.router = router
	return s
}

// Start runs the HTTP server on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting query API", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router returns the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) getPosition(c *gin.Context) {
	pos, err := s.positions.Get(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (s *Server) getAggregatePosition(c *gin.Context) {
	productID := c.Param("productId")
	total, err := s.positions.AggregatePosition(productID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": productID, "aggregate": total})
}

func (s *Server) getRisk(c *gin.Context) {
	pv01, err := s.risk.Get(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, pv01)
}

// getBucketedRisk aggregates over ?products=A,B,C.
func (s *Server) getBucketedRisk(c *gin.Context) {
	ids := strings.Split(c.Query("products"), ",")
	sector := model.BucketedSector{Name: c.Param("name")}
	for _, id := range ids {
		if id == "" {
			continue
		}
		sector.Products = append(sector.Products, model.Bond{Cusip: id})
	}
	if len(sector.Products) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "products query parameter is required"})
		return
	}

	result, err := s.risk.BucketedRisk(sector)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) getDepth(c *gin.Context) {
	book, err := s.marketdata.AggregateDepth(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (s *Server) getBestBidOffer(c *gin.Context) {
	bbo, err := s.marketdata.BestBidOffer(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, bbo)
}

func (s *Server) getPrice(c *gin.Context) {
	price, err := s.pricing.Get(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (s *Server) getStream(c *gin.Context) {
	stream, err := s.streaming.Get(c.Param("productId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, stream)
}

func (s *Server) getInquiry(c *gin.Context) {
	inq, err := s.inquiries.Get(c.Param("inquiryId"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, inq)
}

// renderError maps the error taxonomy onto HTTP statuses: unknown keys are
// 404, undefined aggregations and violated preconditions are 422. The 422
// cases are checked first: an aggregation failure may wrap a NotFoundError
// as its cause, and the outer classification wins.
func (s *Server) renderError(c *gin.Context, err error) {
	var (
		agg *risk.InvalidAggregationError
		pre *marketdata.PreconditionError
	)
	switch {
	case errors.As(err, &agg), errors.As(err, &pre):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case service.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
