// Package model defines the entity types flowing through the back office.
// Entities are value records, immutable after construction unless noted.
package model

import (
	"github.com/shopspring/decimal"
)

// Product is the opaque external product type. The only contract the back
// office relies on is a stable, unique string identifier.
type Product interface {
	ProductID() string
}

// Trade sides.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Pricing sides for market data and streams.
const (
	PricingSideBid   = "BID"
	PricingSideOffer = "OFFER"
)

// Trade is a booked trade against a particular book. Immutable once booked.
type Trade struct {
	Product  Product         `json:"product"`
	TradeID  string          `json:"trade_id"`
	Price    decimal.Decimal `json:"price"`
	Book     string          `json:"book"`
	Quantity int64           `json:"quantity"`
	Side     string          `json:"side"`
}

// Position holds the signed net quantity per book for one product.
// The map is owned by the position service; callers receive copies.
type Position struct {
	Product   Product          `json:"product"`
	Positions map[string]int64 `json:"positions"`
}

// NewPosition creates an empty position for a product.
func NewPosition(product Product) Position {
	return Position{Product: product, Positions: make(map[string]int64)}
}

// Quantity returns the signed net quantity for one book (zero if the book
// never traded).
func (p Position) Quantity(book string) int64 {
	return p.Positions[book]
}

// Aggregate returns the signed sum across all books. Recomputed per call.
func (p Position) Aggregate() int64 {
	var total int64
	for _, qty := range p.Positions {
		total += qty
	}
	return total
}

// Clone returns a deep copy so the stored position never aliases a
// caller's map.
func (p Position) Clone() Position {
	books := make(map[string]int64, len(p.Positions))
	for book, qty := range p.Positions {
		books[book] = qty
	}
	return Position{Product: p.Product, Positions: books}
}

// PV01 is the interest-rate sensitivity held against a product's current
// position. Sensitivity is fixed at creation; quantity is refreshed as
// positions change.
type PV01 struct {
	Product     Product         `json:"product"`
	Sensitivity decimal.Decimal `json:"pv01"`
	Quantity    int64           `json:"quantity"`
}

// BucketedSector is a named, caller-defined grouping of products used as an
// aggregation key for risk reporting. Never stored.
type BucketedSector struct {
	Products []Product `json:"products"`
	Name     string    `json:"name"`
}

// SectorRisk is the bucket-level PV01 result: the quantity-weighted average
// sensitivity across the sector and the summed quantity.
type SectorRisk struct {
	Sector      BucketedSector  `json:"sector"`
	Sensitivity decimal.Decimal `json:"pv01"`
	Quantity    int64           `json:"quantity"`
}

// Order is an atomic price level in a market-data order book.
type Order struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	Side     string          `json:"side"`
}

// OrderBook is a market-data snapshot with bid and offer stacks. Stacks are
// pre-sorted best-first by the producer; the back office never re-sorts.
type OrderBook struct {
	Product Product `json:"product"`
	Bids    []Order `json:"bids"`
	Offers  []Order `json:"offers"`
}

// BidOffer is the derived best bid and offer pair. Recomputed per query,
// never stored.
type BidOffer struct {
	Bid   Order `json:"bid"`
	Offer Order `json:"offer"`
}

// Price is an internal price: a mid with a symmetric bid/offer spread.
type Price struct {
	Product        Product         `json:"product"`
	Mid            decimal.Decimal `json:"mid"`
	BidOfferSpread decimal.Decimal `json:"bid_offer_spread"`
}

// PriceStreamOrder is one side of a published two-way market, with the
// quantity split into a visible and a hidden part.
type PriceStreamOrder struct {
	Price           decimal.Decimal `json:"price"`
	VisibleQuantity int64           `json:"visible_quantity"`
	HiddenQuantity  int64           `json:"hidden_quantity"`
	Side            string          `json:"side"`
}

// PriceStream is a public two-way market for one product.
type PriceStream struct {
	Product Product          `json:"product"`
	Bid     PriceStreamOrder `json:"bid"`
	Offer   PriceStreamOrder `json:"offer"`
}

// Execution order types.
const (
	OrderTypeFOK    = "FOK"
	OrderTypeIOC    = "IOC"
	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
	OrderTypeStop   = "STOP"
)

// Execution venues.
const (
	VenueBrokerTec = "BROKERTEC"
	VenueESpeed    = "ESPEED"
	VenueCME       = "CME"
)

// ExecutionOrder is an order placed on an exchange.
type ExecutionOrder struct {
	Product         Product         `json:"product"`
	Side            string          `json:"side"`
	OrderID         string          `json:"order_id"`
	OrderType       string          `json:"order_type"`
	Price           decimal.Decimal `json:"price"`
	VisibleQuantity int64           `json:"visible_quantity"`
	HiddenQuantity  int64           `json:"hidden_quantity"`
	ParentOrderID   string          `json:"parent_order_id,omitempty"`
	IsChildOrder    bool            `json:"is_child_order"`
}

// Inquiry states.
const (
	InquiryReceived         = "RECEIVED"
	InquiryQuoted           = "QUOTED"
	InquiryDone             = "DONE"
	InquiryRejected         = "REJECTED"
	InquiryCustomerRejected = "CUSTOMER_REJECTED"
)

// TerminalInquiryState reports whether a state permits no further
// transitions.
func TerminalInquiryState(state string) bool {
	switch state {
	case InquiryDone, InquiryRejected, InquiryCustomerRejected:
		return true
	}
	return false
}

// Inquiry is a customer inquiry. State is mutable; price is overwritten
// when a quote is sent; everything else is fixed at creation.
type Inquiry struct {
	InquiryID string          `json:"inquiry_id"`
	Product   Product         `json:"product"`
	Side      string          `json:"side"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	State     string          `json:"state"`
}
