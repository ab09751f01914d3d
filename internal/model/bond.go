package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bond is a concrete fixed-income product carried by the feeds and the
// bootstrap wiring. The back office itself only ever touches ProductID.
type Bond struct {
	Cusip    string          `json:"cusip"`
	Ticker   string          `json:"ticker"`
	Coupon   decimal.Decimal `json:"coupon"`
	Maturity time.Time       `json:"maturity"`
}

func (b Bond) ProductID() string { return b.Cusip }
