package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Offer is the destination an accepted click redirects to.
type Offer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	DestinationURL string          `json:"destination_url"`
	Payout         decimal.Decimal `json:"payout"`
	Currency       string          `json:"currency"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}
