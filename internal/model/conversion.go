package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionStatus is the review state of a reported conversion.
type ConversionStatus string

const (
	ConversionPending  ConversionStatus = "pending"
	ConversionApproved ConversionStatus = "approved"
	ConversionRejected ConversionStatus = "rejected"
	ConversionHeld     ConversionStatus = "held"
)

// Terminal reports whether no further status transitions are allowed.
func (s ConversionStatus) Terminal() bool {
	return s == ConversionApproved || s == ConversionRejected
}

// Valid reports whether the value is a known status.
func (s ConversionStatus) Valid() bool {
	switch s {
	case ConversionPending, ConversionApproved, ConversionRejected, ConversionHeld:
		return true
	default:
		return false
	}
}

// ConversionRequest represents an advertiser-reported conversion event.
type ConversionRequest struct {
	ClickID       string          `json:"click_id"`
	OfferID       string          `json:"offer_id"`
	AffiliateID   string          `json:"affiliate_id"`
	Payout        decimal.Decimal `json:"payout"`
	Revenue       decimal.Decimal `json:"revenue"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transaction_id"`
	CustomerID    string          `json:"customer_id"`
}

// Conversion is the domain model for a reported action.
type Conversion struct {
	ID            string
	ClickID       string
	OfferID       string
	AffiliateID   string
	Payout        decimal.Decimal
	Revenue       decimal.Decimal
	Status        ConversionStatus
	Currency      string
	TransactionID string
	CustomerID    string
	PostbackSent  bool
	CreatedAt     time.Time
}

// ConversionFilter narrows conversion listings.
type ConversionFilter struct {
	Status      *ConversionStatus
	AffiliateID *string
	Limit       int
}
