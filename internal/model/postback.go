package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostbackConfigRequest is the admin payload for creating a config.
// Optional fields use pointers so absent values can take defaults.
type PostbackConfigRequest struct {
	Name          string            `json:"name"`
	URL           string            `json:"url"`
	Method        string            `json:"method"`
	Params        map[string]string `json:"params"`
	Active        *bool             `json:"active"`
	AffiliateID   string            `json:"affiliate_id"`
	OfferID       string            `json:"offer_id"`
	RetryAttempts *int              `json:"retry_attempts"`
	TimeoutMs     int64             `json:"timeout_ms"`
}

// PostbackConfig is an admin-managed server-to-server callback definition.
// Read-only at dispatch time.
type PostbackConfig struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	URL           string            `json:"url"`
	Method        string            `json:"method"`
	Params        map[string]string `json:"params"`
	Active        bool              `json:"active"`
	AffiliateID   string            `json:"affiliate_id,omitempty"`
	OfferID       string            `json:"offer_id,omitempty"`
	RetryAttempts int               `json:"retry_attempts"`
	Timeout       time.Duration     `json:"timeout"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Matches reports whether the config's affiliate/offer scope (if any)
// covers the given event.
func (c PostbackConfig) Matches(ev PostbackEvent) bool {
	if c.AffiliateID != "" && c.AffiliateID != ev.AffiliateID {
		return false
	}
	if c.OfferID != "" && c.OfferID != ev.OfferID {
		return false
	}
	return true
}

// PostbackEvent describes one firing occasion. It is not persisted; it
// exists only for the duration of a dispatch.
type PostbackEvent struct {
	Type            string
	ClickID         string
	ConversionID    string
	AffiliateID     string
	OfferID         string
	ConversionValue decimal.Decimal
	Status          string
	Timestamp       time.Time
	Data            map[string]string
}

// DispatchResult reports the outcome of a single postback delivery.
type DispatchResult struct {
	Success      bool          `json:"success"`
	StatusCode   int           `json:"status_code,omitempty"`
	ResponseTime time.Duration `json:"response_time_ms"`
	FinalURL     string        `json:"final_url,omitempty"`
	Error        string        `json:"error,omitempty"`
}
