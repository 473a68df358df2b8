package model

import (
	"time"
)

// ClickRequest represents an inbound tracking request.
type ClickRequest struct {
	OfferID     string `json:"offer_id"`
	AffiliateID string `json:"affiliate_id"`
	IPAddress   string `json:"ip_address"`
	UserAgent   string `json:"user_agent"`
	Country     string `json:"country"`
	Device      string `json:"device"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
	Referrer    string `json:"referrer"`
	Source      string `json:"source"`
	Sub1        string `json:"sub1"`
	Sub2        string `json:"sub2"`
	Sub3        string `json:"sub3"`
	Sub4        string `json:"sub4"`
	Sub5        string `json:"sub5"`
}

// Click is the domain model persisted for accepted traffic.
type Click struct {
	ID          string
	OfferID     string
	AffiliateID string
	IPAddress   string
	UserAgent   string
	Country     string
	Device      string
	Browser     string
	OS          string
	Referrer    string
	Source      string
	Sub1        string
	Sub2        string
	Sub3        string
	Sub4        string
	Sub5        string
	FraudScore  int
	Flagged     bool
	Converted   bool
	CreatedAt   time.Time
}

// TrackResult is returned by tracking operations. Success=false with a
// Reason is a business outcome (blocked traffic), not a transport error.
type TrackResult struct {
	Success      bool   `json:"success"`
	ClickID      string `json:"click_id,omitempty"`
	ConversionID string `json:"conversion_id,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"`
	Reason       string `json:"error,omitempty"`
}
