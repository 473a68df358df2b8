package model

import "time"

// Analytics event types written to the columnar store.
const (
	AnalyticsClick      = "click"
	AnalyticsFraudBlock = "fraud_block"
	AnalyticsScrub      = "scrub"
)

// ClickEvent is the append-only analytics record for a tracking decision.
type ClickEvent struct {
	EventType   string
	ClickID     string
	OfferID     string
	AffiliateID string
	IPAddress   string
	Country     string
	Device      string
	FraudScore  int
	Reasons     []string
	Timestamp   time.Time
}

// MetricsFilter represents click metrics query filters.
type MetricsFilter struct {
	OfferID     string
	From        time.Time
	To          time.Time
	AffiliateID *string
	GroupBy     string
}

// MetricsGroup is a grouped metrics result.
type MetricsGroup struct {
	Key         string `json:"key"`
	TotalClicks uint64 `json:"total_clicks"`
	UniqueIPs   uint64 `json:"unique_ips"`
}

// MetricsResponse is returned to clients for metrics queries.
type MetricsResponse struct {
	Meta MetricsMeta `json:"meta"`
	Data MetricsData `json:"data"`
}

// MetricsMeta contains metadata about the metrics query.
type MetricsMeta struct {
	OfferID string                 `json:"offer_id"`
	Period  MetricsPeriod          `json:"period"`
	Filters map[string]interface{} `json:"filters,omitempty"`
	GroupBy string                 `json:"group_by,omitempty"`
}

// MetricsPeriod captures the time window.
type MetricsPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// MetricsData holds aggregated values.
type MetricsData struct {
	TotalClicks uint64         `json:"total_clicks"`
	UniqueIPs   uint64         `json:"unique_ips"`
	Groups      []MetricsGroup `json:"groups,omitempty"`
}
