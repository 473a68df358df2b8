package model

// RiskLevel buckets a fraud score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Fraud reason codes attached to check results and fraud log rows.
const (
	ReasonIPBlacklisted   = "ip_blacklisted"
	ReasonMissingUA       = "missing_user_agent"
	ReasonBotUA           = "bot_user_agent"
	ReasonShortUA         = "short_user_agent"
	ReasonMissingReferrer = "missing_referrer"
	ReasonIPReputation    = "ip_reputation"
	ReasonRapidClicks     = "rapid_clicks"
	ReasonCheckFailed     = "check_failed"
)

// ClickAttributes is the slice of a click the fraud service scores.
type ClickAttributes struct {
	IPAddress   string
	UserAgent   string
	Referrer    string
	AffiliateID string
	Country     string
	Device      string
}

// FraudCheckResult is the ephemeral outcome of a fraud screen.
type FraudCheckResult struct {
	Score    int       `json:"score"`
	Risk     RiskLevel `json:"risk"`
	Reasons  []string  `json:"reasons"`
	Blocked  bool      `json:"blocked"`
	Provider string    `json:"provider"`
}
