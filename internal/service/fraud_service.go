package service

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"affiliate-tracking-service/internal/model"
)

// Scoring weights for the composite fraud score.
const (
	blacklistScore         = 95
	penaltyMissingUA       = 40
	penaltyBotUA           = 40
	penaltyShortUA         = 20
	penaltyMissingReferrer = 10
	penaltyRapidClicks     = 25
	ipScoreWeight          = 0.5
	shortUALength          = 20
)

// Risk tier thresholds: <40 low, 40-70 medium, >70 high.
const (
	mediumRiskThreshold = 40
	highRiskThreshold   = 70
)

var botUASubstrings = []string{"bot", "crawler", "spider", "curl", "wget", "python", "headless"}

// IPScorer assigns a reputation score in [0,100] to an IP address.
type IPScorer interface {
	ScoreIP(ip string) (int, error)
}

// IPScorerFunc adapts a function to the IPScorer interface.
type IPScorerFunc func(ip string) (int, error)

func (f IPScorerFunc) ScoreIP(ip string) (int, error) { return f(ip) }

// FraudService screens IPs and click attributes before persistence.
type FraudService interface {
	CheckIP(ip string) model.FraudCheckResult
	CheckClick(attrs model.ClickAttributes) model.FraudCheckResult
}

type fraudService struct {
	scorer         IPScorer
	blocklist      map[string]struct{}
	now            func() time.Time
	log            zerolog.Logger
	rapidWindow    time.Duration
	rapidThreshold int

	mu     sync.Mutex
	recent map[string][]time.Time
}

// NewFraudService constructs a fraudService with an injectable scoring
// strategy and IP blocklist.
func NewFraudService(scorer IPScorer, blocklist []string, rapidWindow time.Duration, rapidThreshold int, log zerolog.Logger) FraudService {
	set := make(map[string]struct{}, len(blocklist))
	for _, ip := range blocklist {
		set[ip] = struct{}{}
	}
	return &fraudService{
		scorer:         scorer,
		blocklist:      set,
		now:            time.Now,
		log:            log,
		rapidWindow:    rapidWindow,
		rapidThreshold: rapidThreshold,
		recent:         make(map[string][]time.Time),
	}
}

// CheckIP scores a bare IP address. Blocklisted addresses are always high
// risk; scorer failures degrade to a non-blocking low-risk result.
func (s *fraudService) CheckIP(ip string) model.FraudCheckResult {
	if _, listed := s.blocklist[ip]; listed {
		return buildResult(blacklistScore, []string{model.ReasonIPBlacklisted}, "blocklist")
	}

	score, err := s.scorer.ScoreIP(ip)
	if err != nil {
		s.log.Warn().Err(err).Str("ip", ip).Msg("ip scorer failed, defaulting to low risk")
		return buildResult(0, []string{model.ReasonCheckFailed}, "ip_scorer")
	}

	reasons := []string{}
	if score > 0 {
		reasons = append(reasons, model.ReasonIPReputation)
	}
	return buildResult(score, reasons, "ip_scorer")
}

// CheckClick computes the weighted composite score over click attributes.
func (s *fraudService) CheckClick(attrs model.ClickAttributes) model.FraudCheckResult {
	if _, listed := s.blocklist[attrs.IPAddress]; listed && attrs.IPAddress != "" {
		return buildResult(blacklistScore, []string{model.ReasonIPBlacklisted}, "blocklist")
	}

	score := 0
	reasons := []string{}

	ua := strings.TrimSpace(attrs.UserAgent)
	switch {
	case ua == "":
		score += penaltyMissingUA
		reasons = append(reasons, model.ReasonMissingUA)
	case containsBotSubstring(ua):
		score += penaltyBotUA
		reasons = append(reasons, model.ReasonBotUA)
	case len(ua) < shortUALength:
		score += penaltyShortUA
		reasons = append(reasons, model.ReasonShortUA)
	}

	if strings.TrimSpace(attrs.Referrer) == "" {
		score += penaltyMissingReferrer
		reasons = append(reasons, model.ReasonMissingReferrer)
	}

	if attrs.IPAddress != "" {
		ipScore, err := s.scorer.ScoreIP(attrs.IPAddress)
		if err != nil {
			s.log.Warn().Err(err).Str("ip", attrs.IPAddress).Msg("ip scorer failed during click check")
			reasons = append(reasons, model.ReasonCheckFailed)
		} else {
			score += int(float64(ipScore) * ipScoreWeight)
			if ipScore > 0 {
				reasons = append(reasons, model.ReasonIPReputation)
			}
		}
	}

	if attrs.AffiliateID != "" && s.rapidRepeat(attrs.AffiliateID) {
		score += penaltyRapidClicks
		reasons = append(reasons, model.ReasonRapidClicks)
	}

	return buildResult(score, reasons, "composite")
}

// rapidRepeat records the request and reports whether the affiliate exceeded
// the request threshold inside the sliding window.
func (s *fraudService) rapidRepeat(affiliateID string) bool {
	now := s.now()
	cutoff := now.Add(-s.rapidWindow)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.recent[affiliateID][:0]
	for _, t := range s.recent[affiliateID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	s.recent[affiliateID] = kept

	return s.rapidThreshold > 0 && len(kept) > s.rapidThreshold
}

func containsBotSubstring(ua string) bool {
	lower := strings.ToLower(ua)
	for _, sub := range botUASubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func buildResult(score int, reasons []string, provider string) model.FraudCheckResult {
	score = clampScore(score)
	risk := riskFor(score)
	return model.FraudCheckResult{
		Score:    score,
		Risk:     risk,
		Reasons:  reasons,
		Blocked:  risk == model.RiskHigh,
		Provider: provider,
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func riskFor(score int) model.RiskLevel {
	switch {
	case score > highRiskThreshold:
		return model.RiskHigh
	case score >= mediumRiskThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
