package service

import (
	"context"
	"time"

	"affiliate-tracking-service/internal/model"
	"affiliate-tracking-service/internal/repository"
)

// MetricsService serves aggregated click metrics from the analytics store.
type MetricsService interface {
	GetClickMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error)
}

type metricsService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// NewMetricsService constructs a metricsService.
func NewMetricsService(analytics repository.AnalyticsRepository) MetricsService {
	return &metricsService{
		analytics: analytics,
		now:       time.Now,
	}
}

// GetClickMetrics validates filters, sets defaults, and delegates
// aggregation to the repository.
func (s *metricsService) GetClickMetrics(ctx context.Context, filter model.MetricsFilter) (model.MetricsResponse, error) {
	if filter.OfferID == "" {
		return model.MetricsResponse{}, &ValidationError{Message: "offer_id is required"}
	}

	if filter.GroupBy == "" {
		filter.GroupBy = "affiliate"
	}
	if !isSupportedGroupBy(filter.GroupBy) {
		return model.MetricsResponse{}, &ValidationError{Message: "unsupported group_by"}
	}

	now := s.now().UTC()
	if filter.To.IsZero() {
		filter.To = now
	} else {
		filter.To = filter.To.UTC()
	}

	if filter.From.IsZero() {
		filter.From = filter.To.Add(-30 * 24 * time.Hour)
	} else {
		filter.From = filter.From.UTC()
	}

	if filter.From.After(filter.To) {
		return model.MetricsResponse{}, &ValidationError{Message: "from must be before to"}
	}

	total, unique, groups, err := s.analytics.FetchMetrics(ctx, filter)
	if err != nil {
		return model.MetricsResponse{}, err
	}

	resp := model.MetricsResponse{
		Meta: model.MetricsMeta{
			OfferID: filter.OfferID,
			Period: model.MetricsPeriod{
				Start: filter.From.Format(time.RFC3339),
				End:   filter.To.Format(time.RFC3339),
			},
			GroupBy: filter.GroupBy,
		},
		Data: model.MetricsData{
			TotalClicks: total,
			UniqueIPs:   unique,
			Groups:      groups,
		},
	}

	if filter.AffiliateID != nil && *filter.AffiliateID != "" {
		resp.Meta.Filters = map[string]interface{}{"affiliate_id": *filter.AffiliateID}
	}

	return resp, nil
}

func isSupportedGroupBy(group string) bool {
	switch group {
	case "affiliate", "country", "day":
		return true
	default:
		return false
	}
}
