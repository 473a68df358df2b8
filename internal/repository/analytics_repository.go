package repository

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"

	"affiliate-tracking-service/internal/model"
)

// AnalyticsRepository defines append-only analytics operations for click
// and fraud events.
type AnalyticsRepository interface {
	// CreateBatch inserts multiple events efficiently using a prepared batch.
	CreateBatch(ctx context.Context, events []model.ClickEvent) error

	// FetchMetrics aggregates click data based on filters.
	FetchMetrics(ctx context.Context, filter model.MetricsFilter) (uint64, uint64, []model.MetricsGroup, error)
}

type analyticsRepository struct {
	conn clickhouse.Conn
}

// NewAnalyticsRepository creates an AnalyticsRepository backed by ClickHouse.
func NewAnalyticsRepository(conn clickhouse.Conn) AnalyticsRepository {
	return &analyticsRepository{conn: conn}
}

const insertClickEventsQuery = `
	INSERT INTO click_events (event_type, click_id, offer_id, affiliate_id, ip_address, country, device, fraud_score, reasons, ts)
`

func (r *analyticsRepository) CreateBatch(ctx context.Context, events []model.ClickEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertClickEventsQuery)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventType,
			event.ClickID,
			event.OfferID,
			event.AffiliateID,
			event.IPAddress,
			event.Country,
			event.Device,
			int32(event.FraudScore),
			event.Reasons,
			event.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

const totalsQuery = `
	SELECT count(), uniqExact(ip_address)
	FROM click_events
	WHERE event_type = 'click' AND offer_id = ? AND ts >= ? AND ts <= ?
`

func (r *analyticsRepository) FetchMetrics(ctx context.Context, filter model.MetricsFilter) (uint64, uint64, []model.MetricsGroup, error) {
	query := totalsQuery
	args := []interface{}{filter.OfferID, filter.From, filter.To}
	if filter.AffiliateID != nil {
		query += " AND affiliate_id = ?"
		args = append(args, *filter.AffiliateID)
	}

	var total, unique uint64
	if err := r.conn.QueryRow(ctx, query, args...).Scan(&total, &unique); err != nil {
		return 0, 0, nil, fmt.Errorf("fetch totals: %w", err)
	}

	groupQuery, err := buildGroupQuery(filter)
	if err != nil {
		return 0, 0, nil, err
	}

	rows, err := r.conn.Query(ctx, groupQuery, args...)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("fetch groups: %w", err)
	}
	defer rows.Close()

	groups := []model.MetricsGroup{}
	for rows.Next() {
		var g model.MetricsGroup
		if err := rows.Scan(&g.Key, &g.TotalClicks, &g.UniqueIPs); err != nil {
			return 0, 0, nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return 0, 0, nil, fmt.Errorf("fetch groups: %w", err)
	}

	return total, unique, groups, nil
}

// buildGroupQuery whitelists group_by values; anything else is rejected
// before it reaches the query string.
func buildGroupQuery(filter model.MetricsFilter) (string, error) {
	where := "WHERE event_type = 'click' AND offer_id = ? AND ts >= ? AND ts <= ?"
	if filter.AffiliateID != nil {
		where += " AND affiliate_id = ?"
	}

	switch filter.GroupBy {
	case "affiliate":
		return fmt.Sprintf(
			"SELECT affiliate_id, count(), uniqExact(ip_address) FROM click_events %s GROUP BY affiliate_id ORDER BY affiliate_id",
			where), nil
	case "country":
		return fmt.Sprintf(
			"SELECT country, count(), uniqExact(ip_address) FROM click_events %s GROUP BY country ORDER BY country",
			where), nil
	case "day":
		return fmt.Sprintf(
			"SELECT toString(toDate(ts)), count(), uniqExact(ip_address) FROM click_events %s GROUP BY 1 ORDER BY 1",
			where), nil
	default:
		return "", fmt.Errorf("unsupported group_by: %s", filter.GroupBy)
	}
}
