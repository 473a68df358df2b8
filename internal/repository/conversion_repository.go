package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affiliate-tracking-service/internal/model"
)

// ConversionRepository defines database operations for conversions.
type ConversionRepository interface {
	Create(ctx context.Context, conversion model.Conversion) error
	GetByID(ctx context.Context, id string) (model.Conversion, error)
	List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error)
	UpdateStatus(ctx context.Context, id string, status model.ConversionStatus) error
	MarkPostbackSent(ctx context.Context, id string) error
}

type conversionRepository struct {
	pool *pgxpool.Pool
}

// NewConversionRepository creates a ConversionRepository backed by PostgreSQL.
func NewConversionRepository(pool *pgxpool.Pool) ConversionRepository {
	return &conversionRepository{pool: pool}
}

const insertConversionQuery = `
	INSERT INTO conversions (id, click_id, offer_id, affiliate_id, payout, revenue, status, currency, transaction_id, customer_id, postback_sent, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func (r *conversionRepository) Create(ctx context.Context, conversion model.Conversion) error {
	_, err := r.pool.Exec(ctx, insertConversionQuery,
		conversion.ID,
		conversion.ClickID,
		conversion.OfferID,
		conversion.AffiliateID,
		conversion.Payout,
		conversion.Revenue,
		string(conversion.Status),
		conversion.Currency,
		conversion.TransactionID,
		conversion.CustomerID,
		conversion.PostbackSent,
		conversion.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

const selectConversionQuery = `
	SELECT id, click_id, offer_id, affiliate_id, payout, revenue, status, currency, transaction_id, customer_id, postback_sent, created_at
	FROM conversions WHERE id = $1
`

func (r *conversionRepository) GetByID(ctx context.Context, id string) (model.Conversion, error) {
	row := r.pool.QueryRow(ctx, selectConversionQuery, id)
	conversion, err := scanConversion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Conversion{}, ErrNotFound
	}
	if err != nil {
		return model.Conversion{}, fmt.Errorf("select conversion: %w", err)
	}
	return conversion, nil
}

func (r *conversionRepository) List(ctx context.Context, filter model.ConversionFilter) ([]model.Conversion, error) {
	query := `
	SELECT id, click_id, offer_id, affiliate_id, payout, revenue, status, currency, transaction_id, customer_id, postback_sent, created_at
	FROM conversions WHERE 1=1`
	args := []interface{}{}

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.AffiliateID != nil {
		args = append(args, *filter.AffiliateID)
		query += fmt.Sprintf(" AND affiliate_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	conversions := []model.Conversion{}
	for rows.Next() {
		conversion, scanErr := scanConversion(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan conversion: %w", scanErr)
		}
		conversions = append(conversions, conversion)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	return conversions, nil
}

const updateConversionStatusQuery = `
	UPDATE conversions SET status = $2 WHERE id = $1
`

func (r *conversionRepository) UpdateStatus(ctx context.Context, id string, status model.ConversionStatus) error {
	tag, err := r.pool.Exec(ctx, updateConversionStatusQuery, id, string(status))
	if err != nil {
		return fmt.Errorf("update conversion status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const markPostbackSentQuery = `
	UPDATE conversions SET postback_sent = TRUE WHERE id = $1
`

func (r *conversionRepository) MarkPostbackSent(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, markPostbackSentQuery, id); err != nil {
		return fmt.Errorf("mark postback sent: %w", err)
	}
	return nil
}

func scanConversion(row pgx.Row) (model.Conversion, error) {
	var c model.Conversion
	var status string
	err := row.Scan(
		&c.ID,
		&c.ClickID,
		&c.OfferID,
		&c.AffiliateID,
		&c.Payout,
		&c.Revenue,
		&status,
		&c.Currency,
		&c.TransactionID,
		&c.CustomerID,
		&c.PostbackSent,
		&c.CreatedAt,
	)
	if err != nil {
		return model.Conversion{}, err
	}
	c.Status = model.ConversionStatus(status)
	return c, nil
}
