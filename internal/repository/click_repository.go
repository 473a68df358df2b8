package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affiliate-tracking-service/internal/model"
)

// ClickRepository defines database operations for clicks.
type ClickRepository interface {
	// Create inserts a single click.
	Create(ctx context.Context, click model.Click) error

	// GetByID fetches one click.
	GetByID(ctx context.Context, id string) (model.Click, error)

	// MarkConverted sets the converted flag once. It is a no-op for
	// already-converted clicks.
	MarkConverted(ctx context.Context, id string) error
}

type clickRepository struct {
	pool *pgxpool.Pool
}

// NewClickRepository creates a ClickRepository backed by PostgreSQL.
func NewClickRepository(pool *pgxpool.Pool) ClickRepository {
	return &clickRepository{pool: pool}
}

const insertClickQuery = `
	INSERT INTO clicks (id, offer_id, affiliate_id, ip_address, user_agent, country, device, browser, os, referrer, source, sub1, sub2, sub3, sub4, sub5, fraud_score, flagged, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
`

func (r *clickRepository) Create(ctx context.Context, click model.Click) error {
	_, err := r.pool.Exec(ctx, insertClickQuery,
		click.ID,
		click.OfferID,
		click.AffiliateID,
		click.IPAddress,
		click.UserAgent,
		click.Country,
		click.Device,
		click.Browser,
		click.OS,
		click.Referrer,
		click.Source,
		click.Sub1,
		click.Sub2,
		click.Sub3,
		click.Sub4,
		click.Sub5,
		click.FraudScore,
		click.Flagged,
		click.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	return nil
}

const selectClickQuery = `
	SELECT id, offer_id, affiliate_id, ip_address, user_agent, country, device, browser, os, referrer, source, sub1, sub2, sub3, sub4, sub5, fraud_score, flagged, converted, created_at
	FROM clicks WHERE id = $1
`

func (r *clickRepository) GetByID(ctx context.Context, id string) (model.Click, error) {
	var c model.Click
	err := r.pool.QueryRow(ctx, selectClickQuery, id).Scan(
		&c.ID,
		&c.OfferID,
		&c.AffiliateID,
		&c.IPAddress,
		&c.UserAgent,
		&c.Country,
		&c.Device,
		&c.Browser,
		&c.OS,
		&c.Referrer,
		&c.Source,
		&c.Sub1,
		&c.Sub2,
		&c.Sub3,
		&c.Sub4,
		&c.Sub5,
		&c.FraudScore,
		&c.Flagged,
		&c.Converted,
		&c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Click{}, ErrNotFound
	}
	if err != nil {
		return model.Click{}, fmt.Errorf("select click: %w", err)
	}
	return c, nil
}

const markConvertedQuery = `
	UPDATE clicks SET converted = TRUE WHERE id = $1 AND converted = FALSE
`

func (r *clickRepository) MarkConverted(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, markConvertedQuery, id); err != nil {
		return fmt.Errorf("mark click converted: %w", err)
	}
	return nil
}
