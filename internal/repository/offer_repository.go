package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affiliate-tracking-service/internal/model"
)

// OfferRepository defines database operations for offers.
type OfferRepository interface {
	Create(ctx context.Context, offer model.Offer) error
	GetByID(ctx context.Context, id string) (model.Offer, error)
	List(ctx context.Context) ([]model.Offer, error)
}

type offerRepository struct {
	pool *pgxpool.Pool
}

// NewOfferRepository creates an OfferRepository backed by PostgreSQL.
func NewOfferRepository(pool *pgxpool.Pool) OfferRepository {
	return &offerRepository{pool: pool}
}

const insertOfferQuery = `
	INSERT INTO offers (id, name, destination_url, payout, currency, active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

func (r *offerRepository) Create(ctx context.Context, offer model.Offer) error {
	_, err := r.pool.Exec(ctx, insertOfferQuery,
		offer.ID,
		offer.Name,
		offer.DestinationURL,
		offer.Payout,
		offer.Currency,
		offer.Active,
		offer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

const selectOfferQuery = `
	SELECT id, name, destination_url, payout, currency, active, created_at
	FROM offers WHERE id = $1
`

func (r *offerRepository) GetByID(ctx context.Context, id string) (model.Offer, error) {
	var o model.Offer
	err := r.pool.QueryRow(ctx, selectOfferQuery, id).Scan(
		&o.ID,
		&o.Name,
		&o.DestinationURL,
		&o.Payout,
		&o.Currency,
		&o.Active,
		&o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Offer{}, ErrNotFound
	}
	if err != nil {
		return model.Offer{}, fmt.Errorf("select offer: %w", err)
	}
	return o, nil
}

const listOffersQuery = `
	SELECT id, name, destination_url, payout, currency, active, created_at
	FROM offers ORDER BY created_at DESC
`

func (r *offerRepository) List(ctx context.Context) ([]model.Offer, error) {
	rows, err := r.pool.Query(ctx, listOffersQuery)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	offers := []model.Offer{}
	for rows.Next() {
		var o model.Offer
		if err := rows.Scan(&o.ID, &o.Name, &o.DestinationURL, &o.Payout, &o.Currency, &o.Active, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan offer: %w", err)
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}
