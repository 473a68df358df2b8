package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"affiliate-tracking-service/internal/model"
)

// PostbackRepository defines database operations for postback configs.
type PostbackRepository interface {
	Create(ctx context.Context, config model.PostbackConfig) error
	GetByID(ctx context.Context, id string) (model.PostbackConfig, error)
	List(ctx context.Context) ([]model.PostbackConfig, error)

	// ListActive returns every config eligible for dispatch.
	ListActive(ctx context.Context) ([]model.PostbackConfig, error)

	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type postbackRepository struct {
	pool *pgxpool.Pool
}

// NewPostbackRepository creates a PostbackRepository backed by PostgreSQL.
func NewPostbackRepository(pool *pgxpool.Pool) PostbackRepository {
	return &postbackRepository{pool: pool}
}

const insertPostbackQuery = `
	INSERT INTO postbacks (id, name, url, method, params, active, affiliate_id, offer_id, retry_attempts, timeout_ms, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

func (r *postbackRepository) Create(ctx context.Context, config model.PostbackConfig) error {
	params, err := marshalParams(config.Params)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, insertPostbackQuery,
		config.ID,
		config.Name,
		config.URL,
		config.Method,
		params,
		config.Active,
		config.AffiliateID,
		config.OfferID,
		config.RetryAttempts,
		config.Timeout.Milliseconds(),
		config.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert postback config: %w", err)
	}
	return nil
}

const selectPostbackQuery = `
	SELECT id, name, url, method, params, active, affiliate_id, offer_id, retry_attempts, timeout_ms, created_at
	FROM postbacks WHERE id = $1
`

func (r *postbackRepository) GetByID(ctx context.Context, id string) (model.PostbackConfig, error) {
	row := r.pool.QueryRow(ctx, selectPostbackQuery, id)
	config, err := scanPostback(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.PostbackConfig{}, ErrNotFound
	}
	if err != nil {
		return model.PostbackConfig{}, fmt.Errorf("select postback config: %w", err)
	}
	return config, nil
}

const listPostbacksQuery = `
	SELECT id, name, url, method, params, active, affiliate_id, offer_id, retry_attempts, timeout_ms, created_at
	FROM postbacks ORDER BY created_at DESC
`

func (r *postbackRepository) List(ctx context.Context) ([]model.PostbackConfig, error) {
	return r.queryConfigs(ctx, listPostbacksQuery)
}

const listActivePostbacksQuery = `
	SELECT id, name, url, method, params, active, affiliate_id, offer_id, retry_attempts, timeout_ms, created_at
	FROM postbacks WHERE active = TRUE ORDER BY created_at
`

func (r *postbackRepository) ListActive(ctx context.Context) ([]model.PostbackConfig, error) {
	return r.queryConfigs(ctx, listActivePostbacksQuery)
}

func (r *postbackRepository) queryConfigs(ctx context.Context, query string) ([]model.PostbackConfig, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list postback configs: %w", err)
	}
	defer rows.Close()

	configs := []model.PostbackConfig{}
	for rows.Next() {
		config, scanErr := scanPostback(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan postback config: %w", scanErr)
		}
		configs = append(configs, config)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list postback configs: %w", err)
	}
	return configs, nil
}

const setPostbackActiveQuery = `
	UPDATE postbacks SET active = $2 WHERE id = $1
`

func (r *postbackRepository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, setPostbackActiveQuery, id, active)
	if err != nil {
		return fmt.Errorf("update postback config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const deletePostbackQuery = `
	DELETE FROM postbacks WHERE id = $1
`

func (r *postbackRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, deletePostbackQuery, id)
	if err != nil {
		return fmt.Errorf("delete postback config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPostback(row pgx.Row) (model.PostbackConfig, error) {
	var c model.PostbackConfig
	var params []byte
	var timeoutMs int64
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.URL,
		&c.Method,
		&params,
		&c.Active,
		&c.AffiliateID,
		&c.OfferID,
		&c.RetryAttempts,
		&timeoutMs,
		&c.CreatedAt,
	)
	if err != nil {
		return model.PostbackConfig{}, err
	}
	c.Timeout = time.Duration(timeoutMs) * time.Millisecond
	if len(params) > 0 {
		if err := json.Unmarshal(params, &c.Params); err != nil {
			return model.PostbackConfig{}, fmt.Errorf("unmarshal params: %w", err)
		}
	}
	return c, nil
}

func marshalParams(params map[string]string) ([]byte, error) {
	if params == nil {
		params = map[string]string{}
	}
	b, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	return b, nil
}
