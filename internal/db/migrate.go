package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS offers (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			destination_url TEXT NOT NULL,
			payout          NUMERIC(12,4) NOT NULL DEFAULT 0,
			currency        TEXT NOT NULL DEFAULT 'USD',
			active          BOOLEAN NOT NULL DEFAULT TRUE,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS affiliates (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS clicks (
			id          TEXT PRIMARY KEY,
			offer_id    TEXT NOT NULL,
			affiliate_id TEXT NOT NULL,
			ip_address  TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			country     TEXT NOT NULL DEFAULT '',
			device      TEXT NOT NULL DEFAULT '',
			browser     TEXT NOT NULL DEFAULT '',
			os          TEXT NOT NULL DEFAULT '',
			referrer    TEXT NOT NULL DEFAULT '',
			source      TEXT NOT NULL DEFAULT '',
			sub1        TEXT NOT NULL DEFAULT '',
			sub2        TEXT NOT NULL DEFAULT '',
			sub3        TEXT NOT NULL DEFAULT '',
			sub4        TEXT NOT NULL DEFAULT '',
			sub5        TEXT NOT NULL DEFAULT '',
			fraud_score INT NOT NULL DEFAULT 0,
			flagged     BOOLEAN NOT NULL DEFAULT FALSE,
			converted   BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clicks_affiliate ON clicks (affiliate_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			id             TEXT PRIMARY KEY,
			click_id       TEXT NOT NULL DEFAULT '',
			offer_id       TEXT NOT NULL DEFAULT '',
			affiliate_id   TEXT NOT NULL DEFAULT '',
			payout         NUMERIC(12,4) NOT NULL DEFAULT 0,
			revenue        NUMERIC(12,4) NOT NULL DEFAULT 0,
			status         TEXT NOT NULL DEFAULT 'pending',
			currency       TEXT NOT NULL DEFAULT 'USD',
			transaction_id TEXT NOT NULL DEFAULT '',
			customer_id    TEXT NOT NULL DEFAULT '',
			postback_sent  BOOLEAN NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions (status, created_at)`,
		`CREATE TABLE IF NOT EXISTS postbacks (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			url            TEXT NOT NULL,
			method         TEXT NOT NULL DEFAULT 'GET',
			params         JSONB NOT NULL DEFAULT '{}',
			active         BOOLEAN NOT NULL DEFAULT TRUE,
			affiliate_id   TEXT NOT NULL DEFAULT '',
			offer_id       TEXT NOT NULL DEFAULT '',
			retry_attempts INT NOT NULL DEFAULT 3,
			timeout_ms     BIGINT NOT NULL DEFAULT 0,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id           TEXT PRIMARY KEY,
			affiliate_id TEXT NOT NULL,
			amount       NUMERIC(12,4) NOT NULL DEFAULT 0,
			currency     TEXT NOT NULL DEFAULT 'USD',
			status       TEXT NOT NULL DEFAULT 'pending',
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      JSONB NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// RunAnalyticsMigrations ensures the append-only analytics table exists.
func RunAnalyticsMigrations(ctx context.Context, conn clickhouse.Conn) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS click_events
(
	event_type   String,
	click_id     String,
	offer_id     String,
	affiliate_id String,
	ip_address   String,
	country      String,
	device       String,
	fraud_score  Int32,
	reasons      Array(String),
	ts           DateTime64(3, 'UTC'),
	ingested_at  DateTime DEFAULT now()
)
ENGINE = MergeTree
PARTITION BY toYYYYMMDD(ts)
ORDER BY (offer_id, ts, affiliate_id)
SETTINGS
    index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply analytics migrations: %w", err)
	}
	return nil
}
