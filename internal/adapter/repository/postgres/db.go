package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=assetval sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the tables used by the valuation repositories if they are missing
// The assets table is owned by the asset register, it is only created here for standalone deployments
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id                  UUID PRIMARY KEY,
	company_id          UUID NOT NULL,
	name                TEXT NOT NULL,
	category            TEXT NOT NULL DEFAULT '',
	purchase_price      NUMERIC(18, 2) NOT NULL DEFAULT 0,
	purchase_date       TIMESTAMPTZ,
	expected_lifespan   INTEGER,
	depreciation_rate   NUMERIC(6, 4),
	depreciation_method TEXT,
	current_value       NUMERIC(18, 2)
);

CREATE INDEX IF NOT EXISTS idx_assets_company_id ON assets (company_id);

CREATE TABLE IF NOT EXISTS market_profiles (
	company_id          UUID PRIMARY KEY,
	technology_trend    TEXT NOT NULL,
	industry_growth     TEXT NOT NULL,
	supply_chain_impact TEXT NOT NULL,
	regulatory_changes  TEXT NOT NULL,
	economic_conditions TEXT NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS portfolio_valuations (
	id                   UUID PRIMARY KEY,
	company_id           UUID NOT NULL,
	as_of                TIMESTAMPTZ NOT NULL,
	asset_count          INTEGER NOT NULL,
	total_purchase_value NUMERIC(20, 10) NOT NULL,
	total_current_value  NUMERIC(20, 10) NOT NULL,
	total_depreciation   NUMERIC(20, 10) NOT NULL,
	method_breakdown     JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_portfolio_valuations_company_as_of ON portfolio_valuations (company_id, as_of DESC);
`
