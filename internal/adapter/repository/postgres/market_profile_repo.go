package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// marketProfileRepository implements domain.MarketProfileRepository
type marketProfileRepository struct {
	db *DB
}

// NewMarketProfileRepository creates a new market profile repository
func NewMarketProfileRepository(db *DB) domain.MarketProfileRepository {
	return &marketProfileRepository{db: db}
}

// Get retrieves the market profile of a company
func (r *marketProfileRepository) Get(ctx context.Context, companyID uuid.UUID) (*domain.MarketProfile, error) {
	query := `
		SELECT company_id, technology_trend, industry_growth, supply_chain_impact, regulatory_changes, economic_conditions
		FROM market_profiles
		WHERE company_id = $1
	`

	var profile domain.MarketProfile
	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&profile.CompanyID,
		&profile.Conditions.TechnologyTrend,
		&profile.Conditions.IndustryGrowth,
		&profile.Conditions.SupplyChainImpact,
		&profile.Conditions.RegulatoryChanges,
		&profile.Conditions.EconomicConditions,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", companyID, domain.ErrMarketProfileNotFound)
		}
		return nil, fmt.Errorf("failed to get market profile: %w", err)
	}

	if err := profile.Conditions.Validate(); err != nil {
		return nil, fmt.Errorf("stored market profile for company %s: %w", companyID, err)
	}

	return &profile, nil
}

// Upsert creates or replaces the market profile of a company
// Empty fields are stored as their neutral value
func (r *marketProfileRepository) Upsert(ctx context.Context, profile *domain.MarketProfile) error {
	if err := profile.Conditions.Validate(); err != nil {
		return err
	}
	c := profile.Conditions.Normalized()

	query := `
		INSERT INTO market_profiles (company_id, technology_trend, industry_growth, supply_chain_impact, regulatory_changes, economic_conditions, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (company_id) DO UPDATE SET
			technology_trend = EXCLUDED.technology_trend,
			industry_growth = EXCLUDED.industry_growth,
			supply_chain_impact = EXCLUDED.supply_chain_impact,
			regulatory_changes = EXCLUDED.regulatory_changes,
			economic_conditions = EXCLUDED.economic_conditions,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.CompanyID,
		string(c.TechnologyTrend),
		string(c.IndustryGrowth),
		string(c.SupplyChainImpact),
		string(c.RegulatoryChanges),
		string(c.EconomicConditions),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert market profile: %w", err)
	}

	return nil
}
