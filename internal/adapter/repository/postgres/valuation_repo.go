package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

// valuationRepository implements domain.ValuationHistoryRepository
type valuationRepository struct {
	db *DB
}

// NewValuationRepository creates a new portfolio valuation history repository
func NewValuationRepository(db *DB) domain.ValuationHistoryRepository {
	return &valuationRepository{db: db}
}

// Add creates a new portfolio valuation entry
func (r *valuationRepository) Add(ctx context.Context, valuation *domain.PortfolioValuation) error {
	breakdown, err := json.Marshal(valuation.MethodBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode method breakdown: %w", err)
	}

	query := `
		INSERT INTO portfolio_valuations (id, company_id, as_of, asset_count, total_purchase_value, total_current_value, total_depreciation, method_breakdown)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = r.db.ExecContext(ctx, query,
		valuation.ID,
		valuation.CompanyID,
		valuation.AsOf,
		valuation.AssetCount,
		valuation.TotalPurchaseValue.String(),
		valuation.TotalCurrentValue.String(),
		valuation.TotalDepreciation.String(),
		string(breakdown),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio valuation: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent valuation recorded for a company
func (r *valuationRepository) GetLatest(ctx context.Context, companyID uuid.UUID) (*domain.PortfolioValuation, error) {
	query := `
		SELECT id, company_id, as_of, asset_count, total_purchase_value, total_current_value, total_depreciation, method_breakdown
		FROM portfolio_valuations
		WHERE company_id = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	var valuation domain.PortfolioValuation
	var purchaseStr, currentStr, depreciationStr string
	var breakdown []byte

	err := r.db.QueryRowContext(ctx, query, companyID).Scan(
		&valuation.ID,
		&valuation.CompanyID,
		&valuation.AsOf,
		&valuation.AssetCount,
		&purchaseStr,
		&currentStr,
		&depreciationStr,
		&breakdown,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", companyID, domain.ErrValuationNotFound)
		}
		return nil, fmt.Errorf("failed to get latest portfolio valuation: %w", err)
	}

	if valuation.TotalPurchaseValue, err = decimal.NewFromString(purchaseStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_purchase_value: %w", err)
	}
	if valuation.TotalCurrentValue, err = decimal.NewFromString(currentStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_current_value: %w", err)
	}
	if valuation.TotalDepreciation, err = decimal.NewFromString(depreciationStr); err != nil {
		return nil, fmt.Errorf("failed to parse total_depreciation: %w", err)
	}

	valuation.MethodBreakdown = make(map[string]int)
	if err := json.Unmarshal(breakdown, &valuation.MethodBreakdown); err != nil {
		return nil, fmt.Errorf("failed to parse method_breakdown: %w", err)
	}

	return &valuation, nil
}
