package domain

import (
	"context"

	"github.com/google/uuid"
)

// AssetRepository defines the read-only interface for asset snapshots
// The valuation engine never writes asset records back
type AssetRepository interface {
	// GetByID retrieves an asset snapshot by its ID
	// Returns an error wrapping ErrAssetNotFound if it does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*AssetSnapshot, error)

	// ListByCompany retrieves every asset snapshot owned by a company
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]AssetSnapshot, error)

	// ListCompanyIDs returns the IDs of every company owning at least one asset
	ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error)
}

// MarketProfileRepository defines the interface for company market condition persistence
type MarketProfileRepository interface {
	// Get retrieves the market profile of a company
	// Returns an error wrapping ErrMarketProfileNotFound if none is stored
	Get(ctx context.Context, companyID uuid.UUID) (*MarketProfile, error)

	// Upsert creates or replaces the market profile of a company
	Upsert(ctx context.Context, profile *MarketProfile) error
}

// ValuationHistoryRepository defines the interface for portfolio valuation history persistence
type ValuationHistoryRepository interface {
	// Add creates a new portfolio valuation entry
	Add(ctx context.Context, valuation *PortfolioValuation) error

	// GetLatest retrieves the most recent valuation for a company
	// Returns an error wrapping ErrValuationNotFound if none exists
	GetLatest(ctx context.Context, companyID uuid.UUID) (*PortfolioValuation, error)
}
