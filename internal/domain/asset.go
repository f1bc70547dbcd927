package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetSnapshot represents a read-only view of an asset as supplied by the asset repository
// The depreciation engine never mutates or persists it
type AssetSnapshot struct {
	ID               uuid.UUID
	CompanyID        uuid.UUID
	Name             string
	Category         string
	PurchasePrice    decimal.Decimal
	PurchaseDate     *time.Time       // NULL when the purchase date is unknown
	ExpectedLifespan int              // Whole years. 0 = use EngineConfig.DefaultLifespanYears
	DepreciationRate decimal.Decimal  // Fraction in (0,1). 0 = use EngineConfig.DefaultDepreciationRate
	Method           Method           // Optional explicit override, empty or "auto" for heuristics
	CurrentValue     *decimal.Decimal // Previously stored value, used when no calculation is possible
}

// Validate ensures the asset carries structurally valid depreciation inputs
// Missing history (no purchase date, zero price) is NOT an error: it yields a sentinel result
// Returns an error wrapping ErrInvalidAssetData if validation fails
func (a *AssetSnapshot) Validate() error {
	if a.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price cannot be negative", ErrInvalidAssetData)
	}

	if a.ExpectedLifespan < 0 {
		return fmt.Errorf("%w: expected lifespan cannot be negative", ErrInvalidAssetData)
	}

	// Zero rate means "use the configured default"
	if !a.DepreciationRate.IsZero() {
		if a.DepreciationRate.IsNegative() || a.DepreciationRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: depreciation rate must be between 0 and 1", ErrInvalidAssetData)
		}
	}

	if a.CurrentValue != nil && a.CurrentValue.IsNegative() {
		return fmt.Errorf("%w: stored current value cannot be negative", ErrInvalidAssetData)
	}

	return nil
}

// Lifespan returns the expected lifespan, falling back to the configured default
func (a *AssetSnapshot) Lifespan(cfg EngineConfig) int {
	if a.ExpectedLifespan > 0 {
		return a.ExpectedLifespan
	}
	return cfg.DefaultLifespanYears
}

// Rate returns the declining balance rate, falling back to the configured default
func (a *AssetSnapshot) Rate(cfg EngineConfig) decimal.Decimal {
	if a.DepreciationRate.IsPositive() {
		return a.DepreciationRate
	}
	return cfg.DefaultDepreciationRate
}

// HasHistory reports whether the asset carries enough data to be depreciated
func (a *AssetSnapshot) HasHistory() bool {
	return a.PurchaseDate != nil && a.PurchasePrice.IsPositive()
}

// FallbackValue returns the stored current value, or zero when none is known
func (a *AssetSnapshot) FallbackValue() decimal.Decimal {
	if a.CurrentValue == nil {
		return decimal.Zero
	}
	return *a.CurrentValue
}
