package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// EngineConfig holds the tunable constants of the depreciation engine
type EngineConfig struct {
	DefaultDepreciationRate decimal.Decimal // Declining balance rate when an asset has none
	DefaultLifespanYears    int             // Lifespan when an asset has none
	HighValueThreshold      decimal.Decimal // Purchase price at which an asset counts as high-value
	SalvageFloorRatio       decimal.Decimal // Fraction of purchase price treated as "fully depreciated"
	MaxRemainingLifeYears   int             // Upper bound on the declining balance remaining life estimate
}

// DefaultEngineConfig returns the reference configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		DefaultDepreciationRate: decimal.NewFromFloat(0.15),
		DefaultLifespanYears:    5,
		HighValueThreshold:      decimal.NewFromInt(10000),
		SalvageFloorRatio:       decimal.NewFromFloat(0.01),
		MaxRemainingLifeYears:   50,
	}
}

// Validate ensures the configuration cannot produce divisions by zero or negative depreciation
func (c EngineConfig) Validate() error {
	if c.DefaultDepreciationRate.LessThanOrEqual(decimal.Zero) || c.DefaultDepreciationRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("default depreciation rate must be between 0 and 1")
	}

	if c.DefaultLifespanYears < 1 {
		return errors.New("default lifespan must be at least 1 year")
	}

	if c.HighValueThreshold.IsNegative() {
		return errors.New("high value threshold cannot be negative")
	}

	if c.SalvageFloorRatio.LessThanOrEqual(decimal.Zero) || c.SalvageFloorRatio.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return errors.New("salvage floor ratio must be between 0 and 1")
	}

	if c.MaxRemainingLifeYears < 1 {
		return errors.New("max remaining life must be at least 1 year")
	}

	return nil
}
