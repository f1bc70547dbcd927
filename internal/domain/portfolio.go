package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetValuation pairs an asset with its computed depreciation result
type AssetValuation struct {
	AssetID      uuid.UUID
	Name         string
	Result       *DepreciationResult
	IsTechnology bool
	IsHighValue  bool
	AgeYears     decimal.Decimal
}

// PortfolioMetrics holds descriptive statistics for a portfolio
type PortfolioMetrics struct {
	AssetCount           int
	AverageAgeYears      decimal.Decimal // Over assets with a known purchase date
	AveragePurchasePrice decimal.Decimal
	AverageCurrentValue  decimal.Decimal
	TechnologyAssetCount int
	HighValueAssetCount  int
}

// PortfolioSummary represents the aggregated depreciation figures of a collection of assets
type PortfolioSummary struct {
	TotalPurchaseValue            decimal.Decimal
	TotalCurrentValue             decimal.Decimal
	TotalDepreciation             decimal.Decimal
	AverageDepreciationPercentage decimal.Decimal
	MethodBreakdown               map[string]int // Method name -> asset count
	AssetsNeedingReplacement      int            // Assets with remaining life <= 1 year
	Metrics                       PortfolioMetrics
	Valuations                    []AssetValuation
}

// NewEmptyPortfolioSummary returns the all-zero summary of an empty portfolio
func NewEmptyPortfolioSummary() *PortfolioSummary {
	return &PortfolioSummary{
		TotalPurchaseValue:            decimal.Zero,
		TotalCurrentValue:             decimal.Zero,
		TotalDepreciation:             decimal.Zero,
		AverageDepreciationPercentage: decimal.Zero,
		MethodBreakdown:               make(map[string]int),
		Metrics: PortfolioMetrics{
			AverageAgeYears:      decimal.Zero,
			AveragePurchasePrice: decimal.Zero,
			AverageCurrentValue:  decimal.Zero,
		},
		Valuations: []AssetValuation{},
	}
}
