package market

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

var (
	// MinMultiplier and MaxMultiplier bound the combined market multiplier
	MinMultiplier = decimal.NewFromFloat(0.5)
	MaxMultiplier = decimal.NewFromInt(2)

	factorAcceleratingTechnology = decimal.NewFromFloat(1.3)
	factorDecliningTechnology    = decimal.NewFromFloat(0.8)
	factorHighGrowth             = decimal.NewFromFloat(1.1)
	factorLowGrowth              = decimal.NewFromFloat(0.9)
	factorHighSupplyChainImpact  = decimal.NewFromFloat(1.2)
	factorRecession              = decimal.NewFromFloat(0.8)
	factorBoom                   = decimal.NewFromFloat(1.15)
)

// Adjuster scales forward-looking depreciation by market conditions
type Adjuster struct{}

// NewAdjuster creates a new Adjuster
func NewAdjuster() *Adjuster {
	return &Adjuster{}
}

// Multiplier computes the clamped market multiplier and the list of contributing factors
// Logic (applied in order, starting at 1.0):
//   - Technology trend accelerating (technology assets only): x1.3, declining: x0.8
//   - Industry growth high: x1.1, low: x0.9
//   - Supply chain impact high: x1.2
//   - Economic conditions recession: x0.8, boom: x1.15
//   - Clamp to [0.5, 2.0]
//
// Factors lists every condition that deviates from neutral, including ones without a multiplier effect
func (a *Adjuster) Multiplier(conditions domain.MarketConditions, isTechnology bool) (decimal.Decimal, []string) {
	c := conditions.Normalized()
	multiplier := decimal.NewFromInt(1)
	factors := make([]string, 0)

	switch c.TechnologyTrend {
	case domain.TechnologyTrendAccelerating:
		if isTechnology {
			multiplier = multiplier.Mul(factorAcceleratingTechnology)
		}
		factors = append(factors, technologyFactor("accelerating technology trend", isTechnology))
	case domain.TechnologyTrendDeclining:
		if isTechnology {
			multiplier = multiplier.Mul(factorDecliningTechnology)
		}
		factors = append(factors, technologyFactor("declining technology trend", isTechnology))
	}

	switch c.IndustryGrowth {
	case domain.IndustryGrowthHigh:
		multiplier = multiplier.Mul(factorHighGrowth)
		factors = append(factors, "high industry growth")
	case domain.IndustryGrowthLow:
		multiplier = multiplier.Mul(factorLowGrowth)
		factors = append(factors, "low industry growth")
	}

	switch c.SupplyChainImpact {
	case domain.SupplyChainImpactHigh:
		multiplier = multiplier.Mul(factorHighSupplyChainImpact)
		factors = append(factors, "high supply chain impact")
	case domain.SupplyChainImpactLow:
		factors = append(factors, "low supply chain impact")
	}

	// Regulatory changes are reported but do not move the multiplier
	switch c.RegulatoryChanges {
	case domain.RegulatoryChangesSignificant:
		factors = append(factors, "significant regulatory changes")
	case domain.RegulatoryChangesMinor:
		factors = append(factors, "minor regulatory changes")
	}

	switch c.EconomicConditions {
	case domain.EconomicConditionsRecession:
		multiplier = multiplier.Mul(factorRecession)
		factors = append(factors, "economic recession")
	case domain.EconomicConditionsBoom:
		multiplier = multiplier.Mul(factorBoom)
		factors = append(factors, "economic boom")
	}

	return Clamp(multiplier), factors
}

// Apply returns a copy of result with its forward-looking figures scaled by the market multiplier
// Only AnnualDepreciation and MonthlyDepreciation change; TotalDepreciation and CurrentValue
// describe history and are left untouched. Sentinel results are returned as an unchanged copy.
func (a *Adjuster) Apply(result *domain.DepreciationResult, conditions domain.MarketConditions, isTechnology bool) *domain.DepreciationResult {
	adjusted := *result
	if !result.IsCalculated() {
		return &adjusted
	}

	multiplier, factors := a.Multiplier(conditions, isTechnology)

	adjusted.AnnualDepreciation = result.AnnualDepreciation.Mul(multiplier)
	adjusted.MonthlyDepreciation = result.MonthlyDepreciation.Mul(multiplier)
	adjusted.MarketAdjustments = &domain.MarketAdjustment{
		Multiplier: multiplier,
		Factors:    factors,
	}

	return &adjusted
}

// technologyFactor marks a technology trend that was reported without moving the multiplier
func technologyFactor(factor string, isTechnology bool) string {
	if isTechnology {
		return factor
	}
	return factor + " (no effect on non-technology asset)"
}

// Clamp bounds a multiplier to [MinMultiplier, MaxMultiplier]
func Clamp(multiplier decimal.Decimal) decimal.Decimal {
	return decimal.Min(decimal.Max(multiplier, MinMultiplier), MaxMultiplier)
}
