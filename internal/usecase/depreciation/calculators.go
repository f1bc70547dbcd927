package depreciation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

const (
	confidenceStraightLine           = 0.9
	confidenceDecliningBalance       = 0.85
	confidenceDoubleDecliningBalance = 0.8

	// 365.25 days
	secondsPerYear = 31557600

	// Decimal places kept on each yearly charge so long histories do not grow unbounded
	chargePrecision = 10
)

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// StraightLine depreciates the asset by an equal charge every year of its lifespan
// Logic:
//   - Annual = PurchasePrice / Lifespan
//   - Total = min(Annual * YearsElapsed, PurchasePrice) where YearsElapsed is fractional (365.25-day years)
//   - RemainingLife = max(Lifespan - YearsElapsed, 0)
func (e *Engine) StraightLine(asset domain.AssetSnapshot, asOf time.Time) (*domain.DepreciationResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if !asset.HasHistory() {
		return sentinelResult(asset, asOf), nil
	}

	price := asset.PurchasePrice
	lifespan := decimal.NewFromInt(int64(asset.Lifespan(e.cfg)))
	years := YearsElapsed(*asset.PurchaseDate, asOf)

	annual := price.Div(lifespan)
	total := decimal.Min(annual.Mul(years), price)
	current := price.Sub(total)
	remaining := decimal.Max(lifespan.Sub(years), decimal.Zero)

	return &domain.DepreciationResult{
		CurrentValue:           current,
		TotalDepreciation:      total,
		AnnualDepreciation:     annual,
		MonthlyDepreciation:    annual.Div(monthsPerYear),
		DepreciationPercentage: percentageOf(total, price),
		RemainingLife:          remaining,
		NextDepreciationDate:   nextDepreciationDate(asOf),
		Method:                 domain.MethodNameStraightLine,
		CalculationDate:        asOf,
		Confidence:             confidenceStraightLine,
		Reasoning: fmt.Sprintf("Straight line depreciation of %s per year over %d years",
			annual.StringFixed(2), asset.Lifespan(e.cfg)),
	}, nil
}

// DecliningBalance depreciates a fixed percentage of the remaining book value every full year
// Logic:
//   - For each whole elapsed year: Charge = CurrentValue * Rate
//   - Annual = CurrentValue * Rate (the next charge)
//   - RemainingLife estimates the years until the value decays to the salvage floor
func (e *Engine) DecliningBalance(asset domain.AssetSnapshot, asOf time.Time) (*domain.DepreciationResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if !asset.HasHistory() {
		return sentinelResult(asset, asOf), nil
	}

	rate := asset.Rate(e.cfg)
	years := YearsElapsed(*asset.PurchaseDate, asOf)
	wholeYears := years.Floor().IntPart()

	current, total := declineBalance(asset.PurchasePrice, rate, wholeYears)
	annual := current.Mul(rate)

	return &domain.DepreciationResult{
		CurrentValue:           current,
		TotalDepreciation:      total,
		AnnualDepreciation:     annual,
		MonthlyDepreciation:    annual.Div(monthsPerYear),
		DepreciationPercentage: percentageOf(total, asset.PurchasePrice),
		RemainingLife:          e.decayRemainingLife(asset.PurchasePrice, current, rate),
		NextDepreciationDate:   nextDepreciationDate(asOf),
		Method:                 domain.MethodNameDecliningBalance,
		CalculationDate:        asOf,
		Confidence:             confidenceDecliningBalance,
		Reasoning: fmt.Sprintf("Declining balance at %s%% per year over %d full years",
			rate.Mul(hundred).StringFixed(1), wholeYears),
	}, nil
}

// DoubleDecliningBalance runs declining balance at twice the straight line rate (2 / Lifespan)
// RemainingLife follows the straight line lifespan
func (e *Engine) DoubleDecliningBalance(asset domain.AssetSnapshot, asOf time.Time) (*domain.DepreciationResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	if !asset.HasHistory() {
		return sentinelResult(asset, asOf), nil
	}

	lifespan := asset.Lifespan(e.cfg)
	rate := DoubleDecliningRate(lifespan)
	years := YearsElapsed(*asset.PurchaseDate, asOf)
	wholeYears := years.Floor().IntPart()

	current, total := declineBalance(asset.PurchasePrice, rate, wholeYears)
	annual := current.Mul(rate)
	remaining := decimal.Max(decimal.NewFromInt(int64(lifespan)).Sub(years), decimal.Zero)

	return &domain.DepreciationResult{
		CurrentValue:           current,
		TotalDepreciation:      total,
		AnnualDepreciation:     annual,
		MonthlyDepreciation:    annual.Div(monthsPerYear),
		DepreciationPercentage: percentageOf(total, asset.PurchasePrice),
		RemainingLife:          remaining,
		NextDepreciationDate:   nextDepreciationDate(asOf),
		Method:                 domain.MethodNameDoubleDecliningBalance,
		CalculationDate:        asOf,
		Confidence:             confidenceDoubleDecliningBalance,
		Reasoning: fmt.Sprintf("Double declining balance at %s%% per year (2/%d) over %d full years",
			rate.Mul(hundred).StringFixed(1), lifespan, wholeYears),
	}, nil
}

// ScheduledCharge returns one whole year's charge for the method, starting from the beginning value
// The charge is capped so the book value never goes negative
func (e *Engine) ScheduledCharge(asset domain.AssetSnapshot, method domain.Method, beginning, multiplier decimal.Decimal) (decimal.Decimal, error) {
	var charge decimal.Decimal

	switch method {
	case domain.MethodStraightLine:
		charge = asset.PurchasePrice.Div(decimal.NewFromInt(int64(asset.Lifespan(e.cfg))))
	case domain.MethodDecliningBalance:
		charge = beginning.Mul(asset.Rate(e.cfg))
	case domain.MethodDoubleDecliningBalance:
		charge = beginning.Mul(DoubleDecliningRate(asset.Lifespan(e.cfg)))
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown depreciation method %q", domain.ErrInvalidAssetData, method)
	}

	charge = charge.Mul(multiplier).Round(chargePrecision)
	return decimal.Max(decimal.Min(charge, beginning), decimal.Zero), nil
}

// DoubleDecliningRate returns 2 / lifespan, capped at 1 so a one-year asset cannot go negative
func DoubleDecliningRate(lifespan int) decimal.Decimal {
	if lifespan < 1 {
		lifespan = 1
	}
	rate := decimal.NewFromInt(2).Div(decimal.NewFromInt(int64(lifespan)))
	return decimal.Min(rate, decimal.NewFromInt(1))
}

// YearsElapsed returns the fractional number of 365.25-day years between purchase and asOf
// An asOf before the purchase date yields zero
func YearsElapsed(purchaseDate, asOf time.Time) decimal.Decimal {
	elapsed := asOf.Sub(purchaseDate)
	if elapsed <= 0 {
		return decimal.Zero
	}
	seconds := int64(elapsed / time.Second)
	return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(secondsPerYear))
}

// declineBalance applies the declining balance charge for the given number of whole years
// Returns the remaining value and the accumulated depreciation
func declineBalance(price, rate decimal.Decimal, wholeYears int64) (decimal.Decimal, decimal.Decimal) {
	current := price
	total := decimal.Zero

	for i := int64(0); i < wholeYears; i++ {
		charge := decimal.Min(current.Mul(rate).Round(chargePrecision), current)
		total = total.Add(charge)
		current = current.Sub(charge)
	}

	return current, total
}

// decayRemainingLife estimates the years needed for current to decay to the salvage floor
// Heuristic: ln(floor / current) / ln(1 - rate), zero once at or below the floor, capped at MaxRemainingLifeYears
func (e *Engine) decayRemainingLife(price, current, rate decimal.Decimal) decimal.Decimal {
	floor := price.Mul(e.cfg.SalvageFloorRatio)
	maxLife := decimal.NewFromInt(int64(e.cfg.MaxRemainingLifeYears))

	if current.LessThanOrEqual(floor) || !floor.IsPositive() {
		return decimal.Zero
	}

	retention := decimal.NewFromInt(1).Sub(rate)
	if !retention.IsPositive() {
		// A 100% rate empties the asset within one year
		return decimal.NewFromInt(1)
	}

	ratio := floor.Div(current).InexactFloat64()
	years := math.Log(ratio) / math.Log(retention.InexactFloat64())
	if math.IsNaN(years) || math.IsInf(years, 0) || years < 0 {
		return decimal.Zero
	}

	return decimal.Min(decimal.NewFromFloat(years).Round(2), maxLife)
}

// percentageOf returns part / whole * 100 clamped to [0, 100]
func percentageOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	pct := part.Div(whole).Mul(hundred)
	return decimal.Min(decimal.Max(pct, decimal.Zero), hundred)
}

// nextDepreciationDate returns the first day of the month after asOf
func nextDepreciationDate(asOf time.Time) time.Time {
	return time.Date(asOf.Year(), asOf.Month()+1, 1, 0, 0, 0, 0, asOf.Location())
}

// sentinelResult returns the neutral placeholder used when depreciation cannot be computed
func sentinelResult(asset domain.AssetSnapshot, asOf time.Time) *domain.DepreciationResult {
	return &domain.DepreciationResult{
		CurrentValue:           asset.FallbackValue(),
		TotalDepreciation:      decimal.Zero,
		AnnualDepreciation:     decimal.Zero,
		MonthlyDepreciation:    decimal.Zero,
		DepreciationPercentage: decimal.Zero,
		RemainingLife:          decimal.Zero,
		NextDepreciationDate:   nextDepreciationDate(asOf),
		Method:                 domain.MethodNameNoCalculation,
		CalculationDate:        asOf,
		Confidence:             0,
		Reasoning:              domain.ReasoningInsufficientData,
	}
}
