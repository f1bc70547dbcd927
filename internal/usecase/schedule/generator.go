package schedule

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
	"github.com/simaogato/assetval-backend/internal/usecase/market"
)

// Generator projects year-by-year depreciation schedules
type Generator struct {
	engine   *depreciation.Engine
	adjuster *market.Adjuster
}

// NewGenerator creates a new Generator
func NewGenerator(engine *depreciation.Engine, adjuster *market.Adjuster) *Generator {
	return &Generator{
		engine:   engine,
		adjuster: adjuster,
	}
}

// settlementTolerance is the largest residual book value the final year absorbs
// Per-year charges are rounded, so an even split can leave a few units of dust behind
var settlementTolerance = decimal.New(1, -8)

// Generate builds one entry per whole year of the asset's lifespan
// Logic:
//  1. Resolve MethodAuto through the method selector
//  2. Depreciation, EndingValue and AccumulatedDepreciation follow the method's own charge
//  3. With market conditions, a second chain applies the constant multiplier to every year's charge
//     and MarketAdjustedValue carries its ending value
//  4. Each charge is capped at its chain's beginning value, and EndingValue carries into the next BeginningValue
//  5. The final year absorbs rounding dust so an even split ends at exactly zero
//
// Returns an empty schedule when the asset has no purchase date or price
func (g *Generator) Generate(asset domain.AssetSnapshot, method domain.Method, asOf time.Time, conditions *domain.MarketConditions) ([]domain.DepreciationScheduleEntry, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	if conditions != nil {
		if err := conditions.Validate(); err != nil {
			return nil, err
		}
	}

	if method == domain.MethodAuto || method == "" {
		method = g.engine.SelectMethod(asset).Method
	}
	if !method.IsCalculator() {
		return nil, fmt.Errorf("%w: unknown depreciation method %q", domain.ErrInvalidAssetData, method)
	}

	if !asset.HasHistory() {
		return []domain.DepreciationScheduleEntry{}, nil
	}

	one := decimal.NewFromInt(1)
	multiplier := one
	if conditions != nil {
		multiplier, _ = g.adjuster.Multiplier(*conditions, g.engine.IsTechnology(asset))
	}

	lifespan := asset.Lifespan(g.engine.Config())
	entries := make([]domain.DepreciationScheduleEntry, 0, lifespan)
	beginning := asset.PurchasePrice
	adjustedBeginning := asset.PurchasePrice
	accumulated := decimal.Zero

	for year := 1; year <= lifespan; year++ {
		final := year == lifespan

		charge, err := g.chargeFor(asset, method, beginning, one, final)
		if err != nil {
			return nil, err
		}

		ending := beginning.Sub(charge)
		accumulated = accumulated.Add(charge)
		yearEnd := asset.PurchaseDate.AddDate(year, 0, 0)

		entry := domain.DepreciationScheduleEntry{
			Year:                    year,
			Date:                    yearEnd,
			BeginningValue:          beginning,
			Depreciation:            charge,
			EndingValue:             ending,
			AccumulatedDepreciation: accumulated,
			IsProjected:             yearEnd.After(asOf),
		}
		if conditions != nil {
			adjustedCharge, err := g.chargeFor(asset, method, adjustedBeginning, multiplier, final)
			if err != nil {
				return nil, err
			}
			adjustedEnding := adjustedBeginning.Sub(adjustedCharge)
			entry.MarketAdjustedValue = &adjustedEnding
			adjustedBeginning = adjustedEnding
		}

		entries = append(entries, entry)
		beginning = ending
	}

	return entries, nil
}

// chargeFor returns the capped yearly charge, settling the residual dust in the final year
func (g *Generator) chargeFor(asset domain.AssetSnapshot, method domain.Method, beginning, multiplier decimal.Decimal, final bool) (decimal.Decimal, error) {
	charge, err := g.engine.ScheduledCharge(asset, method, beginning, multiplier)
	if err != nil {
		return decimal.Zero, err
	}

	if final && beginning.Sub(charge).LessThanOrEqual(settlementTolerance) {
		return beginning, nil
	}

	return charge, nil
}
