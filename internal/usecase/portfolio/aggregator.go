package portfolio

import (
	"fmt"
	"runtime"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
	"github.com/simaogato/assetval-backend/internal/usecase/market"
)

// replacementHorizon is the remaining life (years) at or below which an asset needs replacement
// Sentinel results carry a zero remaining life and are counted too
var replacementHorizon = decimal.NewFromInt(1)

// Aggregator values collections of assets and reduces them to portfolio statistics
type Aggregator struct {
	engine   *depreciation.Engine
	adjuster *market.Adjuster
	workers  int
}

// NewAggregator creates a new Aggregator
func NewAggregator(engine *depreciation.Engine, adjuster *market.Adjuster) *Aggregator {
	return &Aggregator{
		engine:   engine,
		adjuster: adjuster,
		workers:  runtime.GOMAXPROCS(0),
	}
}

// Calculate values every asset and aggregates the results
// Logic:
//  1. Map (in parallel): AutoCalculate each asset, then apply market conditions when given
//  2. Reduce: sums, counts and averages (order-independent)
//
// An empty collection returns an all-zero summary
// Returns an error if any asset or the market conditions are structurally invalid
func (a *Aggregator) Calculate(assets []domain.AssetSnapshot, asOf time.Time, conditions *domain.MarketConditions) (*domain.PortfolioSummary, error) {
	if conditions != nil {
		if err := conditions.Validate(); err != nil {
			return nil, err
		}
	}

	if len(assets) == 0 {
		return domain.NewEmptyPortfolioSummary(), nil
	}

	valuations := make([]domain.AssetValuation, len(assets))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i := range assets {
		i := i
		g.Go(func() error {
			valuation, err := a.valueAsset(assets[i], asOf, conditions)
			if err != nil {
				return err
			}
			valuations[i] = *valuation
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summarize(valuations, assets), nil
}

// valueAsset runs selector -> calculator -> adjuster for a single asset
func (a *Aggregator) valueAsset(asset domain.AssetSnapshot, asOf time.Time, conditions *domain.MarketConditions) (*domain.AssetValuation, error) {
	result, err := a.engine.AutoCalculate(asset, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to value asset %s: %w", asset.ID, err)
	}

	isTechnology := a.engine.IsTechnology(asset)
	if conditions != nil {
		result = a.adjuster.Apply(result, *conditions, isTechnology)
	}

	age := decimal.Zero
	if asset.PurchaseDate != nil {
		age = depreciation.YearsElapsed(*asset.PurchaseDate, asOf)
	}

	return &domain.AssetValuation{
		AssetID:      asset.ID,
		Name:         asset.Name,
		Result:       result,
		IsTechnology: isTechnology,
		IsHighValue:  a.engine.IsHighValue(asset),
		AgeYears:     age,
	}, nil
}

// summarize reduces per-asset valuations to a portfolio summary
func summarize(valuations []domain.AssetValuation, assets []domain.AssetSnapshot) *domain.PortfolioSummary {
	summary := domain.NewEmptyPortfolioSummary()
	summary.Valuations = valuations

	percentageSum := decimal.Zero
	ageSum := decimal.Zero
	datedAssets := 0

	for i, valuation := range valuations {
		result := valuation.Result

		summary.TotalPurchaseValue = summary.TotalPurchaseValue.Add(assets[i].PurchasePrice)
		summary.TotalCurrentValue = summary.TotalCurrentValue.Add(result.CurrentValue)
		summary.TotalDepreciation = summary.TotalDepreciation.Add(result.TotalDepreciation)
		percentageSum = percentageSum.Add(result.DepreciationPercentage)
		summary.MethodBreakdown[result.Method]++

		if result.RemainingLife.LessThanOrEqual(replacementHorizon) {
			summary.AssetsNeedingReplacement++
		}

		if assets[i].PurchaseDate != nil {
			ageSum = ageSum.Add(valuation.AgeYears)
			datedAssets++
		}
		if valuation.IsTechnology {
			summary.Metrics.TechnologyAssetCount++
		}
		if valuation.IsHighValue {
			summary.Metrics.HighValueAssetCount++
		}
	}

	count := decimal.NewFromInt(int64(len(valuations)))
	summary.AverageDepreciationPercentage = percentageSum.Div(count)
	summary.Metrics.AssetCount = len(valuations)
	summary.Metrics.AveragePurchasePrice = summary.TotalPurchaseValue.Div(count)
	summary.Metrics.AverageCurrentValue = summary.TotalCurrentValue.Div(count)
	if datedAssets > 0 {
		summary.Metrics.AverageAgeYears = ageSum.Div(decimal.NewFromInt(int64(datedAssets)))
	}

	return summary
}
