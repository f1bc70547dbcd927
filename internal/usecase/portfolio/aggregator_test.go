package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
	"github.com/simaogato/assetval-backend/internal/usecase/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAsOf = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

const secondsPerYear = 31557600

func yearsBefore(n float64) *time.Time {
	d := testAsOf.Add(-time.Duration(n*secondsPerYear) * time.Second)
	return &d
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func newTestAggregator() *Aggregator {
	return NewAggregator(depreciation.NewEngine(domain.DefaultEngineConfig()), market.NewAdjuster())
}

func samplePortfolio() []domain.AssetSnapshot {
	stored := decimal.NewFromInt(750)

	return []domain.AssetSnapshot{
		{
			ID:               uuid.New(),
			Name:             "Oak Desk",
			Category:         "Office",
			PurchasePrice:    decimal.NewFromInt(5000),
			PurchaseDate:     yearsBefore(3),
			ExpectedLifespan: 5,
		},
		{
			ID:               uuid.New(),
			Name:             "MacBook Pro",
			Category:         "Laptop",
			PurchasePrice:    decimal.NewFromInt(2500),
			PurchaseDate:     yearsBefore(1),
			ExpectedLifespan: 5,
		},
		{
			ID:            uuid.New(),
			Name:          "Industrial Robot Arm",
			Category:      "Machinery",
			PurchasePrice: decimal.NewFromInt(50000),
			PurchaseDate:  yearsBefore(2),
		},
		{
			ID:            uuid.New(),
			Name:          "Projector",
			Category:      "Presentation",
			PurchasePrice: decimal.NewFromInt(1500),
			CurrentValue:  &stored,
		},
		{
			ID:               uuid.New(),
			Name:             "Web Server",
			Category:         "Hardware",
			PurchasePrice:    decimal.NewFromInt(4000),
			PurchaseDate:     yearsBefore(4.5),
			ExpectedLifespan: 4,
		},
	}
}

func TestCalculate_Summary(t *testing.T) {
	aggregator := newTestAggregator()

	summary, err := aggregator.Calculate(samplePortfolio(), testAsOf, nil)
	require.NoError(t, err)

	assertDecimal(t, "63000", summary.TotalPurchaseValue)
	assertDecimal(t, "40625", summary.TotalCurrentValue)
	assertDecimal(t, "21625", summary.TotalDepreciation)
	assertDecimal(t, "44.3", summary.AverageDepreciationPercentage)

	assert.Equal(t, map[string]int{
		domain.MethodNameStraightLine:           1,
		domain.MethodNameDoubleDecliningBalance: 2,
		domain.MethodNameDecliningBalance:       1,
		domain.MethodNameNoCalculation:          1,
	}, summary.MethodBreakdown)

	// The fully depreciated server and the projector without history
	assert.Equal(t, 2, summary.AssetsNeedingReplacement)

	assert.Equal(t, 5, summary.Metrics.AssetCount)
	assertDecimal(t, "2.625", summary.Metrics.AverageAgeYears)
	assertDecimal(t, "12600", summary.Metrics.AveragePurchasePrice)
	assertDecimal(t, "8125", summary.Metrics.AverageCurrentValue)
	assert.Equal(t, 2, summary.Metrics.TechnologyAssetCount)
	assert.Equal(t, 1, summary.Metrics.HighValueAssetCount)

	require.Len(t, summary.Valuations, 5)
	for i, asset := range samplePortfolio() {
		assert.Equal(t, asset.Name, summary.Valuations[i].Name)
		assert.Nil(t, summary.Valuations[i].Result.MarketAdjustments)
	}
}

func TestCalculate_WithMarketConditions(t *testing.T) {
	aggregator := newTestAggregator()
	conditions := &domain.MarketConditions{
		TechnologyTrend: domain.TechnologyTrendAccelerating,
		IndustryGrowth:  domain.IndustryGrowthHigh,
	}

	summary, err := aggregator.Calculate(samplePortfolio(), testAsOf, conditions)
	require.NoError(t, err)

	// Market conditions never restate history
	assertDecimal(t, "40625", summary.TotalCurrentValue)
	assertDecimal(t, "21625", summary.TotalDepreciation)

	laptop := summary.Valuations[1]
	require.NotNil(t, laptop.Result.MarketAdjustments)
	assertDecimal(t, "1.43", laptop.Result.MarketAdjustments.Multiplier)
	// 1500 * 0.4 * 1.43
	assertDecimal(t, "858", laptop.Result.AnnualDepreciation)

	robot := summary.Valuations[2]
	require.NotNil(t, robot.Result.MarketAdjustments)
	assertDecimal(t, "1.1", robot.Result.MarketAdjustments.Multiplier)

	projector := summary.Valuations[3]
	assert.Nil(t, projector.Result.MarketAdjustments)
}

func TestCalculate_NeedingReplacement(t *testing.T) {
	aggregator := newTestAggregator()

	tests := []struct {
		name   string
		assets []domain.AssetSnapshot
		want   int
	}{
		{
			name: "Undated asset has no remaining life",
			assets: []domain.AssetSnapshot{
				{ID: uuid.New(), Name: "Filing Cabinet", Category: "Office", PurchasePrice: decimal.NewFromInt(400)},
			},
			want: 1,
		},
		{
			name: "Dated asset with years left is not counted",
			assets: []domain.AssetSnapshot{
				{
					ID:               uuid.New(),
					Name:             "Oak Desk",
					Category:         "Office",
					PurchasePrice:    decimal.NewFromInt(5000),
					PurchaseDate:     yearsBefore(1),
					ExpectedLifespan: 5,
				},
			},
			want: 0,
		},
		{
			name: "Dated and undated assets together",
			assets: []domain.AssetSnapshot{
				{
					ID:               uuid.New(),
					Name:             "Oak Desk",
					Category:         "Office",
					PurchasePrice:    decimal.NewFromInt(5000),
					PurchaseDate:     yearsBefore(1),
					ExpectedLifespan: 5,
				},
				{ID: uuid.New(), Name: "Filing Cabinet", Category: "Office", PurchasePrice: decimal.NewFromInt(400)},
			},
			want: 1,
		},
		{
			name: "Dated asset in its final year",
			assets: []domain.AssetSnapshot{
				{
					ID:               uuid.New(),
					Name:             "Oak Desk",
					Category:         "Office",
					PurchasePrice:    decimal.NewFromInt(5000),
					PurchaseDate:     yearsBefore(4.5),
					ExpectedLifespan: 5,
				},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := aggregator.Calculate(tt.assets, testAsOf, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, summary.AssetsNeedingReplacement)
		})
	}
}

func TestCalculate_EmptyPortfolio(t *testing.T) {
	aggregator := newTestAggregator()

	for _, assets := range [][]domain.AssetSnapshot{nil, {}} {
		summary, err := aggregator.Calculate(assets, testAsOf, &domain.MarketConditions{})
		require.NoError(t, err)

		assertDecimal(t, "0", summary.TotalPurchaseValue)
		assertDecimal(t, "0", summary.TotalCurrentValue)
		assertDecimal(t, "0", summary.TotalDepreciation)
		assertDecimal(t, "0", summary.AverageDepreciationPercentage)
		assert.NotNil(t, summary.MethodBreakdown)
		assert.Empty(t, summary.MethodBreakdown)
		assert.Equal(t, 0, summary.AssetsNeedingReplacement)
		assert.Equal(t, 0, summary.Metrics.AssetCount)
		assertDecimal(t, "0", summary.Metrics.AverageAgeYears)
		assertDecimal(t, "0", summary.Metrics.AveragePurchasePrice)
		assertDecimal(t, "0", summary.Metrics.AverageCurrentValue)
		assert.Empty(t, summary.Valuations)
	}
}

func TestCalculate_InvalidAssetFailsPortfolio(t *testing.T) {
	aggregator := newTestAggregator()

	assets := samplePortfolio()
	assets[2].ExpectedLifespan = -4

	summary, err := aggregator.Calculate(assets, testAsOf, nil)
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, domain.ErrInvalidAssetData))
	assert.Contains(t, err.Error(), assets[2].ID.String())
}

func TestCalculate_InvalidMarketConditions(t *testing.T) {
	aggregator := newTestAggregator()

	summary, err := aggregator.Calculate(samplePortfolio(), testAsOf, &domain.MarketConditions{EconomicConditions: "depression"})
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, domain.ErrInvalidMarketConditions))
}

func TestCalculate_LargePortfolioMatchesPerAssetSums(t *testing.T) {
	aggregator := newTestAggregator()

	assets := make([]domain.AssetSnapshot, 0, 1000)
	for i := 0; i < 1000; i++ {
		assets = append(assets, domain.AssetSnapshot{
			ID:               uuid.New(),
			Name:             "Oak Desk",
			Category:         "Office",
			PurchasePrice:    decimal.NewFromInt(5000),
			PurchaseDate:     yearsBefore(3),
			ExpectedLifespan: 5,
		})
	}

	summary, err := aggregator.Calculate(assets, testAsOf, nil)
	require.NoError(t, err)

	assertDecimal(t, "5000000", summary.TotalPurchaseValue)
	assertDecimal(t, "2000000", summary.TotalCurrentValue)
	assertDecimal(t, "3000000", summary.TotalDepreciation)
	assert.Equal(t, 1000, summary.MethodBreakdown[domain.MethodNameStraightLine])
	for i := range assets {
		assert.Equal(t, assets[i].ID, summary.Valuations[i].AssetID)
	}
}
