package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/assetval-backend/internal/domain"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleValuation() *domain.AssetValuation {
	return &domain.AssetValuation{
		AssetID:      uuid.MustParse("6f1c2a4e-0b7d-4c1a-9e3f-2d5b8a7c9e01"),
		Name:         "MacBook Pro",
		IsTechnology: true,
		AgeYears:     dec("1"),
		Result: &domain.DepreciationResult{
			CurrentValue:           dec("1500"),
			TotalDepreciation:      dec("1000"),
			AnnualDepreciation:     dec("858"),
			MonthlyDepreciation:    dec("71.5"),
			DepreciationPercentage: dec("40"),
			RemainingLife:          dec("4"),
			NextDepreciationDate:   date(2025, 7, 1),
			Method:                 domain.MethodNameDoubleDecliningBalance,
			CalculationDate:        time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			Confidence:             0.9,
			Reasoning:              "Technology asset with rapid obsolescence. Double declining balance at 40.0% per year (2/5) over 1 full years",
			MarketAdjustments: &domain.MarketAdjustment{
				Multiplier: dec("1.43"),
				Factors:    []string{"accelerating technology trend", "high industry growth"},
			},
		},
	}
}

func sampleSchedule() []domain.DepreciationScheduleEntry {
	rows := [][4]string{
		{"10000", "4000", "6000", "4000"},
		{"6000", "2400", "3600", "6400"},
		{"3600", "1440", "2160", "7840"},
		{"2160", "864", "1296", "8704"},
		{"1296", "518.4", "777.6", "9222.4"},
	}

	entries := make([]domain.DepreciationScheduleEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, domain.DepreciationScheduleEntry{
			Year:                    i + 1,
			Date:                    date(2024+i, 6, 15),
			BeginningValue:          dec(row[0]),
			Depreciation:            dec(row[1]),
			EndingValue:             dec(row[2]),
			AccumulatedDepreciation: dec(row[3]),
			IsProjected:             i >= 2,
		})
	}
	return entries
}

func samplePortfolio() *domain.PortfolioSummary {
	desk := &domain.DepreciationResult{
		CurrentValue: dec("2000"),
		Method:       domain.MethodNameStraightLine,
	}
	laptop := sampleValuation()

	return &domain.PortfolioSummary{
		TotalPurchaseValue:            dec("7500"),
		TotalCurrentValue:             dec("3500"),
		TotalDepreciation:             dec("4000"),
		AverageDepreciationPercentage: dec("50"),
		MethodBreakdown: map[string]int{
			domain.MethodNameStraightLine:           1,
			domain.MethodNameDoubleDecliningBalance: 1,
		},
		AssetsNeedingReplacement: 0,
		Metrics: domain.PortfolioMetrics{
			AssetCount:           2,
			AverageAgeYears:      dec("2"),
			AveragePurchasePrice: dec("3750"),
			AverageCurrentValue:  dec("1750"),
			TechnologyAssetCount: 1,
		},
		Valuations: []domain.AssetValuation{
			{Name: "Oak Desk", Result: desk},
			*laptop,
		},
	}
}

func render(t *testing.T, format string, fn func(r *Renderer, buf *bytes.Buffer) error) []byte {
	t.Helper()
	r, err := NewRenderer(format, "USD")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, fn(r, &buf))
	return buf.Bytes()
}

func TestRenderer_Golden(t *testing.T) {
	tests := []struct {
		name   string
		format string
		fn     func(r *Renderer, buf *bytes.Buffer) error
	}{
		{
			name:   "valuation_text",
			format: FormatText,
			fn:     func(r *Renderer, buf *bytes.Buffer) error { return r.Valuation(buf, sampleValuation()) },
		},
		{
			name:   "valuation_json",
			format: FormatJSON,
			fn:     func(r *Renderer, buf *bytes.Buffer) error { return r.Valuation(buf, sampleValuation()) },
		},
		{
			name:   "schedule_text",
			format: FormatText,
			fn:     func(r *Renderer, buf *bytes.Buffer) error { return r.Schedule(buf, sampleSchedule()) },
		},
		{
			name:   "portfolio_text",
			format: FormatText,
			fn:     func(r *Renderer, buf *bytes.Buffer) error { return r.Portfolio(buf, samplePortfolio()) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGolden(t)
			g.Assert(t, tt.name, render(t, tt.format, tt.fn))
		})
	}
}

func TestRenderer_EmptySchedule(t *testing.T) {
	out := render(t, FormatText, func(r *Renderer, buf *bytes.Buffer) error {
		return r.Schedule(buf, nil)
	})
	assert.Equal(t, "No schedule: "+domain.ReasoningInsufficientData+"\n", string(out))

	out = render(t, FormatJSON, func(r *Renderer, buf *bytes.Buffer) error {
		return r.Schedule(buf, []domain.DepreciationScheduleEntry{})
	})
	assert.Equal(t, "[]\n", string(out))
}

func TestRenderer_Money(t *testing.T) {
	r, err := NewRenderer(FormatText, "usd")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"0.5", "$0.50"},
		{"1234567.891", "$1,234,567.89"},
		{"71.505", "$71.51"},
		{"-42", "-$42.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Money(dec(tt.in)))
		})
	}
}

func TestNewRenderer_Errors(t *testing.T) {
	_, err := NewRenderer("yaml", "USD")
	assert.ErrorContains(t, err, "unknown output format")

	_, err = NewRenderer(FormatText, "ZZZ")
	assert.ErrorContains(t, err, "unknown currency code")

	r, err := NewRenderer("", "")
	require.NoError(t, err)
	assert.Equal(t, FormatText, r.format)
}

func TestNewScheduleView_MarketAdjustedValue(t *testing.T) {
	entries := sampleSchedule()[:1]
	adjusted := dec("6000")
	entries[0].MarketAdjustedValue = &adjusted

	views := NewScheduleView(entries)
	require.Len(t, views, 1)
	require.NotNil(t, views[0].MarketAdjustedValue)
	assert.Equal(t, "6000.00", *views[0].MarketAdjustedValue)
	assert.Equal(t, "2024-06-15", views[0].Date)
	assert.False(t, views[0].IsProjected)
}

func TestNewPortfolioValuationView(t *testing.T) {
	v := &domain.PortfolioValuation{
		ID:                 uuid.MustParse("0a8e3b1c-5d2f-4e6a-8b9c-7d1e2f3a4b5c"),
		CompanyID:          uuid.MustParse("1b9f4c2d-6e3a-4f7b-9c0d-8e2f3a4b5c6d"),
		AsOf:               time.Date(2025, 6, 15, 2, 0, 0, 0, time.UTC),
		AssetCount:         3,
		TotalPurchaseValue: dec("12000"),
		TotalCurrentValue:  dec("8000.456"),
		TotalDepreciation:  dec("3999.544"),
		MethodBreakdown:    map[string]int{domain.MethodNameStraightLine: 3},
	}

	view := NewPortfolioValuationView(v)
	assert.Equal(t, "2025-06-15T02:00:00Z", view.AsOf)
	assert.Equal(t, "8000.46", view.TotalCurrentValue)
	assert.Equal(t, "3999.54", view.TotalDepreciation)
	assert.Equal(t, 3, view.MethodBreakdown[domain.MethodNameStraightLine])

	// The view owns its breakdown
	view.MethodBreakdown["x"] = 1
	assert.NotContains(t, v.MethodBreakdown, "x")
}

func TestRenderer_Valuations(t *testing.T) {
	first := sampleValuation()
	second := sampleValuation()
	second.Name = "Standing Desk"
	second.Result.MarketAdjustments = nil

	single := render(t, FormatText, func(r *Renderer, buf *bytes.Buffer) error {
		return r.Valuation(buf, second)
	})
	out := render(t, FormatText, func(r *Renderer, buf *bytes.Buffer) error {
		return r.Valuations(buf, []domain.AssetValuation{*first, *second})
	})
	assert.True(t, strings.HasSuffix(string(out), "\n\n"+string(single)))
	assert.Equal(t, 2, strings.Count(string(out), "Asset:"))

	out = render(t, FormatJSON, func(r *Renderer, buf *bytes.Buffer) error {
		return r.Valuations(buf, []domain.AssetValuation{*first, *second})
	})
	var views []AssetValuationView
	require.NoError(t, json.Unmarshal(out, &views))
	require.Len(t, views, 2)
	assert.Equal(t, "Standing Desk", views[1].Name)
	assert.Nil(t, views[1].Result.MarketAdjustments)
}
