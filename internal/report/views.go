package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// Views are the wire shape shared by the JSON renderer, the HTTP API and the gRPC API
// Amounts are decimal strings so no precision is lost in transit

// MarketAdjustmentView is the serialized form of domain.MarketAdjustment
type MarketAdjustmentView struct {
	Multiplier string   `json:"multiplier"`
	Factors    []string `json:"factors"`
}

// ResultView is the serialized form of domain.DepreciationResult
type ResultView struct {
	Method                 string                `json:"method"`
	CurrentValue           string                `json:"current_value"`
	TotalDepreciation      string                `json:"total_depreciation"`
	AnnualDepreciation     string                `json:"annual_depreciation"`
	MonthlyDepreciation    string                `json:"monthly_depreciation"`
	DepreciationPercentage string                `json:"depreciation_percentage"`
	RemainingLife          string                `json:"remaining_life"`
	NextDepreciationDate   string                `json:"next_depreciation_date"`
	CalculationDate        string                `json:"calculation_date"`
	Confidence             float64               `json:"confidence"`
	Reasoning              string                `json:"reasoning"`
	MarketAdjustments      *MarketAdjustmentView `json:"market_adjustments,omitempty"`
}

// AssetValuationView is the serialized form of domain.AssetValuation
type AssetValuationView struct {
	AssetID      string     `json:"asset_id"`
	Name         string     `json:"name"`
	IsTechnology bool       `json:"is_technology"`
	IsHighValue  bool       `json:"is_high_value"`
	AgeYears     string     `json:"age_years"`
	Result       ResultView `json:"result"`
}

// ScheduleEntryView is the serialized form of domain.DepreciationScheduleEntry
type ScheduleEntryView struct {
	Year                    int     `json:"year"`
	Date                    string  `json:"date"`
	BeginningValue          string  `json:"beginning_value"`
	Depreciation            string  `json:"depreciation"`
	EndingValue             string  `json:"ending_value"`
	AccumulatedDepreciation string  `json:"accumulated_depreciation"`
	MarketAdjustedValue     *string `json:"market_adjusted_value,omitempty"`
	IsProjected             bool    `json:"is_projected"`
}

// MetricsView is the serialized form of domain.PortfolioMetrics
type MetricsView struct {
	AssetCount           int    `json:"asset_count"`
	AverageAgeYears      string `json:"average_age_years"`
	AveragePurchasePrice string `json:"average_purchase_price"`
	AverageCurrentValue  string `json:"average_current_value"`
	TechnologyAssetCount int    `json:"technology_asset_count"`
	HighValueAssetCount  int    `json:"high_value_asset_count"`
}

// PortfolioView is the serialized form of domain.PortfolioSummary
type PortfolioView struct {
	TotalPurchaseValue            string               `json:"total_purchase_value"`
	TotalCurrentValue             string               `json:"total_current_value"`
	TotalDepreciation             string               `json:"total_depreciation"`
	AverageDepreciationPercentage string               `json:"average_depreciation_percentage"`
	MethodBreakdown               map[string]int       `json:"method_breakdown"`
	AssetsNeedingReplacement      int                  `json:"assets_needing_replacement"`
	Metrics                       MetricsView          `json:"metrics"`
	Valuations                    []AssetValuationView `json:"valuations"`
}

// PortfolioValuationView is the serialized form of domain.PortfolioValuation
type PortfolioValuationView struct {
	ID                 string         `json:"id"`
	CompanyID          string         `json:"company_id"`
	AsOf               string         `json:"as_of"`
	AssetCount         int            `json:"asset_count"`
	TotalPurchaseValue string         `json:"total_purchase_value"`
	TotalCurrentValue  string         `json:"total_current_value"`
	TotalDepreciation  string         `json:"total_depreciation"`
	MethodBreakdown    map[string]int `json:"method_breakdown"`
}

// NewResultView converts a depreciation result
func NewResultView(r *domain.DepreciationResult) ResultView {
	view := ResultView{
		Method:                 r.Method,
		CurrentValue:           amount(r.CurrentValue),
		TotalDepreciation:      amount(r.TotalDepreciation),
		AnnualDepreciation:     amount(r.AnnualDepreciation),
		MonthlyDepreciation:    amount(r.MonthlyDepreciation),
		DepreciationPercentage: r.DepreciationPercentage.StringFixed(2),
		RemainingLife:          r.RemainingLife.StringFixed(2),
		NextDepreciationDate:   r.NextDepreciationDate.Format(time.DateOnly),
		CalculationDate:        r.CalculationDate.Format(time.RFC3339),
		Confidence:             r.Confidence,
		Reasoning:              r.Reasoning,
	}

	if r.MarketAdjustments != nil {
		factors := make([]string, len(r.MarketAdjustments.Factors))
		copy(factors, r.MarketAdjustments.Factors)
		view.MarketAdjustments = &MarketAdjustmentView{
			Multiplier: r.MarketAdjustments.Multiplier.String(),
			Factors:    factors,
		}
	}

	return view
}

// NewAssetValuationView converts a single asset valuation
func NewAssetValuationView(v *domain.AssetValuation) AssetValuationView {
	return AssetValuationView{
		AssetID:      v.AssetID.String(),
		Name:         v.Name,
		IsTechnology: v.IsTechnology,
		IsHighValue:  v.IsHighValue,
		AgeYears:     v.AgeYears.StringFixed(2),
		Result:       NewResultView(v.Result),
	}
}

// NewScheduleView converts a depreciation schedule
func NewScheduleView(entries []domain.DepreciationScheduleEntry) []ScheduleEntryView {
	views := make([]ScheduleEntryView, 0, len(entries))
	for _, e := range entries {
		view := ScheduleEntryView{
			Year:                    e.Year,
			Date:                    e.Date.Format(time.DateOnly),
			BeginningValue:          amount(e.BeginningValue),
			Depreciation:            amount(e.Depreciation),
			EndingValue:             amount(e.EndingValue),
			AccumulatedDepreciation: amount(e.AccumulatedDepreciation),
			IsProjected:             e.IsProjected,
		}
		if e.MarketAdjustedValue != nil {
			adjusted := amount(*e.MarketAdjustedValue)
			view.MarketAdjustedValue = &adjusted
		}
		views = append(views, view)
	}
	return views
}

// NewPortfolioView converts a portfolio summary
func NewPortfolioView(s *domain.PortfolioSummary) PortfolioView {
	valuations := make([]AssetValuationView, 0, len(s.Valuations))
	for i := range s.Valuations {
		valuations = append(valuations, NewAssetValuationView(&s.Valuations[i]))
	}

	return PortfolioView{
		TotalPurchaseValue:            amount(s.TotalPurchaseValue),
		TotalCurrentValue:             amount(s.TotalCurrentValue),
		TotalDepreciation:             amount(s.TotalDepreciation),
		AverageDepreciationPercentage: s.AverageDepreciationPercentage.StringFixed(2),
		MethodBreakdown:               copyBreakdown(s.MethodBreakdown),
		AssetsNeedingReplacement:      s.AssetsNeedingReplacement,
		Metrics: MetricsView{
			AssetCount:           s.Metrics.AssetCount,
			AverageAgeYears:      s.Metrics.AverageAgeYears.StringFixed(2),
			AveragePurchasePrice: amount(s.Metrics.AveragePurchasePrice),
			AverageCurrentValue:  amount(s.Metrics.AverageCurrentValue),
			TechnologyAssetCount: s.Metrics.TechnologyAssetCount,
			HighValueAssetCount:  s.Metrics.HighValueAssetCount,
		},
		Valuations: valuations,
	}
}

// NewPortfolioValuationView converts a recorded portfolio valuation
func NewPortfolioValuationView(v *domain.PortfolioValuation) PortfolioValuationView {
	return PortfolioValuationView{
		ID:                 v.ID.String(),
		CompanyID:          v.CompanyID.String(),
		AsOf:               v.AsOf.Format(time.RFC3339),
		AssetCount:         v.AssetCount,
		TotalPurchaseValue: amount(v.TotalPurchaseValue),
		TotalCurrentValue:  amount(v.TotalCurrentValue),
		TotalDepreciation:  amount(v.TotalDepreciation),
		MethodBreakdown:    copyBreakdown(v.MethodBreakdown),
	}
}

// amount renders a monetary value with cent precision
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func copyBreakdown(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// sortedMethods returns the breakdown keys in a stable order
func sortedMethods(breakdown map[string]int) []string {
	methods := make([]string, 0, len(breakdown))
	for method := range breakdown {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}
