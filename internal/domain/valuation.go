package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PortfolioValuation represents a recorded point-in-time valuation of a company's assets
// This struct tracks the book value of the portfolio over time, it never changes asset records
type PortfolioValuation struct {
	ID                 uuid.UUID
	CompanyID          uuid.UUID
	AsOf               time.Time
	AssetCount         int
	TotalPurchaseValue decimal.Decimal
	TotalCurrentValue  decimal.Decimal
	TotalDepreciation  decimal.Decimal
	MethodBreakdown    map[string]int
}

// NewPortfolioValuation builds a valuation history entry from a portfolio summary
func NewPortfolioValuation(companyID uuid.UUID, asOf time.Time, summary *PortfolioSummary) *PortfolioValuation {
	breakdown := make(map[string]int, len(summary.MethodBreakdown))
	for method, count := range summary.MethodBreakdown {
		breakdown[method] = count
	}

	return &PortfolioValuation{
		ID:                 uuid.New(),
		CompanyID:          companyID,
		AsOf:               asOf,
		AssetCount:         summary.Metrics.AssetCount,
		TotalPurchaseValue: summary.TotalPurchaseValue,
		TotalCurrentValue:  summary.TotalCurrentValue,
		TotalDepreciation:  summary.TotalDepreciation,
		MethodBreakdown:    breakdown,
	}
}
