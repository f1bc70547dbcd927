package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Method represents a depreciation method
type Method string

const (
	MethodStraightLine           Method = "straight_line"
	MethodDecliningBalance       Method = "declining_balance"
	MethodDoubleDecliningBalance Method = "double_declining_balance"
	MethodAuto                   Method = "auto"
)

// Display names used in results and reports
const (
	MethodNameStraightLine           = "Straight Line"
	MethodNameDecliningBalance       = "Declining Balance"
	MethodNameDoubleDecliningBalance = "Double Declining Balance"
	MethodNameNoCalculation          = "No Calculation"
)

// ReasoningInsufficientData is the reasoning attached to sentinel results
const ReasoningInsufficientData = "Insufficient data for depreciation calculation"

// IsCalculator reports whether the method names one of the three calculators
func (m Method) IsCalculator() bool {
	switch m {
	case MethodStraightLine, MethodDecliningBalance, MethodDoubleDecliningBalance:
		return true
	default:
		return false
	}
}

// DisplayName returns the human-readable method name
func (m Method) DisplayName() string {
	switch m {
	case MethodStraightLine:
		return MethodNameStraightLine
	case MethodDecliningBalance:
		return MethodNameDecliningBalance
	case MethodDoubleDecliningBalance:
		return MethodNameDoubleDecliningBalance
	case MethodAuto:
		return "Auto"
	default:
		return string(m)
	}
}

// ParseMethod maps a method code or display name to a Method
// Unknown values return false
func ParseMethod(s string) (Method, bool) {
	switch s {
	case string(MethodStraightLine), MethodNameStraightLine, "straight-line":
		return MethodStraightLine, true
	case string(MethodDecliningBalance), MethodNameDecliningBalance, "declining-balance":
		return MethodDecliningBalance, true
	case string(MethodDoubleDecliningBalance), MethodNameDoubleDecliningBalance, "double-declining-balance", "ddb":
		return MethodDoubleDecliningBalance, true
	case string(MethodAuto), "", "Auto":
		return MethodAuto, true
	default:
		return "", false
	}
}

// MarketAdjustment describes the multiplier applied to forward-looking depreciation
type MarketAdjustment struct {
	Multiplier decimal.Decimal
	Factors    []string
}

// DepreciationResult represents the valuation of one asset at a given date
type DepreciationResult struct {
	CurrentValue           decimal.Decimal
	TotalDepreciation      decimal.Decimal
	AnnualDepreciation     decimal.Decimal
	MonthlyDepreciation    decimal.Decimal
	DepreciationPercentage decimal.Decimal // 0-100
	RemainingLife          decimal.Decimal // Years, never negative
	NextDepreciationDate   time.Time
	Method                 string
	CalculationDate        time.Time
	Confidence             float64 // 0-1
	Reasoning              string
	MarketAdjustments      *MarketAdjustment // NULL when no market conditions were applied
}

// IsCalculated reports whether the result comes from an actual calculation rather than the sentinel
func (r *DepreciationResult) IsCalculated() bool {
	return r.Method != MethodNameNoCalculation
}

// DepreciationScheduleEntry represents one year of an amortization table
type DepreciationScheduleEntry struct {
	Year                    int
	Date                    time.Time // End of the schedule year
	BeginningValue          decimal.Decimal
	Depreciation            decimal.Decimal
	EndingValue             decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	MarketAdjustedValue     *decimal.Decimal // Ending value under the market multiplier, set when conditions were supplied
	IsProjected             bool             // Year ends after the as-of date
}

// MethodSelection describes which calculator the selector picked and why
type MethodSelection struct {
	Method     Method
	Confidence float64
	Reasoning  string
	IsExplicit bool
}
