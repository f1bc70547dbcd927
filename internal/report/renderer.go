package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultCurrency is used when no currency code is configured
const DefaultCurrency = money.USD

const labelWidth = 24

// Renderer writes valuations, schedules and portfolio summaries as text or JSON
type Renderer struct {
	format   string
	currency money.Currency
}

// NewRenderer creates a new Renderer
// Returns an error for an unknown format or currency code
func NewRenderer(format, currencyCode string) (*Renderer, error) {
	switch format {
	case FormatText, FormatJSON:
	case "":
		format = FormatText
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}

	if currencyCode == "" {
		currencyCode = DefaultCurrency
	}
	code := strings.ToUpper(currencyCode)
	if money.GetCurrency(code) == nil {
		return nil, fmt.Errorf("unknown currency code %q", currencyCode)
	}

	return &Renderer{
		format: format,
		// money.New never returns a nil currency
		currency: *money.New(0, code).Currency(),
	}, nil
}

// Money formats an amount in the renderer currency, rounded to its minor unit
func (r *Renderer) Money(d decimal.Decimal) string {
	minor := d.Shift(int32(r.currency.Fraction)).Round(0)
	return r.currency.Formatter().Format(minor.IntPart())
}

// Valuation writes a single asset valuation
func (r *Renderer) Valuation(w io.Writer, v *domain.AssetValuation) error {
	if r.format == FormatJSON {
		return writeJSON(w, NewAssetValuationView(v))
	}

	res := v.Result
	lines := [][2]string{
		{"Asset", v.Name},
		{"Method", res.Method},
		{"Confidence", fmt.Sprintf("%.0f%%", res.Confidence*100)},
		{"Current value", r.Money(res.CurrentValue)},
		{"Total depreciation", r.Money(res.TotalDepreciation)},
		{"Annual depreciation", r.Money(res.AnnualDepreciation)},
		{"Monthly depreciation", r.Money(res.MonthlyDepreciation)},
		{"Depreciated", res.DepreciationPercentage.StringFixed(2) + "%"},
		{"Remaining life", res.RemainingLife.StringFixed(2) + " years"},
		{"Next depreciation date", res.NextDepreciationDate.Format(time.DateOnly)},
		{"Reasoning", res.Reasoning},
	}

	if adj := res.MarketAdjustments; adj != nil {
		multiplier := adj.Multiplier.String()
		if len(adj.Factors) > 0 {
			multiplier += " (" + strings.Join(adj.Factors, ", ") + ")"
		}
		lines = append(lines, [2]string{"Market multiplier", multiplier})
	}

	return writeLabels(w, lines)
}

// Valuations writes several asset valuations, separated by a blank line in text format
func (r *Renderer) Valuations(w io.Writer, valuations []domain.AssetValuation) error {
	if r.format == FormatJSON {
		views := make([]AssetValuationView, 0, len(valuations))
		for i := range valuations {
			views = append(views, NewAssetValuationView(&valuations[i]))
		}
		return writeJSON(w, views)
	}

	for i := range valuations {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := r.Valuation(w, &valuations[i]); err != nil {
			return err
		}
	}
	return nil
}

// Schedule writes a year-by-year depreciation schedule as a table
func (r *Renderer) Schedule(w io.Writer, entries []domain.DepreciationScheduleEntry) error {
	if r.format == FormatJSON {
		return writeJSON(w, NewScheduleView(entries))
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No schedule: "+domain.ReasoningInsufficientData)
		return err
	}

	var b strings.Builder
	writeRow(&b, "Year", "Date", "Beginning", "Depreciation", "Ending", "Accumulated", "")
	for _, e := range entries {
		status := ""
		if e.IsProjected {
			status = "projected"
		}
		writeRow(&b,
			fmt.Sprintf("%d", e.Year),
			e.Date.Format(time.DateOnly),
			r.Money(e.BeginningValue),
			r.Money(e.Depreciation),
			r.Money(e.EndingValue),
			r.Money(e.AccumulatedDepreciation),
			status,
		)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Portfolio writes a portfolio summary followed by one line per asset
func (r *Renderer) Portfolio(w io.Writer, s *domain.PortfolioSummary) error {
	if r.format == FormatJSON {
		return writeJSON(w, NewPortfolioView(s))
	}

	lines := [][2]string{
		{"Assets", fmt.Sprintf("%d", s.Metrics.AssetCount)},
		{"Total purchase value", r.Money(s.TotalPurchaseValue)},
		{"Total current value", r.Money(s.TotalCurrentValue)},
		{"Total depreciation", r.Money(s.TotalDepreciation)},
		{"Average depreciated", s.AverageDepreciationPercentage.StringFixed(2) + "%"},
		{"Needing replacement", fmt.Sprintf("%d", s.AssetsNeedingReplacement)},
		{"Average age", s.Metrics.AverageAgeYears.StringFixed(2) + " years"},
		{"Technology assets", fmt.Sprintf("%d", s.Metrics.TechnologyAssetCount)},
		{"High-value assets", fmt.Sprintf("%d", s.Metrics.HighValueAssetCount)},
	}
	if err := writeLabels(w, lines); err != nil {
		return err
	}

	var b strings.Builder
	if len(s.MethodBreakdown) > 0 {
		b.WriteString("\nMethods:\n")
		for _, method := range sortedMethods(s.MethodBreakdown) {
			fmt.Fprintf(&b, "  %-26s%d\n", method, s.MethodBreakdown[method])
		}
	}

	if len(s.Valuations) > 0 {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-24s  %-26s  %14s\n", "Asset", "Method", "Current value")
		for _, v := range s.Valuations {
			fmt.Fprintf(&b, "%-24s  %-26s  %14s\n", truncate(v.Name, 24), v.Result.Method, r.Money(v.Result.CurrentValue))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// LatestValuation writes a recorded portfolio valuation
func (r *Renderer) LatestValuation(w io.Writer, v *domain.PortfolioValuation) error {
	if r.format == FormatJSON {
		return writeJSON(w, NewPortfolioValuationView(v))
	}

	return writeLabels(w, [][2]string{
		{"Company", v.CompanyID.String()},
		{"As of", v.AsOf.Format(time.DateOnly)},
		{"Assets", fmt.Sprintf("%d", v.AssetCount)},
		{"Total purchase value", r.Money(v.TotalPurchaseValue)},
		{"Total current value", r.Money(v.TotalCurrentValue)},
		{"Total depreciation", r.Money(v.TotalDepreciation)},
	})
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeLabels(w io.Writer, lines [][2]string) error {
	var b strings.Builder
	for _, line := range lines {
		fmt.Fprintf(&b, "%-*s%s\n", labelWidth, line[0]+":", line[1])
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeRow lays out one schedule row, trailing blanks are trimmed
func writeRow(b *strings.Builder, year, date, beginning, charge, ending, accumulated, status string) {
	row := fmt.Sprintf("%-4s  %-10s  %14s  %14s  %14s  %14s  %s", year, date, beginning, charge, ending, accumulated, status)
	b.WriteString(strings.TrimRight(row, " "))
	b.WriteString("\n")
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}
