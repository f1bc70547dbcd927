package depreciation

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/simaogato/assetval-backend/internal/domain"
)

var (
	technologyKeywords = []string{"computer", "laptop", "phone", "tablet", "software", "server", "network", "it", "tech", "digital"}
	machineryKeywords  = []string{"vehicle", "car", "truck", "machinery", "equipment", "industrial", "manufacturing"}
	intangibleKeywords = []string{"software", "license", "intangible", "digital", "app", "platform"}
)

// SelectMethod picks the calculator for an asset
// Logic (first match wins):
//  0. A recognized explicit override is honored as-is
//  1. Technology keywords -> Double Declining Balance (0.9)
//  2. Vehicle/machinery keywords -> Declining Balance (0.85)
//  3. PurchasePrice >= HighValueThreshold -> Declining Balance (0.8)
//  4. Software/intangible keywords -> Double Declining Balance (0.95)
//  5. Straight Line (0.9)
//
// Rule 3 intentionally precedes rule 4: a high-value software license resolves to Declining Balance
func (e *Engine) SelectMethod(asset domain.AssetSnapshot) domain.MethodSelection {
	if asset.Method.IsCalculator() {
		return domain.MethodSelection{
			Method:     asset.Method,
			Confidence: explicitConfidence(asset.Method),
			Reasoning:  "Explicit method override: " + asset.Method.DisplayName(),
			IsExplicit: true,
		}
	}

	haystack := classificationText(asset)

	switch {
	case containsAny(haystack, technologyKeywords):
		return domain.MethodSelection{
			Method:     domain.MethodDoubleDecliningBalance,
			Confidence: 0.9,
			Reasoning:  "Technology asset with rapid obsolescence",
		}
	case containsAny(haystack, machineryKeywords):
		return domain.MethodSelection{
			Method:     domain.MethodDecliningBalance,
			Confidence: 0.85,
			Reasoning:  "Vehicle or machinery with heavy early-life wear",
		}
	case e.IsHighValue(asset):
		return domain.MethodSelection{
			Method:     domain.MethodDecliningBalance,
			Confidence: 0.8,
			Reasoning:  "High-value asset front-loaded with declining balance",
		}
	case containsAny(haystack, intangibleKeywords):
		return domain.MethodSelection{
			Method:     domain.MethodDoubleDecliningBalance,
			Confidence: 0.95,
			Reasoning:  "Software or intangible asset with a short useful life",
		}
	default:
		return domain.MethodSelection{
			Method:     domain.MethodStraightLine,
			Confidence: 0.9,
			Reasoning:  "General asset with even wear",
		}
	}
}

// IsTechnology reports whether the asset matches the technology keyword set
func (e *Engine) IsTechnology(asset domain.AssetSnapshot) bool {
	return containsAny(classificationText(asset), technologyKeywords)
}

// IsHighValue reports whether the purchase price reaches the high-value threshold
func (e *Engine) IsHighValue(asset domain.AssetSnapshot) bool {
	return asset.PurchasePrice.GreaterThanOrEqual(e.cfg.HighValueThreshold)
}

// classificationText returns the case-folded concatenation of category and name
// cases.Caser is stateful, so a new one is built per call
func classificationText(asset domain.AssetSnapshot) string {
	return cases.Fold().String(asset.Category + " " + asset.Name)
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func explicitConfidence(method domain.Method) float64 {
	switch method {
	case domain.MethodDecliningBalance:
		return confidenceDecliningBalance
	case domain.MethodDoubleDecliningBalance:
		return confidenceDoubleDecliningBalance
	default:
		return confidenceStraightLine
	}
}
