package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// TechnologyTrend represents the pace of technological change in the asset's market
type TechnologyTrend string

const (
	TechnologyTrendAccelerating TechnologyTrend = "accelerating"
	TechnologyTrendStable       TechnologyTrend = "stable"
	TechnologyTrendDeclining    TechnologyTrend = "declining"
)

// IndustryGrowth represents the growth of the company's industry
type IndustryGrowth string

const (
	IndustryGrowthHigh   IndustryGrowth = "high"
	IndustryGrowthMedium IndustryGrowth = "medium"
	IndustryGrowthLow    IndustryGrowth = "low"
)

// SupplyChainImpact represents how strongly supply chain disruption affects replacement
type SupplyChainImpact string

const (
	SupplyChainImpactHigh   SupplyChainImpact = "high"
	SupplyChainImpactMedium SupplyChainImpact = "medium"
	SupplyChainImpactLow    SupplyChainImpact = "low"
)

// RegulatoryChanges represents pending regulatory change in the company's sector
type RegulatoryChanges string

const (
	RegulatoryChangesSignificant RegulatoryChanges = "significant"
	RegulatoryChangesMinor       RegulatoryChanges = "minor"
	RegulatoryChangesNone        RegulatoryChanges = "none"
)

// EconomicConditions represents the macro-economic cycle
type EconomicConditions string

const (
	EconomicConditionsBoom      EconomicConditions = "boom"
	EconomicConditionsStable    EconomicConditions = "stable"
	EconomicConditionsRecession EconomicConditions = "recession"
)

// MarketConditions represents the market context supplied by the company configuration
// Empty fields are treated as their neutral value
type MarketConditions struct {
	TechnologyTrend    TechnologyTrend
	IndustryGrowth     IndustryGrowth
	SupplyChainImpact  SupplyChainImpact
	RegulatoryChanges  RegulatoryChanges // Does not affect the multiplier
	EconomicConditions EconomicConditions
}

// NeutralMarketConditions returns the profile equivalent to a multiplier of 1.0
func NeutralMarketConditions() MarketConditions {
	return MarketConditions{
		TechnologyTrend:    TechnologyTrendStable,
		IndustryGrowth:     IndustryGrowthMedium,
		SupplyChainImpact:  SupplyChainImpactMedium,
		RegulatoryChanges:  RegulatoryChangesNone,
		EconomicConditions: EconomicConditionsStable,
	}
}

// Normalized returns a copy where every empty field is replaced by its neutral value
func (m MarketConditions) Normalized() MarketConditions {
	neutral := NeutralMarketConditions()
	if m.TechnologyTrend == "" {
		m.TechnologyTrend = neutral.TechnologyTrend
	}
	if m.IndustryGrowth == "" {
		m.IndustryGrowth = neutral.IndustryGrowth
	}
	if m.SupplyChainImpact == "" {
		m.SupplyChainImpact = neutral.SupplyChainImpact
	}
	if m.RegulatoryChanges == "" {
		m.RegulatoryChanges = neutral.RegulatoryChanges
	}
	if m.EconomicConditions == "" {
		m.EconomicConditions = neutral.EconomicConditions
	}
	return m
}

// Validate ensures every non-empty flag holds a recognized value
func (m MarketConditions) Validate() error {
	switch m.TechnologyTrend {
	case "", TechnologyTrendAccelerating, TechnologyTrendStable, TechnologyTrendDeclining:
	default:
		return fmt.Errorf("%w: unknown technology trend %q", ErrInvalidMarketConditions, m.TechnologyTrend)
	}

	switch m.IndustryGrowth {
	case "", IndustryGrowthHigh, IndustryGrowthMedium, IndustryGrowthLow:
	default:
		return fmt.Errorf("%w: unknown industry growth %q", ErrInvalidMarketConditions, m.IndustryGrowth)
	}

	switch m.SupplyChainImpact {
	case "", SupplyChainImpactHigh, SupplyChainImpactMedium, SupplyChainImpactLow:
	default:
		return fmt.Errorf("%w: unknown supply chain impact %q", ErrInvalidMarketConditions, m.SupplyChainImpact)
	}

	switch m.RegulatoryChanges {
	case "", RegulatoryChangesSignificant, RegulatoryChangesMinor, RegulatoryChangesNone:
	default:
		return fmt.Errorf("%w: unknown regulatory changes %q", ErrInvalidMarketConditions, m.RegulatoryChanges)
	}

	switch m.EconomicConditions {
	case "", EconomicConditionsBoom, EconomicConditionsStable, EconomicConditionsRecession:
	default:
		return fmt.Errorf("%w: unknown economic conditions %q", ErrInvalidMarketConditions, m.EconomicConditions)
	}

	return nil
}

// MarketProfile represents the market conditions stored for a company
type MarketProfile struct {
	CompanyID  uuid.UUID
	Conditions MarketConditions
}
