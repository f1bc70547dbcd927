package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// assetNamespace derives stable IDs for assets declared without one
var assetNamespace = uuid.MustParse("3c5e8f0a-7b21-4d6e-9a4f-1e2d3c4b5a69")

// AssetFile is the YAML layout read by the value, schedule and portfolio commands.
type AssetFile struct {
	Assets []AssetEntry `yaml:"assets"`
}

// AssetEntry is one asset as written in an asset file.
// Amounts are read as strings so they reach decimal.Decimal without float rounding.
type AssetEntry struct {
	ID               string `yaml:"id,omitempty"`
	Name             string `yaml:"name"`
	Category         string `yaml:"category,omitempty"`
	PurchasePrice    string `yaml:"purchase_price,omitempty"`
	PurchaseDate     string `yaml:"purchase_date,omitempty"`
	ExpectedLifespan int    `yaml:"expected_lifespan,omitempty"`
	DepreciationRate string `yaml:"depreciation_rate,omitempty"`
	Method           string `yaml:"method,omitempty"`
	CurrentValue     string `yaml:"current_value,omitempty"`
}

// MarketFile is the YAML layout of the optional --market file.
type MarketFile struct {
	TechnologyTrend    string `yaml:"technology_trend,omitempty"`
	IndustryGrowth     string `yaml:"industry_growth,omitempty"`
	SupplyChainImpact  string `yaml:"supply_chain_impact,omitempty"`
	RegulatoryChanges  string `yaml:"regulatory_changes,omitempty"`
	EconomicConditions string `yaml:"economic_conditions,omitempty"`
}

// LoadAssets reads and converts an asset file.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func LoadAssets(path string) ([]domain.AssetSnapshot, error) {
	var file AssetFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}

	if len(file.Assets) == 0 {
		return nil, fmt.Errorf("%s: no assets declared", path)
	}

	assets := make([]domain.AssetSnapshot, 0, len(file.Assets))
	for i, entry := range file.Assets {
		asset, err := entry.Snapshot()
		if err != nil {
			return nil, fmt.Errorf("%s: asset %d: %w", path, i+1, err)
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

// LoadMarket reads a market conditions file.
// Empty fields keep their neutral value.
func LoadMarket(path string) (*domain.MarketConditions, error) {
	var file MarketFile
	if err := decodeFile(path, &file); err != nil {
		return nil, err
	}

	conditions := domain.MarketConditions{
		TechnologyTrend:    domain.TechnologyTrend(file.TechnologyTrend),
		IndustryGrowth:     domain.IndustryGrowth(file.IndustryGrowth),
		SupplyChainImpact:  domain.SupplyChainImpact(file.SupplyChainImpact),
		RegulatoryChanges:  domain.RegulatoryChanges(file.RegulatoryChanges),
		EconomicConditions: domain.EconomicConditions(file.EconomicConditions),
	}.Normalized()

	if err := conditions.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &conditions, nil
}

// Snapshot converts the entry to the engine's input type
func (e AssetEntry) Snapshot() (domain.AssetSnapshot, error) {
	if e.Name == "" {
		return domain.AssetSnapshot{}, errors.New("name is required")
	}

	asset := domain.AssetSnapshot{
		Name:             e.Name,
		Category:         e.Category,
		ExpectedLifespan: e.ExpectedLifespan,
	}

	if e.ID != "" {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return asset, fmt.Errorf("invalid id: %w", err)
		}
		asset.ID = id
	} else {
		asset.ID = uuid.NewSHA1(assetNamespace, []byte(e.Name))
	}

	var err error
	if asset.PurchasePrice, err = optionalDecimal("purchase_price", e.PurchasePrice); err != nil {
		return asset, err
	}
	if asset.DepreciationRate, err = optionalDecimal("depreciation_rate", e.DepreciationRate); err != nil {
		return asset, err
	}

	if e.CurrentValue != "" {
		value, err := optionalDecimal("current_value", e.CurrentValue)
		if err != nil {
			return asset, err
		}
		asset.CurrentValue = &value
	}

	if e.PurchaseDate != "" {
		date, err := time.Parse(time.DateOnly, e.PurchaseDate)
		if err != nil {
			return asset, fmt.Errorf("purchase_date must be YYYY-MM-DD: %w", err)
		}
		asset.PurchaseDate = &date
	}

	// Unrecognized method names fall through to the heuristic selector
	if method, ok := domain.ParseMethod(e.Method); ok {
		asset.Method = method
	} else {
		asset.Method = domain.Method(e.Method)
	}

	return asset, asset.Validate()
}

func optionalDecimal(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number: %w", field, err)
	}
	return d, nil
}

func decodeFile(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return nil
}
