package depreciation

import (
	"fmt"
	"time"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// Engine computes depreciation results for asset snapshots
// It holds no mutable state and is safe for concurrent use
type Engine struct {
	cfg domain.EngineConfig
}

// NewEngine creates a new Engine with the given configuration
func NewEngine(cfg domain.EngineConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration
func (e *Engine) Config() domain.EngineConfig {
	return e.cfg
}

// Calculate runs the calculator for the given method
// MethodAuto (or an empty method) delegates to AutoCalculate
func (e *Engine) Calculate(asset domain.AssetSnapshot, method domain.Method, asOf time.Time) (*domain.DepreciationResult, error) {
	switch method {
	case domain.MethodStraightLine:
		return e.StraightLine(asset, asOf)
	case domain.MethodDecliningBalance:
		return e.DecliningBalance(asset, asOf)
	case domain.MethodDoubleDecliningBalance:
		return e.DoubleDecliningBalance(asset, asOf)
	case domain.MethodAuto, "":
		return e.AutoCalculate(asset, asOf)
	default:
		return nil, fmt.Errorf("%w: unknown depreciation method %q", domain.ErrInvalidAssetData, method)
	}
}

// AutoCalculate selects a method for the asset and runs it
// Logic:
//  1. Honor a recognized explicit method override
//  2. Otherwise classify the asset (see SelectMethod)
//  3. For heuristic selections, the selection confidence and reasoning replace the calculator's
//
// Sentinel results (missing history) are returned untouched
func (e *Engine) AutoCalculate(asset domain.AssetSnapshot, asOf time.Time) (*domain.DepreciationResult, error) {
	if err := asset.Validate(); err != nil {
		return nil, err
	}

	selection := e.SelectMethod(asset)

	result, err := e.Calculate(asset, selection.Method, asOf)
	if err != nil {
		return nil, err
	}

	if !result.IsCalculated() {
		return result, nil
	}

	if !selection.IsExplicit {
		result.Confidence = selection.Confidence
	}
	result.Reasoning = selection.Reasoning + ". " + result.Reasoning

	return result, nil
}
