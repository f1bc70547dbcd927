package valuation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/usecase/depreciation"
	"github.com/simaogato/assetval-backend/internal/usecase/market"
	"github.com/simaogato/assetval-backend/internal/usecase/portfolio"
	"github.com/simaogato/assetval-backend/internal/usecase/schedule"
)

// ValuationService handles repository-backed valuation operations
// It only reads asset records, the single write target is the valuation history
type ValuationService struct {
	AssetRepo     domain.AssetRepository
	ProfileRepo   domain.MarketProfileRepository
	ValuationRepo domain.ValuationHistoryRepository

	engine     *depreciation.Engine
	adjuster   *market.Adjuster
	aggregator *portfolio.Aggregator
	generator  *schedule.Generator
	logger     *zap.Logger
}

// NewValuationService creates a new ValuationService instance
func NewValuationService(
	assetRepo domain.AssetRepository,
	profileRepo domain.MarketProfileRepository,
	valuationRepo domain.ValuationHistoryRepository,
	engine *depreciation.Engine,
	logger *zap.Logger,
) *ValuationService {
	if logger == nil {
		logger = zap.NewNop()
	}

	adjuster := market.NewAdjuster()

	return &ValuationService{
		AssetRepo:     assetRepo,
		ProfileRepo:   profileRepo,
		ValuationRepo: valuationRepo,
		engine:        engine,
		adjuster:      adjuster,
		aggregator:    portfolio.NewAggregator(engine, adjuster),
		generator:     schedule.NewGenerator(engine, adjuster),
		logger:        logger,
	}
}

// ValueAsset computes the depreciation of a single asset under its company's market conditions
// Logic: AutoCalculate -> market adjustment (forward-looking figures only)
func (s *ValuationService) ValueAsset(ctx context.Context, assetID uuid.UUID, asOf time.Time) (*domain.AssetValuation, error) {
	asset, err := s.AssetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	conditions, err := s.conditionsFor(ctx, asset.CompanyID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.AutoCalculate(*asset, asOf)
	if err != nil {
		return nil, err
	}

	isTechnology := s.engine.IsTechnology(*asset)
	result = s.adjuster.Apply(result, conditions, isTechnology)

	age := decimal.Zero
	if asset.PurchaseDate != nil {
		age = depreciation.YearsElapsed(*asset.PurchaseDate, asOf)
	}

	return &domain.AssetValuation{
		AssetID:      asset.ID,
		Name:         asset.Name,
		Result:       result,
		IsTechnology: isTechnology,
		IsHighValue:  s.engine.IsHighValue(*asset),
		AgeYears:     age,
	}, nil
}

// ValuePortfolio aggregates the valuation of every asset owned by a company
func (s *ValuationService) ValuePortfolio(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*domain.PortfolioSummary, error) {
	assets, err := s.AssetRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	conditions, err := s.conditionsFor(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return s.aggregator.Calculate(assets, asOf, &conditions)
}

// AssetSchedule projects the year-by-year schedule of an asset
// An empty or "auto" method resolves through the method selector (or the asset's own override)
func (s *ValuationService) AssetSchedule(ctx context.Context, assetID uuid.UUID, method domain.Method, asOf time.Time) ([]domain.DepreciationScheduleEntry, error) {
	asset, err := s.AssetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	conditions, err := s.conditionsFor(ctx, asset.CompanyID)
	if err != nil {
		return nil, err
	}

	return s.generator.Generate(*asset, method, asOf, &conditions)
}

// RecordPortfolioValuation values a company's portfolio and appends the totals to the valuation history
// Returns the created history entry
func (s *ValuationService) RecordPortfolioValuation(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*domain.PortfolioValuation, error) {
	summary, err := s.ValuePortfolio(ctx, companyID, asOf)
	if err != nil {
		return nil, err
	}

	entry := domain.NewPortfolioValuation(companyID, asOf, summary)
	if err := s.ValuationRepo.Add(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record valuation: %w", err)
	}

	return entry, nil
}

// LatestPortfolioValuation returns the most recently recorded valuation of a company
func (s *ValuationService) LatestPortfolioValuation(ctx context.Context, companyID uuid.UUID) (*domain.PortfolioValuation, error) {
	return s.ValuationRepo.GetLatest(ctx, companyID)
}

// RevalueAll records a portfolio valuation for every company owning assets
// A failing company does not stop the run, every failure is joined into the returned error
// Returns the number of valuations recorded
func (s *ValuationService) RevalueAll(ctx context.Context, asOf time.Time) (int, error) {
	companyIDs, err := s.AssetRepo.ListCompanyIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies: %w", err)
	}

	recorded := 0
	var errs []error
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		entry, err := s.RecordPortfolioValuation(ctx, companyID, asOf)
		if err != nil {
			s.logger.Warn("revaluation failed", zap.String("company_id", companyID.String()), zap.Error(err))
			errs = append(errs, fmt.Errorf("company %s: %w", companyID, err))
			continue
		}

		recorded++
		s.logger.Debug("portfolio revalued",
			zap.String("company_id", companyID.String()),
			zap.Int("asset_count", entry.AssetCount),
			zap.String("total_current_value", entry.TotalCurrentValue.StringFixed(2)),
		)
	}

	return recorded, errors.Join(errs...)
}

// conditionsFor loads the company's market profile
// A company without a stored profile is valued under neutral conditions
func (s *ValuationService) conditionsFor(ctx context.Context, companyID uuid.UUID) (domain.MarketConditions, error) {
	profile, err := s.ProfileRepo.Get(ctx, companyID)
	if err != nil {
		if errors.Is(err, domain.ErrMarketProfileNotFound) {
			return domain.NeutralMarketConditions(), nil
		}
		return domain.MarketConditions{}, fmt.Errorf("failed to load market profile: %w", err)
	}

	return profile.Conditions.Normalized(), nil
}
