package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/simaogato/assetval-backend/internal/domain"
)

// ProfileSeeder handles seeding of default market profiles
type ProfileSeeder struct {
	assetRepo   domain.AssetRepository
	profileRepo domain.MarketProfileRepository
}

// NewProfileSeeder creates a new ProfileSeeder instance
func NewProfileSeeder(assetRepo domain.AssetRepository, profileRepo domain.MarketProfileRepository) *ProfileSeeder {
	return &ProfileSeeder{
		assetRepo:   assetRepo,
		profileRepo: profileRepo,
	}
}

// Seed ensures every company owning assets has a stored market profile
// If a profile doesn't exist, a neutral one is created. Existing profiles are never overwritten
// Returns the number of profiles created
func (s *ProfileSeeder) Seed(ctx context.Context) (int, error) {
	companyIDs, err := s.assetRepo.ListCompanyIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list companies: %w", err)
	}

	created := 0
	for _, companyID := range companyIDs {
		_, err := s.profileRepo.Get(ctx, companyID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrMarketProfileNotFound) {
			return created, fmt.Errorf("failed to load market profile for company %s: %w", companyID, err)
		}

		profile := &domain.MarketProfile{
			CompanyID:  companyID,
			Conditions: domain.NeutralMarketConditions(),
		}
		if err := s.profileRepo.Upsert(ctx, profile); err != nil {
			return created, fmt.Errorf("failed to seed market profile for company %s: %w", companyID, err)
		}
		created++
	}

	return created, nil
}
