package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/assetval-backend/internal/domain"
)

const assetColumns = `id, company_id, name, category, purchase_price, purchase_date,
		expected_lifespan, depreciation_rate, depreciation_method, current_value`

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new read-only asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// GetByID retrieves an asset snapshot by its ID
func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AssetSnapshot, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	return asset, nil
}

// ListByCompany retrieves every asset owned by a company, ordered by name
func (r *assetRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.AssetSnapshot, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE company_id = $1 ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]domain.AssetSnapshot, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, *asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// ListCompanyIDs returns the distinct owners of at least one asset
func (r *assetRepository) ListCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	query := `SELECT DISTINCT company_id FROM assets ORDER BY company_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company ID: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating companies: %w", err)
	}

	return ids, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*domain.AssetSnapshot, error) {
	var asset domain.AssetSnapshot
	var priceStr string
	var purchaseDate sql.NullTime
	var lifespan sql.NullInt64
	var rateStr, methodStr, currentStr sql.NullString

	err := row.Scan(
		&asset.ID,
		&asset.CompanyID,
		&asset.Name,
		&asset.Category,
		&priceStr,
		&purchaseDate,
		&lifespan,
		&rateStr,
		&methodStr,
		&currentStr,
	)
	if err != nil {
		return nil, err
	}

	// Parse purchase_price (NUMERIC)
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse purchase_price: %w", err)
	}
	asset.PurchasePrice = price

	if purchaseDate.Valid {
		date := purchaseDate.Time
		asset.PurchaseDate = &date
	}

	if lifespan.Valid {
		asset.ExpectedLifespan = int(lifespan.Int64)
	}

	if rateStr.Valid {
		rate, err := decimal.NewFromString(rateStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse depreciation_rate: %w", err)
		}
		asset.DepreciationRate = rate
	}

	// Unrecognized stored methods fall through to the heuristics
	if methodStr.Valid {
		if method, ok := domain.ParseMethod(methodStr.String); ok {
			asset.Method = method
		}
	}

	if currentStr.Valid {
		current, err := decimal.NewFromString(currentStr.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse current_value: %w", err)
		}
		asset.CurrentValue = &current
	}

	return &asset, nil
}
