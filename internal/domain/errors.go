package domain

import "errors"

var (
	// ErrInvalidAssetData is returned when an asset carries structurally invalid depreciation inputs
	ErrInvalidAssetData = errors.New("invalid asset data")

	// ErrAssetNotFound is returned by repositories when an asset does not exist
	ErrAssetNotFound = errors.New("asset not found")

	// ErrMarketProfileNotFound is returned when a company has no stored market profile
	ErrMarketProfileNotFound = errors.New("market profile not found")

	// ErrValuationNotFound is returned when no portfolio valuation has been recorded yet
	ErrValuationNotFound = errors.New("valuation not found")

	// ErrInvalidMarketConditions is returned when a market condition flag is not recognized
	ErrInvalidMarketConditions = errors.New("invalid market conditions")
)
