package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/simaogato/assetval-backend/internal/domain"
)

const testToken = "test-token"

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// MockValuationReader is a mock implementation of ValuationReader
type MockValuationReader struct {
	mock.Mock
}

func (m *MockValuationReader) ValueAsset(ctx context.Context, assetID uuid.UUID, asOf time.Time) (*domain.AssetValuation, error) {
	args := m.Called(ctx, assetID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssetValuation), args.Error(1)
}

func (m *MockValuationReader) ValuePortfolio(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx, companyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}

func (m *MockValuationReader) AssetSchedule(ctx context.Context, assetID uuid.UUID, method domain.Method, asOf time.Time) ([]domain.DepreciationScheduleEntry, error) {
	args := m.Called(ctx, assetID, method, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DepreciationScheduleEntry), args.Error(1)
}

func (m *MockValuationReader) LatestPortfolioValuation(ctx context.Context, companyID uuid.UUID) (*domain.PortfolioValuation, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioValuation), args.Error(1)
}

func newTestRouter(svc ValuationReader, logger *zap.Logger) stdhttp.Handler {
	handler := NewValuationHandler(svc, logger)
	handler.now = func() time.Time { return testNow }
	return NewRouter(handler, testToken, logger)
}

func get(t *testing.T, router stdhttp.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	req.Header.Set("Authorization", testToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleValuation(id uuid.UUID) *domain.AssetValuation {
	return &domain.AssetValuation{
		AssetID:  id,
		Name:     "Oak Desk",
		AgeYears: decimal.NewFromInt(3),
		Result: &domain.DepreciationResult{
			CurrentValue:           decimal.NewFromInt(4000),
			TotalDepreciation:      decimal.NewFromInt(6000),
			AnnualDepreciation:     decimal.NewFromInt(2000),
			MonthlyDepreciation:    decimal.RequireFromString("166.6666666666666667"),
			DepreciationPercentage: decimal.NewFromInt(60),
			RemainingLife:          decimal.NewFromInt(2),
			NextDepreciationDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			Method:                 domain.MethodNameStraightLine,
			CalculationDate:        testNow,
			Confidence:             0.9,
			Reasoning:              "General asset with even wear",
		},
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(new(MockValuationReader), nil)

	req := httptest.NewRequest(stdhttp.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestTokenAuth(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)
	path := fmt.Sprintf("/api/assets/%s/valuation", uuid.New())

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "Missing header", token: "", wantErr: "missing authorization header"},
		{name: "Wrong token", token: "nope", wantErr: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, stdhttp.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.wantErr, decode(t, rec)["error"])
		})
	}

	svc.AssertNotCalled(t, "ValueAsset", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssetValuation(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)
	assetID := uuid.New()
	asOf := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	svc.On("ValueAsset", mock.Anything, assetID, asOf).Return(sampleValuation(assetID), nil)

	rec := get(t, router, fmt.Sprintf("/api/assets/%s/valuation?as_of=2025-01-31", assetID))
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, assetID.String(), body["asset_id"])
	assert.Equal(t, "Oak Desk", body["name"])
	result := body["result"].(map[string]interface{})
	assert.Equal(t, "4000.00", result["current_value"])
	assert.Equal(t, "166.67", result["monthly_depreciation"])
	assert.Equal(t, domain.MethodNameStraightLine, result["method"])
	svc.AssertExpectations(t)
}

func TestAssetValuation_DefaultsAsOfToNow(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)
	assetID := uuid.New()

	svc.On("ValueAsset", mock.Anything, assetID, testNow).Return(sampleValuation(assetID), nil)

	rec := get(t, router, fmt.Sprintf("/api/assets/%s/valuation", assetID))
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestAssetValuation_Errors(t *testing.T) {
	assetID := uuid.New()

	tests := []struct {
		name     string
		path     string
		svcErr   error
		wantCode int
		wantBody string
	}{
		{
			name:     "Malformed id",
			path:     "/api/assets/not-a-uuid/valuation",
			wantCode: stdhttp.StatusBadRequest,
			wantBody: "invalid id format",
		},
		{
			name:     "Malformed as_of",
			path:     fmt.Sprintf("/api/assets/%s/valuation?as_of=yesterday", assetID),
			wantCode: stdhttp.StatusBadRequest,
			wantBody: `invalid as-of date "yesterday": expected YYYY-MM-DD or RFC 3339`,
		},
		{
			name:     "Asset not found",
			path:     fmt.Sprintf("/api/assets/%s/valuation", assetID),
			svcErr:   domain.ErrAssetNotFound,
			wantCode: stdhttp.StatusNotFound,
			wantBody: "asset not found",
		},
		{
			name:     "Invalid asset data",
			path:     fmt.Sprintf("/api/assets/%s/valuation", assetID),
			svcErr:   fmt.Errorf("%w: purchase price cannot be negative", domain.ErrInvalidAssetData),
			wantCode: stdhttp.StatusBadRequest,
			wantBody: "invalid asset data: purchase price cannot be negative",
		},
		{
			name:     "Storage failure is hidden",
			path:     fmt.Sprintf("/api/assets/%s/valuation", assetID),
			svcErr:   errors.New("connection refused"),
			wantCode: stdhttp.StatusInternalServerError,
			wantBody: "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockValuationReader)
			if tt.svcErr != nil {
				svc.On("ValueAsset", mock.Anything, assetID, testNow).Return(nil, tt.svcErr)
			}
			router := newTestRouter(svc, nil)

			rec := get(t, router, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantBody, decode(t, rec)["error"])
			svc.AssertExpectations(t)
		})
	}
}

func TestAssetSchedule(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)
	assetID := uuid.New()

	entries := []domain.DepreciationScheduleEntry{
		{
			Year:                    1,
			Date:                    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			BeginningValue:          decimal.NewFromInt(10000),
			Depreciation:            decimal.NewFromInt(4000),
			EndingValue:             decimal.NewFromInt(6000),
			AccumulatedDepreciation: decimal.NewFromInt(4000),
		},
	}
	svc.On("AssetSchedule", mock.Anything, assetID, domain.MethodDoubleDecliningBalance, testNow).Return(entries, nil)

	rec := get(t, router, fmt.Sprintf("/api/assets/%s/schedule?method=ddb", assetID))
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, assetID.String(), body["asset_id"])
	rows := body["entries"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "4000.00", row["depreciation"])
	assert.Equal(t, "2023-06-15", row["date"])
	svc.AssertExpectations(t)
}

func TestAssetSchedule_UnknownMethod(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)

	rec := get(t, router, fmt.Sprintf("/api/assets/%s/schedule?method=sum_of_years", uuid.New()))
	assert.Equal(t, stdhttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown method", decode(t, rec)["error"])
	svc.AssertNotCalled(t, "AssetSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPortfolio(t *testing.T) {
	svc := new(MockValuationReader)
	router := newTestRouter(svc, nil)
	companyID := uuid.New()

	summary := domain.NewEmptyPortfolioSummary()
	summary.TotalPurchaseValue = decimal.NewFromInt(12500)
	summary.TotalCurrentValue = decimal.NewFromInt(7500)
	summary.TotalDepreciation = decimal.NewFromInt(5000)
	summary.MethodBreakdown = map[string]int{domain.MethodNameStraightLine: 2}
	summary.Metrics.AssetCount = 2

	svc.On("ValuePortfolio", mock.Anything, companyID, testNow).Return(summary, nil)

	rec := get(t, router, fmt.Sprintf("/api/companies/%s/portfolio", companyID))
	require.Equal(t, stdhttp.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "7500.00", body["total_current_value"])
	assert.Equal(t, float64(2), body["method_breakdown"].(map[string]interface{})[domain.MethodNameStraightLine])
	assert.Equal(t, float64(2), body["metrics"].(map[string]interface{})["asset_count"])
	svc.AssertExpectations(t)
}

func TestLatestValuation(t *testing.T) {
	companyID := uuid.New()

	t.Run("Recorded valuation", func(t *testing.T) {
		svc := new(MockValuationReader)
		router := newTestRouter(svc, nil)

		valuation := &domain.PortfolioValuation{
			ID:                 uuid.New(),
			CompanyID:          companyID,
			AsOf:               testNow,
			AssetCount:         3,
			TotalPurchaseValue: decimal.NewFromInt(30000),
			TotalCurrentValue:  decimal.NewFromInt(21000),
			TotalDepreciation:  decimal.NewFromInt(9000),
			MethodBreakdown:    map[string]int{domain.MethodNameDecliningBalance: 3},
		}
		svc.On("LatestPortfolioValuation", mock.Anything, companyID).Return(valuation, nil)

		rec := get(t, router, fmt.Sprintf("/api/companies/%s/valuations/latest", companyID))
		require.Equal(t, stdhttp.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, companyID.String(), body["company_id"])
		assert.Equal(t, "21000.00", body["total_current_value"])
		assert.Equal(t, float64(3), body["asset_count"])
	})

	t.Run("Nothing recorded yet", func(t *testing.T) {
		svc := new(MockValuationReader)
		router := newTestRouter(svc, nil)
		svc.On("LatestPortfolioValuation", mock.Anything, companyID).
			Return(nil, fmt.Errorf("company %s: %w", companyID, domain.ErrValuationNotFound))

		rec := get(t, router, fmt.Sprintf("/api/companies/%s/valuations/latest", companyID))
		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := new(MockValuationReader)
	assetID := uuid.New()
	svc.On("ValueAsset", mock.Anything, assetID, testNow).Return(nil, errors.New("connection refused"))

	router := newTestRouter(svc, zap.New(core))
	rec := get(t, router, fmt.Sprintf("/api/assets/%s/valuation", assetID))
	require.Equal(t, stdhttp.StatusInternalServerError, rec.Code)

	failures := logs.FilterMessage("failed valuing asset").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)

	completed := logs.FilterMessage("request completed").All()
	require.Len(t, completed, 1)
	fields := completed[0].ContextMap()
	assert.Equal(t, int64(stdhttp.StatusInternalServerError), fields["status"])
	assert.Equal(t, fmt.Sprintf("/api/assets/%s/valuation", assetID), fields["path"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, stdhttp.StatusBadRequest, statusFor(domain.ErrInvalidMarketConditions))
	assert.Equal(t, stdhttp.StatusNotFound, statusFor(domain.ErrValuationNotFound))
	assert.Equal(t, stdhttp.StatusGatewayTimeout, statusFor(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.Equal(t, stdhttp.StatusInternalServerError, statusFor(errors.New("boom")))
}
