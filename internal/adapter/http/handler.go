package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/report"
)

// ValuationReader is the subset of the valuation service exposed over HTTP.
type ValuationReader interface {
	ValueAsset(ctx context.Context, assetID uuid.UUID, asOf time.Time) (*domain.AssetValuation, error)
	ValuePortfolio(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*domain.PortfolioSummary, error)
	AssetSchedule(ctx context.Context, assetID uuid.UUID, method domain.Method, asOf time.Time) ([]domain.DepreciationScheduleEntry, error)
	LatestPortfolioValuation(ctx context.Context, companyID uuid.UUID) (*domain.PortfolioValuation, error)
}

// ValuationHandler serves the reporting REST API.
type ValuationHandler struct {
	svc    ValuationReader
	logger *zap.Logger
	now    func() time.Time
}

// NewValuationHandler constructs the HTTP handler adapter.
func NewValuationHandler(svc ValuationReader, logger *zap.Logger) *ValuationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValuationHandler{svc: svc, logger: logger, now: time.Now}
}

// AssetValuation returns the market-adjusted valuation of one asset.
// Query: as_of (optional, YYYY-MM-DD or RFC 3339).
func (h *ValuationHandler) AssetValuation(c *gin.Context) {
	assetID, ok := h.pathID(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	valuation, err := h.svc.ValueAsset(c.Request.Context(), assetID, asOf)
	if err != nil {
		h.fail(c, "failed valuing asset", err)
		return
	}

	c.JSON(stdhttp.StatusOK, report.NewAssetValuationView(valuation))
}

// AssetSchedule returns the year-by-year depreciation schedule of one asset.
// Query: method (optional, defaults to auto), as_of (optional).
func (h *ValuationHandler) AssetSchedule(c *gin.Context) {
	assetID, ok := h.pathID(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	method, valid := domain.ParseMethod(c.Query("method"))
	if !valid {
		c.JSON(stdhttp.StatusBadRequest, gin.H{"error": "unknown method"})
		return
	}

	entries, err := h.svc.AssetSchedule(c.Request.Context(), assetID, method, asOf)
	if err != nil {
		h.fail(c, "failed generating schedule", err)
		return
	}

	c.JSON(stdhttp.StatusOK, gin.H{
		"asset_id": assetID.String(),
		"entries":  report.NewScheduleView(entries),
	})
}

// Portfolio returns the aggregated valuation of a company's assets.
func (h *ValuationHandler) Portfolio(c *gin.Context) {
	companyID, ok := h.pathID(c)
	if !ok {
		return
	}
	asOf, ok := h.asOf(c)
	if !ok {
		return
	}

	summary, err := h.svc.ValuePortfolio(c.Request.Context(), companyID, asOf)
	if err != nil {
		h.fail(c, "failed valuing portfolio", err)
		return
	}

	c.JSON(stdhttp.StatusOK, report.NewPortfolioView(summary))
}

// LatestValuation returns the most recently recorded portfolio valuation of a company.
func (h *ValuationHandler) LatestValuation(c *gin.Context) {
	companyID, ok := h.pathID(c)
	if !ok {
		return
	}

	valuation, err := h.svc.LatestPortfolioValuation(c.Request.Context(), companyID)
	if err != nil {
		h.fail(c, "failed loading latest valuation", err)
		return
	}

	c.JSON(stdhttp.StatusOK, report.NewPortfolioValuationView(valuation))
}

func (h *ValuationHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(stdhttp.StatusBadRequest, gin.H{"error": "invalid id format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *ValuationHandler) asOf(c *gin.Context) (time.Time, bool) {
	asOf, err := domain.ParseAsOf(c.Query("as_of"), h.now())
	if err != nil {
		c.JSON(stdhttp.StatusBadRequest, gin.H{"error": err.Error()})
		return time.Time{}, false
	}
	return asOf, true
}

// fail writes the status code matching err; only server-side failures are logged at error level
func (h *ValuationHandler) fail(c *gin.Context, msg string, err error) {
	code := statusFor(err)
	if code >= stdhttp.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err))
		c.JSON(code, gin.H{"error": "internal error"})
		return
	}

	h.logger.Warn(msg, zap.Error(err))
	c.JSON(code, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidAssetData), errors.Is(err, domain.ErrInvalidMarketConditions):
		return stdhttp.StatusBadRequest
	case errors.Is(err, domain.ErrAssetNotFound), errors.Is(err, domain.ErrValuationNotFound):
		return stdhttp.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return stdhttp.StatusGatewayTimeout
	default:
		return stdhttp.StatusInternalServerError
	}
}
