package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/assetval-backend/internal/domain"
	"github.com/simaogato/assetval-backend/internal/report"
)

// Valuator is the subset of the valuation service exposed over gRPC
type Valuator interface {
	ValueAsset(ctx context.Context, assetID uuid.UUID, asOf time.Time) (*domain.AssetValuation, error)
	ValuePortfolio(ctx context.Context, companyID uuid.UUID, asOf time.Time) (*domain.PortfolioSummary, error)
	AssetSchedule(ctx context.Context, assetID uuid.UUID, method domain.Method, asOf time.Time) ([]domain.DepreciationScheduleEntry, error)
}

// Server implements the ValuationService gRPC server
type Server struct {
	Valuator Valuator

	now func() time.Time
}

// NewServer creates a new gRPC server instance
func NewServer(valuator Valuator) *Server {
	return &Server{
		Valuator: valuator,
		now:      time.Now,
	}
}

// ValueAsset handles the ValueAsset RPC
// Request fields: asset_id (required), as_of (optional, YYYY-MM-DD or RFC 3339)
func (s *Server) ValueAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	assetID, err := uuidField(req, "asset_id")
	if err != nil {
		return nil, err
	}

	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	valuation, err := s.Valuator.ValueAsset(ctx, assetID, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(report.NewAssetValuationView(valuation))
}

// ValuePortfolio handles the ValuePortfolio RPC
// Request fields: company_id (required), as_of (optional)
func (s *Server) ValuePortfolio(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	companyID, err := uuidField(req, "company_id")
	if err != nil {
		return nil, err
	}

	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	summary, err := s.Valuator.ValuePortfolio(ctx, companyID, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(report.NewPortfolioView(summary))
}

// GenerateSchedule handles the GenerateSchedule RPC
// Request fields: asset_id (required), method (optional, defaults to auto), as_of (optional)
func (s *Server) GenerateSchedule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	assetID, err := uuidField(req, "asset_id")
	if err != nil {
		return nil, err
	}

	asOf, err := s.asOfField(req)
	if err != nil {
		return nil, err
	}

	methodName := stringField(req, "method")
	method, ok := domain.ParseMethod(methodName)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "unknown method %q", methodName)
	}

	entries, err := s.Valuator.AssetSchedule(ctx, assetID, method, asOf)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(struct {
		AssetID string                     `json:"asset_id"`
		Entries []report.ScheduleEntryView `json:"entries"`
	}{
		AssetID: assetID.String(),
		Entries: report.NewScheduleView(entries),
	})
}

func (s *Server) asOfField(req *structpb.Struct) (time.Time, error) {
	asOf, err := domain.ParseAsOf(stringField(req, "as_of"), s.now())
	if err != nil {
		return time.Time{}, status.Error(codes.InvalidArgument, err.Error())
	}
	return asOf, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

func uuidField(req *structpb.Struct, name string) (uuid.UUID, error) {
	raw := stringField(req, name)
	if raw == "" {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "%s is required", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
	}
	return id, nil
}

// toStruct converts a report view to a google.protobuf.Struct through its JSON form
func toStruct(view interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(view)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAssetData), errors.Is(err, domain.ErrInvalidMarketConditions):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAssetNotFound), errors.Is(err, domain.ErrValuationNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
