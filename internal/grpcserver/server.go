package grpcserver

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cookingapp/internal/apperr"
	"cookingapp/internal/logger"
	"cookingapp/pkg/models"
)

type Discoverer interface {
	Discover(ctx context.Context, userID *int64, city, term string) ([]models.DiscoveryResult, error)
}

type RecipeGetter interface {
	Get(ctx context.Context, id int64) (*models.Recipe, error)
}

type MarketLister interface {
	List(ctx context.Context, city string) ([]models.Market, error)
}

type Server struct {
	Discovery Discoverer
	Recipes   RecipeGetter
	Markets   MarketLister
}

func NewServer(discovery Discoverer, recipes RecipeGetter, markets MarketLister) *Server {
	return &Server{Discovery: discovery, Recipes: recipes, Markets: markets}
}

func (s *Server) Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	results, err := s.Discovery.Discover(ctx, req.UserID, req.City, req.Ingredient)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &DiscoverResponse{Results: results}, nil
}

func (s *Server) GetRecipe(ctx context.Context, req *GetRecipeRequest) (*GetRecipeResponse, error) {
	if req == nil || req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	rec, err := s.Recipes.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &GetRecipeResponse{Recipe: rec}, nil
}

func (s *Server) ListMarkets(ctx context.Context, req *ListMarketsRequest) (*ListMarketsResponse, error) {
	city := ""
	if req != nil {
		city = strings.TrimSpace(req.City)
	}
	markets, err := s.Markets.List(ctx, city)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return &ListMarketsResponse{Markets: markets}, nil
}

func toStatus(ctx context.Context, err error) error {
	var code codes.Code
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, apperr.ErrDuplicateKey), errors.Is(err, apperr.ErrBusiness):
		code = codes.InvalidArgument
	case errors.Is(err, apperr.ErrConflict):
		code = codes.AlreadyExists
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	default:
		logger.FromContext(ctx).Error("grpc request failed", zap.Error(err))
		code = codes.Internal
	}
	return status.Error(code, apperr.Message(err))
}

// UnaryLogger puts base into the request context and logs each call.
func UnaryLogger(base *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = logger.ContextWithLogger(ctx, base.With(zap.String("method", info.FullMethod)))
		resp, err := handler(ctx, req)
		base.Info("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}
