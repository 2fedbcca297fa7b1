package settings

import (
	"context"
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// cacheTTL bounds how stale an order placement's view of the settings can be.
const cacheTTL = 5 * time.Second

const cacheKey = "town_settings"

type Service interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, in UpdateInput) (*Settings, error)
}

type service struct {
	repo  Repository
	cache *expirable.LRU[string, *Settings]
}

func NewService(repo Repository) Service {
	return &service{
		repo:  repo,
		cache: expirable.NewLRU[string, *Settings](1, nil, cacheTTL),
	}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	res, err := s.repo.Get(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load town settings", err)
	}

	s.cache.Add(cacheKey, res)
	return res, nil
}

func (s *service) Update(ctx context.Context, in UpdateInput) (*Settings, error) {
	if in.DefaultDeliveryCharge != nil && *in.DefaultDeliveryCharge < 0 {
		return nil, apperr.E(apperr.Validation, "default_delivery_charge must be non-negative")
	}

	// Ensure the singleton row exists before the in-place update.
	if _, err := s.repo.Get(ctx); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load town settings", err)
	}

	res, err := s.repo.Update(ctx, in)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to update town settings", err)
	}

	// In-process invalidation; other replicas converge within the TTL.
	s.cache.Remove(cacheKey)

	logger.FromCtx(ctx).Info("town settings updated",
		zap.Bool("is_open_for_delivery", res.IsOpenForDelivery),
		zap.Bool("night_orders_enabled", res.NightOrdersEnabled),
		zap.Bool("cod_enabled", res.CODEnabled),
	)
	return res, nil
}
