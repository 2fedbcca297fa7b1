package product

import (
	"context"
	"errors"
	"strings"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"
	"townbasket-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	// List returns the shop's catalog. Customers only see catalogs of shops
	// that are approved, active and open; the owner and admins always see it.
	List(ctx context.Context, callerUID, callerRole string, shopID int64) ([]*Product, error)
	Create(ctx context.Context, callerUID string, in CreateProductInput) (*Product, error)
	Update(ctx context.Context, callerUID string, id int64, in UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, callerUID string, id int64) error
	ToggleStock(ctx context.Context, callerUID string, id int64) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, callerUID, callerRole string, shopID int64) ([]*Product, error) {
	sh, err := s.shop(ctx, shopID)
	if err != nil {
		return nil, err
	}

	isOwner := callerUID != "" && sh.OwnerUID == callerUID
	if !isOwner && callerRole != user.RoleAdmin && !sh.Visible() {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}

	products, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list products", err)
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, callerUID string, in CreateProductInput) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduct"),
		zap.Int64("shop_id", in.ShopID),
	)

	sh, err := s.shop(ctx, in.ShopID)
	if err != nil {
		return nil, err
	}
	if sh.OwnerUID != callerUID {
		return nil, apperr.E(apperr.Forbidden, "only the shop owner can add products")
	}

	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.E(apperr.Validation, "product name is required")
	}
	if in.Price <= 0 {
		return nil, apperr.E(apperr.Validation, "price must be positive")
	}
	if in.DiscountPrice != nil && (*in.DiscountPrice < 0 || *in.DiscountPrice >= in.Price) {
		return nil, apperr.E(apperr.Validation, "discount_price must be below price")
	}

	p := &Product{
		ShopID:        in.ShopID,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Unit:          in.Unit,
		ImageURL:      in.ImageURL,
		InStock:       true,
	}
	if p.Unit == "" {
		p.Unit = "piece"
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("create failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.Upstream, "failed to create product", err)
	}

	log.Info("product created", zap.Int64("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, callerUID string, id int64, in UpdateProductInput) (*Product, error) {
	p, err := s.owned(ctx, callerUID, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, apperr.E(apperr.Validation, "price must be positive")
		}
		p.Price = *in.Price
	}
	if in.DiscountPrice != nil {
		if *in.DiscountPrice < 0 || *in.DiscountPrice >= p.Price {
			return nil, apperr.E(apperr.Validation, "discount_price must be below price")
		}
		p.DiscountPrice = in.DiscountPrice
	}
	if in.Unit != nil && *in.Unit != "" {
		p.Unit = *in.Unit
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to update product", err)
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, callerUID string, id int64) error {
	if _, err := s.owned(ctx, callerUID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to delete product", err)
	}

	logger.FromCtx(ctx).Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *service) ToggleStock(ctx context.Context, callerUID string, id int64) (*Product, error) {
	if _, err := s.owned(ctx, callerUID, id); err != nil {
		return nil, err
	}

	p, err := s.repo.ToggleStock(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to toggle stock", err)
	}
	return p, nil
}

func (s *service) shop(ctx context.Context, shopID int64) (*ShopInfo, error) {
	sh, err := s.repo.GetShop(ctx, shopID)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load shop", err)
	}
	return sh, nil
}

// owned loads the product and verifies the caller owns its shop.
func (s *service) owned(ctx context.Context, callerUID string, id int64) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrProductNotFound) {
		return nil, apperr.E(apperr.NotFound, "product not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load product", err)
	}

	sh, err := s.shop(ctx, p.ShopID)
	if err != nil {
		return nil, err
	}
	if sh.OwnerUID != callerUID {
		return nil, apperr.E(apperr.Forbidden, "only the shop owner can manage products")
	}
	return p, nil
}
