package shop

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
	ListVisible(ctx context.Context, categoryID *int64) ([]*Shop, error)
	ListPending(ctx context.Context) ([]*Shop, error)
	ListAll(ctx context.Context) ([]*Shop, error)
	Get(ctx context.Context, id int64) (*Shop, error)
	GetByOwner(ctx context.Context, ownerUID string) (*Shop, error)

	Create(ctx context.Context, ownerUID string, in CreateShopInput) (*Shop, error)
	Update(ctx context.Context, callerUID, callerRole string, id int64, in UpdateShopInput) (*Shop, error)
	Approve(ctx context.Context, id int64) (*Shop, error)
	Reject(ctx context.Context, id int64, reason *string) (*Shop, error)
	ToggleActive(ctx context.Context, id int64) (*Shop, error)
	ToggleOpen(ctx context.Context, callerUID string, id int64) (*Shop, error)

	Categories(ctx context.Context) ([]*Category, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListVisible(ctx context.Context, categoryID *int64) ([]*Shop, error) {
	shops, err := s.repo.ListVisible(ctx, categoryID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list shops", err)
	}
	return shops, nil
}

func (s *service) ListPending(ctx context.Context) ([]*Shop, error) {
	shops, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list pending shops", err)
	}
	return shops, nil
}

func (s *service) ListAll(ctx context.Context) ([]*Shop, error) {
	shops, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list shops", err)
	}
	return shops, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Shop, error) {
	sh, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load shop", err)
	}
	return sh, nil
}

func (s *service) GetByOwner(ctx context.Context, ownerUID string) (*Shop, error) {
	sh, err := s.repo.GetByOwnerUID(ctx, ownerUID)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load shop", err)
	}
	return sh, nil
}

func (s *service) Create(ctx context.Context, ownerUID string, in CreateShopInput) (*Shop, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateShop"),
		zap.String("owner_uid", ownerUID),
	)

	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.E(apperr.Validation, "shop name is required")
	}
	if in.Address == "" || in.Town == "" || in.Phone == "" {
		return nil, apperr.E(apperr.Validation, "address, town and phone are required")
	}

	sh := &Shop{
		OwnerUID:    ownerUID,
		OwnerName:   in.OwnerName,
		OwnerPhone:  in.OwnerPhone,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Address:     in.Address,
		Town:        in.Town,
		Area:        in.Area,
		Pincode:     in.Pincode,
		Phone:       in.Phone,
		Whatsapp:    in.Whatsapp,
		LogoURL:     in.LogoURL,
		BannerURL:   in.BannerURL,
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
	}

	err := s.repo.Create(ctx, sh)
	if errors.Is(err, ErrShopExists) {
		return nil, apperr.E(apperr.Conflict, "you already have a registered shop")
	}
	if err != nil {
		log.Error("create failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.Upstream, "failed to create shop", err)
	}

	log.Info("shop created", zap.Int64("shop_id", sh.ID), zap.String("name", sh.Name))
	return sh, nil
}

func (s *service) Update(ctx context.Context, callerUID, callerRole string, id int64, in UpdateShopInput) (*Shop, error) {
	sh, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.OwnerUID != callerUID && callerRole != user.RoleAdmin {
		return nil, apperr.E(apperr.Forbidden, "only the owner or an admin can update a shop")
	}

	applyIfSet(&sh.Name, in.Name)
	if in.Description != nil {
		sh.Description = in.Description
	}
	if in.CategoryID != nil {
		sh.CategoryID = in.CategoryID
	}
	applyIfSet(&sh.Address, in.Address)
	if in.Area != nil {
		sh.Area = in.Area
	}
	if in.Pincode != nil {
		sh.Pincode = in.Pincode
	}
	applyIfSet(&sh.Phone, in.Phone)
	if in.Whatsapp != nil {
		sh.Whatsapp = in.Whatsapp
	}
	if in.LogoURL != nil {
		sh.LogoURL = in.LogoURL
	}
	if in.BannerURL != nil {
		sh.BannerURL = in.BannerURL
	}
	if in.OpeningTime != nil {
		sh.OpeningTime = in.OpeningTime
	}
	if in.ClosingTime != nil {
		sh.ClosingTime = in.ClosingTime
	}

	if err := s.repo.Update(ctx, sh); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to update shop", err)
	}
	return sh, nil
}

func (s *service) Approve(ctx context.Context, id int64) (*Shop, error) {
	sh, err := s.repo.SetStatus(ctx, id, StatusApproved, nil)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to approve shop", err)
	}

	logger.FromCtx(ctx).Info("shop approved", zap.Int64("shop_id", id))
	return sh, nil
}

// Reject sets the rejected status; the optional reason is persisted and
// surfaced to the seller.
func (s *service) Reject(ctx context.Context, id int64, reason *string) (*Shop, error) {
	sh, err := s.repo.SetStatus(ctx, id, StatusRejected, reason)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to reject shop", err)
	}

	logger.FromCtx(ctx).Info("shop rejected", zap.Int64("shop_id", id))
	return sh, nil
}

func (s *service) ToggleActive(ctx context.Context, id int64) (*Shop, error) {
	sh, err := s.repo.ToggleActive(ctx, id)
	if errors.Is(err, ErrShopNotFound) {
		return nil, apperr.E(apperr.NotFound, "shop not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to toggle shop", err)
	}
	return sh, nil
}

func (s *service) ToggleOpen(ctx context.Context, callerUID string, id int64) (*Shop, error) {
	sh, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sh.OwnerUID != callerUID {
		return nil, apperr.E(apperr.Forbidden, "only the owner can open or close a shop")
	}
	if sh.Status != StatusApproved {
		return nil, apperr.E(apperr.Validation, "shop is not approved yet")
	}

	updated, err := s.repo.SetOpen(ctx, id, !sh.IsOpen)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to toggle shop", err)
	}
	return updated, nil
}

func (s *service) Categories(ctx context.Context) ([]*Category, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list categories", err)
	}
	return cats, nil
}

func (s *service) AdminStats(ctx context.Context) (*AdminStats, error) {
	st, err := s.repo.AdminStats(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load admin stats", err)
	}
	return st, nil
}

func applyIfSet(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
