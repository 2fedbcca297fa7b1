package address

import (
	"context"
	"errors"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, userUID string) ([]*Address, error)
	Create(ctx context.Context, userUID string, in CreateAddressInput) (*Address, error)
	Update(ctx context.Context, userUID string, id uuid.UUID, in UpdateAddressInput) (*Address, error)
	Delete(ctx context.Context, userUID string, id uuid.UUID) error
	SetDefault(ctx context.Context, userUID string, id uuid.UUID) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context, userUID string) ([]*Address, error) {
	res, err := s.repo.GetByUserUID(ctx, userUID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list addresses", err)
	}
	if res == nil {
		res = []*Address{}
	}
	return res, nil
}

func (s *service) Create(ctx context.Context, userUID string, in CreateAddressInput) (*Address, error) {
	if in.Name == "" || in.Phone == "" || in.Line1 == "" || in.Town == "" {
		return nil, apperr.E(apperr.Validation, "name, phone, line1 and town are required")
	}

	addr := &Address{
		ID:        uuid.New(),
		UserUID:   userUID,
		Label:     in.Label,
		Name:      in.Name,
		Phone:     in.Phone,
		Line1:     in.Line1,
		Line2:     in.Line2,
		Area:      in.Area,
		Town:      in.Town,
		Pincode:   in.Pincode,
		IsDefault: in.SetAsDefault,
	}

	if in.SetAsDefault {
		if err := s.repo.ClearDefault(ctx, userUID); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to clear default address", err)
		}
	}
	if err := s.repo.Create(ctx, addr); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to create address", err)
	}

	logger.FromCtx(ctx).Info("address created",
		zap.String("user_uid", userUID),
		zap.String("address_id", addr.ID.String()),
	)
	return addr, nil
}

func (s *service) Update(ctx context.Context, userUID string, id uuid.UUID, in UpdateAddressInput) (*Address, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrAddressNotFound) {
		return nil, apperr.E(apperr.NotFound, "address not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load address", err)
	}
	if existing.UserUID != userUID {
		return nil, apperr.E(apperr.Forbidden, "not your address")
	}

	addr := &Address{
		ID:        id,
		UserUID:   userUID,
		Label:     in.Label,
		Name:      in.Name,
		Phone:     in.Phone,
		Line1:     in.Line1,
		Line2:     in.Line2,
		Area:      in.Area,
		Town:      in.Town,
		Pincode:   in.Pincode,
		IsDefault: in.SetAsDefault || existing.IsDefault,
	}

	if in.SetAsDefault && !existing.IsDefault {
		if err := s.repo.ClearDefault(ctx, userUID); err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "failed to clear default address", err)
		}
	}
	if err := s.repo.Update(ctx, addr); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to update address", err)
	}
	return addr, nil
}

func (s *service) Delete(ctx context.Context, userUID string, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrAddressNotFound) {
		return apperr.E(apperr.NotFound, "address not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to load address", err)
	}
	if existing.UserUID != userUID {
		return apperr.E(apperr.Forbidden, "not your address")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to delete address", err)
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userUID string, id uuid.UUID) error {
	if err := s.repo.ClearDefault(ctx, userUID); err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to clear default address", err)
	}
	err := s.repo.SetDefault(ctx, userUID, id)
	if errors.Is(err, ErrAddressNotFound) {
		return apperr.E(apperr.NotFound, "address not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, "failed to set default address", err)
	}
	return nil
}
