package user

import (
	"context"
	"errors"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Sync(ctx context.Context, in SyncInput) (*User, error)
	Me(ctx context.Context, uid string) (*User, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	ToggleActive(ctx context.Context, id int64) (*User, error)
	ToggleOnline(ctx context.Context, uid string) (*User, error)
	ListOnlinePartners(ctx context.Context, town *string) ([]*User, error)
	Enroll(ctx context.Context, in EnrollInput) (*User, error)
	UpdateProfile(ctx context.Context, uid string, params UpdateProfileParams) (*User, error)
	ProfileStats(ctx context.Context, uid string) (*ProfileStats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Sync(ctx context.Context, in SyncInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Sync"),
		zap.String("uid", in.UID),
	)

	if in.UID == "" {
		return nil, apperr.E(apperr.Validation, "missing identity subject")
	}
	if !ValidRole(in.Role) {
		in.Role = RoleCustomer
	}

	u, err := s.repo.Sync(ctx, in)
	if err != nil {
		log.Error("identity sync failed", zap.Error(err))
		return nil, apperr.Wrap(apperr.Upstream, "failed to sync user", err)
	}

	log.Info("identity synced", zap.String("role", u.Role))
	return u, nil
}

func (s *service) Me(ctx context.Context, uid string) (*User, error) {
	u, err := s.repo.GetByUID(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load user", err)
	}
	return u, nil
}

func (s *service) ListByRole(ctx context.Context, role string) ([]*User, error) {
	if role != "" && !ValidRole(role) {
		return nil, apperr.Ef(apperr.Validation, "unknown role %q", role)
	}
	users, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list users", err)
	}
	return users, nil
}

func (s *service) ToggleActive(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.ToggleActive(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to toggle user", err)
	}

	logger.FromCtx(ctx).Info("user active flag toggled",
		zap.Int64("user_id", id),
		zap.Bool("is_active", u.IsActive),
	)
	return u, nil
}

func (s *service) ToggleOnline(ctx context.Context, uid string) (*User, error) {
	u, err := s.repo.ToggleOnline(ctx, uid)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.E(apperr.Forbidden, "only delivery partners can toggle availability")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to toggle availability", err)
	}
	if !u.IsActive {
		// Deactivated partners may flip the flag but never enter the pool;
		// surface it so the client can explain why.
		return nil, apperr.E(apperr.Forbidden, "account is deactivated")
	}
	return u, nil
}

func (s *service) ListOnlinePartners(ctx context.Context, town *string) ([]*User, error) {
	users, err := s.repo.ListOnlinePartners(ctx, town)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to list online partners", err)
	}
	return users, nil
}

func (s *service) Enroll(ctx context.Context, in EnrollInput) (*User, error) {
	if in.UID == "" {
		return nil, apperr.E(apperr.Validation, "uid is required")
	}
	if in.Name == "" || in.Phone == "" {
		return nil, apperr.E(apperr.Validation, "name and phone are required")
	}

	u, err := s.repo.Enroll(ctx, in)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to enroll delivery partner", err)
	}

	logger.FromCtx(ctx).Info("delivery partner enrolled", zap.String("uid", in.UID))
	return u, nil
}

func (s *service) UpdateProfile(ctx context.Context, uid string, params UpdateProfileParams) (*User, error) {
	u, err := s.repo.UpdateProfile(ctx, uid, params)
	if errors.Is(err, ErrUserNotFound) {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to update profile", err)
	}
	return u, nil
}

func (s *service) ProfileStats(ctx context.Context, uid string) (*ProfileStats, error) {
	stats, err := s.repo.ProfileStats(ctx, uid)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, "failed to load profile stats", err)
	}
	return stats, nil
}
