package complaint

import (
	"context"
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, userUID string, in CreateInput) (*Complaint, error)
	ListOwn(ctx context.Context, userUID string) ([]*Complaint, error)
	ListAll(ctx context.Context, status *Status) ([]*Complaint, error)
	Resolve(ctx context.Context, id int64, in ResolveInput) (*Complaint, error)
}

type service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, clock: time.Now}
}

func (s *service) Create(ctx context.Context, userUID string, in CreateInput) (*Complaint, error) {
	if in.IssueType == "" {
		return nil, apperr.E(apperr.Validation, "issue_type is required")
	}
	if in.Description == "" {
		return nil, apperr.E(apperr.Validation, "description is required")
	}

	c := &Complaint{
		UserUID:     userUID,
		OrderID:     in.OrderID,
		IssueType:   in.IssueType,
		Description: in.Description,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		logger.FromCtx(ctx).Error("complaint create failed",
			zap.String("layer", "service"), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (s *service) ListOwn(ctx context.Context, userUID string) ([]*Complaint, error) {
	return s.repo.ListByUser(ctx, userUID)
}

func (s *service) ListAll(ctx context.Context, status *Status) ([]*Complaint, error) {
	if status != nil && *status != StatusPending && *status != StatusResolved {
		return nil, apperr.Ef(apperr.Validation, "unknown status %q", *status)
	}
	return s.repo.ListAll(ctx, status)
}

func (s *service) Resolve(ctx context.Context, id int64, in ResolveInput) (*Complaint, error) {
	if in.AdminNote == "" {
		return nil, apperr.E(apperr.Validation, "admin_note is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err == ErrComplaintNotFound {
		return nil, apperr.E(apperr.NotFound, "complaint not found")
	}
	if err != nil {
		return nil, err
	}
	if existing.Status == StatusResolved {
		return nil, apperr.E(apperr.Conflict, "complaint is already resolved")
	}

	c, err := s.repo.Resolve(ctx, id, in.AdminNote, s.clock())
	if err == ErrComplaintNotFound {
		// Resolved between the read and the write.
		return nil, apperr.E(apperr.Conflict, "complaint is already resolved")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
