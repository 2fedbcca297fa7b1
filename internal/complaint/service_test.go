package complaint

import (
	"context"
	"testing"
	"time"

	"townbasket-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, c *Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Complaint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Complaint), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userUID string) ([]*Complaint, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Complaint), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context, status *Status) ([]*Complaint, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Complaint), args.Error(1)
}

func (m *MockRepository) Resolve(ctx context.Context, id int64, adminNote string, at time.Time) (*Complaint, error) {
	args := m.Called(ctx, id, adminNote, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Complaint), args.Error(1)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("Create", ctx, mock.AnythingOfType("*complaint.Complaint")).Return(nil).Run(func(args mock.Arguments) {
			c := args.Get(1).(*Complaint)
			c.ID = 11
			c.Status = StatusPending
		})

		c, err := svc.Create(ctx, "customer-1", CreateInput{IssueType: "late_delivery", Description: "order was two hours late"})
		require.NoError(t, err)
		assert.Equal(t, StatusPending, c.Status)
		assert.Equal(t, "customer-1", c.UserUID)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Create(ctx, "customer-1", CreateInput{IssueType: "late_delivery"})
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo).(*service)
		at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		svc.clock = func() time.Time { return at }

		note := "refund issued"
		repo.On("GetByID", ctx, int64(11)).Return(&Complaint{ID: 11, Status: StatusPending}, nil)
		repo.On("Resolve", ctx, int64(11), note, at).
			Return(&Complaint{ID: 11, Status: StatusResolved, AdminNote: &note, ResolvedAt: &at}, nil)

		c, err := svc.Resolve(ctx, 11, ResolveInput{AdminNote: note})
		require.NoError(t, err)
		assert.Equal(t, StatusResolved, c.Status)
		require.NotNil(t, c.ResolvedAt)
	})

	t.Run("NoReopening", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(11)).Return(&Complaint{ID: 11, Status: StatusResolved}, nil)

		_, err := svc.Resolve(ctx, 11, ResolveInput{AdminNote: "again"})
		assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
		repo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingNote", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Resolve(ctx, 11, ResolveInput{})
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetByID", ctx, int64(99)).Return(nil, ErrComplaintNotFound)

		_, err := svc.Resolve(ctx, 99, ResolveInput{AdminNote: "note"})
		assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
	})
}
