package user

import (
	"context"
	"testing"

	"townbasket-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Sync(ctx context.Context, in SyncInput) (*User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByUID(ctx context.Context, uid string) (*User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListByRole(ctx context.Context, role string) ([]*User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) ToggleActive(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ToggleOnline(ctx context.Context, uid string) (*User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ListOnlinePartners(ctx context.Context, town *string) ([]*User, error) {
	args := m.Called(ctx, town)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockRepository) Enroll(ctx context.Context, in EnrollInput) (*User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) UpdateProfile(ctx context.Context, uid string, params UpdateProfileParams) (*User, error) {
	args := m.Called(ctx, uid, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) ProfileStats(ctx context.Context, uid string) (*ProfileStats, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProfileStats), args.Error(1)
}

func TestService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		in := SyncInput{UID: "uid-1", Email: "a@example.com", Role: RoleSeller}
		repo.On("Sync", ctx, in).Return(&User{ID: 1, UID: "uid-1", Role: RoleSeller}, nil)

		u, err := svc.Sync(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, RoleSeller, u.Role)
	})

	t.Run("UnknownRoleFallsBack", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		want := SyncInput{UID: "uid-1", Role: RoleCustomer}
		repo.On("Sync", ctx, want).Return(&User{ID: 1, UID: "uid-1", Role: RoleCustomer}, nil)

		_, err := svc.Sync(ctx, SyncInput{UID: "uid-1", Role: "superuser"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Sync(ctx, SyncInput{})
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})
}

func TestService_ToggleOnline(t *testing.T) {
	ctx := context.Background()

	t.Run("PartnerGoesOnline", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("ToggleOnline", ctx, "rider-1").
			Return(&User{UID: "rider-1", Role: RoleDelivery, IsActive: true, IsOnline: true}, nil)

		u, err := svc.ToggleOnline(ctx, "rider-1")
		require.NoError(t, err)
		assert.True(t, u.IsOnline)
	})

	t.Run("NonPartnerRefused", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("ToggleOnline", ctx, "customer-1").Return(nil, ErrUserNotFound)

		_, err := svc.ToggleOnline(ctx, "customer-1")
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})

	t.Run("DeactivatedPartnerRefused", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("ToggleOnline", ctx, "rider-1").
			Return(&User{UID: "rider-1", Role: RoleDelivery, IsActive: false, IsOnline: true}, nil)

		_, err := svc.ToggleOnline(ctx, "rider-1")
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})
}

func TestService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		in := EnrollInput{UID: "rider-9", Name: "Ravi", Phone: "9876500000"}
		repo.On("Enroll", ctx, in).
			Return(&User{UID: "rider-9", Role: RoleDelivery, IsEnrolled: true}, nil)

		u, err := svc.Enroll(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, RoleDelivery, u.Role)
		assert.True(t, u.IsEnrolled)
	})

	t.Run("MissingFields", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.Enroll(ctx, EnrollInput{UID: "rider-9"})
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		repo.AssertNotCalled(t, "Enroll", mock.Anything, mock.Anything)
	})
}

func TestService_ListByRole(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	_, err := svc.ListByRole(context.Background(), "superuser")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}
