package settings

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

func (m *MockRepository) Get(ctx context.Context) (*Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, in UpdateInput) (*Settings, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Settings), args.Error(1)
}

func defaults() *Settings {
	return &Settings{
		TownName:              "Karwar",
		IsOpenForDelivery:     true,
		CODEnabled:            true,
		DefaultDeliveryCharge: 2000,
	}
}

func TestService_GetCachesReads(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Get", ctx).Return(defaults(), nil).Once()

	first, err := svc.Get(ctx)
	require.NoError(t, err)

	// Second read within the TTL is served from cache.
	second, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "Get", 1)
}

func TestService_UpdateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := NewService(repo)

	repo.On("Get", ctx).Return(defaults(), nil)

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	flag := false
	updated := defaults()
	updated.IsOpenForDelivery = false
	repo.On("Update", ctx, UpdateInput{IsOpenForDelivery: &flag}).Return(updated, nil)

	_, err = svc.Update(ctx, UpdateInput{IsOpenForDelivery: &flag})
	require.NoError(t, err)

	got, err := svc.Get(ctx)
	require.NoError(t, err)
	// The cached pre-update copy must be gone; the mock serves defaults
	// again, proving the read went back to the repository.
	assert.NotSame(t, got, updated)
	repo.AssertNumberOfCalls(t, "Get", 3)
}

func TestService_UpdateValidation(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	charge := int64(-100)
	_, err := svc.Update(context.Background(), UpdateInput{DefaultDeliveryCharge: &charge})
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
