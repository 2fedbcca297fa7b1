package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"townbasket-be/internal/apperr"
	"townbasket-be/internal/settings"
	"townbasket-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, o *Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) Transition(ctx context.Context, orderID int64, mutate func(o *Order) error) (*Order, error) {
	args := m.Called(ctx, orderID, mutate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	o := args.Get(0).(*Order)
	if err := mutate(o); err != nil {
		return nil, err
	}
	return o, nil
}

func (m *MockRepository) AssignRider(ctx context.Context, orderID int64, riderUID, riderName string, overwrite bool) (bool, error) {
	args := m.Called(ctx, orderID, riderUID, riderName, overwrite)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) GetShopForOrder(ctx context.Context, shopID int64) (*ShopInfo, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShopInfo), args.Error(1)
}

func (m *MockRepository) GetShopByOwner(ctx context.Context, ownerUID string) (*ShopInfo, error) {
	args := m.Called(ctx, ownerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShopInfo), args.Error(1)
}

func (m *MockRepository) GetProductForOrder(ctx context.Context, shopID, productID int64) (*PlacementProduct, error) {
	args := m.Called(ctx, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlacementProduct), args.Error(1)
}

func (m *MockRepository) GetRider(ctx context.Context, uid string) (*RiderInfo, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RiderInfo), args.Error(1)
}

func (m *MockRepository) DeliveryStats(ctx context.Context, riderUID string) (*DeliveryStats, error) {
	args := m.Called(ctx, riderUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*DeliveryStats), args.Error(1)
}

type stubSettings struct {
	s *settings.Settings
}

func (s *stubSettings) Get(_ context.Context) (*settings.Settings, error) {
	return s.s, nil
}

func (s *stubSettings) Update(_ context.Context, _ settings.UpdateInput) (*settings.Settings, error) {
	return s.s, nil
}

func openSettings() *stubSettings {
	return &stubSettings{s: &settings.Settings{
		TownName:              "Karwar",
		IsOpenForDelivery:     true,
		NightOrdersEnabled:    false,
		CODEnabled:            true,
		DefaultDeliveryCharge: 2000,
	}}
}

func newTestService(repo Repository, st settings.Service, at time.Time) *service {
	svc := NewService(repo, st, time.UTC).(*service)
	svc.clock = func() time.Time { return at }
	return svc
}

var noon = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func openShop() *ShopInfo {
	return &ShopInfo{ID: 7, OwnerUID: ownerUID, Name: "Karwar Grocery", Status: "approved", IsActive: true, IsOpen: true}
}

func placementInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShopID:          7,
		Items:           []PlaceOrderItem{{ProductID: 1, Quantity: 2}, {ProductID: 2, Quantity: 1}},
		CustomerName:    "Anita",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 Beach Road",
		DeliveryTown:    "Karwar",
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, openSettings(), noon)

	repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)
	repo.On("GetProductForOrder", ctx, int64(7), int64(1)).
		Return(&PlacementProduct{ID: 1, ShopID: 7, Name: "Rice 1kg", Price: 5000, InStock: true}, nil)
	repo.On("GetProductForOrder", ctx, int64(7), int64(2)).
		Return(&PlacementProduct{ID: 2, ShopID: 7, Name: "Sugar 500g", Price: 3000, InStock: true}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Run(func(args mock.Arguments) {
		o := args.Get(1).(*Order)
		o.ID = 101
		o.OrderNumber = "TB-20250310-7-0001"
	})

	o, err := svc.PlaceOrder(ctx, customer, placementInput())
	require.NoError(t, err)

	// Rs 130 of items plus the Rs 20 delivery charge.
	assert.Equal(t, int64(13000), o.Subtotal)
	assert.Equal(t, int64(2000), o.DeliveryCharge)
	assert.Equal(t, int64(15000), o.Total)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PaymentMethodCOD, o.PaymentMethod)
	assert.Equal(t, customerUID, o.CustomerUID)
	assert.Equal(t, "Karwar Grocery", o.ShopName)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(10000), o.Items[0].TotalPrice)
	assert.Equal(t, "Rice 1kg", o.Items[0].ProductName)
	repo.AssertExpectations(t)
}

func TestPlaceOrder_ShopClosed(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		shop *ShopInfo
	}{
		{"pending shop", &ShopInfo{ID: 7, Status: "pending", IsActive: true, IsOpen: true}},
		{"deactivated shop", &ShopInfo{ID: 7, Status: "approved", IsActive: false, IsOpen: true}},
		{"closed shop", &ShopInfo{ID: 7, Status: "approved", IsActive: true, IsOpen: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo, openSettings(), noon)
			repo.On("GetShopForOrder", ctx, int64(7)).Return(tc.shop, nil)

			_, err := svc.PlaceOrder(ctx, customer, placementInput())
			assert.Equal(t, apperr.ShopClosed, apperr.KindOf(err))
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestPlaceOrder_SettingsGates(t *testing.T) {
	ctx := context.Background()

	t.Run("town delivery paused", func(t *testing.T) {
		repo := new(MockRepository)
		st := openSettings()
		st.s.IsOpenForDelivery = false
		svc := newTestService(repo, st, noon)
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.SettingsClosed, apperr.KindOf(err))
	})

	t.Run("night orders disabled at 23:30", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.SettingsClosed, apperr.KindOf(err))
	})

	t.Run("night orders enabled at 23:30", func(t *testing.T) {
		repo := new(MockRepository)
		st := openSettings()
		st.s.NightOrdersEnabled = true
		svc := newTestService(repo, st, time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)
		repo.On("GetProductForOrder", ctx, int64(7), mock.Anything).
			Return(&PlacementProduct{ID: 1, ShopID: 7, Name: "Rice 1kg", Price: 5000, InStock: true}, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.NoError(t, err)
	})

	t.Run("early morning counts as night", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), time.Date(2025, 3, 10, 5, 59, 0, 0, time.UTC))
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.SettingsClosed, apperr.KindOf(err))
	})

	t.Run("cod disabled", func(t *testing.T) {
		repo := new(MockRepository)
		st := openSettings()
		st.s.CODEnabled = false
		svc := newTestService(repo, st, noon)
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.SettingsClosed, apperr.KindOf(err))
	})
}

func TestPlaceOrder_ItemValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("out of stock", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)
		repo.On("GetProductForOrder", ctx, int64(7), int64(1)).
			Return(&PlacementProduct{ID: 1, ShopID: 7, Name: "Rice 1kg", Price: 5000, InStock: false}, nil)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
		assert.Contains(t, apperr.DetailOf(err), "out of stock")
	})

	t.Run("product from another shop", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)
		repo.On("GetProductForOrder", ctx, int64(7), int64(1)).Return(nil, ErrProductNotFound)

		_, err := svc.PlaceOrder(ctx, customer, placementInput())
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetShopForOrder", ctx, int64(7)).Return(openShop(), nil)

		in := placementInput()
		in.Items = []PlaceOrderItem{{ProductID: 1, Quantity: 0}}
		_, err := svc.PlaceOrder(ctx, customer, in)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})

	t.Run("empty cart", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		in := placementInput()
		in.Items = nil
		_, err := svc.PlaceOrder(ctx, customer, in)
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})
}

func TestUpdateStatus_CancelReason(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, openSettings(), noon)

	o := newOrder(StatusPending)
	repo.On("Transition", ctx, int64(42), mock.Anything).Return(o, nil)

	// Empty reason is rejected before anything is written.
	_, err := svc.UpdateStatus(ctx, owner, 42, StatusCancelled, "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	got, err := svc.UpdateStatus(ctx, owner, 42, StatusCancelled, "out of stock")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)
	require.NotNil(t, got.SellerNote)
	assert.Equal(t, "out of stock", *got.SellerNote)
}

func TestUpdateStatus_IllegalTransition(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, openSettings(), noon)

	o := newOrder(StatusDelivered)
	repo.On("Transition", ctx, int64(42), mock.Anything).Return(o, nil)

	_, err := svc.UpdateStatus(ctx, owner, 42, StatusPreparing, "")
	assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, openSettings(), noon)

	_, err := svc.UpdateStatus(context.Background(), owner, 42, Status("lost"), "")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	repo.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func onlineRider() *RiderInfo {
	return &RiderInfo{UID: riderUID, Name: "Ravi", Role: user.RoleDelivery, IsActive: true, IsOnline: true}
}

func TestAssignRider(t *testing.T) {
	ctx := context.Background()

	t.Run("seller assigns on preparing order", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		o := newOrder(StatusPreparing)
		repo.On("GetByID", ctx, int64(42)).Return(o, nil).Once()
		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("AssignRider", ctx, int64(42), riderUID, "Ravi", true).Return(true, nil)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusPreparing), nil).Once()

		got, err := svc.AssignRider(ctx, owner, 42, riderUID)
		require.NoError(t, err)
		assert.True(t, got.AssignedTo(riderUID))
	})

	t.Run("idempotent when already that rider", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusReady), nil)

		got, err := svc.AssignRider(ctx, owner, 42, riderUID)
		require.NoError(t, err)
		assert.True(t, got.AssignedTo(riderUID))
		repo.AssertNotCalled(t, "AssignRider", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("re-assignment overwrites", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		prev := "rider-0"
		o := newOrder(StatusReady)
		o.DeliveryPartnerUID = &prev
		repo.On("GetByID", ctx, int64(42)).Return(o, nil).Once()
		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("AssignRider", ctx, int64(42), riderUID, "Ravi", true).Return(true, nil)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusReady), nil).Once()

		got, err := svc.AssignRider(ctx, owner, 42, riderUID)
		require.NoError(t, err)
		assert.True(t, got.AssignedTo(riderUID))
	})

	t.Run("not the owner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusPreparing), nil)

		_, err := svc.AssignRider(ctx, Actor{UID: "seller-2", Role: user.RoleSeller}, 42, riderUID)
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})

	t.Run("too early", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusPending), nil)

		_, err := svc.AssignRider(ctx, owner, 42, riderUID)
		assert.Equal(t, apperr.InvalidTransition, apperr.KindOf(err))
	})

	t.Run("locked after dispatch", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusOutForDelivery), nil)

		_, err := svc.AssignRider(ctx, owner, 42, "rider-2")
		assert.Equal(t, apperr.AssignmentLocked, apperr.KindOf(err))
	})

	t.Run("offline rider", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		off := onlineRider()
		off.IsOnline = false
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusPreparing), nil)
		repo.On("GetRider", ctx, riderUID).Return(off, nil)

		_, err := svc.AssignRider(ctx, owner, 42, riderUID)
		assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
	})

	t.Run("target is not a delivery partner", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusPreparing), nil)
		repo.On("GetRider", ctx, "customer-9").
			Return(&RiderInfo{UID: "customer-9", Role: user.RoleCustomer, IsActive: true}, nil)

		_, err := svc.AssignRider(ctx, owner, 42, "customer-9")
		assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	})
}

func TestAcceptDelivery(t *testing.T) {
	ctx := context.Background()

	t.Run("claims an unassigned ready order", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusReady), nil).Once()
		repo.On("AssignRider", ctx, int64(42), riderUID, "Ravi", false).Return(true, nil)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusReady), nil).Once()

		got, err := svc.AcceptDelivery(ctx, rider, 42)
		require.NoError(t, err)
		assert.True(t, got.AssignedTo(riderUID))
	})

	t.Run("already claimed by another rider", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		other := "rider-2"
		o := newOrder(StatusReady)
		o.DeliveryPartnerUID = &other
		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("GetByID", ctx, int64(42)).Return(o, nil)

		_, err := svc.AcceptDelivery(ctx, rider, 42)
		assert.Equal(t, apperr.AssignmentConflict, apperr.KindOf(err))
	})

	t.Run("lost the compare-and-set", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("GetByID", ctx, int64(42)).Return(newOrder(StatusReady), nil).Once()
		repo.On("AssignRider", ctx, int64(42), riderUID, "Ravi", false).Return(false, nil)

		other := "rider-2"
		lost := newOrder(StatusReady)
		lost.DeliveryPartnerUID = &other
		repo.On("GetByID", ctx, int64(42)).Return(lost, nil).Once()

		_, err := svc.AcceptDelivery(ctx, rider, 42)
		assert.Equal(t, apperr.AssignmentConflict, apperr.KindOf(err))
	})

	t.Run("idempotent re-accept", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, openSettings(), noon)

		repo.On("GetRider", ctx, riderUID).Return(onlineRider(), nil)
		repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusReady), nil)

		got, err := svc.AcceptDelivery(ctx, rider, 42)
		require.NoError(t, err)
		assert.True(t, got.AssignedTo(riderUID))
		repo.AssertNotCalled(t, "AssignRider", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// raceRepo backs the concurrent claim test with a real compare-and-set over
// an in-memory order.
type raceRepo struct {
	MockRepository
	mu sync.Mutex
	o  *Order
}

func (r *raceRepo) GetByID(_ context.Context, _ int64) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.o
	return &cp, nil
}

func (r *raceRepo) GetRider(_ context.Context, uid string) (*RiderInfo, error) {
	return &RiderInfo{UID: uid, Name: "rider " + uid, Role: user.RoleDelivery, IsActive: true, IsOnline: true}, nil
}

func (r *raceRepo) AssignRider(_ context.Context, _ int64, riderUID, riderName string, overwrite bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.o.Status != StatusPreparing && r.o.Status != StatusReady {
		return false, nil
	}
	if !overwrite && r.o.DeliveryPartnerUID != nil {
		return false, nil
	}
	r.o.DeliveryPartnerUID = &riderUID
	r.o.DeliveryPartnerName = &riderName
	return true, nil
}

func TestAcceptDelivery_ConcurrentClaims(t *testing.T) {
	repo := &raceRepo{o: newOrder(StatusReady)}
	svc := newTestService(repo, openSettings(), noon)

	const riders = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []string
		conflicts int
	)
	for i := 0; i < riders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a := Actor{UID: string(rune('a'+n)) + "-rider", Role: user.RoleDelivery}
			_, err := svc.AcceptDelivery(context.Background(), a, 42)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, a.UID)
			case apperr.KindOf(err) == apperr.AssignmentConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Len(t, winners, 1, "exactly one rider must win the claim")
	assert.Equal(t, riders-1, conflicts)
	require.NotNil(t, repo.o.DeliveryPartnerUID)
	assert.Equal(t, winners[0], *repo.o.DeliveryPartnerUID)
}

func TestListForDelivery(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, openSettings(), noon)

	uid := riderUID

	repo.On("List", ctx, ListFilter{Available: true}).Return([]*Order{}, nil).Once()
	_, err := svc.ListForDelivery(ctx, rider, "available")
	require.NoError(t, err)

	repo.On("List", ctx, ListFilter{DeliveryUID: &uid, ActiveOnly: true}).Return([]*Order{}, nil).Once()
	_, err = svc.ListForDelivery(ctx, rider, "assigned")
	require.NoError(t, err)

	st := StatusDelivered
	repo.On("List", ctx, ListFilter{DeliveryUID: &uid, Status: &st}).Return([]*Order{}, nil).Once()
	_, err = svc.ListForDelivery(ctx, rider, "completed")
	require.NoError(t, err)

	_, err = svc.ListForDelivery(ctx, rider, "archived")
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestGet_Access(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		actor   Actor
		wantErr bool
	}{
		{"customer sees own order", customer, false},
		{"owner sees shop order", owner, false},
		{"assigned rider sees order", rider, false},
		{"admin sees any order", admin, false},
		{"stranger is refused", Actor{UID: "someone-else", Role: user.RoleCustomer}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := newTestService(repo, openSettings(), noon)
			repo.On("GetByID", ctx, int64(42)).Return(assigned(StatusOutForDelivery), nil)

			_, err := svc.Get(ctx, tc.actor, 42)
			if tc.wantErr {
				assert.Equal(t, apperr.Forbidden, apperr.KindOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
