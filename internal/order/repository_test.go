package order

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{
	"id", "order_number", "customer_uid", "customer_name", "customer_phone",
	"shop_id", "name", "owner_uid",
	"delivery_partner_uid", "delivery_partner_name",
	"delivery_address", "delivery_area", "delivery_town",
	"subtotal", "delivery_charge", "total",
	"payment_method", "payment_status", "status",
	"customer_note", "seller_note",
	"created_at", "confirmed_at", "preparing_at", "ready_at",
	"dispatched_at", "delivered_at", "cancelled_at",
}

func orderRow(id int64, status Status) *sqlmock.Rows {
	return sqlmock.NewRows(orderRowColumns).AddRow(
		id, "TB-20250310-7-0001", customerUID, "Anita", "9876543210",
		7, "Karwar Grocery", ownerUID,
		nil, nil,
		"12 Beach Road", nil, "Karwar",
		13000, 2000, 15000,
		"cod", "pending", string(status),
		nil, nil,
		time.Now(), nil, nil, nil,
		nil, nil, nil,
	)
}

func itemRows(orderID int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "order_id", "product_id", "product_name", "product_image_url",
		"quantity", "unit_price", "total_price",
	}).AddRow(1, orderID, 1, "Rice 1kg", nil, 2, 5000, 10000)
}

func TestRepository_AssignRider(t *testing.T) {
	ctx := context.Background()

	t.Run("claim succeeds on unassigned order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders.*status IN \('preparing','ready'\).*delivery_partner_uid IS NULL`).
			WithArgs(int64(42), riderUID, "Ravi").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AssignRider(ctx, 42, riderUID, "Ravi", false)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("claim loses when a partner is already set", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders.*delivery_partner_uid IS NULL`).
			WithArgs(int64(42), riderUID, "Ravi").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AssignRider(ctx, 42, riderUID, "Ravi", false)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("seller overwrite skips the null check", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders.*status IN \('preparing','ready'\)\s*$`).
			WithArgs(int64(42), riderUID, "Ravi").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.AssignRider(ctx, 42, riderUID, "Ravi", true)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("dispatched order is never written", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectExec(`(?s)UPDATE orders.*status IN \('preparing','ready'\)`).
			WithArgs(int64(42), riderUID, "Ravi").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.AssignRider(ctx, 42, riderUID, "Ravi", true)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("available queue filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* FROM orders o JOIN shops s .* WHERE o\.status = 'ready' AND o\.delivery_partner_uid IS NULL ORDER BY o\.created_at DESC`).
			WillReturnRows(orderRow(42, StatusReady))
		mock.ExpectQuery(`(?s)SELECT .* FROM order_items`).
			WillReturnRows(itemRows(42))

		res, err := repo.List(ctx, ListFilter{Available: true})
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, StatusReady, res[0].Status)
		require.Len(t, res[0].Items, 1)
		assert.Equal(t, "Rice 1kg", res[0].Items[0].ProductName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("shop and status filters are positional", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)WHERE o\.shop_id = \$1 AND o\.status = \$2`).
			WithArgs(int64(7), "pending").
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		shopID := int64(7)
		st := StatusPending
		res, err := repo.List(ctx, ListFilter{ShopID: &shopID, Status: &st})
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("active assignments filter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)WHERE o\.delivery_partner_uid = \$1 AND o\.status IN \('preparing','ready','out_for_delivery'\)`).
			WithArgs(riderUID).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		uid := riderUID
		_, err = repo.List(ctx, ListFilter{DeliveryUID: &uid, ActiveOnly: true})
		require.NoError(t, err)
	})
}

func TestRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found with items", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* WHERE o\.id = \$1`).
			WithArgs(int64(42)).
			WillReturnRows(orderRow(42, StatusPending))
		mock.ExpectQuery(`(?s)SELECT .* FROM order_items`).
			WillReturnRows(itemRows(42))

		o, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, "TB-20250310-7-0001", o.OrderNumber)
		assert.Equal(t, ownerUID, o.ShopOwnerUID)
		require.Len(t, o.Items, 1)
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectQuery(`(?s)SELECT .* WHERE o\.id = \$1`).
			WithArgs(int64(999)).
			WillReturnRows(sqlmock.NewRows(orderRowColumns))

		_, err = repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_Transition(t *testing.T) {
	ctx := context.Background()

	t.Run("mutate error rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .* WHERE o\.id = \$1 FOR UPDATE OF o`).
			WithArgs(int64(42)).
			WillReturnRows(orderRow(42, StatusPending))
		mock.ExpectRollback()

		_, err = repo.Transition(ctx, 42, func(o *Order) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("successful transition commits the new state", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`(?s)SELECT .* FOR UPDATE OF o`).
			WithArgs(int64(42)).
			WillReturnRows(orderRow(42, StatusPending))
		mock.ExpectExec(`(?s)UPDATE orders SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
		mock.ExpectQuery(`(?s)SELECT .* FROM order_items`).
			WillReturnRows(itemRows(42))

		o, err := repo.Transition(ctx, 42, func(o *Order) error {
			o.Status = StatusConfirmed
			now := time.Now()
			o.ConfirmedAt = &now
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_DeliveryStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	mock.ExpectQuery(`(?s)SELECT.*FILTER.*FROM orders.*status = 'delivered'`).
		WithArgs(riderUID).
		WillReturnRows(sqlmock.NewRows([]string{"c1", "s1", "c2", "s2"}).AddRow(3, 6000, 40, 80000))
	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\).*status IN \('preparing','ready','out_for_delivery'\)`).
		WithArgs(riderUID).
		WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(2))

	st, err := repo.DeliveryStats(context.Background(), riderUID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TodayCount)
	assert.Equal(t, int64(6000), st.TodayEarnings)
	assert.Equal(t, int64(40), st.MonthCount)
	assert.Equal(t, int64(80000), st.MonthEarnings)
	assert.Equal(t, int64(2), st.ActiveCount)
}
