package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"townbasket-be/internal/logger"
	"townbasket-be/internal/utils"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrShopNotFound    = errors.New("shop not found")
	ErrProductNotFound = errors.New("product not found")
	ErrRiderNotFound   = errors.New("rider not found")
)

type Repository interface {
	// Create persists the order and its items in one transaction. The shop
	// row is locked so the per-day order number sequence cannot collide.
	Create(ctx context.Context, o *Order) error

	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context, f ListFilter) ([]*Order, error)

	// Transition loads the order under a row lock, runs mutate, and persists
	// status, timestamps and notes in the same transaction. mutate returning
	// an error rolls everything back.
	Transition(ctx context.Context, orderID int64, mutate func(o *Order) error) (*Order, error)

	// AssignRider is the assignment compare-and-set. With overwrite false it
	// only claims an unassigned order; with overwrite true (seller
	// re-assignment) it replaces any current claim. In both modes the write
	// is gated on status preparing|ready. The boolean reports whether the
	// row was written.
	AssignRider(ctx context.Context, orderID int64, riderUID, riderName string, overwrite bool) (bool, error)

	GetShopForOrder(ctx context.Context, shopID int64) (*ShopInfo, error)
	GetShopByOwner(ctx context.Context, ownerUID string) (*ShopInfo, error)
	GetProductForOrder(ctx context.Context, shopID, productID int64) (*PlacementProduct, error)
	GetRider(ctx context.Context, uid string) (*RiderInfo, error)

	DeliveryStats(ctx context.Context, riderUID string) (*DeliveryStats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	o.id, o.order_number, o.customer_uid, o.customer_name, o.customer_phone,
	o.shop_id, s.name, s.owner_uid,
	o.delivery_partner_uid, o.delivery_partner_name,
	o.delivery_address, o.delivery_area, o.delivery_town,
	o.subtotal, o.delivery_charge, o.total,
	o.payment_method, o.payment_status, o.status,
	o.customer_note, o.seller_note,
	o.created_at, o.confirmed_at, o.preparing_at, o.ready_at,
	o.dispatched_at, o.delivered_at, o.cancelled_at
`

const orderFrom = ` FROM orders o JOIN shops s ON s.id = o.shop_id `

func scanOrder(row interface{ Scan(...any) error }) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerUID, &o.CustomerName, &o.CustomerPhone,
		&o.ShopID, &o.ShopName, &o.ShopOwnerUID,
		&o.DeliveryPartnerUID, &o.DeliveryPartnerName,
		&o.DeliveryAddress, &o.DeliveryArea, &o.DeliveryTown,
		&o.Subtotal, &o.DeliveryCharge, &o.Total,
		&o.PaymentMethod, &o.PaymentStatus, &o.Status,
		&o.CustomerNote, &o.SellerNote,
		&o.CreatedAt, &o.ConfirmedAt, &o.PreparingAt, &o.ReadyAt,
		&o.DispatchedAt, &o.DeliveredAt, &o.CancelledAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "Create"),
		zap.Int64("shop_id", o.ShopID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialise number allocation per shop.
	var shopID int64
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM shops WHERE id = $1 FOR UPDATE`, o.ShopID,
	).Scan(&shopID)
	if err == sql.ErrNoRows {
		return ErrShopNotFound
	}
	if err != nil {
		return err
	}

	now := time.Now()
	var seq int64
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) + 1
		FROM orders
		WHERE shop_id = $1 AND created_at::date = $2::date
	`, o.ShopID, now).Scan(&seq)
	if err != nil {
		return err
	}
	o.OrderNumber = utils.FormatOrderNumber(o.ShopID, now, seq)

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			order_number, customer_uid, customer_name, customer_phone,
			shop_id, delivery_address, delivery_area, delivery_town,
			subtotal, delivery_charge, total,
			payment_method, payment_status, status, customer_note
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,'pending','pending',$13
		)
		RETURNING id, created_at
	`,
		o.OrderNumber, o.CustomerUID, o.CustomerName, o.CustomerPhone,
		o.ShopID, o.DeliveryAddress, o.DeliveryArea, o.DeliveryTown,
		o.Subtotal, o.DeliveryCharge, o.Total,
		o.PaymentMethod, o.CustomerNote,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		log.Error("order insert failed", zap.Error(err))
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name, product_image_url,
				quantity, unit_price, total_price
			) VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING id
		`,
			item.OrderID, item.ProductID, item.ProductName, item.ProductImageURL,
			item.Quantity, item.UnitPrice, item.TotalPrice,
		).Scan(&item.ID)
		if err != nil {
			log.Error("order item insert failed", zap.Error(err))
			return err
		}
	}

	o.Status = StatusPending
	o.PaymentStatus = PaymentStatusPending
	return tx.Commit()
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	q := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1`
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.fetchItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]*Order, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.ShopID != nil {
		where = append(where, "o.shop_id = "+arg(*f.ShopID))
	}
	if f.CustomerUID != nil {
		where = append(where, "o.customer_uid = "+arg(*f.CustomerUID))
	}
	if f.DeliveryUID != nil {
		where = append(where, "o.delivery_partner_uid = "+arg(*f.DeliveryUID))
	}
	if f.Status != nil {
		where = append(where, "o.status = "+arg(string(*f.Status)))
	}
	if f.Available {
		where = append(where, "o.status = 'ready'", "o.delivery_partner_uid IS NULL")
	}
	if f.ActiveOnly {
		where = append(where, "o.status IN ('preparing','ready','out_for_delivery')")
	}

	q := `SELECT ` + orderColumns + orderFrom
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY o.created_at DESC`
	if f.Limit > 0 {
		q += ` LIMIT ` + arg(f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []*Order
		ids    []int64
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []*Order{}, nil
	}

	items, err := r.fetchItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		o.Items = items[o.ID]
	}
	return orders, nil
}

func (r *repository) Transition(ctx context.Context, orderID int64, mutate func(o *Order) error) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Order"),
		zap.String("method", "Transition"),
		zap.Int64("order_id", orderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// The order row is the serialisation anchor for all same-order writes.
	q := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1 FOR UPDATE OF o`
	o, err := scanOrder(tx.QueryRowContext(ctx, q, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := mutate(o); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET
			status = $2, seller_note = $3, payment_status = $4,
			confirmed_at = $5, preparing_at = $6, ready_at = $7,
			dispatched_at = $8, delivered_at = $9, cancelled_at = $10
		WHERE id = $1
	`,
		o.ID, o.Status, o.SellerNote, o.PaymentStatus,
		o.ConfirmedAt, o.PreparingAt, o.ReadyAt,
		o.DispatchedAt, o.DeliveredAt, o.CancelledAt,
	)
	if err != nil {
		log.Error("status update failed", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	items, err := r.fetchItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *repository) AssignRider(ctx context.Context, orderID int64, riderUID, riderName string, overwrite bool) (bool, error) {
	q := `
		UPDATE orders
		SET delivery_partner_uid = $2, delivery_partner_name = $3
		WHERE id = $1 AND status IN ('preparing','ready')
	`
	if !overwrite {
		q += ` AND delivery_partner_uid IS NULL`
	}

	res, err := r.db.ExecContext(ctx, q, orderID, riderUID, riderName)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) GetShopForOrder(ctx context.Context, shopID int64) (*ShopInfo, error) {
	const q = `SELECT id, owner_uid, name, status, is_active, is_open FROM shops WHERE id = $1`
	var s ShopInfo
	err := r.db.QueryRowContext(ctx, q, shopID).Scan(
		&s.ID, &s.OwnerUID, &s.Name, &s.Status, &s.IsActive, &s.IsOpen,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetShopByOwner(ctx context.Context, ownerUID string) (*ShopInfo, error) {
	const q = `SELECT id, owner_uid, name, status, is_active, is_open FROM shops WHERE owner_uid = $1`
	var s ShopInfo
	err := r.db.QueryRowContext(ctx, q, ownerUID).Scan(
		&s.ID, &s.OwnerUID, &s.Name, &s.Status, &s.IsActive, &s.IsOpen,
	)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetProductForOrder reads the product fresh so placement never trusts a
// client-supplied price, and only within the order's shop.
func (r *repository) GetProductForOrder(ctx context.Context, shopID, productID int64) (*PlacementProduct, error) {
	const q = `
		SELECT id, shop_id, name, image_url,
		       COALESCE(NULLIF(discount_price, 0), price), in_stock
		FROM products
		WHERE id = $1 AND shop_id = $2
	`
	var p PlacementProduct
	err := r.db.QueryRowContext(ctx, q, productID, shopID).Scan(
		&p.ID, &p.ShopID, &p.Name, &p.ImageURL, &p.Price, &p.InStock,
	)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetRider(ctx context.Context, uid string) (*RiderInfo, error) {
	const q = `SELECT uid, COALESCE(name, ''), role, is_active, is_online FROM users WHERE uid = $1`
	var u RiderInfo
	err := r.db.QueryRowContext(ctx, q, uid).Scan(
		&u.UID, &u.Name, &u.Role, &u.IsActive, &u.IsOnline,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRiderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) DeliveryStats(ctx context.Context, riderUID string) (*DeliveryStats, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE delivered_at::date = CURRENT_DATE),
			COALESCE(SUM(delivery_charge) FILTER (WHERE delivered_at::date = CURRENT_DATE), 0),
			COUNT(*) FILTER (WHERE delivered_at >= date_trunc('month', CURRENT_DATE)),
			COALESCE(SUM(delivery_charge) FILTER (WHERE delivered_at >= date_trunc('month', CURRENT_DATE)), 0)
		FROM orders
		WHERE delivery_partner_uid = $1 AND status = 'delivered'
	`
	var st DeliveryStats
	err := r.db.QueryRowContext(ctx, q, riderUID).Scan(
		&st.TodayCount, &st.TodayEarnings, &st.MonthCount, &st.MonthEarnings,
	)
	if err != nil {
		return nil, err
	}

	const active = `
		SELECT COUNT(*)
		FROM orders
		WHERE delivery_partner_uid = $1 AND status IN ('preparing','ready','out_for_delivery')
	`
	if err := r.db.QueryRowContext(ctx, active, riderUID).Scan(&st.ActiveCount); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *repository) fetchItems(ctx context.Context, orderIDs []int64) (map[int64][]OrderItem, error) {
	const q = `
		SELECT id, order_id, product_id, product_name, product_image_url,
		       quantity, unit_price, total_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(orderIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := make(map[int64][]OrderItem)
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductImageURL,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice,
		); err != nil {
			return nil, err
		}
		res[it.OrderID] = append(res[it.OrderID], it)
	}
	return res, rows.Err()
}
