package shop

import (
	"context"
	"database/sql"
	"errors"

	"townbasket-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrShopNotFound  = errors.New("shop not found")
	ErrShopExists    = errors.New("seller already has a shop")
	ErrShopNotActive = errors.New("shop is not active")
)

type Repository interface {
	ListVisible(ctx context.Context, categoryID *int64) ([]*Shop, error)
	ListPending(ctx context.Context) ([]*Shop, error)
	ListAll(ctx context.Context) ([]*Shop, error)
	GetByID(ctx context.Context, id int64) (*Shop, error)
	GetByOwnerUID(ctx context.Context, ownerUID string) (*Shop, error)

	Create(ctx context.Context, s *Shop) error
	Update(ctx context.Context, s *Shop) error
	SetStatus(ctx context.Context, id int64, status Status, reason *string) (*Shop, error)
	ToggleActive(ctx context.Context, id int64) (*Shop, error)
	SetOpen(ctx context.Context, id int64, open bool) (*Shop, error)

	Categories(ctx context.Context) ([]*Category, error)
	AdminStats(ctx context.Context) (*AdminStats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const shopColumns = `
	s.id, s.owner_uid, s.owner_name, s.owner_phone,
	s.name, s.description, s.category_id, c.name,
	s.address, s.town, s.area, s.pincode,
	s.phone, s.whatsapp, s.logo_url, s.banner_url,
	s.opening_time, s.closing_time,
	s.status, s.rejection_reason, s.is_active, s.is_open,
	s.created_at, s.updated_at
`

const shopFrom = ` FROM shops s LEFT JOIN categories c ON c.id = s.category_id `

func scanShop(row interface{ Scan(...any) error }) (*Shop, error) {
	var s Shop
	err := row.Scan(
		&s.ID, &s.OwnerUID, &s.OwnerName, &s.OwnerPhone,
		&s.Name, &s.Description, &s.CategoryID, &s.CategoryName,
		&s.Address, &s.Town, &s.Area, &s.Pincode,
		&s.Phone, &s.Whatsapp, &s.LogoURL, &s.BannerURL,
		&s.OpeningTime, &s.ClosingTime,
		&s.Status, &s.RejectionReason, &s.IsActive, &s.IsOpen,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListVisible(ctx context.Context, categoryID *int64) ([]*Shop, error) {
	q := `SELECT ` + shopColumns + shopFrom + `
		WHERE s.status = 'approved' AND s.is_active = true`
	args := []any{}
	if categoryID != nil {
		q += ` AND s.category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY s.created_at DESC`
	return r.queryShops(ctx, q, args...)
}

func (r *repository) ListPending(ctx context.Context) ([]*Shop, error) {
	q := `SELECT ` + shopColumns + shopFrom + `
		WHERE s.status = 'pending' ORDER BY s.created_at ASC`
	return r.queryShops(ctx, q)
}

func (r *repository) ListAll(ctx context.Context) ([]*Shop, error) {
	q := `SELECT ` + shopColumns + shopFrom + ` ORDER BY s.created_at DESC`
	return r.queryShops(ctx, q)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Shop, error) {
	q := `SELECT ` + shopColumns + shopFrom + ` WHERE s.id = $1`
	s, err := scanShop(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	return s, err
}

func (r *repository) GetByOwnerUID(ctx context.Context, ownerUID string) (*Shop, error) {
	q := `SELECT ` + shopColumns + shopFrom + ` WHERE s.owner_uid = $1`
	s, err := scanShop(r.db.QueryRowContext(ctx, q, ownerUID))
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	return s, err
}

// Create inserts the shop, holding the advisory uniqueness of one shop per
// seller via the owner_uid unique index.
func (r *repository) Create(ctx context.Context, s *Shop) error {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Shop"),
		zap.String("method", "Create"),
		zap.String("owner_uid", s.OwnerUID),
	)

	const q = `
		INSERT INTO shops (
			owner_uid, owner_name, owner_phone,
			name, description, category_id,
			address, town, area, pincode,
			phone, whatsapp, logo_url, banner_url,
			opening_time, closing_time,
			status, is_active, is_open
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,$15,$16,'pending',true,false
		)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, q,
		s.OwnerUID, s.OwnerName, s.OwnerPhone,
		s.Name, s.Description, s.CategoryID,
		s.Address, s.Town, s.Area, s.Pincode,
		s.Phone, s.Whatsapp, s.LogoURL, s.BannerURL,
		s.OpeningTime, s.ClosingTime,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrShopExists
		}
		log.Error("insert failed", zap.Error(err))
		return err
	}

	s.Status = StatusPending
	s.IsActive = true
	s.IsOpen = false
	return nil
}

func (r *repository) Update(ctx context.Context, s *Shop) error {
	const q = `
		UPDATE shops SET
			name = $2, description = $3, category_id = $4,
			address = $5, area = $6, pincode = $7,
			phone = $8, whatsapp = $9,
			logo_url = $10, banner_url = $11,
			opening_time = $12, closing_time = $13,
			updated_at = NOW()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		s.ID, s.Name, s.Description, s.CategoryID,
		s.Address, s.Area, s.Pincode,
		s.Phone, s.Whatsapp,
		s.LogoURL, s.BannerURL,
		s.OpeningTime, s.ClosingTime,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShopNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status, reason *string) (*Shop, error) {
	const q = `
		UPDATE shops SET status = $2, rejection_reason = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var updated int64
	err := r.db.QueryRowContext(ctx, q, id, status, reason).Scan(&updated)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) ToggleActive(ctx context.Context, id int64) (*Shop, error) {
	const q = `
		UPDATE shops SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var updated int64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&updated)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) SetOpen(ctx context.Context, id int64, open bool) (*Shop, error) {
	const q = `
		UPDATE shops SET is_open = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id
	`
	var updated int64
	err := r.db.QueryRowContext(ctx, q, id, open).Scan(&updated)
	if err == sql.ErrNoRows {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Categories(ctx context.Context) ([]*Category, error) {
	const q = `
		SELECT id, name, icon, display_order, is_active
		FROM categories
		WHERE is_active = true
		ORDER BY display_order, name
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.DisplayOrder, &c.IsActive); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (r *repository) AdminStats(ctx context.Context) (*AdminStats, error) {
	const q = `
		SELECT
			(SELECT COUNT(*) FROM shops),
			(SELECT COUNT(*) FROM shops WHERE status = 'pending'),
			(SELECT COUNT(*) FROM shops WHERE status = 'approved'),
			(SELECT COUNT(*) FROM shops WHERE status = 'rejected'),
			(SELECT COUNT(*) FROM orders WHERE created_at::date = CURRENT_DATE),
			(SELECT COUNT(*) FROM users WHERE role = 'delivery' AND is_active AND is_online)
	`
	var st AdminStats
	err := r.db.QueryRowContext(ctx, q).Scan(
		&st.TotalShops, &st.PendingShops, &st.ApprovedShops,
		&st.RejectedShops, &st.OrdersToday, &st.OnlinePartners,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *repository) queryShops(ctx context.Context, q string, args ...any) ([]*Shop, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Shop
	for rows.Next() {
		s, err := scanShop(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

// Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
