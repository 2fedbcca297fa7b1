package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"townbasket-be/internal/logger"

	"go.uber.org/zap"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	Sync(ctx context.Context, in SyncInput) (*User, error)
	GetByUID(ctx context.Context, uid string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	ListByRole(ctx context.Context, role string) ([]*User, error)
	ToggleActive(ctx context.Context, id int64) (*User, error)
	ToggleOnline(ctx context.Context, uid string) (*User, error)
	ListOnlinePartners(ctx context.Context, town *string) ([]*User, error)
	Enroll(ctx context.Context, in EnrollInput) (*User, error)
	UpdateProfile(ctx context.Context, uid string, params UpdateProfileParams) (*User, error)
	ProfileStats(ctx context.Context, uid string) (*ProfileStats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const userColumns = `
	id, uid, name, phone, email, role, town,
	is_active, is_online, is_enrolled, rider_data,
	created_at, updated_at
`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	var riderData []byte
	err := row.Scan(
		&u.ID, &u.UID, &u.Name, &u.Phone, &u.Email, &u.Role, &u.Town,
		&u.IsActive, &u.IsOnline, &u.IsEnrolled, &riderData,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(riderData) > 0 {
		u.RiderData = json.RawMessage(riderData)
	}
	return &u, nil
}

// Sync upserts the identity-gateway record. The role always comes from the
// verified token claim, never from a client body.
func (r *repository) Sync(ctx context.Context, in SyncInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "User"),
		zap.String("method", "Sync"),
		zap.String("uid", in.UID),
	)

	const q = `
		INSERT INTO users (uid, email, role, name, phone, town)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			role  = EXCLUDED.role,
			name  = COALESCE(EXCLUDED.name, users.name),
			phone = COALESCE(EXCLUDED.phone, users.phone),
			town  = COALESCE(EXCLUDED.town, users.town),
			updated_at = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, q,
		in.UID, nullIfEmpty(in.Email), in.Role, in.Name, in.Phone, in.Town,
	))
	if err != nil {
		log.Error("sync failed", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *repository) GetByUID(ctx context.Context, uid string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, uid))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// ListByRole returns the full directory when role is empty.
func (r *repository) ListByRole(ctx context.Context, role string) ([]*User, error) {
	if role == "" {
		const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
		return r.queryUsers(ctx, q)
	}
	const q = `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY created_at DESC`
	return r.queryUsers(ctx, q, role)
}

func (r *repository) ToggleActive(ctx context.Context, id int64) (*User, error) {
	const q = `
		UPDATE users SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

// ToggleOnline flips the delivery partner's availability flag. Only rows with
// the delivery role qualify, so a stale customer token cannot appear in the
// rider pool.
func (r *repository) ToggleOnline(ctx context.Context, uid string) (*User, error) {
	const q = `
		UPDATE users SET is_online = NOT is_online, updated_at = NOW()
		WHERE uid = $1 AND role = 'delivery'
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, uid))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) ListOnlinePartners(ctx context.Context, town *string) ([]*User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'delivery' AND is_active = true AND is_online = true`
	args := []any{}
	if town != nil {
		q += ` AND town = $1`
		args = append(args, *town)
	}
	q += ` ORDER BY updated_at DESC`
	return r.queryUsers(ctx, q, args...)
}

func (r *repository) Enroll(ctx context.Context, in EnrollInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "User"),
		zap.String("method", "Enroll"),
		zap.String("uid", in.UID),
	)

	const q = `
		INSERT INTO users (uid, name, phone, email, town, role, is_enrolled, rider_data)
		VALUES ($1, $2, $3, $4, $5, 'delivery', true, $6)
		ON CONFLICT (uid) DO UPDATE SET
			role        = 'delivery',
			is_enrolled = true,
			name        = EXCLUDED.name,
			phone       = EXCLUDED.phone,
			town        = COALESCE(EXCLUDED.town, users.town),
			rider_data  = EXCLUDED.rider_data,
			updated_at  = NOW()
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, q,
		in.UID, in.Name, in.Phone, in.Email, in.Town, []byte(in.RiderData),
	))
	if err != nil {
		log.Error("enroll failed", zap.Error(err))
		return nil, err
	}
	return u, nil
}

func (r *repository) UpdateProfile(ctx context.Context, uid string, params UpdateProfileParams) (*User, error) {
	const q = `
		UPDATE users SET
			name  = COALESCE($2, name),
			phone = COALESCE($3, phone),
			town  = COALESCE($4, town),
			updated_at = NOW()
		WHERE uid = $1
		RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q, uid, params.Name, params.Phone, params.Town))
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (r *repository) ProfileStats(ctx context.Context, uid string) (*ProfileStats, error) {
	const q = `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'delivered'),
			COALESCE(SUM(total) FILTER (WHERE status = 'delivered'), 0)
		FROM orders
		WHERE customer_uid = $1`

	var stats ProfileStats
	err := r.db.QueryRowContext(ctx, q, uid).Scan(
		&stats.OrderCount, &stats.DeliveredCount, &stats.TotalSpentPaise,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) queryUsers(ctx context.Context, q string, args ...any) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
