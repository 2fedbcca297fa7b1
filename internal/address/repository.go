package address

import (
	"context"
	"database/sql"
	"errors"

	"townbasket-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrAddressNotFound = errors.New("address not found")

type Repository interface {
	GetByUserUID(ctx context.Context, userUID string) ([]*Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Address, error)

	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	Deactivate(ctx context.Context, id uuid.UUID) error

	ClearDefault(ctx context.Context, userUID string) error
	SetDefault(ctx context.Context, userUID string, addressID uuid.UUID) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserUID(ctx context.Context, userUID string) ([]*Address, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("repo", "Address"),
		zap.String("method", "GetByUserUID"),
		zap.String("user_uid", userUID),
	)

	const q = `
		SELECT
			id, user_uid, label, name, phone,
			line1, line2, area, town, pincode,
			is_default, is_active, created_at
		FROM addresses
		WHERE user_uid = $1
		  AND is_active = true
		ORDER BY is_default DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, q, userUID)
	if err != nil {
		log.Error("query failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var res []*Address
	for rows.Next() {
		var a Address
		if err := rows.Scan(
			&a.ID, &a.UserUID, &a.Label, &a.Name, &a.Phone,
			&a.Line1, &a.Line2, &a.Area, &a.Town, &a.Pincode,
			&a.IsDefault, &a.IsActive, &a.CreatedAt,
		); err != nil {
			log.Error("scan failed", zap.Error(err))
			return nil, err
		}
		res = append(res, &a)
	}

	return res, rows.Err()
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Address, error) {
	const q = `
		SELECT
			id, user_uid, label, name, phone,
			line1, line2, area, town, pincode,
			is_default, is_active, created_at
		FROM addresses
		WHERE id = $1 AND is_active = true
	`

	var a Address
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&a.ID, &a.UserUID, &a.Label, &a.Name, &a.Phone,
		&a.Line1, &a.Line2, &a.Area, &a.Town, &a.Pincode,
		&a.IsDefault, &a.IsActive, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Create(ctx context.Context, addr *Address) error {
	const q = `
		INSERT INTO addresses (
			id, user_uid, label, name, phone,
			line1, line2, area, town, pincode,
			is_default, is_active
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,true)
	`
	_, err := r.db.ExecContext(ctx, q,
		addr.ID, addr.UserUID, addr.Label, addr.Name, addr.Phone,
		addr.Line1, addr.Line2, addr.Area, addr.Town, addr.Pincode,
		addr.IsDefault,
	)
	return err
}

func (r *repository) Update(ctx context.Context, addr *Address) error {
	const q = `
		UPDATE addresses SET
			label = $3, name = $4, phone = $5,
			line1 = $6, line2 = $7, area = $8, town = $9, pincode = $10,
			is_default = $11
		WHERE id = $1 AND user_uid = $2 AND is_active = true
	`
	res, err := r.db.ExecContext(ctx, q,
		addr.ID, addr.UserUID, addr.Label, addr.Name, addr.Phone,
		addr.Line1, addr.Line2, addr.Area, addr.Town, addr.Pincode,
		addr.IsDefault,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET is_default = false, is_active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *repository) ClearDefault(ctx context.Context, userUID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET is_default = false WHERE user_uid = $1`, userUID)
	return err
}

func (r *repository) SetDefault(ctx context.Context, userUID string, addressID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET is_default = true WHERE id = $1 AND user_uid = $2 AND is_active = true`,
		addressID, userUID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
