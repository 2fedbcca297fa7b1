package settings

import (
	"context"
	"database/sql"

	"townbasket-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, in UpdateInput) (*Settings, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const settingsColumns = `
	town_name, is_open_for_delivery, night_orders_enabled,
	cod_enabled, default_delivery_charge, updated_at
`

// Get reads the singleton row, creating the default record on first use.
func (r *repository) Get(ctx context.Context) (*Settings, error) {
	const q = `
		INSERT INTO town_settings (id)
		VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = town_settings.id
		RETURNING ` + settingsColumns

	var s Settings
	err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TownName, &s.IsOpenForDelivery, &s.NightOrdersEnabled,
		&s.CODEnabled, &s.DefaultDeliveryCharge, &s.UpdatedAt,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("settings read failed", zap.Error(err))
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, in UpdateInput) (*Settings, error) {
	const q = `
		UPDATE town_settings SET
			town_name               = COALESCE($1, town_name),
			is_open_for_delivery    = COALESCE($2, is_open_for_delivery),
			night_orders_enabled    = COALESCE($3, night_orders_enabled),
			cod_enabled             = COALESCE($4, cod_enabled),
			default_delivery_charge = COALESCE($5, default_delivery_charge),
			updated_at              = NOW()
		WHERE id = 1
		RETURNING ` + settingsColumns

	var s Settings
	err := r.db.QueryRowContext(ctx, q,
		in.TownName, in.IsOpenForDelivery, in.NightOrdersEnabled,
		in.CODEnabled, in.DefaultDeliveryCharge,
	).Scan(
		&s.TownName, &s.IsOpenForDelivery, &s.NightOrdersEnabled,
		&s.CODEnabled, &s.DefaultDeliveryCharge, &s.UpdatedAt,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("settings update failed", zap.Error(err))
		return nil, err
	}
	return &s, nil
}
