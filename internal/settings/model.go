package settings

import "time"

// Settings is the single process-wide town configuration record. Writes are
// last-writer-wins; order placement reads it on every request.
type Settings struct {
	TownName              string    `json:"town_name"`
	IsOpenForDelivery     bool      `json:"is_open_for_delivery"`
	NightOrdersEnabled    bool      `json:"night_orders_enabled"`
	CODEnabled            bool      `json:"cod_enabled"`
	DefaultDeliveryCharge int64     `json:"default_delivery_charge"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type UpdateInput struct {
	TownName              *string `json:"town_name"`
	IsOpenForDelivery     *bool   `json:"is_open_for_delivery"`
	NightOrdersEnabled    *bool   `json:"night_orders_enabled"`
	CODEnabled            *bool   `json:"cod_enabled"`
	DefaultDeliveryCharge *int64  `json:"default_delivery_charge"`
}
