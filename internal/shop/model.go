package shop

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Shop struct {
	ID         int64  `json:"id"`
	OwnerUID   string `json:"owner_uid"`
	OwnerName  string `json:"owner_name"`
	OwnerPhone string `json:"owner_phone"`

	Name        string  `json:"name"`
	Description *string `json:"description"`

	CategoryID   *int64  `json:"category_id"`
	CategoryName *string `json:"category_name,omitempty"`

	Address string  `json:"address"`
	Town    string  `json:"town"`
	Area    *string `json:"area"`
	Pincode *string `json:"pincode"`

	Phone    string  `json:"phone"`
	Whatsapp *string `json:"whatsapp"`

	LogoURL   *string `json:"logo_url"`
	BannerURL *string `json:"banner_url"`

	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`

	Status          Status  `json:"status"`
	RejectionReason *string `json:"rejection_reason"`
	IsActive        bool    `json:"is_active"`
	IsOpen          bool    `json:"is_open"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visible reports whether customers may browse this shop and its products.
func (s *Shop) Visible() bool {
	return s.Status == StatusApproved && s.IsActive && s.IsOpen
}

type Category struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Icon         *string `json:"icon"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}

type CreateShopInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"category_id"`
	Address     string  `json:"address"`
	Town        string  `json:"town"`
	Area        *string `json:"area"`
	Pincode     *string `json:"pincode"`
	Phone       string  `json:"phone"`
	Whatsapp    *string `json:"whatsapp"`
	OwnerName   string  `json:"owner_name"`
	OwnerPhone  string  `json:"owner_phone"`
	LogoURL     *string `json:"logo_url"`
	BannerURL   *string `json:"banner_url"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
}

type UpdateShopInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"category_id"`
	Address     *string `json:"address"`
	Area        *string `json:"area"`
	Pincode     *string `json:"pincode"`
	Phone       *string `json:"phone"`
	Whatsapp    *string `json:"whatsapp"`
	LogoURL     *string `json:"logo_url"`
	BannerURL   *string `json:"banner_url"`
	OpeningTime *string `json:"opening_time"`
	ClosingTime *string `json:"closing_time"`
}

// AdminStats backs the town officer dashboard counters.
type AdminStats struct {
	TotalShops     int64 `json:"total_shops"`
	PendingShops   int64 `json:"pending_shops"`
	ApprovedShops  int64 `json:"approved_shops"`
	RejectedShops  int64 `json:"rejected_shops"`
	OrdersToday    int64 `json:"orders_today"`
	OnlinePartners int64 `json:"online_partners"`
}
