package product

import "time"

type Product struct {
	ID     int64 `json:"id"`
	ShopID int64 `json:"shop_id"`

	Name        string  `json:"name"`
	Description *string `json:"description"`

	// Prices are paise (fixed two-decimal INR).
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discount_price"`

	Unit     string  `json:"unit"`
	ImageURL *string `json:"image_url"`

	InStock    bool `json:"in_stock"`
	IsFeatured bool `json:"is_featured"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice is what the customer pays per unit.
func (p *Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil && *p.DiscountPrice > 0 {
		return *p.DiscountPrice
	}
	return p.Price
}

type CreateProductInput struct {
	ShopID        int64   `json:"shop_id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	Price         int64   `json:"price"`
	DiscountPrice *int64  `json:"discount_price"`
	Unit          string  `json:"unit"`
	ImageURL      *string `json:"image_url"`
	InStock       *bool   `json:"in_stock"`
	IsFeatured    *bool   `json:"is_featured"`
}

type UpdateProductInput struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Price         *int64  `json:"price"`
	DiscountPrice *int64  `json:"discount_price"`
	Unit          *string `json:"unit"`
	ImageURL      *string `json:"image_url"`
	IsFeatured    *bool   `json:"is_featured"`
}

// ShopInfo is the slice of the owning shop a product decision needs.
type ShopInfo struct {
	ID       int64
	OwnerUID string
	Status   string
	IsActive bool
	IsOpen   bool
}

func (s *ShopInfo) Visible() bool {
	return s.Status == "approved" && s.IsActive && s.IsOpen
}
