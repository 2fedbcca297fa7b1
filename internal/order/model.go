package order

import "time"

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

const (
	PaymentMethodCOD = "cod"

	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order is the central entity. Name fields are snapshots written once at the
// event that establishes the relation and never refreshed afterwards, so
// historic orders stay readable after profile edits.
type Order struct {
	ID          int64  `json:"id"`
	OrderNumber string `json:"order_number"`

	CustomerUID   string `json:"customer_uid"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`

	ShopID       int64  `json:"shop_id"`
	ShopName     string `json:"shop_name"`
	ShopOwnerUID string `json:"-"`

	DeliveryPartnerUID  *string `json:"delivery_partner_uid"`
	DeliveryPartnerName *string `json:"delivery_partner_name"`

	DeliveryAddress string  `json:"delivery_address"`
	DeliveryArea    *string `json:"delivery_area"`
	DeliveryTown    string  `json:"delivery_town"`

	Items []OrderItem `json:"items"`

	// Monetary values are paise (fixed two-decimal INR).
	Subtotal       int64 `json:"subtotal"`
	DeliveryCharge int64 `json:"delivery_charge"`
	Total          int64 `json:"total"`

	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`

	Status Status `json:"status"`

	CustomerNote *string `json:"customer_note"`
	SellerNote   *string `json:"seller_note"`

	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedAt  *time.Time `json:"confirmed_at"`
	PreparingAt  *time.Time `json:"preparing_at"`
	ReadyAt      *time.Time `json:"ready_at"`
	DispatchedAt *time.Time `json:"dispatched_at"`
	DeliveredAt  *time.Time `json:"delivered_at"`
	CancelledAt  *time.Time `json:"cancelled_at"`
}

// Assigned reports whether a delivery partner currently holds the order.
func (o *Order) Assigned() bool {
	return o.DeliveryPartnerUID != nil && *o.DeliveryPartnerUID != ""
}

func (o *Order) AssignedTo(uid string) bool {
	return o.DeliveryPartnerUID != nil && *o.DeliveryPartnerUID == uid
}

type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`

	// Snapshots captured at placement.
	ProductName     string  `json:"product_name"`
	ProductImageURL *string `json:"product_image_url"`

	Quantity   int   `json:"quantity"`
	UnitPrice  int64 `json:"unit_price"`
	TotalPrice int64 `json:"total_price"`
}

type PlaceOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type PlaceOrderInput struct {
	ShopID          int64            `json:"shop_id"`
	Items           []PlaceOrderItem `json:"items"`
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	DeliveryAddress string           `json:"delivery_address"`
	DeliveryArea    *string          `json:"delivery_area"`
	DeliveryTown    string           `json:"delivery_town"`
	PaymentMethod   string           `json:"payment_method"`
	CustomerNote    *string          `json:"customer_note"`
}

// ListFilter narrows order listings. Available selects the rider broadcast
// queue: ready orders nobody has claimed yet.
type ListFilter struct {
	ShopID      *int64
	CustomerUID *string
	DeliveryUID *string
	Status      *Status
	Available   bool
	// ActiveOnly keeps preparing, ready and out_for_delivery orders.
	ActiveOnly bool
	Limit      int32
}

// DeliveryStats summarises a partner's completed work. Earnings are the
// delivery charges of delivered orders, in paise.
type DeliveryStats struct {
	TodayCount    int64 `json:"today_count"`
	TodayEarnings int64 `json:"today_earnings"`
	MonthCount    int64 `json:"month_count"`
	MonthEarnings int64 `json:"month_earnings"`
	ActiveCount   int64 `json:"active_count"`
}

// ShopInfo is the slice of the shop relevant to placement and guards.
type ShopInfo struct {
	ID       int64
	OwnerUID string
	Name     string
	Status   string
	IsActive bool
	IsOpen   bool
}

// PlacementProduct is a fresh product read used to price an order; client
// supplied prices are never trusted.
type PlacementProduct struct {
	ID       int64
	ShopID   int64
	Name     string
	ImageURL *string
	// Unit price after discounts, paise.
	Price   int64
	InStock bool
}

// RiderInfo is the delivery-user slice checked before an assignment.
type RiderInfo struct {
	UID      string
	Name     string
	Role     string
	IsActive bool
	IsOnline bool
}
