package user

import (
	"encoding/json"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleDelivery = "delivery"
	RoleAdmin    = "admin"
)

func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleDelivery, RoleAdmin:
		return true
	}
	return false
}

// User is the local record synced from the identity gateway. UID is the
// gateway's stable subject id and is the primary handle everywhere.
type User struct {
	ID         int64           `json:"id"`
	UID        string          `json:"uid"`
	Name       *string         `json:"name"`
	Phone      *string         `json:"phone"`
	Email      *string         `json:"email"`
	Role       string          `json:"role"`
	Town       *string         `json:"town"`
	IsActive   bool            `json:"is_active"`
	IsOnline   bool            `json:"is_online"`
	IsEnrolled bool            `json:"is_enrolled"`
	RiderData  json.RawMessage `json:"rider_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type SyncInput struct {
	UID   string
	Email string
	Role  string
	Name  *string
	Phone *string
	Town  *string
}

type EnrollInput struct {
	UID       string          `json:"uid"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Email     *string         `json:"email"`
	Town      *string         `json:"town"`
	RiderData json.RawMessage `json:"rider_data"`
}

type UpdateProfileParams struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Town  *string `json:"town"`
}

// ProfileStats is the customer's lifetime order summary.
type ProfileStats struct {
	OrderCount      int64 `json:"order_count"`
	DeliveredCount  int64 `json:"delivered_count"`
	TotalSpentPaise int64 `json:"total_spent"`
}
