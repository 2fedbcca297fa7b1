package address

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	ID      uuid.UUID `json:"id"`
	UserUID string    `json:"user_uid"`

	Label string `json:"label"`
	Name  string `json:"name"`
	Phone string `json:"phone"`

	Line1 string  `json:"line1"`
	Line2 *string `json:"line2"`

	Area    *string `json:"area"`
	Town    string  `json:"town"`
	Pincode *string `json:"pincode"`

	IsDefault bool `json:"is_default"`
	IsActive  bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

type CreateAddressInput struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Line1        string  `json:"line1"`
	Line2        *string `json:"line2"`
	Area         *string `json:"area"`
	Town         string  `json:"town"`
	Pincode      *string `json:"pincode"`
	SetAsDefault bool    `json:"set_as_default"`
}

type UpdateAddressInput struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone"`
	Line1        string  `json:"line1"`
	Line2        *string `json:"line2"`
	Area         *string `json:"area"`
	Town         string  `json:"town"`
	Pincode      *string `json:"pincode"`
	SetAsDefault bool    `json:"set_as_default"`
}
