package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
)

// Order is the frozen record of a completed checkout. Contact fields are a
// snapshot of the buyer at purchase time; line prices never change after
// creation.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	FullName         string              `gorm:"column:full_name;not null"`
	Email            string              `gorm:"column:email;not null"`
	Phone            string              `gorm:"column:phone"`
	Address          string              `gorm:"column:address;not null"`
	City             string              `gorm:"column:city;not null"`
	State            string              `gorm:"column:state;not null"`
	PostalCode       string              `gorm:"column:postal_code;not null"`
	Status           enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;not null;default:'bank_transfer'"`
	Subtotal         decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	ShippingCost     decimal.Decimal     `gorm:"column:shipping_cost;type:numeric(10,2);not null;default:0"`
	Total            decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentReference string              `gorm:"column:payment_reference"`
	Notes            string              `gorm:"column:notes"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipping         *ShippingInfo       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Payment          *PaymentInfo        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
