package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
)

// ShippingInfo is the single shipment record attached to every order.
// ShippedAt and DeliveredAt are stamped at most once.
type ShippingInfo struct {
	ID             uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Status         enums.ShippingStatus `gorm:"column:status;not null;default:'pending'"`
	TrackingNumber string               `gorm:"column:tracking_number"`
	Carrier        string               `gorm:"column:carrier"`
	ShippedAt      *time.Time           `gorm:"column:shipped_at"`
	DeliveredAt    *time.Time           `gorm:"column:delivered_at"`
	Notes          string               `gorm:"column:notes"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
