package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
)

// PaymentInfo is the single manual-payment record attached to every order.
// Amount mirrors Order.Total; PaidAt is stamped at most once.
type PaymentInfo struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:'pending'"`
	TransactionID string              `gorm:"column:transaction_id"`
	PaidAt        *time.Time          `gorm:"column:paid_at"`
	Notes         string              `gorm:"column:notes"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
