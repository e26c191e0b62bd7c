package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentConfig holds the bank details shown to customers after checkout.
// At most one row should be active at a time.
type PaymentConfig struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BankName      string    `gorm:"column:bank_name;not null"`
	AccountName   string    `gorm:"column:account_name;not null"`
	AccountNumber string    `gorm:"column:account_number;not null"`
	CLABE         string    `gorm:"column:clabe;not null"`
	Instructions  string    `gorm:"column:instructions"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
