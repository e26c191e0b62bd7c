package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage stores an opaque storage key for one product picture.
type ProductImage struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Key       string    `gorm:"column:key;not null"`
	AltText   string    `gorm:"column:alt_text"`
	IsMain    bool      `gorm:"column:is_main;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
