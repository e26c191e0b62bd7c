package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
)

// Repository is the persistence surface for accounts and profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) error
	StampLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}
