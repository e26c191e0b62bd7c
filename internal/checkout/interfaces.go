package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
)

// Repository is the persistence surface the checkout transaction runs over.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindUserCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)

	// DecrementStock atomically takes quantity units off the shelf. It
	// reports false when the product is gone, hidden, or short on stock.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)

	CreateOrder(ctx context.Context, order *models.Order) error
	ClearCartItems(ctx context.Context, cartID uuid.UUID) error

	FindActivePaymentConfig(ctx context.Context) (*models.PaymentConfig, error)
}
