package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
)

// Identity names the owner of a cart: exactly one of an authenticated user
// or an anonymous session token.
type Identity struct {
	UserID    *uuid.UUID
	SessionID *string
}

// Valid reports whether exactly one identity leg is set.
func (id Identity) Valid() bool {
	return (id.UserID != nil) != (id.SessionID != nil && *id.SessionID != "")
}

// Repository is the persistence surface for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindCart(ctx context.Context, identity Identity) (*models.Cart, error)
	CreateCart(ctx context.Context, cart *models.Cart) error
	TouchCart(ctx context.Context, cartID uuid.UUID) error

	FindItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error)
	FindItemByProduct(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error

	FindProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
}
