package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

// Filters narrows the admin order listing.
type Filters struct {
	Status string
	// Search matches the order id prefix, buyer name, or email.
	Search string
	From   *time.Time
	To     *time.Time
}

// Page is one cursor-paged slice of orders.
type Page struct {
	Orders     []models.Order
	NextCursor string
}

// Repository is the persistence surface for order reads and updates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*Page, error)

	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)

	UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdateShipping(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
	UpdatePayment(ctx context.Context, orderID uuid.UUID, updates map[string]any) error
}
