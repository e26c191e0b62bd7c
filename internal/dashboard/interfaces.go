package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

// Counts are the headline entity totals.
type Counts struct {
	Products   int64
	Categories int64
	Customers  int64
	Orders     int64
}

// CustomerPage is one cursor-paged slice of customer accounts.
type CustomerPage struct {
	Customers  []models.User
	NextCursor string
}

// Repository is the read-only persistence surface behind the admin
// dashboard. Aggregations happen in the service over these raw reads.
type Repository interface {
	Counts(ctx context.Context) (*Counts, error)

	// FindSalesOrders returns orders in the revenue-bearing statuses
	// created on or after the given time.
	FindSalesOrders(ctx context.Context, since time.Time) ([]models.Order, error)
	FindRecentOrders(ctx context.Context, limit int) ([]models.Order, error)
	FindSoldItems(ctx context.Context) ([]models.OrderItem, error)

	ListCustomers(ctx context.Context, params pagination.Params, search string) (*CustomerPage, error)
	FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.User, error)
	FindCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
}
