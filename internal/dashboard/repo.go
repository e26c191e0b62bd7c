package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

// revenueStatuses are the order states that count toward sales numbers.
var revenueStatuses = []enums.OrderStatus{
	enums.OrderStatusPaid,
	enums.OrderStatusShipped,
	enums.OrderStatusDelivered,
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Counts(ctx context.Context) (*Counts, error) {
	var counts Counts
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Count(&counts.Products).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if err := db.Model(&models.Category{}).Count(&counts.Categories).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting categories")
	}
	err := db.Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer).
		Count(&counts.Customers).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
	}
	if err := db.Model(&models.Order{}).Count(&counts.Orders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}
	return &counts, nil
}

func (r *repository) FindSalesOrders(ctx context.Context, since time.Time) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Where("status IN ?", revenueStatuses)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sales orders")
	}
	return orders, nil
}

func (r *repository) FindRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent orders")
	}
	return orders, nil
}

func (r *repository) FindSoldItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", revenueStatuses).
		Find(&items).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sold items")
	}
	return items, nil
}

func (r *repository) ListCustomers(ctx context.Context, params pagination.Params, search string) (*CustomerPage, error) {
	query := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer)

	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like,
		)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.User
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	result := &CustomerPage{Customers: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (r *repository) FindCustomer(ctx context.Context, customerID uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("id = ? AND role = ?", customerID, enums.UserRoleCustomer).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding customer")
	}
	return &user, nil
}

func (r *repository) FindCustomerOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer orders")
	}
	return orders, nil
}
