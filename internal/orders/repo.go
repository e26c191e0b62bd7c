package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListUserOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID)
	return r.pageOrders(ctx, query, params)
}

func (r *repository) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*Page, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Items").
		Preload("Shipping").
		Preload("Payment")

	if filters.Status != "" {
		query = query.Where("orders.status = ?", filters.Status)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"CAST(orders.id AS TEXT) LIKE ? OR LOWER(orders.full_name) LIKE ? OR LOWER(orders.email) LIKE ?",
			strings.ToLower(search)+"%", like, like,
		)
	}
	if filters.From != nil {
		query = query.Where("orders.created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("orders.created_at <= ?", *filters.To)
	}

	return r.pageOrders(ctx, query, params)
}

func (r *repository) pageOrders(ctx context.Context, query *gorm.DB, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = query.
		Order("orders.created_at DESC").
		Order("orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}

	page, hasMore := pagination.TrimPage(rows, params.Limit)
	result := &Page{Orders: page}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return r.findOrder(ctx, r.db.WithContext(ctx).Where("id = ?", orderID))
}

func (r *repository) FindUserOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return r.findOrder(ctx, r.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID))
}

func (r *repository) findOrder(ctx context.Context, query *gorm.DB) (*models.Order, error) {
	var order models.Order
	err := query.
		Preload("Items").
		Preload("Shipping").
		Preload("Payment").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding order")
	}
	return &order, nil
}

func (r *repository) UpdateOrder(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order")
	}
	return nil
}

func (r *repository) UpdateShipping(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.ShippingInfo{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating shipping info")
	}
	return nil
}

func (r *repository) UpdatePayment(ctx context.Context, orderID uuid.UUID, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentInfo{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment info")
	}
	return nil
}
