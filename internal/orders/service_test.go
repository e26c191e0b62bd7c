package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingInfo{},
		&models.PaymentInfo{},
	))
	return db
}

func newOrdersService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func seedOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus) *models.Order {
	t.Helper()
	total := decimal.RequireFromString("480.00")
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		FullName:      "Ana Torres",
		Email:         "ana@example.com",
		Address:       "Av. Reforma 1",
		City:          "CDMX",
		State:         "CDMX",
		PostalCode:    "06600",
		Status:        status,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		Subtotal:      decimal.RequireFromString("380.00"),
		ShippingCost:  decimal.RequireFromString("100.00"),
		Total:         total,
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductID: uuid.New(), Name: "Aceite", Price: decimal.RequireFromString("190.00"), Quantity: 2},
		},
		Shipping: &models.ShippingInfo{ID: uuid.New(), Status: enums.ShippingStatusPending},
		Payment:  &models.PaymentInfo{ID: uuid.New(), Amount: total, Status: enums.PaymentStatusPending},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func strPtr(s string) *string { return &s }

func TestListMyOrdersScopedToUser(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	mine := uuid.New()
	other := uuid.New()

	seedOrder(t, db, mine, enums.OrderStatusPending)
	seedOrder(t, db, mine, enums.OrderStatusPaid)
	seedOrder(t, db, other, enums.OrderStatusPending)

	page, err := svc.ListMyOrders(context.Background(), mine, pagination.Params{})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
}

func TestGetMyOrderOwnershipMismatchIsNotFound(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPending)

	_, err := svc.GetMyOrder(context.Background(), uuid.New(), order.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestSubmitPaymentReference(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	userID := uuid.New()
	order := seedOrder(t, db, userID, enums.OrderStatusPending)
	ctx := context.Background()

	updated, err := svc.SubmitPaymentReference(ctx, userID, order.ID, "REF-12345")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, updated.Status)
	assert.Equal(t, "REF-12345", updated.PaymentReference)
	require.NotNil(t, updated.Payment)
	assert.Equal(t, enums.PaymentStatusProcessing, updated.Payment.Status)
	assert.Equal(t, "REF-12345", updated.Payment.TransactionID)
	require.NotNil(t, updated.Payment.PaidAt)

	// a second submission hits the state guard
	_, err = svc.SubmitPaymentReference(ctx, userID, order.ID, "REF-67890")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSubmitPaymentReferenceRequiresValue(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	userID := uuid.New()
	order := seedOrder(t, db, userID, enums.OrderStatusPending)

	_, err := svc.SubmitPaymentReference(context.Background(), userID, order.ID, "   ")
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminUpdateStatusProgression(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPending)
	ctx := context.Background()

	for _, next := range []string{"paid", "shipped", "delivered"} {
		result, err := svc.AdminUpdate(ctx, order.ID, AdminUpdateInput{Status: strPtr(next)})
		require.NoError(t, err, "transition to %s", next)
		assert.True(t, result.Changed)
		assert.Equal(t, next, result.Order.Status.String())
	}

	// delivered is terminal
	_, err := svc.AdminUpdate(ctx, order.ID, AdminUpdateInput{Status: strPtr("cancelled")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAdminUpdateRejectsSkippedStates(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPending)

	_, err := svc.AdminUpdate(context.Background(), order.ID, AdminUpdateInput{Status: strPtr("delivered")})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestAdminUpdateCancelFromNonTerminal(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusShipped)

	result, err := svc.AdminUpdate(context.Background(), order.ID, AdminUpdateInput{Status: strPtr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCancelled, result.Order.Status)
}

func TestAdminUpdateSameStatusIsNoOp(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPaid)

	result, err := svc.AdminUpdate(context.Background(), order.ID, AdminUpdateInput{Status: strPtr("paid")})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, enums.OrderStatusPaid, result.Order.Status)
}

func TestAdminUpdateStampsShippingTimestampsOnce(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPaid)
	ctx := context.Background()

	result, err := svc.AdminUpdate(ctx, order.ID, AdminUpdateInput{
		ShippingStatus: strPtr("shipped"),
		TrackingNumber: strPtr("TN-001"),
		Carrier:        strPtr("Estafeta"),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order.Shipping.ShippedAt)
	firstStamp := *result.Order.Shipping.ShippedAt

	// bounce the status away and back; the stamp must not move
	_, err = svc.AdminUpdate(ctx, order.ID, AdminUpdateInput{ShippingStatus: strPtr("processing")})
	require.NoError(t, err)
	result, err = svc.AdminUpdate(ctx, order.ID, AdminUpdateInput{ShippingStatus: strPtr("shipped")})
	require.NoError(t, err)
	require.NotNil(t, result.Order.Shipping.ShippedAt)
	assert.True(t, firstStamp.Equal(*result.Order.Shipping.ShippedAt))
}

func TestAdminUpdatePaymentCompletedStampsAndCopiesReference(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	order := seedOrder(t, db, uuid.New(), enums.OrderStatusPending)

	result, err := svc.AdminUpdate(context.Background(), order.ID, AdminUpdateInput{
		PaymentStatus: strPtr("completed"),
		TransactionID: strPtr("TX-999"),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, result.Order.Payment.Status)
	require.NotNil(t, result.Order.Payment.PaidAt)
	assert.Equal(t, "TX-999", result.Order.PaymentReference)
}

func TestListOrdersFilters(t *testing.T) {
	db := newOrdersTestDB(t)
	svc := newOrdersService(t, db)
	ctx := context.Background()

	seedOrder(t, db, uuid.New(), enums.OrderStatusPending)
	paid := seedOrder(t, db, uuid.New(), enums.OrderStatusPaid)

	page, err := svc.ListOrders(ctx, pagination.Params{}, Filters{Status: "paid"})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, paid.ID, page.Orders[0].ID)

	page, err = svc.ListOrders(ctx, pagination.Params{}, Filters{Search: "ana@example.com"})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)

	_, err = svc.ListOrders(ctx, pagination.Params{}, Filters{Status: "bogus"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
