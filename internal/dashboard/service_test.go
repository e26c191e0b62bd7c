package dashboard

import (
	"context"
	"testing"
	"time"

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

func newDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:dashboard_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func newDashboardService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func seedCustomer(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Cliente",
		LastName:     "Prueba",
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedSale(t *testing.T, db *gorm.DB, userID uuid.UUID, status enums.OrderStatus, total string, items ...models.OrderItem) *models.Order {
	t.Helper()
	for i := range items {
		items[i].ID = uuid.New()
	}
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		FullName:      "Cliente Prueba",
		Email:         "cliente@example.com",
		Address:       "Calle 1",
		City:          "CDMX",
		State:         "CDMX",
		PostalCode:    "06600",
		Status:        status,
		PaymentMethod: enums.PaymentMethodBankTransfer,
		Subtotal:      decimal.RequireFromString(total),
		Total:         decimal.RequireFromString(total),
		Items:         items,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOverviewCountsAndTotalSales(t *testing.T) {
	db := newDashboardTestDB(t)
	svc := newDashboardService(t, db)
	customer := seedCustomer(t, db, "a@example.com")

	category := &models.Category{ID: uuid.New(), Name: "Oils", Slug: "oils", IsActive: true}
	require.NoError(t, db.Create(category).Error)
	require.NoError(t, db.Create(&models.Product{
		ID: uuid.New(), CategoryID: category.ID, Name: "Oil", Slug: "oil",
		Price: decimal.RequireFromString("150.00"), Stock: 5, Available: true,
	}).Error)

	seedSale(t, db, customer.ID, enums.OrderStatusPaid, "100.00")
	seedSale(t, db, customer.ID, enums.OrderStatusShipped, "200.00")
	seedSale(t, db, customer.ID, enums.OrderStatusDelivered, "300.00")
	// neither pending nor cancelled counts toward sales
	seedSale(t, db, customer.ID, enums.OrderStatusPending, "1000.00")
	seedSale(t, db, customer.ID, enums.OrderStatusCancelled, "1000.00")

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview.Counts.Products)
	assert.Equal(t, int64(1), overview.Counts.Categories)
	assert.Equal(t, int64(1), overview.Counts.Customers)
	assert.Equal(t, int64(5), overview.Counts.Orders)
	assert.True(t, overview.TotalSales.Equal(decimal.RequireFromString("600.00")))
	assert.Len(t, overview.RecentOrders, 5)
}

func TestOverviewTopProductsByUnits(t *testing.T) {
	db := newDashboardTestDB(t)
	svc := newDashboardService(t, db)
	customer := seedCustomer(t, db, "a@example.com")

	bestSeller := uuid.New()
	runnerUp := uuid.New()
	seedSale(t, db, customer.ID, enums.OrderStatusPaid, "100.00",
		models.OrderItem{ProductID: bestSeller, Name: "Aceite", Price: decimal.RequireFromString("10.00"), Quantity: 5},
		models.OrderItem{ProductID: runnerUp, Name: "Té", Price: decimal.RequireFromString("50.00"), Quantity: 1},
	)
	seedSale(t, db, customer.ID, enums.OrderStatusDelivered, "100.00",
		models.OrderItem{ProductID: bestSeller, Name: "Aceite", Price: decimal.RequireFromString("10.00"), Quantity: 2},
	)
	// cancelled orders never count
	seedSale(t, db, customer.ID, enums.OrderStatusCancelled, "100.00",
		models.OrderItem{ProductID: runnerUp, Name: "Té", Price: decimal.RequireFromString("50.00"), Quantity: 9},
	)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.TopProducts, 2)

	top := overview.TopProducts[0]
	assert.Equal(t, bestSeller, top.ProductID)
	assert.Equal(t, 7, top.Units)
	assert.True(t, top.Revenue.Equal(decimal.RequireFromString("70.00")))
	assert.Equal(t, 1, overview.TopProducts[1].Units)
}

func TestOverviewSalesByDayWindow(t *testing.T) {
	db := newDashboardTestDB(t)
	svc := newDashboardService(t, db)
	customer := seedCustomer(t, db, "a@example.com")

	seedSale(t, db, customer.ID, enums.OrderStatusPaid, "150.00")
	seedSale(t, db, customer.ID, enums.OrderStatusPaid, "50.00")

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Len(t, overview.SalesByDay, 7)

	today := time.Now().UTC().Format("2006-01-02")
	last := overview.SalesByDay[6]
	assert.Equal(t, today, last.Date)
	assert.Equal(t, 2, last.Orders)
	assert.True(t, last.Total.Equal(decimal.RequireFromString("200.00")))

	for _, day := range overview.SalesByDay[:6] {
		assert.Zero(t, day.Orders)
		assert.True(t, day.Total.IsZero())
	}
}

func TestListCustomersSearchAndPaging(t *testing.T) {
	db := newDashboardTestDB(t)
	svc := newDashboardService(t, db)

	seedCustomer(t, db, "maria@example.com")
	seedCustomer(t, db, "jorge@example.com")
	admin := seedCustomer(t, db, "admin@example.com")
	require.NoError(t, db.Model(admin).Update("role", enums.UserRoleAdmin).Error)

	page, err := svc.ListCustomers(context.Background(), pagination.Params{}, "")
	require.NoError(t, err)
	assert.Len(t, page.Customers, 2, "admins are not customers")

	page, err = svc.ListCustomers(context.Background(), pagination.Params{}, "maria")
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	assert.Equal(t, "maria@example.com", page.Customers[0].Email)
}

func TestGetCustomerDetail(t *testing.T) {
	db := newDashboardTestDB(t)
	svc := newDashboardService(t, db)
	customer := seedCustomer(t, db, "maria@example.com")
	seedSale(t, db, customer.ID, enums.OrderStatusPaid, "100.00")

	detail, err := svc.GetCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, detail.Customer.ID)
	assert.Len(t, detail.Orders, 1)

	_, err = svc.GetCustomer(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
