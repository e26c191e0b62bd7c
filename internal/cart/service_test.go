package cart

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
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

func newCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func newCartService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc
}

func seedCartProduct(t *testing.T, db *gorm.DB, price string, stock int) *models.Product {
	t.Helper()
	category := &models.Category{ID: uuid.New(), Name: "Test", Slug: uuid.NewString(), IsActive: true}
	require.NoError(t, db.Create(category).Error)

	amount, err := decimal.NewFromString(price)
	require.NoError(t, err)
	product := &models.Product{
		ID:         uuid.New(),
		CategoryID: category.ID,
		Name:       "Product",
		Slug:       uuid.NewString(),
		Price:      amount,
		Stock:      stock,
		Available:  true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func userIdentity() Identity {
	id := uuid.New()
	return Identity{UserID: &id}
}

func sessionIdentity() Identity {
	token := uuid.NewString()
	return Identity{SessionID: &token}
}

func TestIdentityRequiresExactlyOneLeg(t *testing.T) {
	userID := uuid.New()
	session := "abc"

	assert.True(t, Identity{UserID: &userID}.Valid())
	assert.True(t, Identity{SessionID: &session}.Valid())
	assert.False(t, Identity{}.Valid())
	assert.False(t, Identity{UserID: &userID, SessionID: &session}.Valid())
}

func TestGetCartReturnsEmptyViewWhenMissing(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)

	view, err := svc.GetCart(context.Background(), sessionIdentity())
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.Equal(t, 0, view.ItemCount)
	assert.True(t, view.Subtotal.IsZero())
}

func TestAddItemCreatesCartAndSumsQuantity(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "150.00", 10)
	identity := userIdentity()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, identity, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 2, view.Cart.Items[0].Quantity)

	// adding the same product again sums into the existing line
	view, err = svc.AddItem(ctx, identity, product.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 5, view.Cart.Items[0].Quantity)
	assert.Equal(t, 5, view.ItemCount)
	assert.True(t, view.Subtotal.Equal(decimal.RequireFromString("750.00")))
}

func TestAddItemRejectsOverStock(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "50.00", 3)
	identity := userIdentity()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, identity, product.ID, 2)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, identity, product.ID, 2)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestAddItemHidesUnavailableProduct(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "50.00", 3)
	require.NoError(t, db.Model(product).Update("available", false).Error)

	_, err := svc.AddItem(context.Background(), userIdentity(), product.ID, 1)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestChangeItemActions(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "20.00", 10)
	identity := sessionIdentity()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, identity, product.ID, 2)
	require.NoError(t, err)
	itemID := view.Cart.Items[0].ID

	view, err = svc.ChangeItem(ctx, identity, itemID, ActionIncrease, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Cart.Items[0].Quantity)

	view, err = svc.ChangeItem(ctx, identity, itemID, ActionSet, 8)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Cart.Items[0].Quantity)

	_, err = svc.ChangeItem(ctx, identity, itemID, ActionSet, 11)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	view, err = svc.ChangeItem(ctx, identity, itemID, ActionRemove, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
}

func TestDecreaseAtOneDeletesLine(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "20.00", 10)
	identity := userIdentity()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, identity, product.ID, 1)
	require.NoError(t, err)
	itemID := view.Cart.Items[0].ID

	view, err = svc.ChangeItem(ctx, identity, itemID, ActionDecrease, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
}

func TestChangeItemForeignCartIsNotFound(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "20.00", 10)
	ctx := context.Background()

	owner := userIdentity()
	view, err := svc.AddItem(ctx, owner, product.ID, 1)
	require.NoError(t, err)
	itemID := view.Cart.Items[0].ID

	intruder := userIdentity()
	_, err = svc.AddItem(ctx, intruder, product.ID, 1)
	require.NoError(t, err)

	_, err = svc.ChangeItem(ctx, intruder, itemID, ActionRemove, 0)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestClearKeepsCartRow(t *testing.T) {
	db := newCartTestDB(t)
	svc := newCartService(t, db)
	product := seedCartProduct(t, db, "20.00", 10)
	identity := userIdentity()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, identity, product.ID, 2)
	require.NoError(t, err)

	view, err := svc.Clear(ctx, identity)
	require.NoError(t, err)
	assert.Empty(t, view.Cart.Items)
	assert.True(t, view.Subtotal.IsZero())

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&carts).Error)
	assert.Equal(t, int64(1), carts)
}
