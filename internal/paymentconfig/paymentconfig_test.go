package paymentconfig

import (
	"context"
	"testing"

	"github.com/google/uuid"
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

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := "file:paymentconfig_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PaymentConfig{}))

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func validInput() Input {
	return Input{
		BankName:      strPtr("BBVA"),
		AccountName:   strPtr("GaiaCare SA de CV"),
		AccountNumber: strPtr("0123456789"),
		CLABE:         strPtr("012345678901234567"),
		Instructions:  strPtr("Enviar comprobante por correo"),
	}
}

func TestCreateActivatesAndDeactivatesOthers(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second := validInput()
	second.BankName = strPtr("Santander")
	created, err := svc.Create(ctx, second)
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	active, err := svc.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, active.ID)

	refreshed, err := svc.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.IsActive)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	input := validInput()
	input.BankName = strPtr("  ")
	_, err := svc.Create(ctx, input)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	input = validInput()
	input.CLABE = strPtr("123")
	_, err = svc.Create(ctx, input)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateReactivation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	second := validInput()
	second.BankName = strPtr("Santander")
	latest, err := svc.Create(ctx, second)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, first.ID, Input{IsActive: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)

	refreshed, err := svc.Get(ctx, latest.ID)
	require.NoError(t, err)
	assert.False(t, refreshed.IsActive)
}

func TestGetActiveWhenNoneConfigured(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetActive(context.Background())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cfg, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, cfg.ID))

	err = svc.Delete(ctx, cfg.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
