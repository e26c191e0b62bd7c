package paymentconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

// Input is the admin's partial payment-config mutation.
type Input struct {
	BankName      *string
	AccountName   *string
	AccountNumber *string
	CLABE         *string
	Instructions  *string
	IsActive      *bool
}

// Repository is the persistence surface for bank detail records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.PaymentConfig, error)
	Find(ctx context.Context, id uuid.UUID) (*models.PaymentConfig, error)
	FindActive(ctx context.Context) (*models.PaymentConfig, error)
	Create(ctx context.Context, cfg *models.PaymentConfig) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeactivateOthers(ctx context.Context, keepID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes bank detail management and the public active lookup.
type Service interface {
	List(ctx context.Context) ([]models.PaymentConfig, error)
	Get(ctx context.Context, id uuid.UUID) (*models.PaymentConfig, error)
	GetActive(ctx context.Context) (*models.PaymentConfig, error)
	Create(ctx context.Context, input Input) (*models.PaymentConfig, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.PaymentConfig, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment-config repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.PaymentConfig, error) {
	var configs []models.PaymentConfig
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&configs).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payment configs")
	}
	return configs, nil
}

func (r *repository) Find(ctx context.Context, id uuid.UUID) (*models.PaymentConfig, error) {
	var cfg models.PaymentConfig
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding payment config")
	}
	return &cfg, nil
}

func (r *repository) FindActive(ctx context.Context) (*models.PaymentConfig, error) {
	var cfg models.PaymentConfig
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active payment configuration")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding active payment config")
	}
	return &cfg, nil
}

func (r *repository) Create(ctx context.Context, cfg *models.PaymentConfig) error {
	if err := r.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment config")
	}
	return nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentConfig{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating payment config")
	}
	return nil
}

func (r *repository) DeactivateOthers(ctx context.Context, keepID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.PaymentConfig{}).
		Where("id <> ?", keepID).
		Update("is_active", false).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating payment configs")
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.PaymentConfig{})
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "deleting payment config")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "payment config not found")
	}
	return nil
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService wires the payment-config service. All dependencies are required.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("paymentconfig: repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("paymentconfig: tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context) ([]models.PaymentConfig, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.PaymentConfig, error) {
	return s.repo.Find(ctx, id)
}

func (s *service) GetActive(ctx context.Context) (*models.PaymentConfig, error) {
	return s.repo.FindActive(ctx)
}

func (s *service) Create(ctx context.Context, input Input) (*models.PaymentConfig, error) {
	cfg := &models.PaymentConfig{
		ID:       uuid.New(),
		IsActive: true,
	}
	applyString(&cfg.BankName, input.BankName)
	applyString(&cfg.AccountName, input.AccountName)
	applyString(&cfg.AccountNumber, input.AccountNumber)
	applyString(&cfg.CLABE, input.CLABE)
	applyString(&cfg.Instructions, input.Instructions)
	if input.IsActive != nil {
		cfg.IsActive = *input.IsActive
	}

	if cfg.BankName == "" || cfg.AccountName == "" || cfg.AccountNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bank name, account name, and account number are required")
	}
	if cfg.CLABE != "" && len(cfg.CLABE) != 18 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "CLABE must be 18 digits")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, cfg); err != nil {
			return err
		}
		if cfg.IsActive {
			// only one config may be active at a time
			return repo.DeactivateOthers(ctx, cfg.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.PaymentConfig, error) {
	updates := map[string]any{}
	if input.BankName != nil {
		updates["bank_name"] = strings.TrimSpace(*input.BankName)
	}
	if input.AccountName != nil {
		updates["account_name"] = strings.TrimSpace(*input.AccountName)
	}
	if input.AccountNumber != nil {
		updates["account_number"] = strings.TrimSpace(*input.AccountNumber)
	}
	if input.CLABE != nil {
		clabe := strings.TrimSpace(*input.CLABE)
		if clabe != "" && len(clabe) != 18 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "CLABE must be 18 digits")
		}
		updates["clabe"] = clabe
	}
	if input.Instructions != nil {
		updates["instructions"] = strings.TrimSpace(*input.Instructions)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Find(ctx, id); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := repo.Update(ctx, id, updates); err != nil {
			return err
		}
		if active, ok := updates["is_active"].(bool); ok && active {
			return repo.DeactivateOthers(ctx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Find(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func applyString(dst *string, value *string) {
	if value != nil {
		*dst = strings.TrimSpace(*value)
	}
}
