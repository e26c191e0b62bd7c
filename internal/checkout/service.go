package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/internal/notifications"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/config"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

// Input carries the buyer-facing checkout form. Empty contact fields fall
// back to the buyer's stored profile.
type Input struct {
	FullName      string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	PostalCode    string
	Notes         string
	PaymentMethod string
}

// Result is the order-complete payload: the frozen order plus the active
// bank details the buyer needs to settle it.
type Result struct {
	Order       *models.Order
	BankDetails *models.PaymentConfig
}

// Service turns a cart into an order.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input Input) (*Result, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier notifications.Service
	cfg      config.CheckoutConfig
	logg     *logger.Logger
}

// NewService wires the checkout service. All dependencies are required.
func NewService(repo Repository, tx txRunner, notifier notifications.Service, cfg config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout: repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("checkout: tx runner is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("checkout: notifier is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout: logger is required")
	}
	return &service{repo: repo, tx: tx, notifier: notifier, cfg: cfg, logg: logg}, nil
}

func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input Input) (*Result, error) {
	method := enums.PaymentMethodBankTransfer
	if raw := strings.TrimSpace(input.PaymentMethod); raw != "" {
		parsed, err := enums.ParsePaymentMethod(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing payment method")
		}
		method = parsed
	}

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindUser(ctx, userID)
		if err != nil {
			return err
		}

		cart, err := repo.FindUserCart(ctx, userID)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
			}
			return err
		}
		if len(cart.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order, err = s.buildOrder(user, method, input, cart.Items)
		if err != nil {
			return err
		}

		for _, item := range cart.Items {
			taken, err := repo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !taken {
				name := ""
				if item.Product != nil {
					name = item.Product.Name
				}
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock at checkout").
					WithDetails(map[string]any{"product_id": item.ProductID, "product_name": name})
			}
		}

		if err := repo.CreateOrder(ctx, order); err != nil {
			return err
		}
		return repo.ClearCartItems(ctx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendOrderConfirmation(ctx, order)

	result := &Result{Order: order}
	bank, err := s.repo.FindActivePaymentConfig(ctx)
	if err == nil {
		result.BankDetails = bank
	} else if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		s.logg.Error(ctx, "loading bank details for order-complete payload", err)
	}
	return result, nil
}

// buildOrder freezes the cart into an order: contact fields from the form
// with profile fallback, line prices copied from the products as of now.
func (s *service) buildOrder(user *models.User, method enums.PaymentMethod, input Input, items []models.CartItem) (*models.Order, error) {
	subtotal := decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart item missing product")
		}
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		lines = append(lines, models.OrderItem{
			ID:        uuid.New(),
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		})
	}

	shipping := s.cfg.ShippingRate()
	total := subtotal.Add(shipping)

	order := &models.Order{
		ID:            uuid.New(),
		UserID:        user.ID,
		FullName:      fallback(input.FullName, user.FullName()),
		Email:         fallback(input.Email, user.Email),
		Phone:         fallback(input.Phone, user.Phone),
		Address:       fallback(input.Address, user.Address),
		City:          fallback(input.City, user.City),
		State:         fallback(input.State, user.State),
		PostalCode:    fallback(input.PostalCode, user.PostalCode),
		Status:        enums.OrderStatusPending,
		PaymentMethod: method,
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Total:         total,
		Notes:         strings.TrimSpace(input.Notes),
		Items:         lines,
		Shipping: &models.ShippingInfo{
			ID:     uuid.New(),
			Status: enums.ShippingStatusPending,
		},
		Payment: &models.PaymentInfo{
			ID:     uuid.New(),
			Amount: total,
			Status: enums.PaymentStatusPending,
		},
	}

	if order.Address == "" || order.City == "" || order.State == "" || order.PostalCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a complete shipping address is required")
	}
	return order, nil
}

func fallback(value, def string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return strings.TrimSpace(def)
}
