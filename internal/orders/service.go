package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

// AdminUpdateInput is the admin's partial order mutation. Nil fields are
// left untouched; the service diffs the rest against the stored order.
type AdminUpdateInput struct {
	Status         *string
	ShippingStatus *string
	TrackingNumber *string
	Carrier        *string
	ShippingNotes  *string
	PaymentStatus  *string
	TransactionID  *string
	PaymentNotes   *string
	Notes          *string
}

// UpdateResult reports the refreshed order and whether anything changed.
type UpdateResult struct {
	Order   *models.Order
	Changed bool
}

// Service exposes customer and admin order operations.
type Service interface {
	ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	SubmitPaymentReference(ctx context.Context, userID, orderID uuid.UUID, reference string) (*models.Order, error)

	ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*Page, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	AdminUpdate(ctx context.Context, orderID uuid.UUID, input AdminUpdateInput) (*UpdateResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService wires the orders service. All dependencies are required.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders: repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("orders: tx runner is required")
	}
	return &service{repo: repo, tx: tx, now: func() time.Time { return time.Now().UTC() }}, nil
}

func (s *service) ListMyOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	return s.repo.ListUserOrders(ctx, userID, params)
}

func (s *service) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.FindUserOrder(ctx, userID, orderID)
}

func (s *service) SubmitPaymentReference(ctx context.Context, userID, orderID uuid.UUID, reference string) (*models.Order, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a payment reference is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindUserOrder(ctx, userID, orderID)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment reference only applies to pending orders").
				WithDetails(map[string]any{"status": order.Status.String()})
		}

		if err := repo.UpdateOrder(ctx, order.ID, map[string]any{
			"status":            enums.OrderStatusPaid,
			"payment_reference": reference,
		}); err != nil {
			return err
		}

		paymentUpdates := map[string]any{
			"status":         enums.PaymentStatusProcessing,
			"transaction_id": reference,
		}
		if order.Payment == nil || order.Payment.PaidAt == nil {
			paymentUpdates["paid_at"] = s.now()
		}
		return repo.UpdatePayment(ctx, order.ID, paymentUpdates)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindUserOrder(ctx, userID, orderID)
}

func (s *service) ListOrders(ctx context.Context, params pagination.Params, filters Filters) (*Page, error) {
	if filters.Status != "" {
		if _, err := enums.ParseOrderStatus(filters.Status); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing status filter")
		}
	}
	return s.repo.ListOrders(ctx, params, filters)
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.FindOrder(ctx, orderID)
}

func (s *service) AdminUpdate(ctx context.Context, orderID uuid.UUID, input AdminUpdateInput) (*UpdateResult, error) {
	changed := false

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			return err
		}

		orderUpdates := map[string]any{}
		if input.Status != nil {
			next, err := enums.ParseOrderStatus(*input.Status)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing order status")
			}
			if next != order.Status {
				if !canTransition(order.Status, next) {
					return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition disallowed").
						WithDetails(map[string]any{"from": order.Status.String(), "to": next.String()})
				}
				orderUpdates["status"] = next
			}
		}
		if input.Notes != nil && *input.Notes != order.Notes {
			orderUpdates["notes"] = *input.Notes
		}

		shippingUpdates, err := s.shippingUpdates(order, input)
		if err != nil {
			return err
		}
		paymentUpdates, err := s.paymentUpdates(order, input)
		if err != nil {
			return err
		}

		// payment completion copies the reference onto the order
		if txID, ok := paymentUpdates["transaction_id"].(string); ok && order.PaymentReference == "" {
			orderUpdates["payment_reference"] = txID
		}

		if len(orderUpdates) > 0 {
			if err := repo.UpdateOrder(ctx, order.ID, orderUpdates); err != nil {
				return err
			}
			changed = true
		}
		if len(shippingUpdates) > 0 {
			if err := repo.UpdateShipping(ctx, order.ID, shippingUpdates); err != nil {
				return err
			}
			changed = true
		}
		if len(paymentUpdates) > 0 {
			if err := repo.UpdatePayment(ctx, order.ID, paymentUpdates); err != nil {
				return err
			}
			changed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Order: order, Changed: changed}, nil
}

func (s *service) shippingUpdates(order *models.Order, input AdminUpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	shipping := order.Shipping
	if shipping == nil {
		if input.ShippingStatus == nil && input.TrackingNumber == nil && input.Carrier == nil && input.ShippingNotes == nil {
			return updates, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no shipping record")
	}

	if input.ShippingStatus != nil {
		next, err := enums.ParseShippingStatus(*input.ShippingStatus)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing shipping status")
		}
		if next != shipping.Status {
			updates["status"] = next
			// timestamps are stamped exactly once
			if next == enums.ShippingStatusShipped && shipping.ShippedAt == nil {
				updates["shipped_at"] = s.now()
			}
			if next == enums.ShippingStatusDelivered && shipping.DeliveredAt == nil {
				updates["delivered_at"] = s.now()
			}
		}
	}
	if input.TrackingNumber != nil && *input.TrackingNumber != shipping.TrackingNumber {
		updates["tracking_number"] = *input.TrackingNumber
	}
	if input.Carrier != nil && *input.Carrier != shipping.Carrier {
		updates["carrier"] = *input.Carrier
	}
	if input.ShippingNotes != nil && *input.ShippingNotes != shipping.Notes {
		updates["notes"] = *input.ShippingNotes
	}
	return updates, nil
}

func (s *service) paymentUpdates(order *models.Order, input AdminUpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	payment := order.Payment
	if payment == nil {
		if input.PaymentStatus == nil && input.TransactionID == nil && input.PaymentNotes == nil {
			return updates, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order has no payment record")
	}

	if input.PaymentStatus != nil {
		next, err := enums.ParsePaymentStatus(*input.PaymentStatus)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parsing payment status")
		}
		if next != payment.Status {
			updates["status"] = next
			if next == enums.PaymentStatusCompleted && payment.PaidAt == nil {
				updates["paid_at"] = s.now()
			}
		}
	}
	if input.TransactionID != nil && *input.TransactionID != payment.TransactionID {
		updates["transaction_id"] = *input.TransactionID
	}
	if input.PaymentNotes != nil && *input.PaymentNotes != payment.Notes {
		updates["notes"] = *input.PaymentNotes
	}
	return updates, nil
}

// canTransition encodes the order lifecycle: forward one step at a time,
// cancellable from any non-terminal state.
func canTransition(from, to enums.OrderStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == enums.OrderStatusCancelled {
		return true
	}
	switch from {
	case enums.OrderStatusPending:
		return to == enums.OrderStatusPaid
	case enums.OrderStatusPaid:
		return to == enums.OrderStatusShipped
	case enums.OrderStatusShipped:
		return to == enums.OrderStatusDelivered
	default:
		return false
	}
}
