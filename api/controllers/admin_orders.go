package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/validators"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/orders"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

type adminOrderPayload struct {
	Status         *string `json:"status,omitempty" validate:"omitempty,oneof=pending paid shipped delivered cancelled"`
	ShippingStatus *string `json:"shipping_status,omitempty" validate:"omitempty,oneof=pending processing shipped delivered returned"`
	TrackingNumber *string `json:"tracking_number,omitempty" validate:"omitempty,max=100"`
	Carrier        *string `json:"carrier,omitempty" validate:"omitempty,max=100"`
	ShippingNotes  *string `json:"shipping_notes,omitempty" validate:"omitempty,max=2000"`
	PaymentStatus  *string `json:"payment_status,omitempty" validate:"omitempty,oneof=pending processing completed failed refunded"`
	TransactionID  *string `json:"transaction_id,omitempty" validate:"omitempty,max=100"`
	PaymentNotes   *string `json:"payment_notes,omitempty" validate:"omitempty,max=2000"`
	Notes          *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// AdminListOrders returns the filtered, paginated admin order list.
func AdminListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := orders.Filters{
			Status: strings.TrimSpace(query.Get("status")),
			Search: strings.TrimSpace(query.Get("search")),
		}
		if raw := strings.TrimSpace(query.Get("from")); raw != "" {
			from, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date"))
				return
			}
			filters.From = &from
		}
		if raw := strings.TrimSpace(query.Get("to")); raw != "" {
			to, err := time.Parse("2006-01-02", raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date"))
				return
			}
			// inclusive end of day
			end := to.Add(24*time.Hour - time.Nanosecond)
			filters.To = &end
		}

		page, err := svc.ListOrders(ctx, params, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminGetOrder returns any order in full.
func AdminGetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.GetOrder(ctx, orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminUpdateOrder applies the admin's partial order mutation.
func AdminUpdateOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload adminOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.AdminUpdate(ctx, orderID, orders.AdminUpdateInput{
			Status:         payload.Status,
			ShippingStatus: payload.ShippingStatus,
			TrackingNumber: payload.TrackingNumber,
			Carrier:        payload.Carrier,
			ShippingNotes:  payload.ShippingNotes,
			PaymentStatus:  payload.PaymentStatus,
			TransactionID:  payload.TransactionID,
			PaymentNotes:   payload.PaymentNotes,
			Notes:          payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"order":   result.Order,
			"changed": result.Changed,
		})
	}
}
