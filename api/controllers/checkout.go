package controllers

import (
	"net/http"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/validators"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/checkout"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

type checkoutPayload struct {
	FullName      string `json:"full_name" validate:"omitempty,max=200"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"omitempty,max=30"`
	Address       string `json:"address" validate:"omitempty,max=500"`
	City          string `json:"city" validate:"omitempty,max=120"`
	State         string `json:"state" validate:"omitempty,max=120"`
	PostalCode    string `json:"postal_code" validate:"omitempty,max=12"`
	Notes         string `json:"notes" validate:"omitempty,max=2000"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=bank_transfer bank_deposit cash"`
}

// Checkout converts the caller's cart into an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Checkout(ctx, userID, checkout.Input{
			FullName:      payload.FullName,
			Email:         payload.Email,
			Phone:         payload.Phone,
			Address:       payload.Address,
			City:          payload.City,
			State:         payload.State,
			PostalCode:    payload.PostalCode,
			Notes:         payload.Notes,
			PaymentMethod: payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
