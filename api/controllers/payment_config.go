package controllers

import (
	"net/http"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/validators"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/paymentconfig"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

type paymentConfigPayload struct {
	BankName      *string `json:"bank_name,omitempty" validate:"omitempty,min=2,max=120"`
	AccountName   *string `json:"account_name,omitempty" validate:"omitempty,min=2,max=200"`
	AccountNumber *string `json:"account_number,omitempty" validate:"omitempty,min=6,max=30"`
	CLABE         *string `json:"clabe,omitempty" validate:"omitempty,len=18"`
	Instructions  *string `json:"instructions,omitempty" validate:"omitempty,max=2000"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (p paymentConfigPayload) toInput() paymentconfig.Input {
	return paymentconfig.Input{
		BankName:      p.BankName,
		AccountName:   p.AccountName,
		AccountNumber: p.AccountNumber,
		CLABE:         p.CLABE,
		Instructions:  p.Instructions,
		IsActive:      p.IsActive,
	}
}

// ActivePaymentConfig returns the bank details buyers pay against.
func ActivePaymentConfig(svc paymentconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		cfg, err := svc.GetActive(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// AdminListPaymentConfigs returns every configured bank record.
func AdminListPaymentConfigs(svc paymentconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		configs, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"configs": configs})
	}
}

// AdminCreatePaymentConfig creates a bank record.
func AdminCreatePaymentConfig(svc paymentconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload paymentConfigPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.Create(ctx, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, cfg)
	}
}

// AdminUpdatePaymentConfig applies a partial bank record update.
func AdminUpdatePaymentConfig(svc paymentconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload paymentConfigPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cfg, err := svc.Update(ctx, configID, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

// AdminDeletePaymentConfig removes a bank record.
func AdminDeletePaymentConfig(svc paymentconfig.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		configID, err := pathUUID(r, "configId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := svc.Delete(ctx, configID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": true})
	}
}
