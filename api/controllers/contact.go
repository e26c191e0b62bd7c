package controllers

import (
	"net/http"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/validators"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/notifications"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

type contactPayload struct {
	Name    string `json:"name" validate:"required,min=2,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"omitempty,max=200"`
	Message string `json:"message" validate:"required,min=5,max=5000"`
}

// Contact relays a customer enquiry to the store inbox.
func Contact(svc notifications.Service, inbox string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload contactPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err := svc.SendContactForm(ctx, inbox, notifications.ContactForm{
			Name:    validators.SanitizeString(payload.Name, 200),
			Email:   payload.Email,
			Subject: validators.SanitizeString(payload.Subject, 200),
			Message: validators.SanitizeString(payload.Message, 5000),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"sent": true})
	}
}
