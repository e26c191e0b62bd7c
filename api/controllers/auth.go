package controllers

import (
	"net/http"
	"time"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/api/validators"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/users"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

type registerPayload struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"omitempty,max=100"`
	Phone      string `json:"phone" validate:"omitempty,max=30"`
	Address    string `json:"address" validate:"omitempty,max=500"`
	City       string `json:"city" validate:"omitempty,max=120"`
	State      string `json:"state" validate:"omitempty,max=120"`
	PostalCode string `json:"postal_code" validate:"omitempty,max=12"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profilePayload struct {
	FirstName  *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=120"`
	State      *string `json:"state,omitempty" validate:"omitempty,max=120"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=12"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	PictureKey *string `json:"picture_key,omitempty" validate:"omitempty,max=500"`
}

// userPayload strips credentials before a user record leaves the API.
func userPayload(user *models.User) map[string]any {
	payload := map[string]any{
		"id":            user.ID,
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"phone":         user.Phone,
		"address":       user.Address,
		"city":          user.City,
		"state":         user.State,
		"postal_code":   user.PostalCode,
		"role":          user.Role,
		"last_login_at": user.LastLoginAt,
		"created_at":    user.CreatedAt,
	}
	if user.Profile != nil {
		payload["profile"] = map[string]any{
			"bio":         user.Profile.Bio,
			"picture_key": user.Profile.PictureKey,
		}
	}
	return payload
}

func authPayload(result *users.AuthResult) map[string]any {
	return map[string]any{
		"user":       userPayload(result.User),
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	}
}

// Register creates an account and signs the caller in.
func Register(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Register(ctx, users.RegisterInput{
			Email:      payload.Email,
			Password:   payload.Password,
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Address:    payload.Address,
			City:       payload.City,
			State:      payload.State,
			PostalCode: payload.PostalCode,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, authPayload(result))
	}
}

// Login verifies credentials and mints an access token.
func Login(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Login(ctx, payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, authPayload(result))
	}
}

// GetProfile returns the caller's account.
func GetProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.GetProfile(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, userPayload(user))
	}
}

// UpdateProfile applies a partial account update.
func UpdateProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := requestUserID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload profilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		user, err := svc.UpdateProfile(ctx, userID, users.ProfileInput{
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Address:    payload.Address,
			City:       payload.City,
			State:      payload.State,
			PostalCode: payload.PostalCode,
			Bio:        payload.Bio,
			PictureKey: payload.PictureKey,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, userPayload(user))
	}
}
