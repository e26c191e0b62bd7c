package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/catalog"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

// ListProducts returns the public, paginated product listing.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		query := r.URL.Query()
		filters := catalog.ProductFilters{
			CategorySlug: strings.TrimSpace(query.Get("category")),
			Search:       strings.TrimSpace(query.Get("search")),
		}
		if raw := strings.TrimSpace(query.Get("min_price")); raw != "" {
			filters.MinPrice = &raw
		}
		if raw := strings.TrimSpace(query.Get("max_price")); raw != "" {
			filters.MaxPrice = &raw
		}

		page, err := svc.ListProducts(ctx, params, filters)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct returns one product by slug with its related products.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required"))
			return
		}

		detail, err := svc.GetProduct(ctx, slug)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Home returns the storefront landing payload.
func Home(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := svc.Home(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, payload)
	}
}

// SearchSuggestions returns typeahead matches for the search box.
func SearchSuggestions(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		prefix := strings.TrimSpace(r.URL.Query().Get("q"))
		products, err := svc.Suggestions(ctx, prefix)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"suggestions": products})
	}
}

// ListCategories returns the active category tree.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		categories, err := svc.ListCategories(ctx, true)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}
