package controllers

import (
	"net/http"
	"strings"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/responses"
	"github.com/JoaquiinAguilar/gaiacare-backend/internal/dashboard"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/logger"
)

// DashboardOverview returns the admin dashboard aggregations.
func DashboardOverview(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		overview, err := svc.Overview(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, overview)
	}
}

// AdminListCustomers returns the paginated customer directory.
func AdminListCustomers(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		search := strings.TrimSpace(r.URL.Query().Get("search"))

		page, err := svc.ListCustomers(ctx, params, search)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		customers := make([]map[string]any, 0, len(page.Customers))
		for i := range page.Customers {
			customers = append(customers, userPayload(&page.Customers[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"customers":   customers,
			"next_cursor": page.NextCursor,
		})
	}
}

// AdminGetCustomer returns one customer with their order history.
func AdminGetCustomer(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		customerID, err := pathUUID(r, "customerId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		detail, err := svc.GetCustomer(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"customer": userPayload(detail.Customer),
			"orders":   detail.Orders,
		})
	}
}
