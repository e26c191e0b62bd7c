package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoaquiinAguilar/gaiacare-backend/internal/catalog"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/pagination"
)

type stubCatalogService struct {
	catalog.Service
	page   *catalog.ProductPage
	detail *catalog.ProductDetail
	err    error

	gotParams  pagination.Params
	gotFilters catalog.ProductFilters
	gotSlug    string
}

func (s *stubCatalogService) ListProducts(ctx context.Context, params pagination.Params, filters catalog.ProductFilters) (*catalog.ProductPage, error) {
	s.gotParams = params
	s.gotFilters = filters
	return s.page, s.err
}

func (s *stubCatalogService) GetProduct(ctx context.Context, slug string) (*catalog.ProductDetail, error) {
	s.gotSlug = slug
	return s.detail, s.err
}

func TestListProductsForwardsFilters(t *testing.T) {
	svc := &stubCatalogService{page: &catalog.ProductPage{}}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=teas&search=manzanilla&min_price=10&limit=5", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotFilters.CategorySlug != "teas" || svc.gotFilters.Search != "manzanilla" {
		t.Fatalf("filters not forwarded: %+v", svc.gotFilters)
	}
	if svc.gotFilters.MinPrice == nil || *svc.gotFilters.MinPrice != "10" {
		t.Fatalf("min_price not forwarded: %+v", svc.gotFilters.MinPrice)
	}
	if svc.gotParams.Limit != 5 {
		t.Fatalf("limit not forwarded: %d", svc.gotParams.Limit)
	}
}

func TestListProductsRejectsBadLimit(t *testing.T) {
	handler := ListProducts(&stubCatalogService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=oops", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestGetProductBySlug(t *testing.T) {
	product := &models.Product{
		ID:    uuid.New(),
		Name:  "Manzanilla Tea",
		Slug:  "manzanilla-tea",
		Price: decimal.RequireFromString("120.00"),
	}
	svc := &stubCatalogService{detail: &catalog.ProductDetail{Product: product}}
	handler := GetProduct(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/manzanilla-tea", nil), "slug", "manzanilla-tea")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotSlug != "manzanilla-tea" {
		t.Fatalf("slug not forwarded: %q", svc.gotSlug)
	}

	var envelope struct {
		Data struct {
			Product struct {
				Slug string `json:"Slug"`
			} `json:"Product"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Product.Slug != "manzanilla-tea" {
		t.Fatalf("unexpected slug in body: %q", envelope.Data.Product.Slug)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := GetProduct(svc, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/products/ghost", nil), "slug", "ghost")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	ctx := chi.NewRouteContext()
	ctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, ctx))
}
