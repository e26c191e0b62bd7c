package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JoaquiinAguilar/gaiacare-backend/api/middleware"
	internalorders "github.com/JoaquiinAguilar/gaiacare-backend/internal/orders"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

type stubOrdersService struct {
	internalorders.Service
	order *models.Order
	err   error

	gotUserID    uuid.UUID
	gotOrderID   uuid.UUID
	gotReference string
}

func (s *stubOrdersService) SubmitPaymentReference(ctx context.Context, userID, orderID uuid.UUID, reference string) (*models.Order, error) {
	s.gotUserID = userID
	s.gotOrderID = orderID
	s.gotReference = reference
	return s.order, s.err
}

func TestSubmitPaymentReference(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: orderID, Status: enums.OrderStatusPaid}}
	handler := SubmitPaymentReference(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment", strings.NewReader(`{"reference":"SPEI-12345"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	req = withURLParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotUserID != userID || svc.gotOrderID != orderID {
		t.Fatalf("identifiers not forwarded: user=%s order=%s", svc.gotUserID, svc.gotOrderID)
	}
	if svc.gotReference != "SPEI-12345" {
		t.Fatalf("reference not forwarded: %q", svc.gotReference)
	}
}

func TestSubmitPaymentReferenceRequiresAuth(t *testing.T) {
	handler := SubmitPaymentReference(&stubOrdersService{}, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment", strings.NewReader(`{"reference":"SPEI-12345"}`))
	req = withURLParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSubmitPaymentReferenceTooShort(t *testing.T) {
	handler := SubmitPaymentReference(&stubOrdersService{}, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment", strings.NewReader(`{"reference":"ab"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withURLParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSubmitPaymentReferenceAlreadyPaid(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")}
	handler := SubmitPaymentReference(svc, nil)

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment", strings.NewReader(`{"reference":"SPEI-12345"}`))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	req = withURLParam(req, "orderId", orderID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}
