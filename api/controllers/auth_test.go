package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoaquiinAguilar/gaiacare-backend/internal/users"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/db/models"
	"github.com/JoaquiinAguilar/gaiacare-backend/pkg/enums"
	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

type stubUsersService struct {
	users.Service
	result *users.AuthResult
	err    error

	gotEmail string
}

func (s *stubUsersService) Register(ctx context.Context, input users.RegisterInput) (*users.AuthResult, error) {
	s.gotEmail = input.Email
	return s.result, s.err
}

func (s *stubUsersService) Login(ctx context.Context, email, password string) (*users.AuthResult, error) {
	s.gotEmail = email
	return s.result, s.err
}

func authTestResult() *users.AuthResult {
	return &users.AuthResult{
		User: &models.User{
			ID:           uuid.New(),
			Email:        "cliente@example.com",
			FirstName:    "Rosa",
			Role:         enums.UserRoleCustomer,
			PasswordHash: "argon2id$secret",
		},
		Token:     "token-abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestLoginNeverLeaksPasswordHash(t *testing.T) {
	svc := &stubUsersService{result: authTestResult()}
	handler := Login(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"cliente@example.com","password":"hunter2hunter2"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	body := resp.Body.String()
	if strings.Contains(body, "argon2id") || strings.Contains(body, "password_hash") || strings.Contains(body, "PasswordHash") {
		t.Fatalf("response leaks credentials: %s", body)
	}

	var envelope struct {
		Data struct {
			Token string         `json:"token"`
			User  map[string]any `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "token-abc" {
		t.Fatalf("unexpected token: %q", envelope.Data.Token)
	}
	if envelope.Data.User["email"] != "cliente@example.com" {
		t.Fatalf("unexpected user email: %v", envelope.Data.User["email"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := &stubUsersService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := Login(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"cliente@example.com","password":"wrong-password"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRegisterCreated(t *testing.T) {
	svc := &stubUsersService{result: authTestResult()}
	handler := Register(svc, nil)

	body := `{"email":"cliente@example.com","password":"hunter2hunter2","first_name":"Rosa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotEmail != "cliente@example.com" {
		t.Fatalf("email not forwarded: %q", svc.gotEmail)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	handler := Register(&stubUsersService{}, nil)

	body := `{"email":"cliente@example.com","password":"short","first_name":"Rosa"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
