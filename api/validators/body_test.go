package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/JoaquiinAguilar/gaiacare-backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","quantity":2}`))
	var dest samplePayload
	if err := DecodeJSONBody(r, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Email != "a@b.com" || dest.Quantity != 2 {
		t.Fatalf("unexpected decode result %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.com","quantity":1,"extra":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyFieldMessagesUseJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","quantity":0}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	if _, found := details["email"]; !found {
		t.Fatalf("expected json tag name in details, got %v", details)
	}
	if _, found := details["quantity"]; !found {
		t.Fatalf("expected quantity detail, got %v", details)
	}
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=10", nil)
	value, err := ParseQueryInt(r, "limit", 20, 1, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 10 {
		t.Fatalf("expected 10, got %d", value)
	}

	r = httptest.NewRequest("GET", "/", nil)
	if value, _ = ParseQueryInt(r, "limit", 20, 1, 100); value != 20 {
		t.Fatalf("expected default, got %d", value)
	}

	r = httptest.NewRequest("GET", "/?limit=9999", nil)
	if _, err = ParseQueryInt(r, "limit", 20, 1, 100); err == nil {
		t.Fatal("expected out of range error")
	}
}
