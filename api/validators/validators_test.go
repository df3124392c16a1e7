package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/muadee/storefront-gateway/pkg/errors"
)

type samplePayload struct {
	Code     string `json:"code" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"SAVE","quantity":2}`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Code != "SAVE" || payload.Quantity != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":"SAVE","quantity":2,"extra":true}`))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected unknown field rejection")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"quantity":0}`))
	var payload samplePayload
	err := DecodeJSONBody(req, &payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("details = %+v", typed.Details())
	}
	if details["code"] != "is required" {
		t.Fatalf("code detail = %q", details["code"])
	}
	if _, ok := details["quantity"]; !ok {
		t.Fatalf("missing quantity detail: %+v", details)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"code":`))
	var payload samplePayload
	if err := DecodeJSONBody(req, &payload); err == nil {
		t.Fatal("expected malformed body rejection")
	}
}
