package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/fireplay/fireplay-backend/pkg/errors"
)

type quantityBody struct {
	Quantity int `json:"quantity" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	var body quantityBody
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":3}`))
	if err := DecodeJSONBody(req, &body); err != nil || body.Quantity != 3 {
		t.Fatalf("unexpected result %+v err=%v", body, err)
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"quantity":3,"price":1}`))
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("unknown fields should be rejected, got %v", err)
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	if err := DecodeJSONBody(req, &quantityBody{}); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("missing field should be rejected, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&bad=x&big=99", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 10); err != nil || v != 3 {
		t.Fatalf("unexpected %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 1, 1, 10); err != nil || v != 1 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 1, 1, 10); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := ParseQueryInt(req, "big", 1, 1, 10); err == nil {
		t.Fatal("expected error for out of range value")
	}
}

func TestParsePathInt(t *testing.T) {
	if v, err := ParsePathInt("42", "productId"); err != nil || v != 42 {
		t.Fatalf("unexpected %d %v", v, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := ParsePathInt(raw, "productId"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
