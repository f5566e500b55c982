package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/rentpos-backend/pkg/errors"
)

type statusBody struct {
	Status string `json:"status" validate:"required,oneof=proses selesai batal"`
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"status":"hilang"}`))
	var body statusBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["status"] != "must be one of proses selesai batal" {
		t.Fatalf("unexpected details %#v", typed.Details())
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("PATCH", "/", strings.NewReader(`{"status":"proses","extra":1}`))
	var body statusBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected unknown field rejection, got %v", err)
	}
}

func TestParseQueryOneOf(t *testing.T) {
	req := httptest.NewRequest("GET", "/?kind=Rental", nil)
	got, err := ParseQueryOneOf(req, "kind", "sale", "rental", "repair")
	if err != nil || got != "rental" {
		t.Fatalf("expected rental, got %q err=%v", got, err)
	}

	req = httptest.NewRequest("GET", "/?kind=lease", nil)
	if _, err := ParseQueryOneOf(req, "kind", "sale", "rental"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	req = httptest.NewRequest("GET", "/", nil)
	if _, err := ParseQueryOneOf(req, "kind", "sale"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected missing query error, got %v", err)
	}
}
