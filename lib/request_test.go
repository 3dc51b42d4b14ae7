package lib

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"njatashiz_server/structs"
)

func TestExtractAndValidateBody(t *testing.T) {
	t.Parallel()

	body := `{"name":"Ana","email":"ana@example.com","message":"Is this necklace still available?"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	got, err := ExtractAndValidateBody[structs.InquiryRequest](r)
	if err != nil {
		t.Fatalf("ExtractAndValidateBody() error = %v", err)
	}
	if got.Name != "Ana" || got.Email != "ana@example.com" {
		t.Fatalf("ExtractAndValidateBody() = %+v", got)
	}
}

func TestExtractAndValidateBodyValidation(t *testing.T) {
	t.Parallel()

	body := `{"name":"A","email":"not-an-email","message":"short"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	_, err := ExtractAndValidateBody[structs.InquiryRequest](r)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("ExtractAndValidateBody() error = %v, want *ValidationError", err)
	}
	if len(ve.Errors) != 3 {
		t.Fatalf("len(Errors) = %d, want 3: %+v", len(ve.Errors), ve.Errors)
	}
	if ve.Errors[1].Field != "email" || ve.Errors[1].Message != "must be a valid email address" {
		t.Fatalf("Errors[1] = %+v", ve.Errors[1])
	}
}

func TestExtractAndValidateBodyRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c","password":"12345678","admin":true}`))
	if _, err := ExtractAndValidateBody[structs.AuthRequest](r); err == nil {
		t.Fatal("ExtractAndValidateBody() error = nil, want unknown field error")
	}
}

func TestExtractAndValidateBodyUsesJSONNames(t *testing.T) {
	t.Parallel()

	body := `{"name":"Ana","email":"ana@example.com","phone":"` + strings.Repeat("1", 41) + `","message":"Is this necklace still available?"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	_, err := ExtractAndValidateBody[structs.InquiryRequest](r)
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 1 {
		t.Fatalf("ExtractAndValidateBody() error = %v, want one field error", err)
	}
	if ve.Errors[0].Field != "phone" || ve.Errors[0].Message != "must be at most 40 characters" {
		t.Fatalf("Errors[0] = %+v", ve.Errors[0])
	}
}
