package validate

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kursattkorkmazzz/garagely/internal/apperror"
	"github.com/kursattkorkmazzz/garagely/internal/auth"
	"github.com/kursattkorkmazzz/garagely/internal/storage"
)

func decodeErr(t *testing.T, body string, dst any) *apperror.Error {
	t.Helper()
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	err := Decode(r, dst)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var appErr *apperror.Error
	if !errors.As(err, &appErr) || appErr.Code != apperror.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	return appErr
}

func TestDecodeValid(t *testing.T) {
	var payload auth.RegisterPayload
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"email":"user@example.com","password":"secret1","fullName":"Test User"}`))
	if err := Decode(r, &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Email != "user@example.com" {
		t.Fatalf("payload not populated: %+v", payload)
	}
}

func TestDecodeCollectsAllFailures(t *testing.T) {
	var payload auth.RegisterPayload
	appErr := decodeErr(t, `{"email":"not-an-email","password":"x","fullName":"A"}`, &payload)

	for _, field := range []string{"email", "password", "fullName"} {
		if len(appErr.Details[field]) == 0 {
			t.Fatalf("expected failure for %q, got %v", field, appErr.Details)
		}
	}
	if msgs := appErr.Details["password"]; !strings.Contains(msgs[0], "at least 6") {
		t.Fatalf("unexpected password message %v", msgs)
	}
}

func TestDecodeUsesJSONFieldNames(t *testing.T) {
	var payload auth.RegisterPayload
	appErr := decodeErr(t, `{"email":"user@example.com","password":"secret1"}`, &payload)

	if _, ok := appErr.Details["fullName"]; !ok {
		t.Fatalf("expected wire field name fullName, got %v", appErr.Details)
	}
	if _, ok := appErr.Details["FullName"]; ok {
		t.Fatalf("struct field name leaked into details: %v", appErr.Details)
	}
}

func TestDecodeEmptyBody(t *testing.T) {
	var payload auth.LoginPayload
	appErr := decodeErr(t, ``, &payload)
	if appErr.Message != "Request body is required" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestDecodeMalformedJSON(t *testing.T) {
	var payload auth.LoginPayload
	appErr := decodeErr(t, `{"email": `, &payload)
	if appErr.Message != "Request body must be valid JSON" {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestEntityTypeTag(t *testing.T) {
	var payload storage.CreateDocumentRelationPayload
	appErr := decodeErr(t, `{"documentId":"d1","entityId":"e1","entityType":"spaceship"}`, &payload)

	msgs := appErr.Details["entityType"]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "user_profile") {
		t.Fatalf("expected entity type message naming valid values, got %v", appErr.Details)
	}

	var ok storage.CreateDocumentRelationPayload
	r := httptest.NewRequest("POST", "/", strings.NewReader(
		`{"documentId":"d1","entityId":"e1","entityType":"user_profile"}`))
	if err := Decode(r, &ok); err != nil {
		t.Fatalf("valid entity type rejected: %v", err)
	}
}

func TestStructOptionalFieldsSkippedWhenAbsent(t *testing.T) {
	if err := Struct(&struct {
		Name *string `json:"name" validate:"omitempty,min=2"`
	}{}); err != nil {
		t.Fatalf("absent optional field must pass, got %v", err)
	}
}
