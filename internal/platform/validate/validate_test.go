package validate

import (
	"strings"
	"testing"

	"github.com/telemed/telemed/internal/platform/apperr"
)

type registerRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=admin moderator"`
}

func TestValidate_Passes(t *testing.T) {
	v := New()
	req := registerRequest{Email: "user@mail.com", Password: "pw12345678", Role: "admin"}
	if err := v.Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	v := New()
	err := v.Validate(registerRequest{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	ae, ok := apperr.As(err)
	if !ok || ae.Kind != apperr.KindValidation {
		t.Fatalf("expected validation apperr, got %v", err)
	}
	if !strings.Contains(ae.Message, "email is required") {
		t.Errorf("expected field message, got %s", ae.Message)
	}
}

func TestValidate_OneOf(t *testing.T) {
	v := New()
	err := v.Validate(registerRequest{Email: "user@mail.com", Password: "pw", Role: "superuser"})
	if err == nil {
		t.Fatal("expected validation error for invalid role")
	}
	ae, _ := apperr.As(err)
	if !strings.Contains(ae.Message, "role must be one of") {
		t.Errorf("unexpected message: %s", ae.Message)
	}
}
