package validator

import (
	"errors"
	"testing"

	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"
)

func fields(err error) map[string]any {
	var verrs validation.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	return verrs.Details()
}

func TestValidateRegistration(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	tests := []struct {
		name  string
		reg   model.Registration
		field string
	}{
		{"valid", model.Registration{Email: "guest@test.com", Password: "long-enough", Name: "Juan"}, ""},
		{"bad email", model.Registration{Email: "guest", Password: "long-enough", Name: "Juan"}, "email"},
		{"short password", model.Registration{Email: "guest@test.com", Password: "short", Name: "Juan"}, "password"},
		{"missing name", model.Registration{Email: "guest@test.com", Password: "long-enough"}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegistration(&tt.reg)
			if tt.field == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if _, ok := fields(err)[tt.field]; !ok {
				t.Errorf("expected %s error, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateStaff_Department(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	reg := model.StaffRegistration{Email: "chef@hotel.com", Password: "long-enough", Name: "Chef", Department: "Spa"}
	if _, ok := fields(v.ValidateStaff(&reg))["department"]; !ok {
		t.Error("expected department error")
	}

	reg.Department = model.DepartmentKitchen
	if err := v.ValidateStaff(&reg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateLogin_Kind(t *testing.T) {
	v := NewAccountValidator(logger.Discard())

	req := model.LoginRequest{Kind: "admin", Email: "a@b.co", Password: "x"}
	if _, ok := fields(v.ValidateLogin(&req))["kind"]; !ok {
		t.Error("expected kind error")
	}
}
