package validator

import (
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type AccountValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewAccountValidator(log *logger.Logger) *AccountValidator {
	v := validation.New(log)
	log.Info("Account validator initialized successfully")

	return &AccountValidator{
		validate: v,
		logger:   log,
	}
}

func (v *AccountValidator) ValidateRegistration(reg *model.Registration) error {
	return validation.Struct(v.validate, reg)
}

func (v *AccountValidator) ValidateStaff(reg *model.StaffRegistration) error {
	return validation.Struct(v.validate, reg)
}

func (v *AccountValidator) ValidateLogin(req *model.LoginRequest) error {
	return validation.Struct(v.validate, req)
}
