package validator

import (
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type HousekeepingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewHousekeepingValidator(log *logger.Logger) *HousekeepingValidator {
	v := validation.New(log)
	log.Info("Housekeeping validator initialized successfully")

	return &HousekeepingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *HousekeepingValidator) Validate(request *model.HousekeepingRequest) error {
	return validation.Struct(v.validate, request)
}
