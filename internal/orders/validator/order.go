package validator

import (
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type OrderValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewOrderValidator(log *logger.Logger) *OrderValidator {
	v := validation.New(log)
	log.Info("Order validator initialized successfully")

	return &OrderValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks an order after its lines were matched against the menu
// and merged, so quantity limits apply to the merged line.
func (v *OrderValidator) Validate(order *model.Order) error {
	return validation.Struct(v.validate, order)
}
