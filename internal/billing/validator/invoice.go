package validator

import (
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type InvoiceValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewInvoiceValidator(log *logger.Logger) *InvoiceValidator {
	v := validation.New(log)
	log.Info("Invoice validator initialized successfully")

	return &InvoiceValidator{
		validate: v,
		logger:   log,
	}
}

func (v *InvoiceValidator) ValidatePayment(req *model.PaymentRequest) error {
	return validation.Struct(v.validate, req)
}

// ValidateInvoice checks what a raised invoice needs before it is stored.
func (v *InvoiceValidator) ValidateInvoice(invoice *model.Invoice) error {
	return validation.Struct(v.validate, invoice)
}
