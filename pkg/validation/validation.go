// Package validation holds the go-playground validator setup shared by the
// domain validators: catalog-backed tags and readable error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Details renders the errors as field -> message for an AppError.
func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

func Field(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

var catalogTags = map[string][]string{
	"payment_method": model.PaymentMethods,
	"seating":        model.SeatingOptions,
	"request_type":   model.HousekeepingRequestTypes,
	"department":     model.Departments,
}

// New returns a validator that reports JSON field names and understands the
// catalog tags: payment_method, seating, request_type, department and time_slot.
func New(log *logger.Logger) *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	for tag, allowed := range catalogTags {
		if err := v.RegisterValidation(tag, oneOfCatalog(allowed)); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	slots := model.TimeSlots()
	if err := v.RegisterValidation("time_slot", oneOfCatalog(slots)); err != nil {
		log.Fatal("Failed to register validator", "tag", "time_slot", "error", err)
	}

	return v
}

func oneOfCatalog(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return model.Contains(allowed, fl.Field().String())
	}
}

// Struct validates s and translates failures into ValidationErrors.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return Translate(validationErrs)
		}
		return err
	}
	return nil
}

func Translate(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +639171234567)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "payment_method":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.PaymentMethods, ", "))
		case "seating":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.SeatingOptions, ", "))
		case "request_type":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.HousekeepingRequestTypes, ", "))
		case "department":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.Departments, ", "))
		case "time_slot":
			message = fmt.Sprintf("%s must be a half-hour slot between 10:00 and 22:00", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   fieldPath(err),
			Message: message,
		})
	}

	return validationErrors
}

// fieldPath drops the root struct name from the namespace, so nested
// fields read as items[0].quantity.
func fieldPath(err validator.FieldError) string {
	_, path, ok := strings.Cut(err.Namespace(), ".")
	if !ok || path == "" {
		return err.Field()
	}
	return path
}
