package validator

import (
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	MinGuests = 1
	MaxGuests = 20
)

type ReservationValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewReservationValidator(log *logger.Logger) *ReservationValidator {
	v := validation.New(log)
	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a table reservation. The date may be today but not earlier.
func (v *ReservationValidator) Validate(reservation *model.Reservation, today model.Date) error {
	if reservation.Date.IsZero() {
		return validation.Field("date", "date is required")
	}
	if !today.IsZero() && reservation.Date.Before(today) {
		return validation.Field("date", "date cannot be in the past")
	}
	return validation.Struct(v.validate, reservation)
}
