package validator

import (
	"fmt"

	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	MinGuests = 1
	MaxGuests = 10
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validation.New(log)
	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a booking request. Stays are half-open, so check-out must
// be at least one day after check-in, and check-in may not precede today.
func (v *BookingValidator) Validate(booking *model.Booking, today model.Date) error {
	if err := validation.Struct(v.validate, booking); err != nil {
		return err
	}

	if err := ValidateStay(booking.CheckIn, booking.CheckOut, today); err != nil {
		return err
	}

	if _, ok := model.LookupRoomType(booking.RoomType); !ok {
		return validation.Field("room_type", fmt.Sprintf("unknown room type %q", booking.RoomType))
	}

	return nil
}

func ValidateStay(checkIn, checkOut, today model.Date) error {
	if checkIn.IsZero() {
		return validation.Field("check_in", "check_in is required")
	}
	if checkOut.IsZero() {
		return validation.Field("check_out", "check_out is required")
	}
	if !checkOut.After(checkIn) {
		return validation.Field("check_out", "check_out must be after check_in")
	}
	if !today.IsZero() && checkIn.Before(today) {
		return validation.Field("check_in", "check_in cannot be in the past")
	}
	return nil
}

func ValidateGuests(guests int) error {
	if guests < MinGuests || guests > MaxGuests {
		return validation.Field("guests", fmt.Sprintf("guests must be between %d and %d", MinGuests, MaxGuests))
	}
	return nil
}
