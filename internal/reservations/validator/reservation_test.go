package validator

import (
	"errors"
	"testing"

	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"
	"ginhawa/pkg/validation"
)

var today = model.MustParseDate("2026-03-10")

func validReservation() *model.Reservation {
	return &model.Reservation{
		Date:          today,
		Time:          "19:30",
		Seating:       "Window",
		Guests:        4,
		CustomerEmail: "guest@test.com",
		CustomerName:  "Juan Dela Cruz",
	}
}

func TestValidate(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	tests := []struct {
		name      string
		mutate    func(*model.Reservation)
		wantField string
	}{
		{"valid today", func(*model.Reservation) {}, ""},
		{"last seating", func(r *model.Reservation) { r.Time = "22:00" }, ""},
		{"yesterday", func(r *model.Reservation) { r.Date = today.AddDays(-1) }, "date"},
		{"missing date", func(r *model.Reservation) { r.Date = model.Date{} }, "date"},
		{"off-slot time", func(r *model.Reservation) { r.Time = "19:15" }, "time"},
		{"after closing", func(r *model.Reservation) { r.Time = "22:30" }, "time"},
		{"unknown seating", func(r *model.Reservation) { r.Seating = "Rooftop" }, "seating"},
		{"too many guests", func(r *model.Reservation) { r.Guests = 21 }, "guests"},
		{"no guests", func(r *model.Reservation) { r.Guests = 0 }, "guests"},
		{"bad email", func(r *model.Reservation) { r.CustomerEmail = "guest" }, "customer_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReservation()
			tt.mutate(r)

			err := v.Validate(r, today)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var verrs validation.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs.Details()[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs.Details())
			}
		})
	}
}
