package model

import "time"

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "Confirmed"
	ReservationSeated    ReservationStatus = "Seated"
	ReservationCompleted ReservationStatus = "Completed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationConfirmed: {ReservationSeated, ReservationCancelled},
	ReservationSeated:    {ReservationCompleted},
}

func (s ReservationStatus) CanTransition(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

const ReservationTypeRestaurant = "restaurant"

type Reservation struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty"`
	Reference       string            `json:"reference" bson:"reference"`
	Type            string            `json:"type" bson:"type"`
	Date            Date              `json:"date" bson:"date"`
	Time            string            `json:"time" bson:"time" validate:"required,time_slot"`
	Seating         string            `json:"seating" bson:"seating" validate:"required,seating"`
	Guests          int               `json:"guests" bson:"guests" validate:"required,min=1,max=20"`
	SpecialRequests string            `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	CustomerEmail   string            `json:"customer_email" bson:"customer_email" validate:"required,email,max=254"`
	CustomerName    string            `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone   string            `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,e164"`
	Status          ReservationStatus `json:"status" bson:"status"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

type ReservationStatusUpdate struct {
	Status ReservationStatus `json:"status"`
}

type ReservationFilter struct {
	Date          Date
	Status        ReservationStatus
	CustomerEmail string
}

// DiningOptions lists what a guest can pick when reserving a table.
type DiningOptions struct {
	TimeSlots []string `json:"time_slots"`
	Seating   []string `json:"seating"`
	MinGuests int      `json:"min_guests"`
	MaxGuests int      `json:"max_guests"`
}
