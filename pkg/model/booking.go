package model

import (
	"time"
)

type BookingStatus string

const (
	BookingConfirmed  BookingStatus = "Confirmed"
	BookingCheckedIn  BookingStatus = "Checked-in"
	BookingCheckedOut BookingStatus = "Checked-out"
	BookingCancelled  BookingStatus = "Cancelled"
)

// Holds reports whether a booking in this status reserves its room.
func (s BookingStatus) Holds() bool {
	return s == BookingConfirmed || s == BookingCheckedIn
}

const BookingTypeHotel = "hotel"

type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	Reference     string        `json:"reference" bson:"reference"`
	Type          string        `json:"type" bson:"type"`
	Destination   string        `json:"destination" bson:"destination" validate:"required,min=2,max=100"`
	CheckIn       Date          `json:"check_in" bson:"check_in"`
	CheckOut      Date          `json:"check_out" bson:"check_out"`
	Nights        int           `json:"nights" bson:"nights"`
	Guests        int           `json:"guests" bson:"guests" validate:"required,min=1,max=10"`
	RoomType      RoomType      `json:"room_type" bson:"room_type" validate:"required,oneof=Standard Deluxe Suite"`
	RoomPrice     int64         `json:"room_price" bson:"room_price"`
	TotalPrice    int64         `json:"total_price" bson:"total_price"`
	CustomerEmail string        `json:"customer_email" bson:"customer_email" validate:"required,email,max=254"`
	CustomerName  string        `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerPhone string        `json:"customer_phone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,e164"`
	PaymentMethod string        `json:"payment_method" bson:"payment_method" validate:"required,payment_method"`
	Status        BookingStatus `json:"status" bson:"status"`
	RoomNumber    *int          `json:"room_number,omitempty" bson:"room_number,omitempty"`
	WalkIn        bool          `json:"walk_in,omitempty" bson:"walk_in,omitempty"`
	CheckedInAt   *time.Time    `json:"checked_in_at,omitempty" bson:"checked_in_at,omitempty"`
	CheckedOutAt  *time.Time    `json:"checked_out_at,omitempty" bson:"checked_out_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// Occupies reports whether the booking holds room number during [in, out).
func (b *Booking) Occupies(number int, in, out Date) bool {
	return b.RoomNumber != nil && *b.RoomNumber == number && b.Status.Holds() &&
		Overlaps(b.CheckIn, b.CheckOut, in, out)
}

type BookingQuote struct {
	RoomType RoomType `json:"room_type"`
	Price    int64    `json:"price_per_night"`
	Nights   int      `json:"nights"`
	Total    int64    `json:"total"`
	Features []string `json:"features"`
}

// BookingTransition is a compare-and-set status change. Set holds extra
// fields written together with the new status.
type BookingTransition struct {
	From BookingStatus
	To   BookingStatus
	Set  map[string]any
}

// WalkInRequest assigns a guest straight into a specific room from the room facilities desk.
type WalkInRequest struct {
	Destination   string `json:"destination"`
	CheckIn       Date   `json:"check_in"`
	CheckOut      Date   `json:"check_out"`
	Guests        int    `json:"guests"`
	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	PaymentMethod string `json:"payment_method"`
}

// BookingFilter narrows booking queries. Zero fields are ignored.
type BookingFilter struct {
	Statuses      []BookingStatus
	ExcludeStatus BookingStatus
	CheckIn       Date
	CheckOut      Date
	CheckInAfter  Date
	CustomerEmail string
	RoomType      RoomType
	RoomNumber    *int
	// OverlapIn and OverlapOut select stays sharing a night with [OverlapIn, OverlapOut).
	OverlapIn    Date
	OverlapOut   Date
	AssignedOnly bool
}

type FrontOfficeTab string

const (
	TabArrivals   FrontOfficeTab = "arrivals"
	TabDepartures FrontOfficeTab = "departures"
	TabInHouse    FrontOfficeTab = "inhouse"
	TabUpcoming   FrontOfficeTab = "upcoming"
)

type FrontOfficeDashboard struct {
	Date          Date      `json:"date"`
	Arrivals      int64     `json:"arrivals"`
	Departures    int64     `json:"departures"`
	InHouse       int64     `json:"in_house"`
	Rooms         RoomStats `json:"rooms"`
	OccupancyRate int       `json:"occupancy_rate"`
}
