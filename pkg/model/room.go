package model

import "time"

type RoomType string

const (
	RoomStandard RoomType = "Standard"
	RoomDeluxe   RoomType = "Deluxe"
	RoomSuite    RoomType = "Suite"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomCleaning    RoomStatus = "Cleaning"
	RoomMaintenance RoomStatus = "Maintenance"
)

type Room struct {
	ID               string     `json:"id,omitempty" bson:"_id,omitempty"`
	Number           int        `json:"number" bson:"number" validate:"required,min=1,max=9999"`
	Type             RoomType   `json:"type" bson:"type" validate:"required,oneof=Standard Deluxe Suite"`
	Price            int64      `json:"price" bson:"price" validate:"required,min=1"`
	Status           RoomStatus `json:"status" bson:"status" validate:"required,oneof=Available Occupied Cleaning Maintenance"`
	CurrentBookingID string     `json:"current_booking_id,omitempty" bson:"current_booking_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at"`
}

type RoomFilter struct {
	Status         RoomStatus
	Type           RoomType
	NumberContains string
}

type RoomStats struct {
	Total         int64 `json:"total"`
	Available     int64 `json:"available"`
	Occupied      int64 `json:"occupied"`
	Cleaning      int64 `json:"cleaning"`
	Maintenance   int64 `json:"maintenance"`
	OccupancyRate int   `json:"occupancy_rate"`
}

// OccupancyRate is the share of occupied rooms as a whole percentage.
func OccupancyRate(occupied, total int64) int {
	if total <= 0 {
		return 0
	}
	return int((occupied*100 + total/2) / total)
}

// RoomDetails pairs a room with the booking of the guest currently in it.
type RoomDetails struct {
	Room         *Room    `json:"room"`
	CurrentGuest *Booking `json:"current_guest,omitempty"`
}
