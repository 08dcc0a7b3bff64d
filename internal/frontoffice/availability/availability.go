// Package availability decides which room a guest gets. Stays are half-open
// intervals [check_in, check_out): a guest leaving on the 12th does not
// block a guest arriving on the 12th.
package availability

import (
	"sort"

	"ginhawa/pkg/model"
)

// FindFreeRoom returns the lowest-numbered Available room of roomType that
// no Confirmed or Checked-in booking holds for any night of [checkIn, checkOut).
// Bookings without an assigned room never block a room.
func FindFreeRoom(rooms []*model.Room, bookings []*model.Booking, roomType model.RoomType, checkIn, checkOut model.Date) (*model.Room, bool) {
	candidates := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Type == roomType && room.Status == model.RoomAvailable {
			candidates = append(candidates, room)
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Number < candidates[j].Number })

	for _, room := range candidates {
		if IsFree(room.Number, bookings, checkIn, checkOut) {
			return room, true
		}
	}
	return nil, false
}

// IsFree reports whether no holding booking occupies room number during
// [checkIn, checkOut). Room status is not considered.
func IsFree(number int, bookings []*model.Booking, checkIn, checkOut model.Date) bool {
	for _, b := range bookings {
		if b.Occupies(number, checkIn, checkOut) {
			return false
		}
	}
	return true
}
