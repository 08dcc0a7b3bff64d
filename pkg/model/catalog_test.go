package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomCatalog_ThirtyRooms(t *testing.T) {
	total := 0
	for _, info := range RoomCatalog {
		total += info.Count
	}
	assert.Equal(t, 30, total)

	suite, ok := LookupRoomType(RoomSuite)
	assert.True(t, ok)
	assert.Equal(t, int64(7000), suite.Price)

	_, ok = LookupRoomType("Penthouse")
	assert.False(t, ok)
}

func TestLookupMenuItem(t *testing.T) {
	item, ok := LookupMenuItem(CategoryFood, "  steak ")
	assert.True(t, ok)
	assert.Equal(t, int64(500), item.Price)

	_, ok = LookupMenuItem(CategoryDrink, "Steak")
	assert.False(t, ok, "food must not be orderable from the bar")

	item, ok = LookupMenuItem(CategoryDrink, "Tropical Yakult Splash")
	assert.True(t, ok)
	assert.Equal(t, int64(120), item.Price)
}

func TestMenuFor(t *testing.T) {
	assert.Len(t, MenuFor(CategoryFood), 7)
	assert.Len(t, MenuFor(CategoryDrink), 8)
	assert.Len(t, MenuFor(""), 15)
}

func TestTimeSlots(t *testing.T) {
	slots := TimeSlots()
	assert.Len(t, slots, 25)
	assert.Equal(t, "10:00", slots[0])
	assert.Equal(t, "10:30", slots[1])
	assert.Equal(t, "22:00", slots[len(slots)-1])
	assert.NotContains(t, slots, "22:30")
}

func TestOrderStatus_CanTransition(t *testing.T) {
	assert.True(t, OrderPending.CanTransition(OrderPreparing))
	assert.True(t, OrderPreparing.CanTransition(OrderServed))
	assert.True(t, OrderPending.CanTransition(OrderCancelled))
	assert.False(t, OrderPending.CanTransition(OrderServed))
	assert.False(t, OrderServed.CanTransition(OrderCancelled))
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0, OccupancyRate(0, 0))
	assert.Equal(t, 10, OccupancyRate(3, 30))
	assert.Equal(t, 33, OccupancyRate(10, 30))
	assert.Equal(t, 100, OccupancyRate(30, 30))
}

func TestBooking_Occupies(t *testing.T) {
	room := 101
	b := &Booking{
		RoomNumber: &room,
		Status:     BookingCheckedIn,
		CheckIn:    MustParseDate("2026-10-14"),
		CheckOut:   MustParseDate("2026-10-16"),
	}

	assert.True(t, b.Occupies(101, MustParseDate("2026-10-15"), MustParseDate("2026-10-17")))
	assert.False(t, b.Occupies(102, MustParseDate("2026-10-15"), MustParseDate("2026-10-17")))
	assert.False(t, b.Occupies(101, MustParseDate("2026-10-16"), MustParseDate("2026-10-17")))

	b.Status = BookingCheckedOut
	assert.False(t, b.Occupies(101, MustParseDate("2026-10-15"), MustParseDate("2026-10-17")))
}
