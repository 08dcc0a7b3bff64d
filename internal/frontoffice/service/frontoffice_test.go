package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingserrors "ginhawa/internal/bookings/errors"
	"ginhawa/internal/bookings/validator"
	roomserrors "ginhawa/internal/rooms/errors"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	mu          sync.Mutex
	bookings    map[string]*model.Booking
	transitions []model.BookingTransition
	created     []*model.Booking
	findErr     error
	countFunc   func(filter model.BookingFilter) (int64, error)
	transitionE error
}

func newBookingRepo(bookings ...*model.Booking) *mockBookingRepository {
	m := &mockBookingRepository{bookings: map[string]*model.Booking{}}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.ID = "65f0000000000000000000ff"
	copied := *booking
	m.bookings[booking.ID] = &copied
	m.created = append(m.created, &copied)
	return nil
}

func (m *mockBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookingRepository) FindByReference(context.Context, string) (*model.Booking, error) {
	return nil, bookingserrors.ErrNotFound
}

// Find applies the subset of BookingFilter the front office relies on.
func (m *mockBookingRepository) Find(_ context.Context, f model.BookingFilter, _ int, _ int64) ([]*model.Booking, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Booking
	for _, b := range m.bookings {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, b.Status) {
			continue
		}
		if f.RoomType != "" && b.RoomType != f.RoomType {
			continue
		}
		if f.AssignedOnly && b.RoomNumber == nil {
			continue
		}
		if f.RoomNumber != nil && (b.RoomNumber == nil || *b.RoomNumber != *f.RoomNumber) {
			continue
		}
		if !f.OverlapIn.IsZero() && !(b.CheckIn.Before(f.OverlapOut) && b.CheckOut.After(f.OverlapIn)) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockBookingRepository) Count(_ context.Context, f model.BookingFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(f)
	}
	return 0, nil
}

func (m *mockBookingRepository) Transition(_ context.Context, id string, t model.BookingTransition) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitionE != nil {
		return m.transitionE
	}
	b, ok := m.bookings[id]
	if !ok || b.Status != t.From {
		return bookingserrors.ErrStatusChanged
	}
	b.Status = t.To
	if n, ok := t.Set["room_number"].(int); ok {
		b.RoomNumber = &n
	}
	m.transitions = append(m.transitions, t)
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return mongotx.NoTransaction{}.ExecuteTransaction(ctx, fn)
}

func containsStatus(list []model.BookingStatus, s model.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type mockRoomRepository struct {
	mu       sync.Mutex
	rooms    map[int]*model.Room
	stats    *model.RoomStats
	statsErr error
}

func newRoomRepo(rooms ...*model.Room) *mockRoomRepository {
	m := &mockRoomRepository{rooms: map[int]*model.Room{}}
	for _, r := range rooms {
		m.rooms[r.Number] = r
	}
	return m
}

func (m *mockRoomRepository) Find(context.Context, model.RoomFilter, int, int64) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) Count(context.Context, model.RoomFilter) (int64, error) {
	return int64(len(m.rooms)), nil
}

func (m *mockRoomRepository) FindByNumber(_ context.Context, number int) (*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[number]
	if !ok {
		return nil, roomserrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *mockRoomRepository) FindByType(_ context.Context, roomType model.RoomType) ([]*model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Room
	for _, r := range m.rooms {
		if r.Type == roomType {
			copied := *r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockRoomRepository) Stats(context.Context) (*model.RoomStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	if m.stats != nil {
		return m.stats, nil
	}
	return &model.RoomStats{}, nil
}

func (m *mockRoomRepository) UpdateStatus(_ context.Context, number int, from, to model.RoomStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[number]
	if !ok || r.Status != from {
		return roomserrors.ErrStatusChanged
	}
	r.Status = to
	return nil
}

func (m *mockRoomRepository) Occupy(_ context.Context, number int, from model.RoomStatus, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[number]
	if !ok || r.Status != from {
		return roomserrors.ErrStatusChanged
	}
	r.Status = model.RoomOccupied
	r.CurrentBookingID = bookingID
	return nil
}

func (m *mockRoomRepository) Release(_ context.Context, number int, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[number]
	if !ok || r.CurrentBookingID != bookingID {
		return roomserrors.ErrStatusChanged
	}
	r.Status = model.RoomCleaning
	r.CurrentBookingID = ""
	return nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

var today = model.MustParseDate("2026-03-10")

// The fixed clock puts "today" at 2026-03-10 in Manila.
func testConfig() *config.Config {
	loc, _ := time.LoadLocation("Asia/Manila")
	return &config.Config{
		Log:         logger.Discard(),
		ReadTimeout: 5 * time.Second,
		LockTTL:     10 * time.Second,
		Location:    loc,
		Clock:       func() time.Time { return time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC) },
	}
}

func newService(bookings *mockBookingRepository, rooms *mockRoomRepository, locker mongotx.Locker, rec *events.Recorder) FrontOfficeService {
	if locker == nil {
		locker = mongotx.NewMemoryLocker()
	}
	return NewFrontOfficeService(
		bookings,
		rooms,
		mongotx.NoTransaction{},
		locker,
		validator.NewBookingValidator(logger.Discard()),
		rec,
		testConfig(),
	)
}

func room(number int, roomType model.RoomType, status model.RoomStatus) *model.Room {
	return &model.Room{Number: number, Type: roomType, Status: status, Price: 2500}
}

func confirmed(id string, roomType model.RoomType, in, out string) *model.Booking {
	return &model.Booking{
		ID:            id,
		Reference:     "GIN-" + id[len(id)-6:],
		RoomType:      roomType,
		CheckIn:       model.MustParseDate(in),
		CheckOut:      model.MustParseDate(out),
		Guests:        2,
		Status:        model.BookingConfirmed,
		CustomerEmail: "guest@test.com",
	}
}

func intPtr(n int) *int { return &n }

// ────────────────────────────────────────────────
// CheckIn
// ────────────────────────────────────────────────

func TestCheckIn_AssignsLowestFreeRoom(t *testing.T) {
	holder := confirmed("65f000000000000000000002", model.RoomStandard, "2026-03-09", "2026-03-12")
	holder.Status = model.BookingCheckedIn
	holder.RoomNumber = intPtr(101)

	arriving := confirmed("65f000000000000000000001", model.RoomStandard, "2026-03-10", "2026-03-12")
	bookings := newBookingRepo(arriving, holder)
	rooms := newRoomRepo(
		room(103, model.RoomStandard, model.RoomAvailable),
		room(101, model.RoomStandard, model.RoomAvailable),
		room(102, model.RoomStandard, model.RoomCleaning),
		room(201, model.RoomDeluxe, model.RoomAvailable),
	)
	rec := &events.Recorder{}

	got, err := newService(bookings, rooms, nil, rec).CheckIn(context.Background(), arriving.ID)
	require.NoError(t, err)

	require.NotNil(t, got.RoomNumber)
	assert.Equal(t, 103, *got.RoomNumber)
	assert.Equal(t, model.BookingCheckedIn, got.Status)
	assert.NotNil(t, got.CheckedInAt)

	assert.Equal(t, model.RoomOccupied, rooms.rooms[103].Status)
	assert.Equal(t, arriving.ID, rooms.rooms[103].CurrentBookingID)
	assert.Equal(t, []string{events.BookingCheckedIn}, rec.Types())
}

func TestCheckIn_NoRoomAvailable(t *testing.T) {
	arriving := confirmed("65f000000000000000000001", model.RoomSuite, "2026-03-10", "2026-03-11")
	rooms := newRoomRepo(room(301, model.RoomSuite, model.RoomMaintenance))
	rec := &events.Recorder{}

	_, err := newService(newBookingRepo(arriving), rooms, nil, rec).CheckIn(context.Background(), arriving.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnavailableRoom))
	assert.Empty(t, rec.Events())
	assert.Equal(t, model.RoomMaintenance, rooms.rooms[301].Status)
}

func TestCheckIn_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		booking *model.Booking
		code    string
	}{
		{
			name: "already checked in",
			booking: func() *model.Booking {
				b := confirmed("65f000000000000000000001", model.RoomStandard, "2026-03-10", "2026-03-11")
				b.Status = model.BookingCheckedIn
				return b
			}(),
			code: apperrors.CodeInvalidTransition,
		},
		{
			name:    "arrives tomorrow",
			booking: confirmed("65f000000000000000000001", model.RoomStandard, "2026-03-11", "2026-03-12"),
			code:    apperrors.CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := newRoomRepo(room(101, model.RoomStandard, model.RoomAvailable))
			_, err := newService(newBookingRepo(tt.booking), rooms, nil, &events.Recorder{}).
				CheckIn(context.Background(), tt.booking.ID)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Equal(t, model.RoomAvailable, rooms.rooms[101].Status)
		})
	}
}

func TestCheckIn_NotFound(t *testing.T) {
	_, err := newService(newBookingRepo(), newRoomRepo(), nil, &events.Recorder{}).
		CheckIn(context.Background(), "65f000000000000000000009")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestCheckIn_RoomTypeLocked(t *testing.T) {
	arriving := confirmed("65f000000000000000000001", model.RoomStandard, "2026-03-10", "2026-03-11")
	locker := mongotx.NewMemoryLocker()
	release, err := locker.Acquire(context.Background(), "room_type:Standard", time.Minute)
	require.NoError(t, err)
	defer release()

	rooms := newRoomRepo(room(101, model.RoomStandard, model.RoomAvailable))
	_, err = newService(newBookingRepo(arriving), rooms, locker, &events.Recorder{}).
		CheckIn(context.Background(), arriving.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	assert.Equal(t, model.RoomAvailable, rooms.rooms[101].Status)
}

func TestCheckIn_LostRace(t *testing.T) {
	arriving := confirmed("65f000000000000000000001", model.RoomStandard, "2026-03-10", "2026-03-11")
	bookings := newBookingRepo(arriving)
	bookings.transitionE = bookingserrors.ErrStatusChanged

	_, err := newService(bookings, newRoomRepo(room(101, model.RoomStandard, model.RoomAvailable)), nil, &events.Recorder{}).
		CheckIn(context.Background(), arriving.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

// ────────────────────────────────────────────────
// CheckOut
// ────────────────────────────────────────────────

func TestCheckOut(t *testing.T) {
	stay := confirmed("65f000000000000000000001", model.RoomDeluxe, "2026-03-08", "2026-03-10")
	stay.Status = model.BookingCheckedIn
	stay.RoomNumber = intPtr(201)
	occupied := room(201, model.RoomDeluxe, model.RoomOccupied)
	occupied.CurrentBookingID = stay.ID

	bookings := newBookingRepo(stay)
	rooms := newRoomRepo(occupied)
	rec := &events.Recorder{}

	got, err := newService(bookings, rooms, nil, rec).CheckOut(context.Background(), stay.ID)
	require.NoError(t, err)

	assert.Equal(t, model.BookingCheckedOut, got.Status)
	assert.NotNil(t, got.CheckedOutAt)
	assert.Equal(t, model.RoomCleaning, rooms.rooms[201].Status)
	assert.Empty(t, rooms.rooms[201].CurrentBookingID)
	assert.Equal(t, []string{events.BookingCheckedOut}, rec.Types())
}

func TestCheckOut_NotCheckedIn(t *testing.T) {
	b := confirmed("65f000000000000000000001", model.RoomDeluxe, "2026-03-10", "2026-03-11")
	_, err := newService(newBookingRepo(b), newRoomRepo(), nil, &events.Recorder{}).
		CheckOut(context.Background(), b.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
}

func TestCheckOut_RoomHeldByAnotherBooking(t *testing.T) {
	stay := confirmed("65f000000000000000000001", model.RoomDeluxe, "2026-03-08", "2026-03-10")
	stay.Status = model.BookingCheckedIn
	stay.RoomNumber = intPtr(201)
	occupied := room(201, model.RoomDeluxe, model.RoomOccupied)
	occupied.CurrentBookingID = "65f0000000000000000000aa"

	_, err := newService(newBookingRepo(stay), newRoomRepo(occupied), nil, &events.Recorder{}).
		CheckOut(context.Background(), stay.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

// ────────────────────────────────────────────────
// AssignWalkIn
// ────────────────────────────────────────────────

func walkIn() *model.WalkInRequest {
	return &model.WalkInRequest{
		CheckOut:      model.MustParseDate("2026-03-12"),
		Guests:        2,
		CustomerEmail: "Walkin@Test.com",
		CustomerName:  "Maria Santos",
		CustomerPhone: "09171234567",
		PaymentMethod: "Cash",
	}
}

func TestAssignWalkIn(t *testing.T) {
	bookings := newBookingRepo()
	rooms := newRoomRepo(room(202, model.RoomDeluxe, model.RoomCleaning))
	rec := &events.Recorder{}

	got, err := newService(bookings, rooms, nil, rec).AssignWalkIn(context.Background(), 202, walkIn())
	require.NoError(t, err)

	assert.True(t, ident.HasPrefix(got.Reference, ident.PrefixWalkIn), got.Reference)
	assert.True(t, got.WalkIn)
	assert.Equal(t, model.BookingCheckedIn, got.Status)
	assert.Equal(t, model.RoomDeluxe, got.RoomType)
	assert.Equal(t, today, got.CheckIn)
	assert.Equal(t, 2, got.Nights)
	assert.Equal(t, int64(8000), got.TotalPrice)
	assert.Equal(t, "walkin@test.com", got.CustomerEmail)
	assert.Equal(t, "+639171234567", got.CustomerPhone)
	require.NotNil(t, got.RoomNumber)
	assert.Equal(t, 202, *got.RoomNumber)

	assert.Len(t, bookings.created, 1)
	assert.Equal(t, model.RoomOccupied, rooms.rooms[202].Status)
	assert.Equal(t, got.ID, rooms.rooms[202].CurrentBookingID)
	assert.Equal(t, []string{events.BookingCheckedIn}, rec.Types())
}

func TestAssignWalkIn_Rejections(t *testing.T) {
	future := confirmed("65f000000000000000000003", model.RoomDeluxe, "2026-03-11", "2026-03-14")
	future.RoomNumber = intPtr(202)

	tests := []struct {
		name     string
		rooms    []*model.Room
		bookings []*model.Booking
		number   int
		mutate   func(*model.WalkInRequest)
		code     string
	}{
		{
			name:   "unknown room",
			number: 999,
			code:   apperrors.CodeNotFound,
		},
		{
			name:   "occupied room",
			rooms:  []*model.Room{room(202, model.RoomDeluxe, model.RoomOccupied)},
			number: 202,
			code:   apperrors.CodeConflict,
		},
		{
			name:     "room booked later in the stay",
			rooms:    []*model.Room{room(202, model.RoomDeluxe, model.RoomAvailable)},
			bookings: []*model.Booking{future},
			number:   202,
			code:     apperrors.CodeConflict,
		},
		{
			name:   "check-in not today",
			rooms:  []*model.Room{room(202, model.RoomDeluxe, model.RoomAvailable)},
			number: 202,
			mutate: func(r *model.WalkInRequest) { r.CheckIn = model.MustParseDate("2026-03-11") },
			code:   apperrors.CodeValidation,
		},
		{
			name:   "too many guests",
			rooms:  []*model.Room{room(202, model.RoomDeluxe, model.RoomAvailable)},
			number: 202,
			mutate: func(r *model.WalkInRequest) { r.Guests = 11 },
			code:   apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := walkIn()
			if tt.mutate != nil {
				tt.mutate(req)
			}
			bookings := newBookingRepo(tt.bookings...)
			rec := &events.Recorder{}

			_, err := newService(bookings, newRoomRepo(tt.rooms...), nil, rec).AssignWalkIn(context.Background(), tt.number, req)
			assert.True(t, apperrors.HasCode(err, tt.code), "got %v", err)
			assert.Empty(t, bookings.created)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestAssignWalkIn_GuestLeavingTodayDoesNotBlock(t *testing.T) {
	leaving := confirmed("65f000000000000000000004", model.RoomDeluxe, "2026-03-08", "2026-03-10")
	leaving.Status = model.BookingCheckedIn
	leaving.RoomNumber = intPtr(202)

	rooms := newRoomRepo(room(202, model.RoomDeluxe, model.RoomAvailable))
	_, err := newService(newBookingRepo(leaving), rooms, nil, &events.Recorder{}).
		AssignWalkIn(context.Background(), 202, walkIn())
	require.NoError(t, err)
}

// ────────────────────────────────────────────────
// Dashboard, tabs and room details
// ────────────────────────────────────────────────

func TestDashboard(t *testing.T) {
	bookings := newBookingRepo()
	bookings.countFunc = func(f model.BookingFilter) (int64, error) {
		switch {
		case f.CheckIn.Equal(today):
			return 4, nil
		case f.CheckOut.Equal(today):
			return 2, nil
		default:
			return 7, nil
		}
	}
	rooms := newRoomRepo()
	rooms.stats = &model.RoomStats{Total: 10, Occupied: 7, Available: 3, OccupancyRate: 70}

	got, err := newService(bookings, rooms, nil, &events.Recorder{}).Dashboard(context.Background(), model.Date{})
	require.NoError(t, err)

	assert.Equal(t, today, got.Date)
	assert.Equal(t, int64(4), got.Arrivals)
	assert.Equal(t, int64(2), got.Departures)
	assert.Equal(t, int64(7), got.InHouse)
	assert.Equal(t, 70, got.OccupancyRate)
	assert.Equal(t, int64(10), got.Rooms.Total)
}

func TestDashboard_RepositoryFailure(t *testing.T) {
	rooms := newRoomRepo()
	rooms.statsErr = errors.New("mongo down")

	_, err := newService(newBookingRepo(), rooms, nil, &events.Recorder{}).Dashboard(context.Background(), today)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestTabFilter(t *testing.T) {
	arrivals := tabFilter(model.TabArrivals, today)
	assert.Equal(t, today, arrivals.CheckIn)
	assert.Equal(t, model.BookingCancelled, arrivals.ExcludeStatus)

	departures := tabFilter(model.TabDepartures, today)
	assert.Equal(t, today, departures.CheckOut)
	assert.Equal(t, []model.BookingStatus{model.BookingCheckedIn}, departures.Statuses)

	inHouse := tabFilter(model.TabInHouse, today)
	assert.True(t, inHouse.CheckIn.IsZero())
	assert.Equal(t, []model.BookingStatus{model.BookingCheckedIn}, inHouse.Statuses)

	upcoming := tabFilter(model.TabUpcoming, today)
	assert.Equal(t, today, upcoming.CheckInAfter)
	assert.Equal(t, []model.BookingStatus{model.BookingConfirmed}, upcoming.Statuses)
}

func TestListByTab_UnknownTab(t *testing.T) {
	_, err := newService(newBookingRepo(), newRoomRepo(), nil, &events.Recorder{}).
		ListByTab(context.Background(), "lobby", today)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestRoomDetails(t *testing.T) {
	stay := confirmed("65f000000000000000000001", model.RoomDeluxe, "2026-03-08", "2026-03-12")
	stay.Status = model.BookingCheckedIn
	occupied := room(201, model.RoomDeluxe, model.RoomOccupied)
	occupied.CurrentBookingID = stay.ID
	orphan := room(202, model.RoomDeluxe, model.RoomOccupied)
	orphan.CurrentBookingID = "65f0000000000000000000ee"

	svc := newService(newBookingRepo(stay), newRoomRepo(occupied, orphan, room(203, model.RoomDeluxe, model.RoomAvailable)), nil, &events.Recorder{})

	details, err := svc.RoomDetails(context.Background(), 201)
	require.NoError(t, err)
	require.NotNil(t, details.CurrentGuest)
	assert.Equal(t, stay.Reference, details.CurrentGuest.Reference)

	details, err = svc.RoomDetails(context.Background(), 202)
	require.NoError(t, err)
	assert.Nil(t, details.CurrentGuest)

	details, err = svc.RoomDetails(context.Background(), 203)
	require.NoError(t, err)
	assert.Nil(t, details.CurrentGuest)

	_, err = svc.RoomDetails(context.Background(), 404)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
