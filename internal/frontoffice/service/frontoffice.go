package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "ginhawa/internal/bookings/errors"
	bookingsrepo "ginhawa/internal/bookings/repository"
	bookingsservice "ginhawa/internal/bookings/service"
	"ginhawa/internal/bookings/validator"
	"ginhawa/internal/frontoffice/availability"
	roomserrors "ginhawa/internal/rooms/errors"
	roomsrepo "ginhawa/internal/rooms/repository"
	"ginhawa/pkg/config"
	mongotx "ginhawa/pkg/db/mongo"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

var holdingStatuses = []model.BookingStatus{model.BookingConfirmed, model.BookingCheckedIn}

type FrontOfficeService interface {
	Dashboard(ctx context.Context, today model.Date) (*model.FrontOfficeDashboard, error)
	ListByTab(ctx context.Context, tab model.FrontOfficeTab, today model.Date) ([]*model.Booking, error)
	CheckIn(ctx context.Context, bookingID string) (*model.Booking, error)
	CheckOut(ctx context.Context, bookingID string) (*model.Booking, error)
	AssignWalkIn(ctx context.Context, roomNumber int, req *model.WalkInRequest) (*model.Booking, error)
	RoomDetails(ctx context.Context, roomNumber int) (*model.RoomDetails, error)
}

type frontOfficeService struct {
	bookings  bookingsrepo.BookingRepository
	rooms     roomsrepo.RoomRepository
	txManager mongotx.TransactionManager
	locker    mongotx.Locker
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewFrontOfficeService(
	bookings bookingsrepo.BookingRepository,
	rooms roomsrepo.RoomRepository,
	txManager mongotx.TransactionManager,
	locker mongotx.Locker,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) FrontOfficeService {
	return &frontOfficeService{
		bookings:  bookings,
		rooms:     rooms,
		txManager: txManager,
		locker:    locker,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *frontOfficeService) Dashboard(ctx context.Context, today model.Date) (*model.FrontOfficeDashboard, error) {
	today = s.resolveDay(today)

	dashboard := &model.FrontOfficeDashboard{Date: today}
	counts := []struct {
		target *int64
		filter model.BookingFilter
	}{
		{&dashboard.Arrivals, tabFilter(model.TabArrivals, today)},
		{&dashboard.Departures, tabFilter(model.TabDepartures, today)},
		{&dashboard.InHouse, tabFilter(model.TabInHouse, today)},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(counts)+1)
	for i, c := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			*c.target, errs[i] = s.bookings.Count(ctx, c.filter)
		}()
	}

	var stats *model.RoomStats
	wg.Add(1)
	go func() {
		defer wg.Done()
		stats, errs[len(counts)] = s.rooms.Stats(ctx)
	}()
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		s.cfg.Log.Error("Failed to build front office dashboard", "date", today, "error", err)
		return nil, apperrors.Internal("Failed to build dashboard", err)
	}

	dashboard.Rooms = *stats
	dashboard.OccupancyRate = stats.OccupancyRate
	return dashboard, nil
}

func (s *frontOfficeService) ListByTab(ctx context.Context, tab model.FrontOfficeTab, today model.Date) ([]*model.Booking, error) {
	switch tab {
	case model.TabArrivals, model.TabDepartures, model.TabInHouse, model.TabUpcoming:
	default:
		return nil, apperrors.InvalidInput(fmt.Sprintf("Unknown tab %q, expected arrivals, departures, inhouse or upcoming", tab))
	}

	bookings, err := s.bookings.Find(ctx, tabFilter(tab, s.resolveDay(today)), 0, 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list front office bookings", "tab", tab, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// CheckIn assigns the lowest free room of the booked type and marks both
// the booking and the room in one transaction. Assignment for a room type
// is serialized through an advisory lock.
func (s *frontOfficeService) CheckIn(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingConfirmed {
		return nil, apperrors.InvalidTransition("Booking", string(booking.Status), string(model.BookingCheckedIn))
	}
	if today := s.today(); !booking.CheckIn.Equal(today) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking %s checks in on %s, not today (%s)", booking.Reference, booking.CheckIn, today))
	}

	release, err := s.lockRoomType(ctx, booking.RoomType)
	if err != nil {
		return nil, err
	}
	defer release()

	now := time.Now().UTC().Truncate(time.Millisecond)
	var assigned *model.Room
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		rooms, err := s.rooms.FindByType(sessCtx, booking.RoomType)
		if err != nil {
			return apperrors.Internal("Failed to load rooms", err)
		}
		holding, err := s.bookings.Find(sessCtx, model.BookingFilter{
			Statuses:     holdingStatuses,
			RoomType:     booking.RoomType,
			AssignedOnly: true,
			OverlapIn:    booking.CheckIn,
			OverlapOut:   booking.CheckOut,
		}, 0, 0)
		if err != nil {
			return apperrors.Internal("Failed to load overlapping bookings", err)
		}

		room, ok := availability.FindFreeRoom(rooms, holding, booking.RoomType, booking.CheckIn, booking.CheckOut)
		if !ok {
			return apperrors.NoRoomAvailable(string(booking.RoomType))
		}

		err = s.bookings.Transition(sessCtx, booking.ID, model.BookingTransition{
			From: model.BookingConfirmed,
			To:   model.BookingCheckedIn,
			Set: map[string]any{
				"room_number":   room.Number,
				"checked_in_at": now,
			},
		})
		if err != nil {
			return s.mapTransitionError(err, booking.Status, model.BookingCheckedIn)
		}

		if err := s.rooms.Occupy(sessCtx, room.Number, model.RoomAvailable, booking.ID); err != nil {
			return s.mapRoomError(err, room.Number)
		}
		assigned = room
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Check-in failed", "booking_id", bookingID, "error", err)
		return nil, asAppError(err, "Failed to check in guest")
	}

	booking.Status = model.BookingCheckedIn
	booking.RoomNumber = &assigned.Number
	booking.CheckedInAt = &now
	s.cfg.Log.Info("Guest checked in",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"room", assigned.Number,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.BookingCheckedIn, Key: booking.Reference, Payload: booking})
	return booking, nil
}

// CheckOut closes the stay and hands the room to housekeeping.
func (s *frontOfficeService) CheckOut(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingCheckedIn {
		return nil, apperrors.InvalidTransition("Booking", string(booking.Status), string(model.BookingCheckedOut))
	}
	if booking.RoomNumber == nil {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking %s has no room assigned", booking.Reference))
	}
	number := *booking.RoomNumber

	now := time.Now().UTC().Truncate(time.Millisecond)
	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		err := s.bookings.Transition(sessCtx, booking.ID, model.BookingTransition{
			From: model.BookingCheckedIn,
			To:   model.BookingCheckedOut,
			Set:  map[string]any{"checked_out_at": now},
		})
		if err != nil {
			return s.mapTransitionError(err, booking.Status, model.BookingCheckedOut)
		}
		if err := s.rooms.Release(sessCtx, number, booking.ID); err != nil {
			return s.mapRoomError(err, number)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Check-out failed", "booking_id", bookingID, "error", err)
		return nil, asAppError(err, "Failed to check out guest")
	}

	booking.Status = model.BookingCheckedOut
	booking.CheckedOutAt = &now
	s.cfg.Log.Info("Guest checked out",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"room", number,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.BookingCheckedOut, Key: booking.Reference, Payload: booking})
	return booking, nil
}

// AssignWalkIn seats a guest without a prior booking straight into a room.
// The booking is created already checked in.
func (s *frontOfficeService) AssignWalkIn(ctx context.Context, roomNumber int, req *model.WalkInRequest) (*model.Booking, error) {
	room, err := s.findRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}
	if room.Status == model.RoomOccupied {
		return nil, apperrors.Conflict(fmt.Sprintf("Room %d is occupied", roomNumber))
	}

	today := s.today()
	booking := &model.Booking{
		Destination:   req.Destination,
		CheckIn:       req.CheckIn,
		CheckOut:      req.CheckOut,
		Guests:        req.Guests,
		RoomType:      room.Type,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
	}
	if booking.CheckIn.IsZero() {
		booking.CheckIn = today
	}
	if booking.Destination == "" {
		booking.Destination = "Walk-in"
	}
	if err := bookingsservice.Sanitize(booking); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(booking, today); err != nil {
		return nil, bookingsservice.ValidationError(err)
	}
	if !booking.CheckIn.Equal(today) {
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"check_in": "walk-in guests check in today",
		})
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.Reference = ident.NewReference(ident.PrefixWalkIn)
	booking.Type = model.BookingTypeHotel
	booking.Status = model.BookingCheckedIn
	booking.WalkIn = true
	booking.RoomNumber = &roomNumber
	booking.CheckedInAt = &now
	bookingsservice.ApplyPricing(booking)

	release, err := s.lockRoomType(ctx, room.Type)
	if err != nil {
		return nil, err
	}
	defer release()

	err = s.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking.ID = ""

		current, err := s.rooms.FindByNumber(sessCtx, roomNumber)
		if err != nil {
			return s.mapRoomError(err, roomNumber)
		}
		if current.Status == model.RoomOccupied {
			return apperrors.Conflict(fmt.Sprintf("Room %d is occupied", roomNumber))
		}

		holding, err := s.bookings.Find(sessCtx, model.BookingFilter{
			Statuses:   holdingStatuses,
			RoomNumber: &roomNumber,
			OverlapIn:  booking.CheckIn,
			OverlapOut: booking.CheckOut,
		}, 0, 0)
		if err != nil {
			return apperrors.Internal("Failed to load overlapping bookings", err)
		}
		if !availability.IsFree(roomNumber, holding, booking.CheckIn, booking.CheckOut) {
			return apperrors.Conflict(fmt.Sprintf("Room %d is booked for part of %s to %s", roomNumber, booking.CheckIn, booking.CheckOut))
		}

		if err := s.bookings.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create walk-in booking", err)
		}
		if err := s.rooms.Occupy(sessCtx, roomNumber, current.Status, booking.ID); err != nil {
			return s.mapRoomError(err, roomNumber)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Warn("Walk-in assignment failed", "room", roomNumber, "error", err)
		return nil, asAppError(err, "Failed to assign room")
	}

	s.cfg.Log.Info("Walk-in guest assigned",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"room", roomNumber,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.BookingCheckedIn, Key: booking.Reference, Payload: booking})
	return booking, nil
}

func (s *frontOfficeService) RoomDetails(ctx context.Context, roomNumber int) (*model.RoomDetails, error) {
	room, err := s.findRoom(ctx, roomNumber)
	if err != nil {
		return nil, err
	}

	details := &model.RoomDetails{Room: room}
	if room.CurrentBookingID == "" {
		return details, nil
	}

	guest, err := s.bookings.FindByID(ctx, room.CurrentBookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			s.cfg.Log.Warn("Room points at a missing booking", "room", roomNumber, "booking_id", room.CurrentBookingID)
			return details, nil
		}
		s.cfg.Log.Error("Failed to load current guest", "room", roomNumber, "error", err)
		return nil, apperrors.Internal("Failed to load current guest", err)
	}
	details.CurrentGuest = guest
	return details, nil
}

// --- Helpers ---

func tabFilter(tab model.FrontOfficeTab, today model.Date) model.BookingFilter {
	switch tab {
	case model.TabArrivals:
		return model.BookingFilter{CheckIn: today, ExcludeStatus: model.BookingCancelled}
	case model.TabDepartures:
		return model.BookingFilter{CheckOut: today, Statuses: []model.BookingStatus{model.BookingCheckedIn}}
	case model.TabInHouse:
		return model.BookingFilter{Statuses: []model.BookingStatus{model.BookingCheckedIn}}
	default:
		return model.BookingFilter{CheckInAfter: today, Statuses: []model.BookingStatus{model.BookingConfirmed}}
	}
}

func (s *frontOfficeService) today() model.Date {
	return model.DateOf(s.cfg.Now())
}

func (s *frontOfficeService) resolveDay(d model.Date) model.Date {
	if d.IsZero() {
		return s.today()
	}
	return d
}

func (s *frontOfficeService) lockRoomType(ctx context.Context, roomType model.RoomType) (func(), error) {
	release, err := s.locker.Acquire(ctx, "room_type:"+string(roomType), s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, mongotx.ErrLocked) {
			return nil, apperrors.Conflict(fmt.Sprintf("%s rooms are being assigned by another request. Please try again.", roomType))
		}
		s.cfg.Log.Error("Failed to acquire room assignment lock", "room_type", roomType, "error", err)
		return nil, apperrors.Internal("Failed to acquire room assignment lock", err)
	}
	return release, nil
}

func (s *frontOfficeService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *frontOfficeService) findRoom(ctx context.Context, number int) (*model.Room, error) {
	room, err := s.rooms.FindByNumber(ctx, number)
	if err != nil {
		return nil, s.mapRoomError(err, number)
	}
	return room, nil
}

func (s *frontOfficeService) mapTransitionError(err error, from, to model.BookingStatus) error {
	if errors.Is(err, bookingserrors.ErrStatusChanged) {
		return apperrors.InvalidTransition("Booking", string(from), string(to))
	}
	return apperrors.Internal("Failed to update booking", err)
}

func (s *frontOfficeService) mapRoomError(err error, number int) error {
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Room", fmt.Sprint(number))
	case errors.Is(err, roomserrors.ErrStatusChanged):
		return apperrors.Conflict(fmt.Sprintf("Room %d changed status during the request. Please try again.", number))
	default:
		return apperrors.Internal("Failed to update room", err)
	}
}

func asAppError(err error, message string) error {
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(message, err)
}
