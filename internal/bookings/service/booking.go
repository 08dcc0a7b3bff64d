package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "ginhawa/internal/bookings/errors"
	"ginhawa/internal/bookings/repository"
	"ginhawa/internal/bookings/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"
	"ginhawa/pkg/sanitizer"
	"ginhawa/pkg/validation"
)

type BookingService interface {
	Quote(checkIn, checkOut model.Date, guests int) ([]model.BookingQuote, error)
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByReference(ctx context.Context, reference string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Quote prices a stay for every room type in the catalog.
func (s *bookingService) Quote(checkIn, checkOut model.Date, guests int) ([]model.BookingQuote, error) {
	if err := validator.ValidateStay(checkIn, checkOut, model.Date{}); err != nil {
		return nil, ValidationError(err)
	}
	if err := validator.ValidateGuests(guests); err != nil {
		return nil, ValidationError(err)
	}

	nights := model.NightsBetween(checkIn, checkOut)
	quotes := make([]model.BookingQuote, 0, len(model.RoomCatalog))
	for _, info := range model.RoomCatalog {
		quotes = append(quotes, model.BookingQuote{
			RoomType: info.Type,
			Price:    info.Price,
			Nights:   nights,
			Total:    info.Price * int64(nights),
			Features: info.Features,
		})
	}
	return quotes, nil
}

func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	if err := Sanitize(booking); err != nil {
		return err
	}
	if err := s.validator.Validate(booking, s.today()); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return ValidationError(err)
	}
	s.applyDefaults(booking)

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"reference", booking.Reference,
		"room_type", booking.RoomType,
		"check_in", booking.CheckIn,
		"check_out", booking.CheckOut,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.BookingConfirmed, Key: booking.Reference, Payload: booking})
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	if !ident.HasPrefix(reference, ident.PrefixBooking) && !ident.HasPrefix(reference, ident.PrefixWalkIn) {
		return nil, apperrors.InvalidInput("Invalid booking reference")
	}

	booking, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		return nil, s.mapFindError(err, reference)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return s.list(ctx, model.BookingFilter{}, limit, offset)
}

func (s *bookingService) ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Booking, int64, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, 0, apperrors.InvalidInput("Customer email is required")
	}
	return s.list(ctx, model.BookingFilter{CustomerEmail: email}, limit, offset)
}

func (s *bookingService) list(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.Find(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel only applies to bookings that have not been checked in.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingConfirmed {
		return nil, apperrors.InvalidTransition("Booking", string(booking.Status), string(model.BookingCancelled))
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	err = s.repo.Transition(ctx, id, model.BookingTransition{
		From: model.BookingConfirmed,
		To:   model.BookingCancelled,
		Set:  map[string]any{"cancelled_at": now},
	})
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Booking", string(booking.Status), string(model.BookingCancelled))
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Status = model.BookingCancelled
	booking.CancelledAt = &now
	s.cfg.Log.Info("Booking cancelled", "id", id, "reference", booking.Reference)
	s.publisher.Publish(ctx, events.Event{Type: events.BookingCancelled, Key: booking.Reference, Payload: booking})
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) today() model.Date {
	return model.DateOf(s.cfg.Now())
}

// Sanitize normalizes the guest-entered fields of b. A phone number that
// cannot be parsed is a validation error rather than silently dropped.
func Sanitize(b *model.Booking) error {
	b.Destination = sanitizer.NormalizeName(b.Destination)
	b.CustomerName = sanitizer.NormalizeName(b.CustomerName)
	b.CustomerEmail = sanitizer.NormalizeEmail(b.CustomerEmail)
	b.PaymentMethod = sanitizer.TrimAndNormalize(b.PaymentMethod)
	if b.CustomerPhone != "" {
		phone := sanitizer.NormalizePhone(b.CustomerPhone)
		if phone == "" {
			return apperrors.Validation("Booking validation failed", map[string]any{
				"customer_phone": "customer_phone must be a valid phone number",
			})
		}
		b.CustomerPhone = phone
	}
	return nil
}

// ApplyPricing sets nights and prices from the catalog, never from the client.
func ApplyPricing(b *model.Booking) {
	info, _ := model.LookupRoomType(b.RoomType)
	b.Nights = model.NightsBetween(b.CheckIn, b.CheckOut)
	b.RoomPrice = info.Price
	b.TotalPrice = info.Price * int64(b.Nights)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	b.ID = ""
	b.Reference = ident.NewReference(ident.PrefixBooking)
	b.Type = model.BookingTypeHotel
	ApplyPricing(b)
	b.Status = model.BookingConfirmed
	b.RoomNumber = nil
	b.WalkIn = false
	b.CheckedInAt = nil
	b.CheckedOutAt = nil
	b.CancelledAt = nil
}

func (s *bookingService) mapFindError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve booking", err)
}

// ValidationError converts validator output into a 422 AppError.
func ValidationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}
