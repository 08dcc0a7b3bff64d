package service

import (
	"context"
	"errors"
	"sync"

	reservationserrors "ginhawa/internal/reservations/errors"
	"ginhawa/internal/reservations/repository"
	"ginhawa/internal/reservations/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"
	"ginhawa/pkg/sanitizer"
	"ginhawa/pkg/validation"
)

type ReservationService interface {
	Options() model.DiningOptions
	Create(ctx context.Context, reservation *model.Reservation) error
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	List(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
	ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, int64, error)
	Cancel(ctx context.Context, id string) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id string, next model.ReservationStatus) (*model.Reservation, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	validator *validator.ReservationValidator
	cfg       *config.Config
}

func NewReservationService(repo repository.ReservationRepository, validator *validator.ReservationValidator, cfg *config.Config) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reservationService) Options() model.DiningOptions {
	return model.DiningOptions{
		TimeSlots: model.TimeSlots(),
		Seating:   model.SeatingOptions,
		MinGuests: validator.MinGuests,
		MaxGuests: validator.MaxGuests,
	}
}

func (s *reservationService) Create(ctx context.Context, reservation *model.Reservation) error {
	reservation.ID = ""
	reservation.CustomerEmail = sanitizer.NormalizeEmail(reservation.CustomerEmail)
	reservation.CustomerName = sanitizer.NormalizeName(reservation.CustomerName)
	reservation.SpecialRequests = sanitizer.NormalizeText(reservation.SpecialRequests, 500)
	reservation.Seating = sanitizer.CanonicalizeValue(reservation.Seating, model.SeatingOptions)
	if reservation.CustomerPhone != "" {
		phone := sanitizer.NormalizePhone(reservation.CustomerPhone)
		if phone == "" {
			return apperrors.Validation("Reservation validation failed", map[string]any{
				"customer_phone": "customer_phone must be a valid phone number",
			})
		}
		reservation.CustomerPhone = phone
	}

	if err := s.validator.Validate(reservation, model.DateOf(s.cfg.Now())); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "date", reservation.Date, "time", reservation.Time, "error", err)
		return validationError(err)
	}

	reservation.Reference = ident.NewReference(ident.PrefixReservation)
	reservation.Type = model.ReservationTypeRestaurant
	reservation.Status = model.ReservationConfirmed

	if err := s.repo.Create(ctx, reservation); err != nil {
		s.cfg.Log.Error("Failed to create reservation", "reference", reservation.Reference, "error", err)
		return apperrors.Internal("Failed to create reservation", err)
	}

	s.cfg.Log.Info("Reservation created",
		"id", reservation.ID,
		"reference", reservation.Reference,
		"date", reservation.Date,
		"time", reservation.Time,
		"guests", reservation.Guests,
	)
	return nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, reservationserrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Reservation", id)
		case errors.Is(err, reservationserrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		s.cfg.Log.Error("Failed to retrieve reservation", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		reservations []*model.Reservation
		total        int64
		countErr     error
		findErr      error
		wg           sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx, filter)
	}()
	go func() {
		defer wg.Done()
		reservations, findErr = s.repo.Find(ctx, filter, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(countErr, findErr); err != nil {
		s.cfg.Log.Error("Failed to list reservations", "date", filter.Date, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", err)
	}
	return reservations, total, nil
}

func (s *reservationService) ListByCustomer(ctx context.Context, email string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, 0, apperrors.InvalidInput("Customer email cannot be empty")
	}
	return s.List(ctx, model.ReservationFilter{CustomerEmail: email}, limit, offset)
}

func (s *reservationService) Cancel(ctx context.Context, id string) (*model.Reservation, error) {
	return s.UpdateStatus(ctx, id, model.ReservationCancelled)
}

func (s *reservationService) UpdateStatus(ctx context.Context, id string, next model.ReservationStatus) (*model.Reservation, error) {
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !reservation.Status.CanTransition(next) {
		return nil, apperrors.InvalidTransition("Reservation", string(reservation.Status), string(next))
	}

	if err := s.repo.Transition(ctx, reservation.ID, reservation.Status, next); err != nil {
		if errors.Is(err, reservationserrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Reservation", string(reservation.Status), string(next))
		}
		s.cfg.Log.Error("Failed to update reservation status", "id", id, "status", next, "error", err)
		return nil, apperrors.Internal("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation status updated", "id", reservation.ID, "reference", reservation.Reference, "from", reservation.Status, "to", next)
	reservation.Status = next
	return reservation, nil
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Reservation validation failed", verrs.Details())
	}
	return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
}
