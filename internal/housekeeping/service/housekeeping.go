package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	hkerrors "ginhawa/internal/housekeeping/errors"
	"ginhawa/internal/housekeeping/repository"
	"ginhawa/internal/housekeeping/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/model"
	"ginhawa/pkg/sanitizer"
	"ginhawa/pkg/validation"
)

type HousekeepingService interface {
	Submit(ctx context.Context, request *model.HousekeepingRequest) error
	GetByID(ctx context.Context, id string) (*model.HousekeepingRequest, error)
	List(ctx context.Context, status model.HousekeepingStatus, limit int, offset int64) ([]*model.HousekeepingRequest, int64, error)
	Counts(ctx context.Context) (*model.HousekeepingCounts, error)
	Assign(ctx context.Context, id, staffEmail string) (*model.HousekeepingRequest, error)
	Complete(ctx context.Context, id string) (*model.HousekeepingRequest, error)
}

type housekeepingService struct {
	repo      repository.HousekeepingRepository
	validator *validator.HousekeepingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewHousekeepingService(repo repository.HousekeepingRepository, validator *validator.HousekeepingValidator, publisher events.Publisher, cfg *config.Config) HousekeepingService {
	return &housekeepingService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Submit files a guest request. Request types are matched to the catalog
// ignoring case, and repeats are dropped.
func (s *housekeepingService) Submit(ctx context.Context, request *model.HousekeepingRequest) error {
	request.ID = ""
	request.RoomNumber = sanitizer.NormalizeLabel(request.RoomNumber)
	request.RequestTypes = sanitizer.Canonicalize(request.RequestTypes, model.HousekeepingRequestTypes)
	request.Notes = sanitizer.NormalizeText(request.Notes, 500)
	request.CustomerEmail = sanitizer.NormalizeEmail(request.CustomerEmail)
	request.CustomerName = sanitizer.NormalizeName(request.CustomerName)

	if err := s.validator.Validate(request); err != nil {
		s.cfg.Log.Warn("Housekeeping request validation failed", "room", request.RoomNumber, "error", err)
		return validationError(err)
	}

	request.Reference = ident.NewReference(ident.PrefixHousekeeping)
	request.Status = model.HousekeepingPending
	request.AssignedTo = ""
	request.StartedAt = nil
	request.CompletedAt = nil

	if err := s.repo.Create(ctx, request); err != nil {
		s.cfg.Log.Error("Failed to create housekeeping request", "reference", request.Reference, "error", err)
		return apperrors.Internal("Failed to submit housekeeping request", err)
	}

	s.cfg.Log.Info("Housekeeping request submitted",
		"id", request.ID,
		"reference", request.Reference,
		"room", request.RoomNumber,
		"types", request.RequestTypes,
	)
	s.publisher.Publish(ctx, events.Event{Type: events.HousekeepingRequested, Key: request.Reference, Payload: request})
	return nil
}

func (s *housekeepingService) GetByID(ctx context.Context, id string) (*model.HousekeepingRequest, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Housekeeping request ID cannot be empty")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, hkerrors.ErrNotFound):
			return nil, apperrors.NotFoundWithID("Housekeeping request", id)
		case errors.Is(err, hkerrors.ErrInvalidID):
			return nil, apperrors.InvalidInput("Invalid housekeeping request ID format")
		}
		s.cfg.Log.Error("Failed to retrieve housekeeping request", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve housekeeping request", err)
	}
	return request, nil
}

func (s *housekeepingService) List(ctx context.Context, status model.HousekeepingStatus, limit int, offset int64) ([]*model.HousekeepingRequest, int64, error) {
	switch status {
	case "", model.HousekeepingPending, model.HousekeepingInProgress, model.HousekeepingCompleted:
	default:
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown status %q", status))
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var (
		requests []*model.HousekeepingRequest
		total    int64
		countErr error
		findErr  error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		total, countErr = s.repo.Count(ctx, status)
	}()
	go func() {
		defer wg.Done()
		requests, findErr = s.repo.Find(ctx, status, limit, offset)
	}()
	wg.Wait()

	if err := errors.Join(countErr, findErr); err != nil {
		s.cfg.Log.Error("Failed to list housekeeping requests", "status", status, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve housekeeping requests", err)
	}
	return requests, total, nil
}

func (s *housekeepingService) Counts(ctx context.Context) (*model.HousekeepingCounts, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count housekeeping requests", "error", err)
		return nil, apperrors.Internal("Failed to count housekeeping requests", err)
	}
	return counts, nil
}

func (s *housekeepingService) Assign(ctx context.Context, id, staffEmail string) (*model.HousekeepingRequest, error) {
	staffEmail = sanitizer.NormalizeEmail(staffEmail)
	if staffEmail == "" {
		return nil, apperrors.Validation("Assignment failed", map[string]any{"assigned_to": "assigned_to is required"})
	}

	startedAt := time.Now().UTC().Truncate(time.Millisecond)
	request, err := s.transition(ctx, id, model.HousekeepingPending, model.HousekeepingInProgress, map[string]any{
		"assigned_to": staffEmail,
		"started_at":  startedAt,
	})
	if err != nil {
		return nil, err
	}
	request.AssignedTo = staffEmail
	request.StartedAt = &startedAt
	return request, nil
}

// Complete closes a request. Room status is left to room facilities.
func (s *housekeepingService) Complete(ctx context.Context, id string) (*model.HousekeepingRequest, error) {
	completedAt := time.Now().UTC().Truncate(time.Millisecond)
	request, err := s.transition(ctx, id, model.HousekeepingInProgress, model.HousekeepingCompleted, map[string]any{
		"completed_at": completedAt,
	})
	if err != nil {
		return nil, err
	}
	request.CompletedAt = &completedAt
	return request, nil
}

func (s *housekeepingService) transition(ctx context.Context, id string, from, to model.HousekeepingStatus, set map[string]any) (*model.HousekeepingRequest, error) {
	request, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != from {
		return nil, apperrors.InvalidTransition("Housekeeping request", string(request.Status), string(to))
	}

	if err := s.repo.Transition(ctx, request.ID, from, to, set); err != nil {
		if errors.Is(err, hkerrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Housekeeping request", string(from), string(to))
		}
		s.cfg.Log.Error("Failed to update housekeeping request", "id", id, "status", to, "error", err)
		return nil, apperrors.Internal("Failed to update housekeeping request", err)
	}

	s.cfg.Log.Info("Housekeeping request updated", "id", request.ID, "reference", request.Reference, "from", from, "to", to)
	request.Status = to
	return request, nil
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Housekeeping request validation failed", verrs.Details())
	}
	return apperrors.Validation("Housekeeping request validation failed", map[string]any{"error": err.Error()})
}
