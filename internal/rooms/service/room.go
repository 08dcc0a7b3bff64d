package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	roomserrors "ginhawa/internal/rooms/errors"
	"ginhawa/internal/rooms/repository"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/model"
)

var settableStatuses = []model.RoomStatus{model.RoomAvailable, model.RoomCleaning, model.RoomMaintenance}

type RoomService interface {
	List(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error)
	GetByNumber(ctx context.Context, number int) (*model.Room, error)
	Stats(ctx context.Context) (*model.RoomStats, error)
	UpdateStatus(ctx context.Context, number int, status model.RoomStatus) (*model.Room, error)
	ToggleStatus(ctx context.Context, number int) (*model.Room, error)
	Catalog() []model.RoomTypeInfo
}

type roomService struct {
	repo repository.RoomRepository
	cfg  *config.Config
}

func NewRoomService(repo repository.RoomRepository, cfg *config.Config) RoomService {
	return &roomService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *roomService) List(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, int64, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown room status: %s", filter.Status))
	}
	if filter.Type != "" {
		if _, ok := model.LookupRoomType(filter.Type); !ok {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("Unknown room type: %s", filter.Type))
		}
	}

	var count int64
	var rooms []*model.Room
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
	}()

	go func() {
		defer wg.Done()
		rooms, errFind = s.repo.Find(ctx, filter, limit, offset)
	}()

	wg.Wait()
	for _, err := range []error{errCount, errFind} {
		if err == nil {
			continue
		}
		if errors.Is(err, roomserrors.ErrInvalidNumberFilter) {
			return nil, 0, apperrors.InvalidInput("Room number filter must contain digits only")
		}
		s.cfg.Log.Error("Failed to list rooms", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve rooms", err)
	}

	return rooms, count, nil
}

func (s *roomService) GetByNumber(ctx context.Context, number int) (*model.Room, error) {
	room, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", fmt.Sprint(number))
		}
		s.cfg.Log.Error("Failed to find room", "number", number, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) Stats(ctx context.Context) (*model.RoomStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to compute room stats", "error", err)
		return nil, apperrors.Internal("Failed to compute room statistics", err)
	}
	return stats, nil
}

// UpdateStatus is the room facilities control. Occupancy is owned by
// check-in and check-out, so an occupied room cannot be changed here and
// no room can be set to Occupied.
func (s *roomService) UpdateStatus(ctx context.Context, number int, status model.RoomStatus) (*model.Room, error) {
	if status == model.RoomOccupied {
		return nil, apperrors.InvalidInput("Rooms become Occupied only through check-in")
	}
	if !slices.Contains(settableStatuses, status) {
		return nil, apperrors.Validation("Invalid room status", map[string]any{
			"status":  status,
			"allowed": settableStatuses,
		})
	}

	room, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, room, status)
}

// ToggleStatus flips a room between Available and Cleaning. Maintenance
// rooms go back to Available.
func (s *roomService) ToggleStatus(ctx context.Context, number int) (*model.Room, error) {
	room, err := s.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	next := model.RoomAvailable
	if room.Status == model.RoomAvailable {
		next = model.RoomCleaning
	}
	return s.apply(ctx, room, next)
}

func (s *roomService) apply(ctx context.Context, room *model.Room, next model.RoomStatus) (*model.Room, error) {
	if room.Status == model.RoomOccupied {
		return nil, apperrors.Conflict(fmt.Sprintf("Room %d is occupied, check the guest out first", room.Number))
	}
	if room.Status == next {
		return room, nil
	}

	if err := s.repo.UpdateStatus(ctx, room.Number, room.Status, next); err != nil {
		if errors.Is(err, roomserrors.ErrStatusChanged) {
			return nil, apperrors.InvalidTransition("Room", string(room.Status), string(next))
		}
		s.cfg.Log.Error("Failed to update room status", "number", room.Number, "error", err)
		return nil, apperrors.Internal("Failed to update room status", err)
	}

	s.cfg.Log.Info("Room status updated",
		"number", room.Number,
		"from", room.Status,
		"to", next,
	)
	updated := *room
	updated.Status = next
	return &updated, nil
}

func (s *roomService) Catalog() []model.RoomTypeInfo {
	return model.RoomCatalog
}

func validStatus(status model.RoomStatus) bool {
	return status == model.RoomOccupied || slices.Contains(settableStatuses, status)
}
