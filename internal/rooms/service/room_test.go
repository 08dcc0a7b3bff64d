package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	roomserrors "ginhawa/internal/rooms/errors"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRoomRepository struct {
	findFunc         func(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error)
	countFunc        func(ctx context.Context, filter model.RoomFilter) (int64, error)
	findByNumberFunc func(ctx context.Context, number int) (*model.Room, error)
	statsFunc        func(ctx context.Context) (*model.RoomStats, error)
	updateStatusFunc func(ctx context.Context, number int, from, to model.RoomStatus) error
}

func (m *mockRoomRepository) Find(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Room{}, nil
}

func (m *mockRoomRepository) Count(ctx context.Context, filter model.RoomFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockRoomRepository) FindByNumber(ctx context.Context, number int) (*model.Room, error) {
	if m.findByNumberFunc != nil {
		return m.findByNumberFunc(ctx, number)
	}
	return nil, roomserrors.ErrNotFound
}

func (m *mockRoomRepository) FindByType(ctx context.Context, roomType model.RoomType) ([]*model.Room, error) {
	return nil, nil
}

func (m *mockRoomRepository) Stats(ctx context.Context) (*model.RoomStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.RoomStats{}, nil
}

func (m *mockRoomRepository) UpdateStatus(ctx context.Context, number int, from, to model.RoomStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, number, from, to)
	}
	return nil
}

func (m *mockRoomRepository) Occupy(ctx context.Context, number int, from model.RoomStatus, bookingID string) error {
	return nil
}

func (m *mockRoomRepository) Release(ctx context.Context, number int, bookingID string) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log:         logger.Discard(),
		ReadTimeout: 5 * time.Second,
	}
}

func roomWith(number int, status model.RoomStatus) func(ctx context.Context, n int) (*model.Room, error) {
	return func(ctx context.Context, n int) (*model.Room, error) {
		return &model.Room{Number: number, Type: model.RoomStandard, Price: 2500, Status: status}, nil
	}
}

func TestList_RunsCountAndFind(t *testing.T) {
	var calls atomic.Int32
	repo := &mockRoomRepository{
		countFunc: func(ctx context.Context, filter model.RoomFilter) (int64, error) {
			calls.Add(1)
			return 30, nil
		},
		findFunc: func(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
			calls.Add(1)
			assert.Equal(t, model.RoomDeluxe, filter.Type)
			return []*model.Room{{Number: 116}, {Number: 117}}, nil
		},
	}

	rooms, total, err := NewRoomService(repo, testConfig()).List(context.Background(), model.RoomFilter{Type: model.RoomDeluxe}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(30), total)
	assert.Len(t, rooms, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestList_InvalidFilters(t *testing.T) {
	svc := NewRoomService(&mockRoomRepository{}, testConfig())

	_, _, err := svc.List(context.Background(), model.RoomFilter{Status: "Haunted"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))

	_, _, err = svc.List(context.Background(), model.RoomFilter{Type: "Penthouse"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestList_NumberFilterRejected(t *testing.T) {
	repo := &mockRoomRepository{
		countFunc: func(ctx context.Context, filter model.RoomFilter) (int64, error) {
			return 0, roomserrors.ErrInvalidNumberFilter
		},
		findFunc: func(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
			return nil, roomserrors.ErrInvalidNumberFilter
		},
	}

	_, _, err := NewRoomService(repo, testConfig()).List(context.Background(), model.RoomFilter{NumberContains: "x"}, 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}

func TestList_RepositoryFailure(t *testing.T) {
	repo := &mockRoomRepository{
		findFunc: func(ctx context.Context, filter model.RoomFilter, limit int, offset int64) ([]*model.Room, error) {
			return nil, errors.New("connection reset")
		},
	}

	_, _, err := NewRoomService(repo, testConfig()).List(context.Background(), model.RoomFilter{}, 10, 0)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperrors.AsAppError(err).StatusCode())
}

func TestGetByNumber_NotFound(t *testing.T) {
	_, err := NewRoomService(&mockRoomRepository{}, testConfig()).GetByNumber(context.Background(), 999)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  model.RoomStatus
		next     model.RoomStatus
		wantCode string
		wantCall bool
	}{
		{"available to maintenance", model.RoomAvailable, model.RoomMaintenance, "", true},
		{"cleaning to available", model.RoomCleaning, model.RoomAvailable, "", true},
		{"same status is a no-op", model.RoomCleaning, model.RoomCleaning, "", false},
		{"occupied room is locked", model.RoomOccupied, model.RoomAvailable, apperrors.CodeConflict, false},
		{"cannot set occupied", model.RoomAvailable, model.RoomOccupied, apperrors.CodeInvalidInput, false},
		{"unknown status", model.RoomAvailable, "Haunted", apperrors.CodeValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			repo := &mockRoomRepository{
				findByNumberFunc: roomWith(101, tt.current),
				updateStatusFunc: func(ctx context.Context, number int, from, to model.RoomStatus) error {
					called = true
					assert.Equal(t, tt.current, from)
					assert.Equal(t, tt.next, to)
					return nil
				},
			}

			room, err := NewRoomService(repo, testConfig()).UpdateStatus(context.Background(), 101, tt.next)
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.next, room.Status)
			}
			assert.Equal(t, tt.wantCall, called)
		})
	}
}

func TestUpdateStatus_LostRace(t *testing.T) {
	repo := &mockRoomRepository{
		findByNumberFunc: roomWith(101, model.RoomAvailable),
		updateStatusFunc: func(ctx context.Context, number int, from, to model.RoomStatus) error {
			return roomserrors.ErrStatusChanged
		},
	}

	_, err := NewRoomService(repo, testConfig()).UpdateStatus(context.Background(), 101, model.RoomCleaning)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidTransition))
	assert.Equal(t, http.StatusConflict, apperrors.AsAppError(err).StatusCode())
}

func TestToggleStatus(t *testing.T) {
	tests := []struct {
		current model.RoomStatus
		want    model.RoomStatus
	}{
		{model.RoomAvailable, model.RoomCleaning},
		{model.RoomCleaning, model.RoomAvailable},
		{model.RoomMaintenance, model.RoomAvailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.current), func(t *testing.T) {
			repo := &mockRoomRepository{findByNumberFunc: roomWith(120, tt.current)}
			room, err := NewRoomService(repo, testConfig()).ToggleStatus(context.Background(), 120)
			require.NoError(t, err)
			assert.Equal(t, tt.want, room.Status)
		})
	}
}

func TestToggleStatus_Occupied(t *testing.T) {
	repo := &mockRoomRepository{findByNumberFunc: roomWith(120, model.RoomOccupied)}
	_, err := NewRoomService(repo, testConfig()).ToggleStatus(context.Background(), 120)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestCatalog(t *testing.T) {
	catalog := NewRoomService(&mockRoomRepository{}, testConfig()).Catalog()
	require.Len(t, catalog, 3)
	assert.Equal(t, int64(2500), catalog[0].Price)
	assert.Equal(t, int64(4000), catalog[1].Price)
	assert.Equal(t, int64(7000), catalog[2].Price)
}
