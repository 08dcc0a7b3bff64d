package service

import (
	"context"
	"testing"
	"time"

	reservationserrors "ginhawa/internal/reservations/errors"
	"ginhawa/internal/reservations/validator"
	"ginhawa/pkg/config"
	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/ident"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReservationRepository struct {
	created        []*model.Reservation
	findByIDFunc   func(ctx context.Context, id string) (*model.Reservation, error)
	findFunc       func(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	transitionFunc func(ctx context.Context, id string, from, to model.ReservationStatus) error
}

func (m *mockReservationRepository) Create(_ context.Context, reservation *model.Reservation) error {
	reservation.ID = "65f000000000000000000020"
	m.created = append(m.created, reservation)
	return nil
}

func (m *mockReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepository) Find(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationRepository) Count(context.Context, model.ReservationFilter) (int64, error) {
	return 0, nil
}

func (m *mockReservationRepository) Transition(ctx context.Context, id string, from, to model.ReservationStatus) error {
	if m.transitionFunc != nil {
		return m.transitionFunc(ctx, id, from, to)
	}
	return nil
}

// The fixed clock puts "today" at 2026-03-10 in Manila.
func newService(repo *mockReservationRepository) ReservationService {
	log := logger.Discard()
	loc, _ := time.LoadLocation("Asia/Manila")
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
		Location:    loc,
		Clock:       func() time.Time { return time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC) },
	}
	return NewReservationService(repo, validator.NewReservationValidator(log), cfg)
}

func TestCreate(t *testing.T) {
	repo := &mockReservationRepository{}
	reservation := &model.Reservation{
		Date:          model.MustParseDate("2026-03-10"),
		Time:          "18:00",
		Seating:       " private room ",
		Guests:        6,
		CustomerEmail: "Guest@Test.com",
		CustomerName:  "Ana  Reyes",
		CustomerPhone: "0917 123 4567",
		Status:        model.ReservationCompleted,
	}

	require.NoError(t, newService(repo).Create(context.Background(), reservation))

	assert.True(t, ident.HasPrefix(reservation.Reference, ident.PrefixReservation), reservation.Reference)
	assert.Equal(t, model.ReservationTypeRestaurant, reservation.Type)
	assert.Equal(t, model.ReservationConfirmed, reservation.Status)
	assert.Equal(t, "Private Room", reservation.Seating)
	assert.Equal(t, "guest@test.com", reservation.CustomerEmail)
	assert.Equal(t, "Ana Reyes", reservation.CustomerName)
	assert.Equal(t, "+639171234567", reservation.CustomerPhone)
	assert.Len(t, repo.created, 1)
}

func TestCreate_PastDate(t *testing.T) {
	repo := &mockReservationRepository{}
	reservation := &model.Reservation{
		Date:          model.MustParseDate("2026-03-09"),
		Time:          "18:00",
		Seating:       "Indoor",
		Guests:        2,
		CustomerEmail: "guest@test.com",
		CustomerName:  "Ana Reyes",
	}

	err := newService(repo).Create(context.Background(), reservation)
	require.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.AsAppError(err).Details, "date")
	assert.Empty(t, repo.created)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		current  model.ReservationStatus
		next     model.ReservationStatus
		casErr   error
		wantCode string
	}{
		{name: "seat", current: model.ReservationConfirmed, next: model.ReservationSeated},
		{name: "complete", current: model.ReservationSeated, next: model.ReservationCompleted},
		{name: "cancel", current: model.ReservationConfirmed, next: model.ReservationCancelled},
		{name: "cancel after seating", current: model.ReservationSeated, next: model.ReservationCancelled, wantCode: apperrors.CodeInvalidTransition},
		{name: "lost race", current: model.ReservationConfirmed, next: model.ReservationCancelled, casErr: reservationserrors.ErrStatusChanged, wantCode: apperrors.CodeInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockReservationRepository{
				findByIDFunc: func(_ context.Context, id string) (*model.Reservation, error) {
					return &model.Reservation{ID: id, Status: tt.current}, nil
				},
				transitionFunc: func(_ context.Context, _ string, from, to model.ReservationStatus) error {
					return tt.casErr
				},
			}

			got, err := newService(repo).UpdateStatus(context.Background(), "65f000000000000000000020", tt.next)
			if tt.wantCode != "" {
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, got.Status)
		})
	}
}

func TestOptions(t *testing.T) {
	opts := newService(&mockReservationRepository{}).Options()

	require.Len(t, opts.TimeSlots, 25)
	assert.Equal(t, "10:00", opts.TimeSlots[0])
	assert.Equal(t, "22:00", opts.TimeSlots[len(opts.TimeSlots)-1])
	assert.Equal(t, 20, opts.MaxGuests)
}

func TestListByCustomer_NormalizesEmail(t *testing.T) {
	var got model.ReservationFilter
	repo := &mockReservationRepository{
		findFunc: func(_ context.Context, filter model.ReservationFilter, _ int, _ int64) ([]*model.Reservation, error) {
			got = filter
			return []*model.Reservation{}, nil
		},
	}

	_, _, err := newService(repo).ListByCustomer(context.Background(), " Guest@Test.COM", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, "guest@test.com", got.CustomerEmail)

	_, _, err = newService(repo).ListByCustomer(context.Background(), "  ", 10, 0)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput))
}
