package consumer

import (
	"context"
	"errors"
	"io"
	"testing"

	apperrors "ginhawa/pkg/errors"
	"ginhawa/pkg/events"
	"ginhawa/pkg/kafka"
	"ginhawa/pkg/logger"
	"ginhawa/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockBillingService struct {
	bookings []*model.Booking
	orders   []*model.Order
	err      error
}

func (m *mockBillingService) RaiseForBooking(_ context.Context, booking *model.Booking) (*model.Invoice, error) {
	m.bookings = append(m.bookings, booking)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Invoice{Reference: "INV-ABCDEF1234"}, nil
}

func (m *mockBillingService) RaiseForOrder(_ context.Context, order *model.Order) (*model.Invoice, error) {
	m.orders = append(m.orders, order)
	if m.err != nil {
		return nil, m.err
	}
	return nil, nil
}

func (m *mockBillingService) GetByID(context.Context, string) (*model.Invoice, error) {
	return nil, nil
}

func (m *mockBillingService) List(context.Context, model.InvoiceFilter, int, int64) ([]*model.Invoice, int64, error) {
	return nil, 0, nil
}

func (m *mockBillingService) Pay(context.Context, string, *model.PaymentRequest) (*model.Invoice, error) {
	return nil, nil
}

func (m *mockBillingService) Revenue(context.Context, bool) (*model.Revenue, error) {
	return nil, nil
}

func (m *mockBillingService) ExportXLSX(context.Context, model.Date, model.Date, io.Writer) error {
	return nil
}

func eventMessage(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey("key").
		WithValue(payload).
		WithEventType(eventType).
		Build()
	require.NoError(t, err)
	return msg
}

func TestRouter_CheckedOutBooking(t *testing.T) {
	svc := &mockBillingService{}
	router := NewRouter(svc, logger.Discard())

	booking := &model.Booking{
		ID:        "65f000000000000000000010",
		Reference: "GIN-ABCDEF1234",
		CheckIn:   model.MustParseDate("2026-03-08"),
		CheckOut:  model.MustParseDate("2026-03-10"),
		Status:    model.BookingCheckedOut,
	}
	require.NoError(t, router.Handle(context.Background(), eventMessage(t, events.BookingCheckedOut, booking)))

	require.Len(t, svc.bookings, 1)
	assert.Equal(t, "GIN-ABCDEF1234", svc.bookings[0].Reference)
	assert.Equal(t, "2026-03-10", svc.bookings[0].CheckOut.String())
}

func TestRouter_ServedOrder(t *testing.T) {
	svc := &mockBillingService{}
	router := NewRouter(svc, logger.Discard())

	order := &model.Order{ID: "65f000000000000000000020", Status: model.OrderServed}
	require.NoError(t, router.Handle(context.Background(), eventMessage(t, events.OrderServed, order)))
	assert.Len(t, svc.orders, 1)
}

func TestRouter_IgnoresOtherEvents(t *testing.T) {
	svc := &mockBillingService{}
	router := NewRouter(svc, logger.Discard())

	require.NoError(t, router.Handle(context.Background(), eventMessage(t, events.OrderPlaced, &model.Order{})))
	assert.Empty(t, svc.orders)
	assert.Empty(t, svc.bookings)
}

func TestRouter_ErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  kafka.ErrorType
		wantRetry bool
	}{
		{"rejected event", apperrors.InvalidInput("Booking is missing its ID"), kafka.ErrorTypeBusiness, false},
		{"store failure", apperrors.Internal("Failed to raise invoice", errors.New("boom")), kafka.ErrorTypeTransient, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter(&mockBillingService{err: tt.err}, logger.Discard())
			err := router.Handle(context.Background(), eventMessage(t, events.BookingCheckedOut, &model.Booking{}))

			require.Error(t, err)
			assert.Equal(t, tt.wantType, kafka.ClassifyError(err))
			assert.Equal(t, tt.wantRetry, kafka.ShouldRetry(err, 0, 3))
		})
	}
}

func TestRouter_MalformedPayload(t *testing.T) {
	router := NewRouter(&mockBillingService{}, logger.Discard())

	msg := eventMessage(t, events.BookingCheckedOut, map[string]any{"check_in": 42})
	err := router.Handle(context.Background(), msg)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
}
