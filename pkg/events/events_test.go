package events

import (
	"context"
	"encoding/json"
	"testing"

	"ginhawa/pkg/kafka"
	"ginhawa/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_DispatchesByType(t *testing.T) {
	var got string
	r := NewRouter(logger.Discard()).On(BookingCheckedOut, func(ctx context.Context, eventType string, payload json.RawMessage) error {
		var body struct {
			Reference string `json:"reference"`
		}
		require.NoError(t, json.Unmarshal(payload, &body))
		got = body.Reference
		return nil
	})

	msg, err := kafka.NewMessage().
		WithKey("GIN-1").
		WithValue(map[string]string{"reference": "GIN-1"}).
		WithEventType(BookingCheckedOut).
		Build()
	require.NoError(t, err)

	require.NoError(t, r.Handle(context.Background(), msg))
	assert.Equal(t, "GIN-1", got)
}

func TestRouter_SkipsUnknownType(t *testing.T) {
	r := NewRouter(logger.Discard())
	msg := kafka.Message{Headers: map[string]string{kafka.HeaderEventType: "room.painted"}}

	assert.NoError(t, r.Handle(context.Background(), msg))
}

func TestRouter_InvalidPayloadIsPermanent(t *testing.T) {
	r := NewRouter(logger.Discard()).On(OrderServed, func(context.Context, string, json.RawMessage) error {
		t.Fatal("handler must not run")
		return nil
	})
	msg := kafka.Message{
		Value:   []byte("not json"),
		Headers: map[string]string{kafka.HeaderEventType: OrderServed},
	}

	err := r.Handle(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
}

func TestNewPublisher_Disabled(t *testing.T) {
	p, err := NewPublisher(false, "", "", "hotel", nil, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Publish(context.Background(), Event{Type: OrderPlaced, Key: "ORD-1"})
	r.Publish(context.Background(), Event{Type: OrderServed, Key: "ORD-1"})

	assert.Equal(t, []string{OrderPlaced, OrderServed}, r.Types())
}
